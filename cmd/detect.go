package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/coursenote/chatseg/config"
	"github.com/coursenote/chatseg/pkg/segment"
)

// Detect command flags.
var (
	detectQuiet  bool
	detectOutput string
)

// NewDetectCommand creates the detect command.
func NewDetectCommand(deps *ParseCommandDeps) *cobra.Command {
	if deps == nil {
		deps = DefaultParseDeps()
	}

	cmd := &cobra.Command{
		Use:   "detect [path]",
		Short: "Check whether text is a chat transcript",
		Long: `Check whether the input looks like a chat transcript.

Text qualifies when it has at least two "Speaker: message" markers, or
when it carries a structured annotation block ([TAKEAWAY / [FREEFORM_CANVAS]).
Any trailing explanation block after a "---" separator is ignored for
the decision.

Exits with status 1 when the input is not a transcript, so the command
can gate shell pipelines.

Examples:
  chatseg detect transcript.txt
  cat maybe-chat.txt | chatseg detect --quiet && echo "is a chat"`,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) > 0 {
				path = args[0]
			}
			return runDetect(cmd, deps, path)
		},
	}

	cmd.Flags().BoolVarP(&detectQuiet, "quiet", "q", false, "Suppress output, report via exit status only")
	cmd.Flags().StringVarP(&detectOutput, "output", "o", "", "Output format: text, json, yaml")

	return cmd
}

// DetectResult is the output of a detect run.
type DetectResult struct {
	Transcript bool `json:"transcript" yaml:"transcript"`
	Markers    int  `json:"markers" yaml:"markers"`
}

// runDetect executes the detect command.
func runDetect(cmd *cobra.Command, deps *ParseCommandDeps, path string) error {
	cfg, err := deps.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	deps.Config = cfg

	raw, _, err := readInput(deps.Stdin, path)
	if err != nil {
		return err
	}

	seg := newSegmenter()
	result := DetectResult{
		Transcript: seg.IsTranscript(raw),
		Markers:    len(segment.FindMarkers(seg.Normalize(raw))),
	}

	if !detectQuiet {
		format := resolveOutputFormat(cfg, detectOutput)
		switch format {
		case config.OutputFormatJSON:
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(result); err != nil {
				return err
			}
		case config.OutputFormatYAML:
			if err := yaml.NewEncoder(cmd.OutOrStdout()).Encode(result); err != nil {
				return err
			}
		default:
			if result.Transcript {
				fmt.Fprintf(cmd.OutOrStdout(), "Chat transcript (%d markers)\n", result.Markers)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Not a chat transcript")
			}
		}
	}

	if !result.Transcript {
		cmd.SilenceUsage = true
		return fmt.Errorf("not a chat transcript")
	}
	return nil
}
