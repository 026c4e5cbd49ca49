// Package cmd provides CLI commands for the chatseg tool.
package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/coursenote/chatseg/config"
	"github.com/coursenote/chatseg/pkg/htmltext"
	"github.com/coursenote/chatseg/pkg/observability"
	"github.com/coursenote/chatseg/pkg/segment"
)

// ParseCommandDeps holds the dependencies for the parse, detect, and
// explain commands.
type ParseCommandDeps struct {
	Config     *config.CLIConfig
	LoadConfig func() (*config.CLIConfig, error)
	Metrics    *observability.Metrics
	Stdin      io.Reader
}

// DefaultParseDeps returns the default dependencies for production use.
func DefaultParseDeps() *ParseCommandDeps {
	return &ParseCommandDeps{
		LoadConfig: config.LoadConfig,
		Metrics:    observability.Default(),
		Stdin:      os.Stdin,
	}
}

// Parse command flags.
var (
	parseAllowSingle bool
	parseRegexHTML   bool
	parseOutput      string
)

// NewParseCommand creates the parse command.
func NewParseCommand(deps *ParseCommandDeps) *cobra.Command {
	if deps == nil {
		deps = DefaultParseDeps()
	}

	cmd := &cobra.Command{
		Use:   "parse [path]",
		Short: "Split a chat transcript into speaker segments",
		Long: `Split a chat transcript into ordered speaker segments.

The input may be plain text or rich HTML (as produced by a rich-text
editor); HTML is converted to plain text before scanning. Lines of the
form "Speaker: message" become segments. A speaker that appears only
once is normally treated as prose (e.g. "Note: see below") unless
--allow-single is set.

Structured annotation blocks are recognized by content prefix:
"takeaway: [TAKEAWAY ..." and "freeform: [FREEFORM_CANVAS] ..." become
takeaway and freeform_canvas segments.

Reads from stdin when no path is given or when path is "-".

Examples:
  chatseg parse transcript.txt
  chatseg parse transcript.html --output=json
  cat chat.txt | chatseg parse
  chatseg parse notes.txt --allow-single`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) > 0 {
				path = args[0]
			}
			return runParse(cmd, deps, path)
		},
	}

	cmd.Flags().BoolVar(&parseAllowSingle, "allow-single", false, "Admit speakers that appear only once")
	cmd.Flags().BoolVar(&parseRegexHTML, "regex-html", false, "Use the regex HTML converter instead of DOM parsing")
	cmd.Flags().StringVarP(&parseOutput, "output", "o", "", "Output format: text, json, yaml")

	return cmd
}

// ParseResult is the output of a parse run.
type ParseResult struct {
	Transcript  bool              `json:"transcript" yaml:"transcript"`
	Segments    []segment.Segment `json:"segments" yaml:"segments"`
	Speakers    []string          `json:"speakers,omitempty" yaml:"speakers,omitempty"`
	Explanation string            `json:"explanation,omitempty" yaml:"explanation,omitempty"`
}

// runParse executes the parse command.
func runParse(cmd *cobra.Command, deps *ParseCommandDeps, path string) error {
	cfg, err := deps.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	deps.Config = cfg

	raw, _, err := readInput(deps.Stdin, path)
	if err != nil {
		return err
	}

	result := parseText(cmd, deps, cfg, raw)

	format := resolveOutputFormat(cfg, parseOutput)
	return outputParseResult(cmd.OutOrStdout(), format, result)
}

// parseText runs segmentation with metrics and tracing around it.
func parseText(cmd *cobra.Command, deps *ParseCommandDeps, cfg *config.CLIConfig, raw string) ParseResult {
	_, span := observability.StartParseSpan(cmd.Context(), len(raw))

	seg := newSegmenter()
	opts := segment.Options{AllowSingle: parseAllowSingle || cfg.AllowSingle}

	start := time.Now()
	segments := seg.Extract(raw, opts)
	elapsed := time.Since(start)

	result := ParseResult{
		Transcript: len(segments) > 0,
		Segments:   segments,
		Speakers:   dialogueSpeakers(segments),
	}
	if expl, ok := seg.Explanation(raw); ok {
		result.Explanation = expl
	}

	if deps.Metrics != nil {
		deps.Metrics.RecordParse(elapsed.Seconds(), segmentKindCounts(segments))
	}
	observability.EndParseSpan(span, len(segments), result.Transcript)

	return result
}

// newSegmenter builds a segmenter honoring the --regex-html flag.
func newSegmenter() *segment.Segmenter {
	if parseRegexHTML {
		return segment.New(htmltext.NewRegexConverter())
	}
	return segment.New(htmltext.NewDOMConverter())
}

// dialogueSpeakers returns the distinct speakers of dialogue segments in
// order of first appearance. Structured blocks are not speakers.
func dialogueSpeakers(segments []segment.Segment) []string {
	seen := make(map[string]bool)
	var speakers []string
	for _, s := range segments {
		if s.Kind != segment.KindDialogue {
			continue
		}
		if !seen[s.Speaker] {
			seen[s.Speaker] = true
			speakers = append(speakers, s.Speaker)
		}
	}
	return speakers
}

// segmentKindCounts counts segments per kind for metrics.
func segmentKindCounts(segments []segment.Segment) map[string]int {
	counts := make(map[string]int)
	for _, s := range segments {
		counts[string(s.Kind)]++
	}
	return counts
}
