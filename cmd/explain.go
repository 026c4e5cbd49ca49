package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewExplainCommand creates the explain command.
func NewExplainCommand(deps *ParseCommandDeps) *cobra.Command {
	if deps == nil {
		deps = DefaultParseDeps()
	}

	cmd := &cobra.Command{
		Use:   "explain [path]",
		Short: "Print the trailing explanation block of a transcript",
		Long: `Print the explanation block that follows the "---" separator.

Instructors append commentary to a transcript after a line containing
only "---"; this command extracts that commentary. Text after a second
separator stays part of the explanation.

Exits with status 1 when the input has no explanation block.

Examples:
  chatseg explain transcript.txt
  cat chat.txt | chatseg explain`,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) > 0 {
				path = args[0]
			}
			return runExplain(cmd, deps, path)
		},
	}

	return cmd
}

// runExplain executes the explain command.
func runExplain(cmd *cobra.Command, deps *ParseCommandDeps, path string) error {
	cfg, err := deps.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	deps.Config = cfg

	raw, _, err := readInput(deps.Stdin, path)
	if err != nil {
		return err
	}

	expl, ok := newSegmenter().Explanation(raw)
	if !ok {
		cmd.SilenceUsage = true
		return fmt.Errorf("no explanation block found")
	}

	fmt.Fprintln(cmd.OutOrStdout(), expl)
	return nil
}
