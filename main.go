// Package main provides the chatseg CLI entry point.
// chatseg decides whether free-form text is a chat transcript and splits it
// into speaker segments.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/coursenote/chatseg/cmd"
	"github.com/coursenote/chatseg/config"
	"github.com/coursenote/chatseg/pkg/logging"
)

// Global flags.
var (
	rootOutputFormat string
	rootDebug        bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "chatseg",
	Short: "Chat transcript segmentation tool",
	Long: `chatseg turns pasted chat text into structured speaker segments.

The input may be plain text or rich HTML from an editor. chatseg decides
whether it looks like a transcript ("Speaker: message" lines), splits it
into ordered (speaker, content) segments, recognizes structured
annotation blocks ([TAKEAWAY, [FREEFORM_CANVAS]), and extracts the
trailing explanation that follows a "---" separator.

COMMON WORKFLOWS:
  Segment a file:     chatseg parse transcript.txt
  Gate a pipeline:    chatseg detect --quiet < input.txt
  Get the commentary: chatseg explain lesson.txt
  Archive to DB:      chatseg ingest ./transcripts/*.txt

Run 'chatseg <command> --help' for flags and examples.`,
	PersistentPreRunE: func(c *cobra.Command, args []string) error {
		if c.Name() == "version" || c.Name() == "help" || c.Name() == "completion" {
			return nil
		}
		// Flags flow to subcommands through the env overrides LoadConfig
		// already applies.
		if rootDebug {
			os.Setenv("CHATSEG_DEBUG", "true")
		}
		if rootOutputFormat != "" {
			if !config.OutputFormat(rootOutputFormat).IsValid() {
				return fmt.Errorf("invalid output format: %s", rootOutputFormat)
			}
			os.Setenv("CHATSEG_OUTPUT_FORMAT", rootOutputFormat)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootOutputFormat, "output-format", "", "Default output format: text, json, yaml")
	rootCmd.PersistentFlags().BoolVar(&rootDebug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(cmd.NewParseCommand(nil))
	rootCmd.AddCommand(cmd.NewDetectCommand(nil))
	rootCmd.AddCommand(cmd.NewExplainCommand(nil))
	rootCmd.AddCommand(cmd.NewIngestCommand(nil))
	rootCmd.AddCommand(cmd.NewInitCommand(nil))
	rootCmd.AddCommand(cmd.NewVersionCommand())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log := logging.NewLogger(&logging.Config{Level: logging.LevelError})
		log.Error("command failed", logging.Err(err))
		os.Exit(1)
	}
}
