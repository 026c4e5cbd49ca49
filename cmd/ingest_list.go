package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/coursenote/chatseg/config"
	"github.com/coursenote/chatseg/pkg/logging"
	"github.com/coursenote/chatseg/pkg/store"
)

// List/show subcommand flags.
var (
	ingestListLimit  int
	ingestListOutput string
)

// newIngestListCommand creates the 'ingest list' subcommand.
func newIngestListCommand(deps *IngestCommandDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored transcripts",
		Long: `List transcripts stored in PostgreSQL, most recent first.

Examples:
  chatseg ingest list
  chatseg ingest list --limit=50 --output=json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngestList(cmd, deps)
		},
	}

	cmd.Flags().IntVar(&ingestListLimit, "limit", 20, "Maximum number of transcripts to show")
	cmd.Flags().StringVarP(&ingestListOutput, "output", "o", "", "Output format: text, json, yaml")

	return cmd
}

// newIngestShowCommand creates the 'ingest show' subcommand.
func newIngestShowCommand(deps *IngestCommandDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "show <content-id>",
		Short: "Show a stored transcript",
		Long: `Show a stored transcript by content ID.

Examples:
  chatseg ingest show tr-4Xk2a9QzB
  chatseg ingest show tr-4Xk2a9QzB --output=json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngestShow(cmd, deps, args[0])
		},
	}
}

// runIngestList executes the ingest list command.
func runIngestList(cmd *cobra.Command, deps *IngestCommandDeps) error {
	ctx := cmd.Context()

	cfg, err := deps.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	deps.Config = cfg

	pool, err := deps.Connect(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("connecting to storage: %w", err)
	}
	defer pool.Close()

	repo := store.NewRepository(pool, ingestLogger(deps))
	summaries, err := repo.ListTranscripts(ctx, ingestListLimit)
	if err != nil {
		return fmt.Errorf("listing transcripts: %w", err)
	}

	out := cmd.OutOrStdout()
	switch resolveOutputFormat(cfg, ingestListOutput) {
	case config.OutputFormatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(summaries)
	case config.OutputFormatYAML:
		return yaml.NewEncoder(out).Encode(summaries)
	default:
		if len(summaries) == 0 {
			fmt.Fprintln(out, "No transcripts stored.")
			return nil
		}
		fmt.Fprintf(out, "Stored Transcripts (%d)\n", len(summaries))
		fmt.Fprintln(out, strings.Repeat("=", 70))
		fmt.Fprintln(out, "  CONTENT ID    SEGMENTS  SPEAKERS                  CREATED")
		fmt.Fprintln(out, "  ----------    --------  --------                  -------")
		for _, s := range summaries {
			fmt.Fprintf(out, "  %-12s  %-8d  %-24s  %s\n",
				s.ContentID, s.SegmentCount,
				truncateString(strings.Join(s.Speakers, ", "), 24),
				s.CreatedAt.Format(time.RFC3339))
		}
		return nil
	}
}

// runIngestShow executes the ingest show command.
func runIngestShow(cmd *cobra.Command, deps *IngestCommandDeps, contentID string) error {
	ctx := cmd.Context()

	cfg, err := deps.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	deps.Config = cfg

	pool, err := deps.Connect(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("connecting to storage: %w", err)
	}
	defer pool.Close()

	repo := store.NewRepository(pool, ingestLogger(deps))
	t, err := repo.GetTranscript(ctx, contentID)
	if err != nil {
		return fmt.Errorf("retrieving %s: %w", contentID, err)
	}

	result := ParseResult{
		Transcript:  true,
		Segments:    t.Segments,
		Speakers:    t.Speakers,
		Explanation: t.Explanation,
	}
	return outputParseResult(cmd.OutOrStdout(), resolveOutputFormat(cfg, ingestListOutput), result)
}

// ingestLogger returns the configured logger, or a nop logger.
func ingestLogger(deps *IngestCommandDeps) logging.Logger {
	if deps.Logger != nil {
		return deps.Logger
	}
	return logging.NewNopLogger()
}

// truncateString truncates a string to the given length.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
