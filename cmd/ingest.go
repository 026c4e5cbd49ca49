package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/coursenote/chatseg/config"
	chatsegerrors "github.com/coursenote/chatseg/pkg/errors"
	"github.com/coursenote/chatseg/pkg/cache"
	"github.com/coursenote/chatseg/pkg/contentid"
	"github.com/coursenote/chatseg/pkg/logging"
	"github.com/coursenote/chatseg/pkg/observability"
	"github.com/coursenote/chatseg/pkg/segment"
	"github.com/coursenote/chatseg/pkg/store"
)

// IngestCommandDeps holds the dependencies for the ingest command.
type IngestCommandDeps struct {
	Config     *config.CLIConfig
	LoadConfig func() (*config.CLIConfig, error)
	Connect    func(ctx context.Context, cfg *config.StorageConfig) (*pgxpool.Pool, error)
	NewCache   func(cfg *config.CacheConfig) *cache.SegmentCache
	Metrics    *observability.Metrics
	Logger     logging.Logger
}

// DefaultIngestDeps returns the default dependencies for production use.
func DefaultIngestDeps() *IngestCommandDeps {
	return &IngestCommandDeps{
		LoadConfig: config.LoadConfig,
		Connect:    store.Connect,
		NewCache:   cache.New,
		Metrics:    observability.Default(),
		Logger:     logging.NewLogger(logging.DefaultConfig()),
	}
}

// Ingest command flags.
var (
	ingestDryRun      bool
	ingestAllowSingle bool
)

// NewIngestCommand creates the ingest command.
func NewIngestCommand(deps *IngestCommandDeps) *cobra.Command {
	if deps == nil {
		deps = DefaultIngestDeps()
	}

	cmd := &cobra.Command{
		Use:   "ingest <path>...",
		Short: "Segment transcripts and store them in PostgreSQL",
		Long: `Segment chat transcripts and store the results in PostgreSQL.

Each file is normalized, segmented, and written to the transcripts
table with a content ID and a sha256 content hash. Files already stored
(same content hash) are skipped. Files that do not look like chat
transcripts are skipped as well.

When Redis is configured, segmentation results are also written to the
cache keyed by content hash.

Requires storage settings in ~/.chatseg/config.yaml or the CHATSEG_DB_*
environment variables. Run 'chatseg init --with-db' to set them up.

Examples:
  chatseg ingest transcript.txt
  chatseg ingest ./transcripts/*.txt
  chatseg ingest lesson.html --dry-run`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd, deps, args)
		},
	}

	cmd.Flags().BoolVar(&ingestDryRun, "dry-run", false, "Segment and report without writing to the database")
	cmd.Flags().BoolVar(&ingestAllowSingle, "allow-single", false, "Admit speakers that appear only once")

	cmd.AddCommand(newIngestListCommand(deps))
	cmd.AddCommand(newIngestShowCommand(deps))

	return cmd
}

// runIngest executes the ingest command over one or more files.
func runIngest(cmd *cobra.Command, deps *IngestCommandDeps, paths []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	cfg, err := deps.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	deps.Config = cfg

	log := deps.Logger
	if log == nil {
		log = logging.NewNopLogger()
	}

	runID := store.NewRunID()
	log.Info("starting ingest run",
		logging.F("run_id", runID),
		logging.F("files", len(paths)),
		logging.F("dry_run", ingestDryRun))

	var repo *store.Repository
	if !ingestDryRun {
		pool, err := deps.Connect(ctx, cfg.Storage)
		if err != nil {
			return fmt.Errorf("connecting to storage: %w", err)
		}
		defer pool.Close()
		repo = store.NewRepository(pool, log)
	}

	var segCache *cache.SegmentCache
	if cfg.Cache.IsConfigured() {
		segCache = deps.NewCache(cfg.Cache)
		defer segCache.Close()
	}

	fmt.Fprintf(out, "Ingest run %s\n", runID)
	if ingestDryRun {
		fmt.Fprintln(out, "  Mode: DRY RUN (no changes will be made)")
	}
	fmt.Fprintln(out)

	start := time.Now()
	var stored, skipped, failed int

	for i, path := range paths {
		fmt.Fprintf(out, "[%d/%d] %s\n", i+1, len(paths), path)

		status, contentID, err := ingestOne(ctx, deps, cfg, repo, segCache, log, runID, path)
		switch {
		case err != nil:
			fmt.Fprintf(out, "  ERROR: %v\n", err)
			log.Error("ingest failed", logging.F("path", path), logging.Err(err))
			failed++
		case status == ingestSkipped:
			fmt.Fprintln(out, "  SKIPPED (not a transcript)")
			skipped++
		case status == ingestDuplicate:
			fmt.Fprintln(out, "  SKIPPED (already stored)")
			skipped++
		case status == ingestDryRunOK:
			fmt.Fprintln(out, "  OK (dry run)")
			stored++
		default:
			fmt.Fprintf(out, "  Content ID: %s\n", contentID)
			stored++
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Ingest Complete")
	fmt.Fprintln(out, strings.Repeat("=", 50))
	fmt.Fprintf(out, "  Total:    %d\n", len(paths))
	fmt.Fprintf(out, "  Stored:   \033[32m%d\033[0m\n", stored)
	fmt.Fprintf(out, "  Skipped:  \033[33m%d\033[0m\n", skipped)
	fmt.Fprintf(out, "  Failed:   \033[31m%d\033[0m\n", failed)
	fmt.Fprintf(out, "  Duration: %s\n", formatDuration(time.Since(start)))

	if failed > 0 {
		return fmt.Errorf("%d file(s) failed to ingest", failed)
	}
	return nil
}

// ingestOne outcomes.
const (
	ingestStored    = "stored"
	ingestSkipped   = "skipped"
	ingestDuplicate = "duplicate"
	ingestDryRunOK  = "dry_run"
)

// ingestOne segments a single file and stores the result.
func ingestOne(ctx context.Context, deps *IngestCommandDeps, cfg *config.CLIConfig, repo *store.Repository, segCache *cache.SegmentCache, log logging.Logger, runID, path string) (string, string, error) {
	raw, source, err := readFile(path)
	if err != nil {
		return "", "", err
	}

	seg := segment.New(nil)
	opts := segment.Options{AllowSingle: ingestAllowSingle || cfg.AllowSingle}
	hash := store.ContentHash(raw)

	// Cached results short-circuit re-parsing for content seen before.
	var segments []segment.Segment
	cacheHit := false
	if segCache != nil {
		if cached, ok, err := segCache.Get(ctx, hash); err == nil && ok {
			segments = cached
			cacheHit = true
		}
		if deps.Metrics != nil {
			outcome := observability.CacheMiss
			if cacheHit {
				outcome = observability.CacheHit
			}
			deps.Metrics.CacheOpsTotal.WithLabelValues(observability.CacheOpGet, outcome).Inc()
		}
	}

	if !cacheHit {
		parseStart := time.Now()
		segments = seg.Extract(raw, opts)
		if deps.Metrics != nil {
			deps.Metrics.RecordParse(time.Since(parseStart).Seconds(), segmentKindCounts(segments))
		}
	}

	if len(segments) == 0 {
		return ingestSkipped, "", nil
	}

	if ingestDryRun {
		return ingestDryRunOK, "", nil
	}

	cid := contentid.New(contentid.TypeTranscript)
	t := &store.Transcript{
		ContentID:   cid,
		RunID:       runID,
		SourcePath:  source,
		RawText:     raw,
		ContentHash: hash,
		Segments:    segments,
		Speakers:    dialogueSpeakers(segments),
	}
	if expl, ok := seg.Explanation(raw); ok {
		t.Explanation = expl
	}

	storeCtx, span := observability.StartStoreSpan(ctx, cid)
	stored, err := repo.CreateTranscript(storeCtx, t)
	observability.EndSpanError(span, err)
	if chatsegerrors.IsAlreadyExists(err) {
		return ingestDuplicate, "", nil
	}
	if err != nil {
		return "", "", err
	}

	if segCache != nil && !cacheHit {
		if err := segCache.Set(ctx, t.ContentHash, segments); err != nil {
			// Cache writes are best effort.
			log.Warn("cache write failed", logging.F("content_id", cid), logging.Err(err))
			if deps.Metrics != nil {
				deps.Metrics.CacheOpsTotal.WithLabelValues(observability.CacheOpSet, observability.CacheError).Inc()
			}
		} else if deps.Metrics != nil {
			deps.Metrics.CacheOpsTotal.WithLabelValues(observability.CacheOpSet, observability.CacheOK).Inc()
		}
	}

	log.Info("transcript stored",
		logging.F("content_id", stored.ContentID),
		logging.F("segments", len(segments)),
		logging.F("source", source))

	return ingestStored, stored.ContentID, nil
}

// readFile reads a transcript file for ingest. Unlike parse, ingest does
// not accept stdin: the source path is recorded with the transcript.
func readFile(path string) (string, string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", "", fmt.Errorf("file not found: %s", path)
	}
	if err != nil {
		return "", "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), path, nil
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%.1fm", d.Minutes())
}
