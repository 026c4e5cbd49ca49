package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	chatsegerrors "github.com/coursenote/chatseg/pkg/errors"
	"github.com/coursenote/chatseg/pkg/logging"
	"github.com/coursenote/chatseg/pkg/segment"
)

// Transcript is the data needed to store a parsed transcript.
type Transcript struct {
	ContentID   string // short ID from pkg/contentid
	RunID       string // ingest run this transcript arrived in
	SourcePath  string // file the raw text came from, or "-" for stdin
	RawText     string
	ContentHash string // sha256 hex of RawText
	Segments    []segment.Segment
	Speakers    []string
	Explanation string // trailing explanation block, if any
}

// StoredTranscript is the result of storing a transcript.
type StoredTranscript struct {
	ID        int64
	ContentID string
	CreatedAt time.Time
}

// ContentHash returns the sha256 hex digest used for dedupe and cache keys.
func ContentHash(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// NewRunID returns a fresh ingest run identifier.
func NewRunID() string {
	return uuid.New().String()
}

// Repository provides database operations for transcript ingest.
type Repository struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

// NewRepository creates a transcript repository.
func NewRepository(pool *pgxpool.Pool, logger logging.Logger) *Repository {
	return &Repository{
		pool:   pool,
		logger: logger.With(logging.F("component", "store")),
	}
}

// kindCounts summarizes segment kinds for the metadata column.
func kindCounts(segments []segment.Segment) map[string]int {
	counts := make(map[string]int)
	for _, seg := range segments {
		counts[string(seg.Kind)]++
	}
	return counts
}

// CreateTranscript inserts a transcript and its segments. Returns
// ErrAlreadyExists when a transcript with the same content hash is stored.
func (r *Repository) CreateTranscript(ctx context.Context, t *Transcript) (*StoredTranscript, error) {
	if exists, id, err := r.ExistsByContentHash(ctx, t.ContentHash); err != nil {
		return nil, err
	} else if exists {
		return nil, fmt.Errorf("%w: transcript %d has the same content hash", chatsegerrors.ErrAlreadyExists, id)
	}

	segmentsJSON, err := json.Marshal(t.Segments)
	if err != nil {
		return nil, fmt.Errorf("marshaling segments: %w", err)
	}
	metadata := map[string]interface{}{
		"kind_counts": kindCounts(t.Segments),
		"source_path": t.SourcePath,
	}
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("marshaling metadata: %w", err)
	}

	query := `
		INSERT INTO transcripts (
			content_id, run_id, content_hash, raw_text,
			segments, segment_count, speakers, explanation,
			metadata, created_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8,
			$9, NOW()
		)
		RETURNING id, created_at
	`

	var result StoredTranscript
	result.ContentID = t.ContentID
	err = r.pool.QueryRow(ctx, query,
		t.ContentID,
		t.RunID,
		t.ContentHash,
		t.RawText,
		segmentsJSON,
		len(t.Segments),
		t.Speakers,
		nullable(t.Explanation),
		metadataJSON,
	).Scan(&result.ID, &result.CreatedAt)
	if err != nil {
		r.logger.Error("failed to create transcript",
			logging.Err(err),
			logging.F("content_id", t.ContentID),
			logging.F("source_path", t.SourcePath))
		return nil, fmt.Errorf("creating transcript: %w", err)
	}

	r.logger.Debug("transcript stored",
		logging.F("id", result.ID),
		logging.F("content_id", result.ContentID),
		logging.F("segments", len(t.Segments)))
	return &result, nil
}

// ExistsByContentHash checks whether a transcript with the given hash exists.
func (r *Repository) ExistsByContentHash(ctx context.Context, hash string) (bool, int64, error) {
	query := `SELECT id FROM transcripts WHERE content_hash = $1 LIMIT 1`

	var id int64
	err := r.pool.QueryRow(ctx, query, hash).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, 0, nil
	}
	if err != nil {
		return false, 0, fmt.Errorf("checking content hash: %w", err)
	}
	return true, id, nil
}

// GetTranscript loads a transcript by its short content ID.
func (r *Repository) GetTranscript(ctx context.Context, contentID string) (*Transcript, error) {
	query := `
		SELECT content_id, run_id, content_hash, raw_text,
		       segments, speakers, COALESCE(explanation, '')
		FROM transcripts
		WHERE content_id = $1
	`

	var t Transcript
	var segmentsJSON []byte
	err := r.pool.QueryRow(ctx, query, contentID).Scan(
		&t.ContentID, &t.RunID, &t.ContentHash, &t.RawText,
		&segmentsJSON, &t.Speakers, &t.Explanation,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: transcript %s", chatsegerrors.ErrNotFound, contentID)
	}
	if err != nil {
		return nil, fmt.Errorf("loading transcript: %w", err)
	}

	if err := json.Unmarshal(segmentsJSON, &t.Segments); err != nil {
		return nil, fmt.Errorf("parsing stored segments: %w", err)
	}
	return &t, nil
}

// TranscriptSummary is one row of a transcript listing.
type TranscriptSummary struct {
	ContentID    string    `json:"content_id"`
	SegmentCount int       `json:"segment_count"`
	Speakers     []string  `json:"speakers"`
	CreatedAt    time.Time `json:"created_at"`
}

// ListTranscripts returns the most recently stored transcripts.
func (r *Repository) ListTranscripts(ctx context.Context, limit int) ([]TranscriptSummary, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT content_id, segment_count, speakers, created_at
		FROM transcripts
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing transcripts: %w", err)
	}
	defer rows.Close()

	var summaries []TranscriptSummary
	for rows.Next() {
		var s TranscriptSummary
		if err := rows.Scan(&s.ContentID, &s.SegmentCount, &s.Speakers, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning transcript row: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transcripts: %w", err)
	}
	return summaries, nil
}

// nullable converts an empty string to NULL.
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
