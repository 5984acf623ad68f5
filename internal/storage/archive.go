// Package storage persists provenance submissions in a local SQLite
// archive. The archive is a consumer of the core library, not part of
// it: the in-memory leaderboard never reads from here.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Submission is one archived provenance record.
type Submission struct {
	ID              uuid.UUID
	ContributorID   string
	Backend         string
	TraceHash       string
	TraceDepth      int
	UniquenessScore float64
	AgentSequence   []string
	Languages       []string
	SubmittedAt     time.Time
}

// Archive is a SQLite-backed store of provenance submissions.
type Archive struct {
	sqlDB *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS submissions (
	id               TEXT PRIMARY KEY,
	contributor_id   TEXT NOT NULL,
	backend          TEXT NOT NULL,
	trace_hash       TEXT NOT NULL,
	trace_depth      INTEGER NOT NULL,
	uniqueness_score REAL NOT NULL,
	agent_sequence   TEXT NOT NULL,
	languages        TEXT NOT NULL,
	submitted_at     INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_submissions_contributor
	ON submissions (contributor_id, submitted_at);
`

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens the SQLite archive at path and creates the schema.
func Open(path string) (*Archive, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage: archive path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("storage: open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("storage: ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("storage: create schema: %w", err)
	}
	return &Archive{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (a *Archive) Close() error {
	if a == nil || a.sqlDB == nil {
		return nil
	}
	return a.sqlDB.Close()
}

// SaveSubmission inserts one submission row. A zero ID is assigned a
// fresh UUID; a zero SubmittedAt is stamped with the current time.
func (a *Archive) SaveSubmission(ctx context.Context, sub Submission) (uuid.UUID, error) {
	if err := ctx.Err(); err != nil {
		return uuid.Nil, err
	}
	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}
	if sub.SubmittedAt.IsZero() {
		sub.SubmittedAt = time.Now().UTC()
	}
	sequence, err := json.Marshal(sub.AgentSequence)
	if err != nil {
		return uuid.Nil, fmt.Errorf("storage: encode agent sequence: %w", err)
	}
	languages, err := json.Marshal(sub.Languages)
	if err != nil {
		return uuid.Nil, fmt.Errorf("storage: encode languages: %w", err)
	}

	_, err = a.sqlDB.ExecContext(ctx, `
		INSERT INTO submissions
			(id, contributor_id, backend, trace_hash, trace_depth,
			 uniqueness_score, agent_sequence, languages, submitted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sub.ID.String(), sub.ContributorID, sub.Backend, sub.TraceHash,
		sub.TraceDepth, sub.UniquenessScore, string(sequence),
		string(languages), toMillis(sub.SubmittedAt),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("storage: insert submission: %w", err)
	}
	return sub.ID, nil
}

// ListSubmissions returns all archived submissions for one contributor,
// oldest first. An unknown contributor yields an empty slice, not an
// error.
func (a *Archive) ListSubmissions(ctx context.Context, contributorID string) ([]Submission, error) {
	rows, err := a.sqlDB.QueryContext(ctx, `
		SELECT id, contributor_id, backend, trace_hash, trace_depth,
		       uniqueness_score, agent_sequence, languages, submitted_at
		FROM submissions
		WHERE contributor_id = ?
		ORDER BY submitted_at ASC, id ASC`,
		contributorID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: query submissions: %w", err)
	}
	defer rows.Close()

	var subs []Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: iterate submissions: %w", err)
	}
	return subs, nil
}

// CountSubmissions returns the total number of archived submissions.
func (a *Archive) CountSubmissions(ctx context.Context) (int, error) {
	var count int
	err := a.sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM submissions`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("storage: count submissions: %w", err)
	}
	return count, nil
}

func scanSubmission(rows *sql.Rows) (Submission, error) {
	var (
		sub           Submission
		id            string
		sequenceJSON  string
		languagesJSON string
		submittedAt   int64
	)
	if err := rows.Scan(&id, &sub.ContributorID, &sub.Backend, &sub.TraceHash,
		&sub.TraceDepth, &sub.UniquenessScore, &sequenceJSON, &languagesJSON,
		&submittedAt); err != nil {
		return Submission{}, fmt.Errorf("storage: scan submission: %w", err)
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return Submission{}, fmt.Errorf("storage: parse submission id: %w", err)
	}
	sub.ID = parsed
	if err := json.Unmarshal([]byte(sequenceJSON), &sub.AgentSequence); err != nil {
		return Submission{}, fmt.Errorf("storage: decode agent sequence: %w", err)
	}
	if err := json.Unmarshal([]byte(languagesJSON), &sub.Languages); err != nil {
		return Submission{}, fmt.Errorf("storage: decode languages: %w", err)
	}
	sub.SubmittedAt = fromMillis(submittedAt)
	return sub, nil
}
