// Package repository persists extraction run history in a local SQLite
// database. Extraction itself never depends on it; the store is an optional
// side channel for auditing past runs.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/taxkit/bupot-extractor/internal/batch"
	"github.com/taxkit/bupot-extractor/internal/schema"
)

const migration = `
CREATE TABLE IF NOT EXISTS runs (
	id             TEXT PRIMARY KEY,
	created_at     TIMESTAMP NOT NULL,
	total_inputs   INTEGER NOT NULL,
	total_records  INTEGER NOT NULL,
	unique_rows    INTEGER NOT NULL,
	duplicate_rows INTEGER NOT NULL,
	failures       INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS run_records (
	run_id  TEXT NOT NULL REFERENCES runs(id),
	seq     INTEGER NOT NULL,
	file    TEXT NOT NULL,
	payload TEXT NOT NULL,
	PRIMARY KEY (run_id, seq)
);`

type History struct {
	db     *sql.DB
	logger *slog.Logger
}

// RunSummary is one row of the runs table.
type RunSummary struct {
	ID            string
	CreatedAt     time.Time
	TotalInputs   int
	TotalRecords  int
	UniqueRows    int
	DuplicateRows int
	Failures      int
}

// Open opens (or creates) the history database at path and applies the
// schema migration.
func Open(path string, logger *slog.Logger) (*History, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if _, err := db.Exec(migration); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate history db: %w", err)
	}
	return &History{db: db, logger: logger}, nil
}

func (h *History) Close() error {
	return h.db.Close()
}

// SaveRun stores the batch summary and its deduplicated records, returning
// the new run ID.
func (h *History) SaveRun(ctx context.Context, b batch.Batch, failures int) (string, error) {
	runID := uuid.NewString()

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, total_inputs, total_records, unique_rows, duplicate_rows, failures)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, time.Now().UTC(),
		b.Stats.TotalInputs, b.Stats.TotalRecords, b.Stats.UniqueRows, b.Stats.DuplicateRows, failures,
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	for i, rec := range b.Records {
		payload, err := json.Marshal(rec)
		if err != nil {
			return "", fmt.Errorf("encode record %d: %w", i, err)
		}
		file, _ := rec[schema.KeyFile].(string)
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_records (run_id, seq, file, payload) VALUES (?, ?, ?, ?)`,
			runID, i, file, string(payload),
		); err != nil {
			return "", fmt.Errorf("insert record %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	h.logger.Info("history.run.saved", "run_id", runID, "records", len(b.Records))
	return runID, nil
}

// ListRuns returns the most recent run summaries, newest first.
func (h *History) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := h.db.QueryContext(ctx,
		`SELECT id, created_at, total_inputs, total_records, unique_rows, duplicate_rows, failures
		 FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []RunSummary
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.ID, &r.CreatedAt, &r.TotalInputs, &r.TotalRecords,
			&r.UniqueRows, &r.DuplicateRows, &r.Failures); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
