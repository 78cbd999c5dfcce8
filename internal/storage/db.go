package storage

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"listingsheet/internal"
)

type DB struct {
	conn *sqlx.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, eris.Wrap(err, "storage: create db dir")
	}

	conn, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "storage: open")
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, eris.Wrap(err, "storage: wal")
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  trace_id TEXT NOT NULL,
  source TEXT NOT NULL,
  input_hash TEXT NOT NULL,
  status TEXT NOT NULL,
  row_count INTEGER NOT NULL DEFAULT 0,
  columns_json TEXT NOT NULL DEFAULT '[]',
  invalid_phones INTEGER NOT NULL DEFAULT 0,
  duration_ms INTEGER NOT NULL DEFAULT 0,
  error TEXT NOT NULL DEFAULT '',
  output_path TEXT NOT NULL DEFAULT '',
  created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_runs_input_hash ON runs(input_hash);
CREATE INDEX IF NOT EXISTS idx_runs_trace_id ON runs(trace_id);
`
	_, err := d.conn.Exec(schema)
	return eris.Wrap(err, "storage: init schema")
}

func (d *DB) InsertRun(ctx context.Context, run internal.RunRow) (int64, error) {
	result, err := d.conn.NamedExecContext(ctx, `
INSERT INTO runs (trace_id, source, input_hash, status, row_count, columns_json, invalid_phones, duration_ms, error, output_path)
VALUES (:trace_id, :source, :input_hash, :status, :row_count, :columns_json, :invalid_phones, :duration_ms, :error, :output_path)
`, run)
	if err != nil {
		return 0, eris.Wrap(err, "storage: insert run")
	}
	return result.LastInsertId()
}

func (d *DB) SetRunOutput(ctx context.Context, traceID, outputPath string) error {
	_, err := d.conn.ExecContext(ctx, `UPDATE runs SET output_path = ? WHERE trace_id = ?`, outputPath, traceID)
	return eris.Wrap(err, "storage: set run output")
}

// ListRuns returns the newest runs first.
func (d *DB) ListRuns(ctx context.Context, limit int) ([]internal.RunRow, error) {
	if limit <= 0 {
		limit = 20
	}
	var out []internal.RunRow
	err := d.conn.SelectContext(ctx, &out, `
SELECT id, trace_id, source, input_hash, status, row_count, columns_json, invalid_phones, duration_ms, error, output_path, created_at
FROM runs ORDER BY id DESC LIMIT ?
`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "storage: list runs")
	}
	return out, nil
}

func (d *DB) GetRunByTraceID(ctx context.Context, traceID string) (*internal.RunRow, error) {
	var row internal.RunRow
	err := d.conn.GetContext(ctx, &row, `
SELECT id, trace_id, source, input_hash, status, row_count, columns_json, invalid_phones, duration_ms, error, output_path, created_at
FROM runs WHERE trace_id = ?
`, traceID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "storage: get run")
	}
	return &row, nil
}

// HasInputHash reports whether any run already saw input with this content
// hash.
func (d *DB) HasInputHash(ctx context.Context, hash string) (bool, error) {
	var n int
	err := d.conn.GetContext(ctx, &n, `SELECT COUNT(1) FROM runs WHERE input_hash = ?`, hash)
	if err != nil {
		return false, eris.Wrap(err, "storage: lookup input hash")
	}
	return n > 0, nil
}
