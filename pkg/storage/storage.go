// Package storage persists daily entities in SQLite. Writes go through a
// single upsert keyed on (user_id, category, day) so concurrent generators,
// even across process restarts, converge on one row.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

type DB struct {
	sql *sql.DB
}

// Open opens (and if needed creates) the database at path. WAL mode plus a
// busy timeout keeps concurrent readers and the single writer cooperative.
func Open(path string) (*DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS daily_entries (
  id              INTEGER PRIMARY KEY,
  user_id         TEXT NOT NULL,
  category        TEXT NOT NULL,
  day             TEXT NOT NULL,
  score           TEXT NOT NULL,
  recommendations TEXT NOT NULL,
  summary         TEXT,
  fallback        INTEGER NOT NULL DEFAULT 0 CHECK (fallback IN (0,1)),
  created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(user_id, category, day)
);
CREATE INDEX IF NOT EXISTS idx_daily_user ON daily_entries(user_id, day);
    `); err != nil {
		return nil, err
	}
	return &DB{sql: db}, nil
}

func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

// Upsert writes the entity, replacing any existing row for the same
// (user, category, day). Idempotent under retry.
func (d *DB) Upsert(ctx context.Context, e *DailyEntity) error {
	scoreJSON, err := json.Marshal(e.Score)
	if err != nil {
		return fmt.Errorf("encode score: %w", err)
	}
	recsJSON, err := json.Marshal(e.Recommendations)
	if err != nil {
		return fmt.Errorf("encode recommendations: %w", err)
	}

	now := time.Now().UTC()
	_, err = d.sql.ExecContext(ctx, `
INSERT INTO daily_entries(user_id, category, day, score, recommendations, summary, fallback, created_at, updated_at)
VALUES(?,?,?,?,?,?,?,?,?)
ON CONFLICT(user_id, category, day) DO UPDATE SET
  score = excluded.score,
  recommendations = excluded.recommendations,
  summary = excluded.summary,
  fallback = excluded.fallback,
  updated_at = excluded.updated_at`,
		e.UserID, e.Category, e.Day, string(scoreJSON), string(recsJSON),
		nullIfEmpty(e.Summary), boolToInt(e.Fallback), now, now)
	if err != nil {
		return fmt.Errorf("upsert daily entry: %w", err)
	}
	return nil
}

// GetByDate returns the entity for (user, category, day), or (nil, nil) when
// no row exists.
func (d *DB) GetByDate(ctx context.Context, userID, category, day string) (*DailyEntity, error) {
	row := d.sql.QueryRowContext(ctx, `
SELECT user_id, category, day, score, recommendations, summary, fallback, created_at, updated_at
FROM daily_entries WHERE user_id = ? AND category = ? AND day = ?`,
		userID, category, day)

	e, err := scanEntity(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return e, err
}

// ListByUser returns the user's entities, newest day first, up to limit.
func (d *DB) ListByUser(ctx context.Context, userID string, limit int) ([]DailyEntity, error) {
	if limit <= 0 {
		limit = 30
	}
	rows, err := d.sql.QueryContext(ctx, `
SELECT user_id, category, day, score, recommendations, summary, fallback, created_at, updated_at
FROM daily_entries WHERE user_id = ? ORDER BY day DESC, category ASC LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DailyEntity
	for rows.Next() {
		e, err := scanEntity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

// DeleteOlderThan drops rows for days strictly before the cutoff day key.
// Retention hygiene only; nothing reads entries that far back.
func (d *DB) DeleteOlderThan(ctx context.Context, day string) (int64, error) {
	res, err := d.sql.ExecContext(ctx, `DELETE FROM daily_entries WHERE day < ?`, day)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntity(row scanner) (*DailyEntity, error) {
	var (
		e         DailyEntity
		scoreJSON string
		recsJSON  string
		summary   sql.NullString
		fallback  int
	)
	if err := row.Scan(&e.UserID, &e.Category, &e.Day, &scoreJSON, &recsJSON,
		&summary, &fallback, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(scoreJSON), &e.Score); err != nil {
		return nil, fmt.Errorf("decode score: %w", err)
	}
	if err := json.Unmarshal([]byte(recsJSON), &e.Recommendations); err != nil {
		return nil, fmt.Errorf("decode recommendations: %w", err)
	}
	e.Summary = summary.String
	e.Fallback = fallback == 1
	return &e, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
