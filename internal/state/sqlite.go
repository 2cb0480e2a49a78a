package state

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const timeLayout = "2006-01-02 15:04:05"

var _ Store = (*SQLiteStore)(nil)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			exercise TEXT NOT NULL,
			mode TEXT NOT NULL DEFAULT 'check',
			verdict TEXT NOT NULL,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			start_ts TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_exercise ON runs(exercise, id);`,
		`CREATE TABLE IF NOT EXISTS app_settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) RecordRun(ctx context.Context, run Run) (int64, error) {
	start := run.StartTS
	if start.IsZero() {
		start = time.Now()
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO runs(session_id, exercise, mode, verdict, duration_ms, start_ts)
		VALUES(?, ?, ?, ?, ?, ?)
	`, run.SessionID, run.Exercise, run.Mode, run.Verdict, run.DurationMS, start.UTC().Format(timeLayout))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *SQLiteStore) ExerciseHistory(ctx context.Context, exercise string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id, exercise, mode, verdict, duration_ms, start_ts
		FROM runs
		WHERE exercise = ?
		ORDER BY id DESC
		LIMIT ?
	`, exercise, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Run{}
	for rows.Next() {
		var (
			run     Run
			startTS string
		)
		if err := rows.Scan(&run.SessionID, &run.Exercise, &run.Mode, &run.Verdict, &run.DurationMS, &startTS); err != nil {
			return nil, err
		}
		if t, err := time.Parse(timeLayout, startTS); err == nil {
			run.StartTS = t
		}
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLiteStore) GetSummary(ctx context.Context) (Summary, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN verdict = 'success' THEN 1 ELSE 0 END), 0),
		       COUNT(DISTINCT exercise)
		FROM runs
	`)
	var out Summary
	if err := row.Scan(&out.Runs, &out.Passes, &out.Exercises); err != nil {
		return Summary{}, err
	}
	return out, nil
}

func (s *SQLiteStore) SaveSettings(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	for key, value := range values {
		k := strings.TrimSpace(key)
		if k == "" {
			continue
		}
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO app_settings(key, value) VALUES(?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value
		`, k, value); err != nil {
			return err
		}
	}
	if err = tx.Commit(); err != nil {
		return err
	}
	return nil
}

func (s *SQLiteStore) LoadSettings(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM app_settings`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
