// Package history persists analysis runs to a local sqlite database so
// watch mode and repeated invocations can show how cycle counts move over
// time.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const driverName = "sqlite"

type Run struct {
	ID           string
	Timestamp    time.Time
	Workspace    string
	FilesScanned int
	CycleCount   int
	Duration     time.Duration
}

type CycleRow struct {
	Signature string
	Display   string
	Length    int
	TypeOnly  bool
}

type TrendPoint struct {
	Timestamp  time.Time
	CycleCount int
}

type Store struct {
	path string
	db   *sql.DB
	mu   sync.Mutex
}

func Open(path string) (*Store, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("history path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("history path %q is a directory, expected file", cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory %q: %w", dir, err)
		}
	}

	// busy_timeout + WAL reduce lock conflicts during watch-mode churn.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(2000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)", cleanPath)
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite history %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite history %q: %w", cleanPath, err)
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize sqlite schema %q: %w", cleanPath, err)
	}

	return &Store{path: cleanPath, db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveRun records one analysis run and its cycles atomically.
func (s *Store) SaveRun(run Run, cycles []CycleRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin run transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(
		`INSERT INTO runs (id, ts_utc, workspace, files_scanned, cycle_count, duration_ms) VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.Timestamp.UTC().Format(time.RFC3339Nano),
		run.Workspace,
		run.FilesScanned,
		run.CycleCount,
		run.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}

	for _, c := range cycles {
		typeOnly := 0
		if c.TypeOnly {
			typeOnly = 1
		}
		_, err = tx.Exec(
			`INSERT OR IGNORE INTO cycles (run_id, signature, display, length, type_only) VALUES (?, ?, ?, ?, ?)`,
			run.ID, c.Signature, c.Display, c.Length, typeOnly,
		)
		if err != nil {
			return fmt.Errorf("insert cycle for run %s: %w", run.ID, err)
		}
	}

	return tx.Commit()
}

// Trend returns the cycle counts of runs for a workspace since the cutoff,
// oldest first.
func (s *Store) Trend(workspace string, since time.Time) ([]TrendPoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(
		`SELECT ts_utc, cycle_count FROM runs WHERE workspace = ? AND ts_utc >= ? ORDER BY ts_utc ASC`,
		workspace,
		since.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("query trend: %w", err)
	}
	defer rows.Close()

	var points []TrendPoint
	for rows.Next() {
		var ts string
		var count int
		if err := rows.Scan(&ts, &count); err != nil {
			return nil, fmt.Errorf("scan trend row: %w", err)
		}
		parsed, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("parse trend timestamp %q: %w", ts, err)
		}
		points = append(points, TrendPoint{Timestamp: parsed, CycleCount: count})
	}
	return points, rows.Err()
}

// CyclesOf returns the cycles recorded for a run, sorted by signature.
func (s *Store) CyclesOf(runID string) ([]CycleRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(
		`SELECT signature, display, length, type_only FROM cycles WHERE run_id = ? ORDER BY signature ASC`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query cycles: %w", err)
	}
	defer rows.Close()

	var out []CycleRow
	for rows.Next() {
		var c CycleRow
		var typeOnly int
		if err := rows.Scan(&c.Signature, &c.Display, &c.Length, &typeOnly); err != nil {
			return nil, fmt.Errorf("scan cycle row: %w", err)
		}
		c.TypeOnly = typeOnly != 0
		out = append(out, c)
	}
	return out, rows.Err()
}
