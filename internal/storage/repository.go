// Package storage keeps the latest calculator state in SQLite. The encoded
// config file is stored verbatim next to a few headline columns so the
// database can be inspected without decoding it.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"taxcalc/internal/core"
	"taxcalc/internal/ledger"
	"taxcalc/internal/statefile"

	_ "modernc.org/sqlite"
)

const (
	selectState = `SELECT body FROM state WHERE id = 1`

	upsertState = `
INSERT INTO state (id, body, gross_salary, net_salary, expense_total, expense_count, saved_at, version)
VALUES (1, ?, ?, ?, ?, ?, ?, 1)
ON CONFLICT(id) DO UPDATE SET
    body = excluded.body,
    gross_salary = excluded.gross_salary,
    net_salary = excluded.net_salary,
    expense_total = excluded.expense_total,
    expense_count = excluded.expense_count,
    saved_at = excluded.saved_at,
    version = state.version + 1`

	selectSummary = `SELECT gross_salary, net_salary, expense_total, expense_count, saved_at, version FROM state WHERE id = 1`
)

type SQLiteRepository struct {
	db *sql.DB
}

// Summary is the headline view of the stored state.
type Summary struct {
	GrossSalary  float64
	NetSalary    float64
	ExpenseTotal float64
	ExpenseCount int
	SavedAt      time.Time
	Version      int64
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Load returns the stored state, or core.ErrFileNotFound if nothing has
// been saved yet.
func (r *SQLiteRepository) Load(ctx context.Context) (statefile.Snapshot, error) {
	var body string
	err := r.db.QueryRowContext(ctx, selectState).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return statefile.Snapshot{}, fmt.Errorf("%w: no saved state in database", core.ErrFileNotFound)
	}
	if err != nil {
		return statefile.Snapshot{}, fmt.Errorf("query state: %w", err)
	}

	snap, err := statefile.Decode(body)
	if err != nil {
		return statefile.Snapshot{}, fmt.Errorf("decode stored state: %w", err)
	}
	return snap, nil
}

// Save replaces the stored state with s.
func (r *SQLiteRepository) Save(ctx context.Context, s statefile.Snapshot) error {
	body, err := statefile.Encode(s)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	l := ledger.FromSlots(s.Slots[:])
	savedAt := s.SavedAt
	if savedAt.IsZero() {
		savedAt = time.Now()
	}

	_, err = r.db.ExecContext(ctx, upsertState,
		body,
		s.Result.GrossYearlySalary,
		s.Result.NetSalary,
		l.Total(),
		l.Count(),
		savedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upsert state: %w", err)
	}

	slog.InfoContext(ctx, "State saved to SQLite",
		"component", "storage",
		"salary", s.Result.GrossYearlySalary,
		"count", l.Count())
	return nil
}

// Summary returns the headline columns of the stored state.
func (r *SQLiteRepository) Summary(ctx context.Context) (Summary, error) {
	var (
		s       Summary
		savedAt string
	)
	err := r.db.QueryRowContext(ctx, selectSummary).Scan(
		&s.GrossSalary, &s.NetSalary, &s.ExpenseTotal, &s.ExpenseCount, &savedAt, &s.Version)
	if errors.Is(err, sql.ErrNoRows) {
		return Summary{}, fmt.Errorf("%w: no saved state in database", core.ErrFileNotFound)
	}
	if err != nil {
		return Summary{}, fmt.Errorf("query state summary: %w", err)
	}

	if s.SavedAt, err = time.Parse(time.RFC3339Nano, savedAt); err != nil {
		return Summary{}, fmt.Errorf("parse saved_at %q: %w", savedAt, err)
	}
	return s, nil
}
