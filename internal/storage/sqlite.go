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

	"github.com/shopspring/decimal"

	"budgetbuddy/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository stores ledgers in normalized tables, one row per entry.
type SQLiteRepository struct {
	db            *sql.DB
	schemaVersion uint
}

var _ Repository = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// SQLite has a single writer; serialize through one connection.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	version, err := migrateLedgerSchema(dbPath)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteRepository{db: db, schemaVersion: version}, nil
}

// SchemaVersion is the migration version applied when the repository opened.
func (r *SQLiteRepository) SchemaVersion() uint {
	return r.schemaVersion
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping is used by readiness checks.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) Load(ctx context.Context, userID string) (core.Ledger, error) {
	id, err := NormalizeUserID(userID)
	if err != nil {
		return core.NewLedger(), err
	}

	l := core.NewLedger()
	var mode sql.NullString
	err = r.db.QueryRowContext(ctx, `SELECT mode FROM ledgers WHERE user_id = ?`, id).Scan(&mode)
	if errors.Is(err, sql.ErrNoRows) {
		return l, nil
	}
	if err != nil {
		return l, fmt.Errorf("load ledger %s: %w", id, err)
	}
	if mode.Valid && mode.String != "" {
		m := core.Mode(mode.String)
		if !m.IsValid() {
			return core.NewLedger(), fmt.Errorf("%w: unknown mode %q", ErrCorruptSnapshot, mode.String)
		}
		l.Mode = m
	}

	if l.Income, err = r.loadIncome(ctx, id); err != nil {
		return core.NewLedger(), err
	}
	if l.Expenses, err = r.loadExpenses(ctx, id); err != nil {
		return core.NewLedger(), err
	}
	if err := l.Validate(); err != nil {
		return core.NewLedger(), fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	return l, nil
}

func (r *SQLiteRepository) loadIncome(ctx context.Context, id string) ([]core.IncomeEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT source, amount, recorded_at FROM income_entries WHERE user_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("query income entries: %w", err)
	}
	defer rows.Close()

	out := []core.IncomeEntry{}
	for rows.Next() {
		var source, amount, recordedAt string
		if err := rows.Scan(&source, &amount, &recordedAt); err != nil {
			return nil, fmt.Errorf("scan income entry: %w", err)
		}
		m, ts, err := parseStoredValues(amount, recordedAt)
		if err != nil {
			return nil, err
		}
		out = append(out, core.IncomeEntry{Source: source, Amount: m, RecordedAt: ts})
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) loadExpenses(ctx context.Context, id string) ([]core.ExpenseEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT category, description, amount, recorded_at FROM expense_entries WHERE user_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("query expense entries: %w", err)
	}
	defer rows.Close()

	out := []core.ExpenseEntry{}
	for rows.Next() {
		var category, description, amount, recordedAt string
		if err := rows.Scan(&category, &description, &amount, &recordedAt); err != nil {
			return nil, fmt.Errorf("scan expense entry: %w", err)
		}
		m, ts, err := parseStoredValues(amount, recordedAt)
		if err != nil {
			return nil, err
		}
		out = append(out, core.ExpenseEntry{Category: category, Description: description, Amount: m, RecordedAt: ts})
	}
	return out, rows.Err()
}

func parseStoredValues(amount, recordedAt string) (core.Money, core.Timestamp, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return core.Money{}, core.Timestamp{}, fmt.Errorf("%w: amount %q", ErrCorruptSnapshot, amount)
	}
	t, err := time.ParseInLocation(core.TimestampLayout, recordedAt, time.Local)
	if err != nil {
		return core.Money{}, core.Timestamp{}, fmt.Errorf("%w: timestamp %q", ErrCorruptSnapshot, recordedAt)
	}
	return core.Money{Amount: d}, core.Timestamp{Time: t}, nil
}

// Save replaces the stored ledger in a single transaction.
func (r *SQLiteRepository) Save(ctx context.Context, userID string, l core.Ledger) error {
	id, err := NormalizeUserID(userID)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	var mode any
	if l.Mode.IsSet() {
		mode = string(l.Mode)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO ledgers (user_id, mode, updated_at) VALUES (?, ?, datetime('now'))
		ON CONFLICT(user_id) DO UPDATE SET mode = excluded.mode, updated_at = excluded.updated_at`,
		id, mode); err != nil {
		return fmt.Errorf("upsert ledger: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM income_entries WHERE user_id = ?`, id); err != nil {
		return fmt.Errorf("delete income entries: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM expense_entries WHERE user_id = ?`, id); err != nil {
		return fmt.Errorf("delete expense entries: %w", err)
	}

	for i, e := range l.Income {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO income_entries (user_id, position, source, amount, recorded_at) VALUES (?, ?, ?, ?, ?)`,
			id, i, e.Source, e.Amount.Amount.String(), e.RecordedAt.String()); err != nil {
			return fmt.Errorf("insert income entry %d: %w", i, err)
		}
	}
	for i, e := range l.Expenses {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO expense_entries (user_id, position, category, description, amount, recorded_at) VALUES (?, ?, ?, ?, ?, ?)`,
			id, i, e.Category, e.Description, e.Amount.Amount.String(), e.RecordedAt.String()); err != nil {
			return fmt.Errorf("insert expense entry %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit ledger: %w", err)
	}

	slog.DebugContext(ctx, "Ledger saved to SQLite",
		"user_id", id,
		"income_entries", len(l.Income),
		"expense_entries", len(l.Expenses))
	return nil
}
