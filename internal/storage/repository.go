package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

// Repository is the SQLite-backed record store. The transaction collection
// is read and written whole: Replace swaps the entire table inside one
// database transaction, so readers never observe a partial mutation.
type Repository struct {
	db     *sql.DB
	logger *log.Logger
}

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
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

	// A single writer keeps Replace serializable without busy retries.
	db.SetMaxOpenConns(1)

	return &Repository{
		db:     db,
		logger: log.New("storage"),
	}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Load returns the whole collection in insertion order.
func (r *Repository) Load(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, description, amount, date, category, sub_category,
		       type, note, recurrent, status, last_edited
		FROM transactions
		ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var records []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return records, nil
}

// Replace swaps the stored collection for the given one atomically.
func (r *Repository) Replace(ctx context.Context, records []core.Transaction) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
		return fmt.Errorf("clear transactions: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO transactions
			(id, position, description, amount, date, category, sub_category,
			 type, note, recurrent, status, last_edited)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, t := range records {
		recurrent := 0
		if t.Recurrent {
			recurrent = 1
		}
		_, err := stmt.ExecContext(ctx,
			t.ID, i, t.Description, t.Amount.String(), t.Date.ISO(),
			t.Category, t.SubCategory, string(t.Type), t.Note,
			recurrent, string(t.Status), t.LastEdited.UTC().Format(time.RFC3339Nano))
		if err != nil {
			return fmt.Errorf("insert transaction %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace: %w", err)
	}
	r.logger.DebugContext(ctx, "collection replaced", "count", len(records))
	return nil
}

// Goal returns the goal singleton; false when none has been saved yet.
func (r *Repository) Goal(ctx context.Context) (core.Goal, bool, error) {
	var (
		g             core.Goal
		target, saved string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT name, target, saved FROM goal WHERE id = 1`).
		Scan(&g.Name, &target, &saved)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Goal{}, false, nil
	}
	if err != nil {
		return core.Goal{}, false, fmt.Errorf("query goal: %w", err)
	}
	if g.Target, err = decimal.NewFromString(target); err != nil {
		return core.Goal{}, false, fmt.Errorf("parse goal target %q: %w", target, err)
	}
	if g.Saved, err = decimal.NewFromString(saved); err != nil {
		return core.Goal{}, false, fmt.Errorf("parse goal saved %q: %w", saved, err)
	}
	return g, true, nil
}

// SaveGoal upserts the goal singleton.
func (r *Repository) SaveGoal(ctx context.Context, g core.Goal) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO goal (id, name, target, saved)
		VALUES (1, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			target = excluded.target,
			saved = excluded.saved`,
		g.Name, g.Target.String(), g.Saved.String())
	if err != nil {
		return fmt.Errorf("save goal: %w", err)
	}
	return nil
}

func scanTransaction(rows *sql.Rows) (core.Transaction, error) {
	var (
		t                            core.Transaction
		amount, date, typ, status    string
		recurrent                    int
		lastEdited                   string
	)
	err := rows.Scan(&t.ID, &t.Description, &amount, &date, &t.Category,
		&t.SubCategory, &typ, &t.Note, &recurrent, &status, &lastEdited)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}
	if t.Amount, err = decimal.NewFromString(amount); err != nil {
		return core.Transaction{}, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	if t.Date, err = core.ParseDate(date); err != nil {
		return core.Transaction{}, fmt.Errorf("parse date %q: %w", date, err)
	}
	if t.LastEdited, err = time.Parse(time.RFC3339Nano, lastEdited); err != nil {
		return core.Transaction{}, fmt.Errorf("parse last_edited %q: %w", lastEdited, err)
	}
	t.Type = core.TxnType(typ)
	t.Status = core.Status(status)
	t.Recurrent = recurrent != 0
	return t, nil
}
