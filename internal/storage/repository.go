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
)

// ErrNotFound marks lookups against missing or archived rows.
var ErrNotFound = errors.New("record not found")

// SQLiteRepository persists master data and the transaction ledger.
type SQLiteRepository struct {
	db *sql.DB
}

// ListPage describes a list request: 1-based page, page size and an
// optional name search.
type ListPage struct {
	Page   int
	Limit  int
	Search string
}

func (p ListPage) offset() int {
	page := p.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * p.limit()
}

func (p ListPage) limit() int {
	if p.Limit < 1 {
		return 5
	}
	return p.Limit
}

func (p ListPage) pattern() string {
	return "%" + p.Search + "%"
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
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

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse stored amount %q: %w", s, err)
	}
	return d, nil
}

func nullInt(v int64) sql.NullInt64 {
	return sql.NullInt64{Int64: v, Valid: v != 0}
}

func now() string {
	return time.Now().UTC().Format("2006-01-02 15:04:05")
}

func requireAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// toggleStatus flips an active/inactive column and reports the new value.
// Archived rows are not toggleable.
func (r *SQLiteRepository) toggleStatus(ctx context.Context, table string, id int64) (string, error) {
	var status string
	query := fmt.Sprintf("SELECT status FROM %s WHERE id = ? AND deleted_at IS NULL", table)
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&status); err != nil {
		if err == sql.ErrNoRows {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("read status: %w", err)
	}

	next := "active"
	if status == "active" {
		next = "inactive"
	}

	update := fmt.Sprintf("UPDATE %s SET status = ? WHERE id = ? AND deleted_at IS NULL", table)
	res, err := r.db.ExecContext(ctx, update, next, id)
	if err != nil {
		return "", fmt.Errorf("update status: %w", err)
	}
	if err := requireAffected(res); err != nil {
		return "", err
	}
	return next, nil
}

// softDelete archives a row; the record stays for referential history.
func (r *SQLiteRepository) softDelete(ctx context.Context, table string, id int64) error {
	query := fmt.Sprintf("UPDATE %s SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL", table)
	res, err := r.db.ExecContext(ctx, query, now(), id)
	if err != nil {
		return fmt.Errorf("soft delete: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("soft delete rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
