package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"milkyfeast/internal/core"
)

// TransactionFilter narrows the transaction list. Zero-valued fields are
// ignored; Type may be "income", "expense" or empty for all.
type TransactionFilter struct {
	Start core.Date
	End   core.Date
	Type  core.TransactionType
}

const transactionColumns = `id, type, category, amount, payment_source,
	COALESCE(partner_id, 0), entity_type, COALESCE(entity_id, 0),
	description, transaction_date`

func scanTransaction(rows *sql.Rows) (core.Transaction, error) {
	var (
		tx         core.Transaction
		typ        string
		entityType string
		amount     string
		date       string
	)
	if err := rows.Scan(&tx.ID, &typ, &tx.Category, &amount, &tx.PaymentSource,
		&tx.PartnerID, &entityType, &tx.Entity.ID, &tx.Description, &date); err != nil {
		return core.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}

	tx.Type = core.TransactionType(typ)

	et, err := core.ParseEntityType(entityType)
	if err != nil {
		return core.Transaction{}, err
	}
	tx.Entity.Type = et

	if tx.Amount, err = parseAmount(amount); err != nil {
		return core.Transaction{}, err
	}
	if tx.Date, err = core.ParseDate(date); err != nil {
		return core.Transaction{}, err
	}
	return tx, nil
}

func collectTransactions(rows *sql.Rows) ([]core.Transaction, error) {
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return txs, nil
}

// CreateTransaction appends a record to the ledger. Records are immutable
// once written; there is no update or delete path.
func (r *SQLiteRepository) CreateTransaction(ctx context.Context, tx core.Transaction) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions
		 (type, category, amount, payment_source, partner_id, entity_type, entity_id, description, transaction_date)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(tx.Type), tx.Category, tx.Amount.String(), tx.PaymentSource,
		nullInt(tx.PartnerID), string(tx.Entity.Type), nullInt(tx.Entity.ID),
		tx.Description, tx.Date.String())
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}
	return res.LastInsertId()
}

// GetTransaction fetches a single record by id.
func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE id = ?", id)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	txs, err := collectTransactions(rows)
	if err != nil {
		return core.Transaction{}, err
	}
	if len(txs) == 0 {
		return core.Transaction{}, ErrNotFound
	}
	return txs[0], nil
}

// ListTransactions returns records matching the filter, newest first.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, f TransactionFilter) ([]core.Transaction, error) {
	query := "SELECT " + transactionColumns + " FROM transactions WHERE 1=1"
	var args []any

	if !f.Start.IsZero() && !f.End.IsZero() {
		query += " AND transaction_date BETWEEN ? AND ?"
		args = append(args, f.Start.String(), f.End.String())
	}
	if f.Type != "" {
		query += " AND type = ?"
		args = append(args, string(f.Type))
	}
	query += " ORDER BY transaction_date DESC, id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return collectTransactions(rows)
}

// TransactionsForEntity returns one counterparty's records ordered ascending
// by date with same-day entries in insertion order, as the ledger fold
// requires. General records carry a NULL entity_id, so the match goes
// through COALESCE.
func (r *SQLiteRepository) TransactionsForEntity(ctx context.Context, entityType core.EntityType, entityID int64) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+transactionColumns+` FROM transactions
		 WHERE entity_type = ? AND COALESCE(entity_id, 0) = ?
		 ORDER BY transaction_date ASC, id ASC`,
		string(entityType), entityID)
	if err != nil {
		return nil, fmt.Errorf("transactions for entity: %w", err)
	}
	return collectTransactions(rows)
}

// TransactionsForDate returns all records on one calendar day.
func (r *SQLiteRepository) TransactionsForDate(ctx context.Context, date core.Date) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE transaction_date = ?",
		date.String())
	if err != nil {
		return nil, fmt.Errorf("transactions for date: %w", err)
	}
	return collectTransactions(rows)
}

// TransactionsForMonth returns all records within one "YYYY-MM" period.
func (r *SQLiteRepository) TransactionsForMonth(ctx context.Context, period string) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE substr(transaction_date, 1, 7) = ?",
		period)
	if err != nil {
		return nil, fmt.Errorf("transactions for month: %w", err)
	}
	return collectTransactions(rows)
}

// AllTransactions returns the full ledger for overall aggregation.
func (r *SQLiteRepository) AllTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT " + transactionColumns + " FROM transactions")
	if err != nil {
		return nil, fmt.Errorf("all transactions: %w", err)
	}
	return collectTransactions(rows)
}

// --- dashboard queries ---

type (
	MasterCounts struct {
		Products     int64
		Workers      int64
		Distributors int64
		Partners     int64
	}

	DistributorBalance struct {
		Name               string
		OutstandingBalance decimal.Decimal
	}

	PartnerCapital struct {
		Name             string
		InvestmentAmount decimal.Decimal
	}
)

func (r *SQLiteRepository) CountMasters(ctx context.Context) (MasterCounts, error) {
	var counts MasterCounts
	for _, q := range []struct {
		table string
		dst   *int64
	}{
		{"products", &counts.Products},
		{"workers", &counts.Workers},
		{"distributors", &counts.Distributors},
		{"partners", &counts.Partners},
	} {
		query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE deleted_at IS NULL", q.table)
		if err := r.db.QueryRowContext(ctx, query).Scan(q.dst); err != nil {
			return MasterCounts{}, fmt.Errorf("count %s: %w", q.table, err)
		}
	}
	return counts, nil
}

// TopOutstandingDistributors lists the distributors carrying the largest
// outstanding balances.
func (r *SQLiteRepository) TopOutstandingDistributors(ctx context.Context, limit int) ([]DistributorBalance, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name, outstanding_balance
		 FROM distributors
		 WHERE deleted_at IS NULL
		 ORDER BY CAST(outstanding_balance AS REAL) DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("top outstanding distributors: %w", err)
	}
	defer rows.Close()

	var out []DistributorBalance
	for rows.Next() {
		var db DistributorBalance
		var balance string
		if err := rows.Scan(&db.Name, &balance); err != nil {
			return nil, fmt.Errorf("scan distributor balance: %w", err)
		}
		if db.OutstandingBalance, err = parseAmount(balance); err != nil {
			return nil, err
		}
		out = append(out, db)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate distributor balances: %w", err)
	}
	return out, nil
}

// PartnerCapitals lists each active partner's invested capital.
func (r *SQLiteRepository) PartnerCapitals(ctx context.Context) ([]PartnerCapital, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT name, investment_amount FROM partners WHERE deleted_at IS NULL")
	if err != nil {
		return nil, fmt.Errorf("partner capitals: %w", err)
	}
	defer rows.Close()

	var out []PartnerCapital
	for rows.Next() {
		var pc PartnerCapital
		var amount string
		if err := rows.Scan(&pc.Name, &amount); err != nil {
			return nil, fmt.Errorf("scan partner capital: %w", err)
		}
		if pc.InvestmentAmount, err = parseAmount(amount); err != nil {
			return nil, err
		}
		out = append(out, pc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate partner capitals: %w", err)
	}
	return out, nil
}

// --- export bookkeeping (worker catch-up) ---

// ListUnexported returns transactions not yet mirrored to the bookkeeping
// spreadsheet, oldest first.
func (r *SQLiteRepository) ListUnexported(ctx context.Context, limit int) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+transactionColumns+` FROM transactions
		 WHERE exported_at IS NULL
		 ORDER BY id ASC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list unexported: %w", err)
	}
	return collectTransactions(rows)
}

// MarkExported stamps a transaction as mirrored.
func (r *SQLiteRepository) MarkExported(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE transactions SET exported_at = ? WHERE id = ?", now(), id)
	if err != nil {
		return fmt.Errorf("mark exported: %w", err)
	}
	return requireAffected(res)
}
