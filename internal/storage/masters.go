package storage

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

type (
	Product struct {
		ID           int64
		Name         string
		Category     string
		Unit         string
		SellingPrice decimal.Decimal
		Status       string
	}

	Worker struct {
		ID     int64
		Name   string
		Mobile string
		Role   string
		Salary decimal.Decimal
		Status string
	}

	Distributor struct {
		ID                 int64
		Name               string
		ShopName           string
		Mobile             string
		Address            string
		CreditLimit        decimal.Decimal
		OutstandingBalance decimal.Decimal
		Status             string
	}

	Partner struct {
		ID               int64
		Name             string
		Mobile           string
		InvestmentAmount decimal.Decimal
		Status           string
	}
)

// countRows counts non-archived rows of a master table matching the search.
func (r *SQLiteRepository) countRows(ctx context.Context, table, pattern string) (int64, error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE deleted_at IS NULL AND name LIKE ?", table)
	var total int64
	if err := r.db.QueryRowContext(ctx, query, pattern).Scan(&total); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return total, nil
}

// --- products ---

func (r *SQLiteRepository) CreateProduct(ctx context.Context, p Product) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO products (name, category, unit, selling_price) VALUES (?, ?, ?, ?)",
		p.Name, p.Category, p.Unit, p.SellingPrice.String())
	if err != nil {
		return 0, fmt.Errorf("insert product: %w", err)
	}
	return res.LastInsertId()
}

func (r *SQLiteRepository) ListProducts(ctx context.Context, page ListPage) ([]Product, int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, category, unit, selling_price, status
		 FROM products
		 WHERE deleted_at IS NULL AND name LIKE ?
		 ORDER BY id DESC
		 LIMIT ? OFFSET ?`,
		page.pattern(), page.limit(), page.offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		var price string
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.Unit, &price, &p.Status); err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		if p.SellingPrice, err = parseAmount(price); err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate products: %w", err)
	}

	total, err := r.countRows(ctx, "products", page.pattern())
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *SQLiteRepository) UpdateProduct(ctx context.Context, p Product) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE products SET name = ?, category = ?, unit = ?, selling_price = ? WHERE id = ? AND deleted_at IS NULL",
		p.Name, p.Category, p.Unit, p.SellingPrice.String(), p.ID)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return requireAffected(res)
}

func (r *SQLiteRepository) SoftDeleteProduct(ctx context.Context, id int64) error {
	return r.softDelete(ctx, "products", id)
}

func (r *SQLiteRepository) ToggleProductStatus(ctx context.Context, id int64) (string, error) {
	return r.toggleStatus(ctx, "products", id)
}

// --- workers ---

func (r *SQLiteRepository) CreateWorker(ctx context.Context, w Worker) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO workers (name, mobile, role, salary) VALUES (?, ?, ?, ?)",
		w.Name, w.Mobile, w.Role, w.Salary.String())
	if err != nil {
		return 0, fmt.Errorf("insert worker: %w", err)
	}
	return res.LastInsertId()
}

func (r *SQLiteRepository) ListWorkers(ctx context.Context, page ListPage) ([]Worker, int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, mobile, role, salary, status
		 FROM workers
		 WHERE deleted_at IS NULL AND name LIKE ?
		 ORDER BY id DESC
		 LIMIT ? OFFSET ?`,
		page.pattern(), page.limit(), page.offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list workers: %w", err)
	}
	defer rows.Close()

	var workers []Worker
	for rows.Next() {
		var w Worker
		var salary string
		if err := rows.Scan(&w.ID, &w.Name, &w.Mobile, &w.Role, &salary, &w.Status); err != nil {
			return nil, 0, fmt.Errorf("scan worker: %w", err)
		}
		if w.Salary, err = parseAmount(salary); err != nil {
			return nil, 0, err
		}
		workers = append(workers, w)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate workers: %w", err)
	}

	total, err := r.countRows(ctx, "workers", page.pattern())
	if err != nil {
		return nil, 0, err
	}
	return workers, total, nil
}

func (r *SQLiteRepository) UpdateWorker(ctx context.Context, w Worker) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE workers SET name = ?, mobile = ?, role = ?, salary = ? WHERE id = ? AND deleted_at IS NULL",
		w.Name, w.Mobile, w.Role, w.Salary.String(), w.ID)
	if err != nil {
		return fmt.Errorf("update worker: %w", err)
	}
	return requireAffected(res)
}

func (r *SQLiteRepository) SoftDeleteWorker(ctx context.Context, id int64) error {
	return r.softDelete(ctx, "workers", id)
}

func (r *SQLiteRepository) ToggleWorkerStatus(ctx context.Context, id int64) (string, error) {
	return r.toggleStatus(ctx, "workers", id)
}

// --- distributors ---

func (r *SQLiteRepository) CreateDistributor(ctx context.Context, d Distributor) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO distributors (name, shop_name, mobile, address, credit_limit) VALUES (?, ?, ?, ?, ?)",
		d.Name, d.ShopName, d.Mobile, d.Address, d.CreditLimit.String())
	if err != nil {
		return 0, fmt.Errorf("insert distributor: %w", err)
	}
	return res.LastInsertId()
}

func (r *SQLiteRepository) ListDistributors(ctx context.Context, page ListPage) ([]Distributor, int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, shop_name, mobile, address, credit_limit, outstanding_balance, status
		 FROM distributors
		 WHERE deleted_at IS NULL AND name LIKE ?
		 ORDER BY id DESC
		 LIMIT ? OFFSET ?`,
		page.pattern(), page.limit(), page.offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list distributors: %w", err)
	}
	defer rows.Close()

	var distributors []Distributor
	for rows.Next() {
		var d Distributor
		var limit, balance string
		if err := rows.Scan(&d.ID, &d.Name, &d.ShopName, &d.Mobile, &d.Address, &limit, &balance, &d.Status); err != nil {
			return nil, 0, fmt.Errorf("scan distributor: %w", err)
		}
		if d.CreditLimit, err = parseAmount(limit); err != nil {
			return nil, 0, err
		}
		if d.OutstandingBalance, err = parseAmount(balance); err != nil {
			return nil, 0, err
		}
		distributors = append(distributors, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate distributors: %w", err)
	}

	total, err := r.countRows(ctx, "distributors", page.pattern())
	if err != nil {
		return nil, 0, err
	}
	return distributors, total, nil
}

func (r *SQLiteRepository) UpdateDistributor(ctx context.Context, d Distributor) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE distributors SET name = ?, shop_name = ?, mobile = ?, address = ?, credit_limit = ? WHERE id = ? AND deleted_at IS NULL",
		d.Name, d.ShopName, d.Mobile, d.Address, d.CreditLimit.String(), d.ID)
	if err != nil {
		return fmt.Errorf("update distributor: %w", err)
	}
	return requireAffected(res)
}

func (r *SQLiteRepository) SoftDeleteDistributor(ctx context.Context, id int64) error {
	return r.softDelete(ctx, "distributors", id)
}

func (r *SQLiteRepository) ToggleDistributorStatus(ctx context.Context, id int64) (string, error) {
	return r.toggleStatus(ctx, "distributors", id)
}

// --- partners ---

func (r *SQLiteRepository) CreatePartner(ctx context.Context, p Partner) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO partners (name, mobile, investment_amount) VALUES (?, ?, ?)",
		p.Name, p.Mobile, p.InvestmentAmount.String())
	if err != nil {
		return 0, fmt.Errorf("insert partner: %w", err)
	}
	return res.LastInsertId()
}

func (r *SQLiteRepository) ListPartners(ctx context.Context, page ListPage) ([]Partner, int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, mobile, investment_amount, status
		 FROM partners
		 WHERE deleted_at IS NULL AND name LIKE ?
		 ORDER BY id DESC
		 LIMIT ? OFFSET ?`,
		page.pattern(), page.limit(), page.offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list partners: %w", err)
	}
	defer rows.Close()

	var partners []Partner
	for rows.Next() {
		var p Partner
		var amount string
		if err := rows.Scan(&p.ID, &p.Name, &p.Mobile, &amount, &p.Status); err != nil {
			return nil, 0, fmt.Errorf("scan partner: %w", err)
		}
		if p.InvestmentAmount, err = parseAmount(amount); err != nil {
			return nil, 0, err
		}
		partners = append(partners, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate partners: %w", err)
	}

	total, err := r.countRows(ctx, "partners", page.pattern())
	if err != nil {
		return nil, 0, err
	}
	return partners, total, nil
}

func (r *SQLiteRepository) UpdatePartner(ctx context.Context, p Partner) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE partners SET name = ?, mobile = ?, investment_amount = ? WHERE id = ? AND deleted_at IS NULL",
		p.Name, p.Mobile, p.InvestmentAmount.String(), p.ID)
	if err != nil {
		return fmt.Errorf("update partner: %w", err)
	}
	return requireAffected(res)
}

func (r *SQLiteRepository) SoftDeletePartner(ctx context.Context, id int64) error {
	return r.softDelete(ctx, "partners", id)
}

func (r *SQLiteRepository) TogglePartnerStatus(ctx context.Context, id int64) (string, error) {
	return r.toggleStatus(ctx, "partners", id)
}
