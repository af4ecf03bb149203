package orders

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the pgx surface the repository needs.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository stores orders in the relational database.
type Repository struct {
	pool Querier
}

// NewRepository initializes a repo backed by pgxpool.
func NewRepository(pool Querier) *Repository {
	if pool == nil {
		panic("orders: pgx pool required")
	}
	return &Repository{pool: pool}
}

// List returns a business's orders, newest first.
func (r *Repository) List(ctx context.Context, businessID int64) ([]Order, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, business_id, customer_phone, product, quantity, status, created_at
		 FROM orders WHERE business_id = $1 ORDER BY created_at DESC`,
		businessID)
	if err != nil {
		return nil, fmt.Errorf("orders: list: %w", err)
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.BusinessID, &o.CustomerPhone, &o.Product, &o.Quantity, &o.Status, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("orders: scan: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// Create inserts an order with status "received" and returns it with its
// assigned id.
func (r *Repository) Create(ctx context.Context, businessID int64, customerPhone, product string, quantity int) (*Order, error) {
	o := Order{
		BusinessID:    businessID,
		CustomerPhone: customerPhone,
		Product:       product,
		Quantity:      quantity,
		Status:        StatusReceived,
	}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO orders (business_id, customer_phone, product, quantity, status)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`,
		businessID, customerPhone, product, quantity, StatusReceived).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("orders: insert: %w", err)
	}
	return &o, nil
}

// UpdateStatus moves an order to a new status, scoped to the business.
func (r *Repository) UpdateStatus(ctx context.Context, businessID, orderID int64, status string) error {
	if !ValidStatus(status) {
		return ErrInvalidStatus
	}
	ct, err := r.pool.Exec(ctx,
		`UPDATE orders SET status = $1 WHERE id = $2 AND business_id = $3`,
		status, orderID, businessID)
	if err != nil {
		return fmt.Errorf("orders: update status: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an order scoped to the business.
func (r *Repository) Delete(ctx context.Context, businessID, orderID int64) error {
	ct, err := r.pool.Exec(ctx,
		`DELETE FROM orders WHERE id = $1 AND business_id = $2`, orderID, businessID)
	if err != nil {
		return fmt.Errorf("orders: delete: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
