package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned when a FAQ or product does not exist under the
// given business.
var ErrNotFound = errors.New("catalog entry not found")

// Querier is the pgx surface the repository needs.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository stores FAQs and products in the relational database.
type Repository struct {
	pool Querier
}

// NewRepository initializes a repo backed by pgxpool.
func NewRepository(pool Querier) *Repository {
	if pool == nil {
		panic("catalog: pgx pool required")
	}
	return &Repository{pool: pool}
}

// ListFAQs returns a business's FAQs in insertion order.
func (r *Repository) ListFAQs(ctx context.Context, businessID int64) ([]FAQ, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, business_id, question, answer FROM faqs WHERE business_id = $1 ORDER BY id`,
		businessID)
	if err != nil {
		return nil, fmt.Errorf("catalog: list faqs: %w", err)
	}
	defer rows.Close()

	var out []FAQ
	for rows.Next() {
		var f FAQ
		if err := rows.Scan(&f.ID, &f.BusinessID, &f.Question, &f.Answer); err != nil {
			return nil, fmt.Errorf("catalog: scan faq: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// CreateFAQ inserts a FAQ and returns it with its assigned id.
func (r *Repository) CreateFAQ(ctx context.Context, businessID int64, question, answer string) (*FAQ, error) {
	f := FAQ{BusinessID: businessID, Question: question, Answer: answer}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO faqs (business_id, question, answer) VALUES ($1, $2, $3) RETURNING id`,
		businessID, question, answer).Scan(&f.ID)
	if err != nil {
		return nil, fmt.Errorf("catalog: insert faq: %w", err)
	}
	return &f, nil
}

// DeleteFAQ removes a FAQ scoped to the business.
func (r *Repository) DeleteFAQ(ctx context.Context, businessID, faqID int64) error {
	ct, err := r.pool.Exec(ctx,
		`DELETE FROM faqs WHERE id = $1 AND business_id = $2`, faqID, businessID)
	if err != nil {
		return fmt.Errorf("catalog: delete faq: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListProducts returns a business's products in insertion order.
func (r *Repository) ListProducts(ctx context.Context, businessID int64) ([]Product, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, business_id, name, description, price FROM products WHERE business_id = $1 ORDER BY id`,
		businessID)
	if err != nil {
		return nil, fmt.Errorf("catalog: list products: %w", err)
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.BusinessID, &p.Name, &p.Description, &p.Price); err != nil {
			return nil, fmt.Errorf("catalog: scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// CreateProduct inserts a product and returns it with its assigned id.
func (r *Repository) CreateProduct(ctx context.Context, businessID int64, name, description string, price float64) (*Product, error) {
	p := Product{BusinessID: businessID, Name: name, Description: description, Price: price}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO products (business_id, name, description, price) VALUES ($1, $2, $3, $4) RETURNING id`,
		businessID, name, description, price).Scan(&p.ID)
	if err != nil {
		return nil, fmt.Errorf("catalog: insert product: %w", err)
	}
	return &p, nil
}

// DeleteProduct removes a product scoped to the business.
func (r *Repository) DeleteProduct(ctx context.Context, businessID, productID int64) error {
	ct, err := r.pool.Exec(ctx,
		`DELETE FROM products WHERE id = $1 AND business_id = $2`, productID, businessID)
	if err != nil {
		return fmt.Errorf("catalog: delete product: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
