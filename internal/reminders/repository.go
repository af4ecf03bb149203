package reminders

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Querier is the subset of pgxpool.Pool the repository needs; pgxmock
// satisfies it in tests. Replace runs in a transaction, so Begin is
// included.
type Querier interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Repository stores reminders in the relational database.
type Repository struct {
	pool Querier
}

// NewRepository initializes a repo backed by pgxpool.
func NewRepository(pool Querier) *Repository {
	if pool == nil {
		panic("reminders: pgx pool required")
	}
	return &Repository{pool: pool}
}

// ListByBusiness returns a business's reminders in creation order.
func (r *Repository) ListByBusiness(ctx context.Context, businessID int64) ([]Reminder, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, business_id, message, frequency, send_time FROM reminders
		 WHERE business_id = $1 ORDER BY id`,
		businessID)
	if err != nil {
		return nil, fmt.Errorf("reminders: list: %w", err)
	}
	defer rows.Close()

	var out []Reminder
	for rows.Next() {
		var rem Reminder
		if err := rows.Scan(&rem.ID, &rem.BusinessID, &rem.Message, &rem.Frequency, &rem.SendTime); err != nil {
			return nil, fmt.Errorf("reminders: scan: %w", err)
		}
		out = append(out, rem)
	}
	return out, rows.Err()
}

// Replace swaps the business's reminder list wholesale, mirroring the
// dashboard's save button which always submits the full list. Runs in one
// transaction so a failed insert leaves the old list intact.
func (r *Repository) Replace(ctx context.Context, businessID int64, list []Reminder) ([]Reminder, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("reminders: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM reminders WHERE business_id = $1`, businessID); err != nil {
		return nil, fmt.Errorf("reminders: clear: %w", err)
	}

	out := make([]Reminder, 0, len(list))
	for _, rem := range list {
		row := tx.QueryRow(ctx,
			`INSERT INTO reminders (business_id, message, frequency, send_time)
			 VALUES ($1, $2, $3, $4) RETURNING id`,
			businessID, rem.Message, rem.Frequency, rem.SendTime)
		if err := row.Scan(&rem.ID); err != nil {
			return nil, fmt.Errorf("reminders: insert: %w", err)
		}
		rem.BusinessID = businessID
		out = append(out, rem)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("reminders: commit: %w", err)
	}
	return out, nil
}
