package reservations

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/autowhapp/platform/internal/business"
)

const uniqueViolation = "23505"

// Querier is the pgx surface the repository needs.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository is the reservation ledger over Postgres. The table carries a
// unique constraint on (business_id, date, start_time); a violation on
// insert is the storage-level conflict signal that closes the
// read-then-write race between concurrent bookings.
type Repository struct {
	pool Querier
}

// NewRepository initializes a ledger backed by pgxpool.
func NewRepository(pool Querier) *Repository {
	if pool == nil {
		panic("reservations: pgx pool required")
	}
	return &Repository{pool: pool}
}

const reservationColumns = `id, business_id, date, start_time, end_time, occupied, client_name, client_phone, description, created_at`

func scanReservation(row pgx.Row) (*Reservation, error) {
	var r Reservation
	err := row.Scan(&r.ID, &r.BusinessID, &r.Date, &r.StartTime, &r.EndTime,
		&r.Occupied, &r.ClientName, &r.ClientPhone, &r.Description, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ListByDate returns all reservations for a business on one date, ordered
// by start time. The conflict check re-reads this on every booking.
func (r *Repository) ListByDate(ctx context.Context, businessID int64, date string) ([]Reservation, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+reservationColumns+` FROM reservations
		 WHERE business_id = $1 AND date = $2 ORDER BY start_time`,
		businessID, date)
	if err != nil {
		return nil, fmt.Errorf("reservations: list by date: %w", err)
	}
	defer rows.Close()
	return collect(rows)
}

// ListAll returns every reservation for a business, ordered by date then
// start time. Feeds the dashboard calendar.
func (r *Repository) ListAll(ctx context.Context, businessID int64) ([]Reservation, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+reservationColumns+` FROM reservations
		 WHERE business_id = $1 ORDER BY date, start_time`,
		businessID)
	if err != nil {
		return nil, fmt.Errorf("reservations: list all: %w", err)
	}
	defer rows.Close()
	return collect(rows)
}

func collect(rows pgx.Rows) ([]Reservation, error) {
	var out []Reservation
	for rows.Next() {
		rec, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("reservations: scan: %w", err)
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

// ListViews adapts the ledger to the dashboard's calendar shape.
func (r *Repository) ListViews(ctx context.Context, businessID int64) ([]business.ReservationView, error) {
	list, err := r.ListAll(ctx, businessID)
	if err != nil {
		return nil, err
	}
	views := make([]business.ReservationView, len(list))
	for i, rec := range list {
		views[i] = business.ReservationView{
			ID:          rec.ID,
			Date:        rec.Date,
			StartTime:   rec.StartTime,
			EndTime:     rec.EndTime,
			Occupied:    rec.Occupied,
			ClientName:  rec.ClientName,
			ClientPhone: rec.ClientPhone,
			Description: rec.Description,
		}
	}
	return views, nil
}

// Insert writes a reservation and fills in its assigned id and creation
// time. A unique-constraint violation on (business_id, date, start_time)
// maps to ErrConflict.
func (r *Repository) Insert(ctx context.Context, rec *Reservation) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO reservations (business_id, date, start_time, end_time, occupied, client_name, client_phone, description)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id, created_at`,
		rec.BusinessID, rec.Date, rec.StartTime, rec.EndTime, rec.Occupied,
		rec.ClientName, rec.ClientPhone, rec.Description).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrConflict
		}
		return fmt.Errorf("reservations: insert: %w", err)
	}
	return nil
}

// Delete removes a reservation only when it belongs to the business. Zero
// rows deleted is reported as ErrNotFound regardless of whether the id
// exists under another tenant.
func (r *Repository) Delete(ctx context.Context, businessID, reservationID int64) error {
	ct, err := r.pool.Exec(ctx,
		`DELETE FROM reservations WHERE id = $1 AND business_id = $2`,
		reservationID, businessID)
	if err != nil {
		return fmt.Errorf("reservations: delete: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
