package business

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the subset of pgxpool.Pool the repository needs; pgxmock
// satisfies it in tests.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository stores businesses in the relational database.
type Repository struct {
	pool Querier
}

// NewRepository initializes a repo backed by pgxpool.
func NewRepository(pool Querier) *Repository {
	if pool == nil {
		panic("business: pgx pool required")
	}
	return &Repository{pool: pool}
}

const businessColumns = `
	id, name, phone, group_id, business_type, locality, address,
	opening_hours, owner_email, context, bot_enabled,
	orders_enabled, reservations_enabled, reminders_enabled,
	appointment_duration, break_between, day_open_time, day_close_time, created_at
`

func scanBusiness(row pgx.Row) (*Business, error) {
	var b Business
	if err := row.Scan(
		&b.ID,
		&b.Name,
		&b.Phone,
		&b.GroupID,
		&b.BusinessType,
		&b.Locality,
		&b.Address,
		&b.OpeningHours,
		&b.OwnerEmail,
		&b.Context,
		&b.BotEnabled,
		&b.Modules.Orders,
		&b.Modules.Reservations,
		&b.Modules.Reminders,
		&b.Scheduling.AppointmentDuration,
		&b.Scheduling.BreakBetween,
		&b.Scheduling.DayOpenTime,
		&b.Scheduling.DayCloseTime,
		&b.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("business: scan: %w", err)
	}
	return &b, nil
}

// Insert creates a new business with the dashboard's default scheduling. A
// phone already claimed by another business reports ErrDuplicatePhone.
func (r *Repository) Insert(ctx context.Context, req CreateRequest) (*Business, error) {
	def := DefaultScheduling()
	query := `
		INSERT INTO businesses (
			name, phone, group_id, business_type, locality, address,
			opening_hours, owner_email, context,
			appointment_duration, break_between, day_open_time, day_close_time
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + businessColumns
	b, err := scanBusiness(r.pool.QueryRow(ctx, query,
		req.Name, req.Phone, req.GroupID, req.BusinessType, req.Locality, req.Address,
		req.OpeningHours, req.OwnerEmail, req.Context,
		def.AppointmentDuration, def.BreakBetween, def.DayOpenTime, def.DayCloseTime))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicatePhone
		}
		return nil, err
	}
	return b, nil
}

// GetByID fetches one business.
func (r *Repository) GetByID(ctx context.Context, id int64) (*Business, error) {
	query := `SELECT ` + businessColumns + ` FROM businesses WHERE id = $1`
	return scanBusiness(r.pool.QueryRow(ctx, query, id))
}

// GetByPhone resolves a business from a normalized WhatsApp number.
func (r *Repository) GetByPhone(ctx context.Context, phone string) (*Business, error) {
	query := `
		SELECT ` + businessColumns + `
		FROM businesses
		WHERE regexp_replace(phone, '\D', '', 'g') = $1
	`
	return scanBusiness(r.pool.QueryRow(ctx, query, NormalizePhone(phone)))
}

// List returns every business; the bot runner uses it to start sessions.
func (r *Repository) List(ctx context.Context) ([]*Business, error) {
	query := `SELECT ` + businessColumns + ` FROM businesses ORDER BY id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("business: list: %w", err)
	}
	defer rows.Close()

	var out []*Business
	for rows.Next() {
		b, err := scanBusiness(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// UpdateProfile applies the non-nil fields of req to the business row.
func (r *Repository) UpdateProfile(ctx context.Context, id int64, req UpdateRequest) error {
	query := `
		UPDATE businesses SET
			name = COALESCE($2, name),
			group_id = COALESCE($3, group_id),
			business_type = COALESCE($4, business_type),
			locality = COALESCE($5, locality),
			address = COALESCE($6, address),
			opening_hours = COALESCE($7, opening_hours),
			owner_email = COALESCE($8, owner_email),
			context = COALESCE($9, context),
			bot_enabled = COALESCE($10, bot_enabled),
			orders_enabled = COALESCE($11, orders_enabled),
			reservations_enabled = COALESCE($12, reservations_enabled),
			reminders_enabled = COALESCE($13, reminders_enabled)
		WHERE id = $1
	`
	ct, err := r.pool.Exec(ctx, query, id,
		req.Name, req.GroupID, req.BusinessType, req.Locality, req.Address,
		req.OpeningHours, req.OwnerEmail, req.Context, req.BotEnabled,
		req.Orders, req.Reservations, req.Reminders)
	if err != nil {
		return fmt.Errorf("business: update profile: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateScheduling replaces the slot-grid parameters after validating them.
func (r *Repository) UpdateScheduling(ctx context.Context, id int64, s Scheduling) error {
	if err := s.Validate(); err != nil {
		return err
	}
	query := `
		UPDATE businesses SET
			appointment_duration = $2,
			break_between = $3,
			day_open_time = $4,
			day_close_time = $5
		WHERE id = $1
	`
	ct, err := r.pool.Exec(ctx, query, id,
		s.AppointmentDuration, s.BreakBetween, s.DayOpenTime, s.DayCloseTime)
	if err != nil {
		return fmt.Errorf("business: update scheduling: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
