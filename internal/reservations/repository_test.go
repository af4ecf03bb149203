package reservations

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

var reservationRows = []string{
	"id", "business_id", "date", "start_time", "end_time", "occupied",
	"client_name", "client_phone", "description", "created_at",
}

func TestInsert(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery("INSERT INTO reservations").
		WithArgs(int64(1), "2026-09-01", "10:00", "11:00", true, "Ana", "5491130000000", "").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(8), time.Now()))

	repo := NewRepository(mock)
	rec := &Reservation{
		BusinessID: 1, Date: "2026-09-01", StartTime: "10:00", EndTime: "11:00",
		Occupied: true, ClientName: "Ana", ClientPhone: "5491130000000",
	}
	if err := repo.Insert(context.Background(), rec); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if rec.ID != 8 {
		t.Errorf("expected assigned id 8, got %d", rec.ID)
	}
}

func TestInsertUniqueViolationIsConflict(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery("INSERT INTO reservations").
		WithArgs(int64(1), "2026-09-01", "10:00", "11:00", true, "", "", "").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "reservations_business_id_date_start_time_key"})

	repo := NewRepository(mock)
	rec := &Reservation{
		BusinessID: 1, Date: "2026-09-01", StartTime: "10:00", EndTime: "11:00", Occupied: true,
	}
	err = repo.Insert(context.Background(), rec)
	if !errors.Is(err, ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}

func TestListByDate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery("SELECT(.|\n)*FROM reservations(.|\n)*WHERE business_id = \\$1 AND date = \\$2").
		WithArgs(int64(1), "2026-09-01").
		WillReturnRows(pgxmock.NewRows(reservationRows).
			AddRow(int64(1), int64(1), "2026-09-01", "09:00", "10:00", true, "Ana", "", "", now).
			AddRow(int64(2), int64(1), "2026-09-01", "10:15", "11:15", true, "", "", "", now))

	repo := NewRepository(mock)
	list, err := repo.ListByDate(context.Background(), 1, "2026-09-01")
	if err != nil {
		t.Fatalf("ListByDate: %v", err)
	}
	if len(list) != 2 || list[0].StartTime != "09:00" || list[1].EndTime != "11:15" {
		t.Errorf("unexpected reservations: %+v", list)
	}
}

func TestDeleteCrossTenantNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	// Row 5 exists under business 2; business 1 must get NotFound.
	mock.ExpectExec("DELETE FROM reservations").
		WithArgs(int64(5), int64(1)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	repo := NewRepository(mock)
	err = repo.Delete(context.Background(), 1, 5)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListViews(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery("SELECT(.|\n)*FROM reservations(.|\n)*ORDER BY date, start_time").
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows(reservationRows).
			AddRow(int64(3), int64(1), "2026-09-02", "11:00", "12:00", true, "Luis", "549", "corte", time.Now()))

	repo := NewRepository(mock)
	views, err := repo.ListViews(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListViews: %v", err)
	}
	if len(views) != 1 || views[0].ClientName != "Luis" || !views[0].Occupied {
		t.Errorf("unexpected views: %+v", views)
	}
}
