package business

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

func newCreateFixture(t *testing.T) (*Handler, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	t.Cleanup(mock.Close)
	return NewHandler(NewRepository(mock), nil, nil, nil), mock
}

func TestCreateBusiness(t *testing.T) {
	h, mock := newCreateFixture(t)

	mock.ExpectQuery("INSERT INTO businesses(.|\n)*RETURNING").
		WithArgs("Patitas Felices", "541128704037", "", "veterinaria", "Rosario", "",
			"", "", "Eres el bot de asistencia", 60, 15, "09:00", "18:00").
		WillReturnRows(sampleRow())

	body := `{"name":"Patitas Felices","phone":"541128704037","business_type":"veterinaria",` +
		`"locality":"Rosario","context":"Eres el bot de asistencia"}`
	rec := httptest.NewRecorder()
	h.Create(rec, httptest.NewRequest(http.MethodPost, "/business", strings.NewReader(body)))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"appointment_duration":60`) {
		t.Errorf("expected default scheduling in response, got %s", rec.Body.String())
	}
}

func TestCreateBusinessRequiresNameAndPhone(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing phone", `{"name":"Patitas Felices"}`},
		{"missing name", `{"phone":"541128704037"}`},
		{"blank fields", `{"name":"  ","phone":" "}`},
		{"malformed json", `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, mock := newCreateFixture(t)

			rec := httptest.NewRecorder()
			h.Create(rec, httptest.NewRequest(http.MethodPost, "/business", strings.NewReader(tt.body)))

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Fatalf("unexpected database activity: %v", err)
			}
		})
	}
}

func TestCreateBusinessDuplicatePhone(t *testing.T) {
	h, mock := newCreateFixture(t)

	mock.ExpectQuery("INSERT INTO businesses").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_businesses_phone"})

	body := `{"name":"Otro Negocio","phone":"541128704037"}`
	rec := httptest.NewRecorder()
	h.Create(rec, httptest.NewRequest(http.MethodPost, "/business", strings.NewReader(body)))

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}
