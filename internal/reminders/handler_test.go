package reminders

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

func newTestRouter(t *testing.T) (http.Handler, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	t.Cleanup(mock.Close)

	h := NewHandler(NewRepository(mock), nil)
	r := chi.NewRouter()
	r.Route("/business/{businessID}/reminders", func(r chi.Router) {
		r.Get("/", h.List)
		r.Put("/", h.Replace)
	})
	return r, mock
}

func TestListReminders(t *testing.T) {
	r, mock := newTestRouter(t)

	mock.ExpectQuery("SELECT(.|\n)*FROM reminders").
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows(reminderRows).
			AddRow(int64(1), int64(1), "Recordá tu turno", "daily", "09:00"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/business/1/reminders", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"frequency":"daily"`) {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestListRemindersEmpty(t *testing.T) {
	r, mock := newTestRouter(t)

	mock.ExpectQuery("SELECT(.|\n)*FROM reminders").
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows(reminderRows))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/business/1/reminders", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"reminders":[]`) {
		t.Errorf("expected empty list, got %s", rec.Body.String())
	}
}

func TestReplaceReminders(t *testing.T) {
	r, mock := newTestRouter(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM reminders").
		WithArgs(int64(1)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectQuery("INSERT INTO reminders").
		WithArgs(int64(1), "Promoción del mes", "monthly", "12:30").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(9)))
	mock.ExpectCommit()

	body := `{"reminders":[{"message":"Promoción del mes","frequency":"monthly","time":"12:30"}]}`
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/business/1/reminders", strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"id":9`) {
		t.Errorf("expected assigned id in body, got %s", rec.Body.String())
	}
}

func TestReplaceRemindersValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty message", `{"reminders":[{"message":"  ","frequency":"daily","time":"09:00"}]}`},
		{"unknown frequency", `{"reminders":[{"message":"hola","frequency":"hourly","time":"09:00"}]}`},
		{"bad time", `{"reminders":[{"message":"hola","frequency":"daily","time":"25:99"}]}`},
		{"malformed body", `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, mock := newTestRouter(t)

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/business/1/reminders", strings.NewReader(tt.body)))

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			// Invalid payloads never reach the database.
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Fatalf("unexpected database activity: %v", err)
			}
		})
	}
}
