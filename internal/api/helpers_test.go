package api

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/workforce-api/internal/api/shared"
	"github.com/phrazzld/workforce-api/internal/domain"
	"github.com/phrazzld/workforce-api/internal/mocks"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestRouter mounts the employee and task handlers on their production
// paths without authentication; tests attach a principal themselves.
func newTestRouter(employees *mocks.MockEmployeeService, tasks *mocks.MockTaskService) http.Handler {
	eh := NewEmployeeHandler(employees, tasks, discardLogger())
	th := NewTaskHandler(tasks, discardLogger())

	r := chi.NewRouter()
	r.Route("/api/employees", func(r chi.Router) {
		r.Get("/", eh.List)
		r.Post("/", eh.Create)
		r.Get("/{id}", eh.Get)
		r.Put("/{id}", eh.Update)
		r.Delete("/{id}", eh.Delete)
		r.Get("/{id}/tasks", eh.Tasks)
	})
	r.Route("/api/Tasks", func(r chi.Router) {
		r.Get("/", th.List)
		r.Post("/", th.Create)
		r.Get("/{id}", th.Get)
		r.Put("/{id}", th.Update)
		r.Delete("/{id}", th.Delete)
		r.Patch("/{id}/status", th.UpdateStatus)
		r.Post("/{id}/send-reminder", th.SendReminder)
	})
	return r
}

func request(method, target, body string, p *shared.Principal) *http.Request {
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if p != nil {
		req = req.WithContext(shared.WithPrincipal(req.Context(), p))
	}
	return req
}

func serve(t *testing.T, h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

var (
	admin    = &shared.Principal{EmployeeID: 1, Role: domain.RoleAdmin, Email: "ada@example.com"}
	manager  = &shared.Principal{EmployeeID: 3, Role: domain.RoleManager, Email: "alan@example.com"}
	employee = &shared.Principal{EmployeeID: 2, Role: domain.RoleEmployee, Email: "grace@example.com"}
)
