package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/workforce-api/internal/mapper"
	"github.com/phrazzld/workforce-api/internal/service"
)

// EmployeeHandler serves /api/employees.
type EmployeeHandler struct {
	employees service.EmployeeService
	tasks     service.TaskService
	logger    *slog.Logger
}

// NewEmployeeHandler creates an EmployeeHandler.
func NewEmployeeHandler(
	employees service.EmployeeService,
	tasks service.TaskService,
	logger *slog.Logger,
) *EmployeeHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for EmployeeHandler")
	}
	return &EmployeeHandler{
		employees: employees,
		tasks:     tasks,
		logger:    logger.With(slog.String("component", "employee_handler")),
	}
}

// List handles GET /api/employees.
func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	writeResponse(w, r, http.StatusOK, h.employees.GetAll(r.Context()))
}

// Get handles GET /api/employees/{id}.
func (h *EmployeeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	writeResponse(w, r, http.StatusOK, h.employees.GetByID(r.Context(), id))
}

// Create handles POST /api/employees.
func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var dto mapper.EmployeeDTO
	if !decodeBody(w, r, &dto) {
		return
	}
	resp := h.employees.Create(r.Context(), &dto)
	if resp.Success {
		h.logger.Info("employee created", "employee_id", resp.Data.ID)
	}
	writeResponse(w, r, http.StatusCreated, resp)
}

// Update handles PUT /api/employees/{id}.
func (h *EmployeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var dto mapper.EmployeeDTO
	if !decodeBody(w, r, &dto) {
		return
	}
	writeResponse(w, r, http.StatusOK, h.employees.Update(r.Context(), id, &dto))
}

// Delete handles DELETE /api/employees/{id}.
func (h *EmployeeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	resp := h.employees.Delete(r.Context(), id)
	if resp.Success {
		h.logger.Info("employee deleted", "employee_id", id)
	}
	writeResponse(w, r, http.StatusNoContent, resp)
}

// Tasks handles GET /api/employees/{id}/tasks.
func (h *EmployeeHandler) Tasks(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	writeResponse(w, r, http.StatusOK, h.tasks.GetTasksByEmployee(r.Context(), id))
}
