package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/phrazzld/workforce-api/internal/api/shared"
	"github.com/phrazzld/workforce-api/internal/domain"
	"github.com/phrazzld/workforce-api/internal/platform/logger"
	"github.com/phrazzld/workforce-api/internal/service"
)

// TaskHandler serves /api/Tasks.
type TaskHandler struct {
	tasks  service.TaskService
	logger *slog.Logger
}

// NewTaskHandler creates a TaskHandler.
func NewTaskHandler(tasks service.TaskService, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for TaskHandler")
	}
	return &TaskHandler{
		tasks:  tasks,
		logger: logger.With(slog.String("component", "task_handler")),
	}
}

// List handles GET /api/Tasks.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	writeResponse(w, r, http.StatusOK, h.tasks.GetAll(r.Context()))
}

// Get handles GET /api/Tasks/{id}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	writeResponse(w, r, http.StatusOK, h.tasks.GetByID(r.Context(), id))
}

// Create handles POST /api/Tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req TaskRequest
	if !decodeBody(w, r, &req) {
		return
	}
	resp := h.tasks.Create(r.Context(), req.DTO())
	if resp.Success {
		h.logger.Info("task created", "task_id", resp.Data.TaskID)
	}
	writeResponse(w, r, http.StatusCreated, resp)
}

// Update handles PUT /api/Tasks/{id}.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req TaskRequest
	if !decodeBody(w, r, &req) {
		return
	}
	writeResponse(w, r, http.StatusNoContent, h.tasks.Update(r.Context(), id, req.DTO()))
}

// Delete handles DELETE /api/Tasks/{id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	writeResponse(w, r, http.StatusNoContent, h.tasks.Delete(r.Context(), id))
}

// UpdateStatus handles PATCH /api/Tasks/{id}/status. Employees may only
// move tasks they are assigned to or review; managers and admins may move
// any task.
func (h *TaskHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	p, ok := principal(w, r)
	if !ok {
		return
	}

	if !p.Role.CanManageTasks() {
		can := h.tasks.CanEmployeeModifyTask(r.Context(), p.EmployeeID, id)
		if !can.Success {
			writeFailure(w, r, can.Outcome, can.Message)
			return
		}
		if !can.Data {
			logger.FromContext(r.Context()).Info("status change refused", "task_id", id)
			writeFailure(w, r, service.OutcomeForbidden, service.MsgNotTaskParticipant)
			return
		}
	}

	var req StatusRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			shared.RespondWithError(w, r, http.StatusBadRequest, ve.Message)
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	writeResponse(w, r, http.StatusNoContent, h.tasks.UpdateStatus(r.Context(), id, req.Status))
}

// SendReminder handles POST /api/Tasks/{id}/send-reminder.
func (h *TaskHandler) SendReminder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	writeResponse(w, r, http.StatusOK, h.tasks.SendReminder(r.Context(), id))
}
