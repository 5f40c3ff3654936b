package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/phrazzld/workforce-api/internal/api/shared"
	"github.com/phrazzld/workforce-api/internal/domain"
	"github.com/phrazzld/workforce-api/internal/mapper"
	"github.com/phrazzld/workforce-api/internal/mocks"
	"github.com/phrazzld/workforce-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskHandler_List(t *testing.T) {
	t.Parallel()

	tasks := &mocks.MockTaskService{
		GetAllFn: func(context.Context) service.Response[[]*mapper.TaskDTO] {
			return service.OK([]*mapper.TaskDTO{}, "Tasks retrieved successfully")
		},
	}
	rec := serve(t, newTestRouter(&mocks.MockEmployeeService{}, tasks),
		request(http.MethodGet, "/api/Tasks", "", employee))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"message":"Tasks retrieved successfully","data":[]}`, rec.Body.String())
}

func TestTaskHandler_Create(t *testing.T) {
	t.Parallel()

	var got *mapper.TaskDTO
	tasks := &mocks.MockTaskService{
		CreateFn: func(_ context.Context, dto *mapper.TaskDTO) service.Response[*mapper.TaskDTO] {
			got = dto
			out := *dto
			out.TaskID = 14
			return service.OK(&out, "Task created successfully")
		},
	}
	router := newTestRouter(&mocks.MockEmployeeService{}, tasks)

	rec := serve(t, router, request(http.MethodPost, "/api/Tasks",
		`{"title":"Ship release","assignedEmployeeId":2,"reviewerId":3,"startDate":"2025-03-11T09:00:00","deadlineDate":"2025-03-12T17:00:00+01:00"}`,
		manager))

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, "Ship release", got.Title)
	assert.Equal(t, time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC), *got.StartDate)
	assert.Equal(t, time.Date(2025, 3, 12, 16, 0, 0, 0, time.UTC), *got.DeadlineDate)
	assert.Contains(t, rec.Body.String(), `"taskId":14`)
}

func TestTaskHandler_CreateRejectsBadDates(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&mocks.MockEmployeeService{}, &mocks.MockTaskService{})

	rec := serve(t, router, request(http.MethodPost, "/api/Tasks", `{"title":"x","startDate":"tomorrow"}`, manager))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid request body")
}

func TestTaskHandler_Update(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		resp       service.Response[*mapper.TaskDTO]
		wantStatus int
	}{
		{"updated", service.OK(&mapper.TaskDTO{TaskID: 10}, "Task updated successfully"), http.StatusNoContent},
		{"validation", service.Fail[*mapper.TaskDTO](service.OutcomeValidation, "Cannot modify deadline for completed tasks"), http.StatusBadRequest},
		{"stale", service.Fail[*mapper.TaskDTO](service.OutcomeStale, service.MsgVersionConflict), http.StatusConflict},
		{"missing", service.NotFound[*mapper.TaskDTO]("Task with ID %d not found", 10), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks := &mocks.MockTaskService{
				UpdateFn: func(_ context.Context, id int64, dto *mapper.TaskDTO) service.Response[*mapper.TaskDTO] {
					assert.Equal(t, int64(10), id)
					assert.Equal(t, 2, dto.Version)
					return tt.resp
				},
			}
			rec := serve(t, newTestRouter(&mocks.MockEmployeeService{}, tasks),
				request(http.MethodPut, "/api/Tasks/10", `{"taskId":10,"title":"Write report","version":2}`, admin))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusNoContent {
				assert.Empty(t, rec.Body.String())
			} else {
				assert.Contains(t, rec.Body.String(), tt.resp.Message)
			}
		})
	}
}

func TestTaskHandler_Delete(t *testing.T) {
	t.Parallel()

	tasks := &mocks.MockTaskService{
		DeleteFn: func(_ context.Context, id int64) service.Response[bool] {
			return service.OK(true, "Task deleted successfully")
		},
	}
	rec := serve(t, newTestRouter(&mocks.MockEmployeeService{}, tasks),
		request(http.MethodDelete, "/api/Tasks/10", "", manager))

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestTaskHandler_UpdateStatus(t *testing.T) {
	t.Parallel()

	newTasks := func(canModify bool, moved *domain.TaskStatus) *mocks.MockTaskService {
		return &mocks.MockTaskService{
			CanEmployeeModifyTaskFn: func(_ context.Context, employeeID, taskID int64) service.Response[bool] {
				if taskID == 999 {
					return service.NotFound[bool]("Task with ID %d not found", taskID)
				}
				return service.OK(canModify, "")
			},
			UpdateStatusFn: func(_ context.Context, id int64, status domain.TaskStatus) service.Response[*mapper.TaskDTO] {
				if !status.Valid() {
					return service.Fail[*mapper.TaskDTO](service.OutcomeValidation, "Status must be between 0 and 3.")
				}
				*moved = status
				return service.OK(&mapper.TaskDTO{TaskID: id, Status: int(status)}, "Task status updated successfully")
			},
		}
	}

	tests := []struct {
		name       string
		principal  *shared.Principal
		canModify  bool
		target     string
		body       string
		wantStatus int
		wantMoved  domain.TaskStatus
		wantBody   string
	}{
		{name: "assignee moves own task", principal: employee, canModify: true, target: "/api/Tasks/10/status", body: `2`, wantStatus: http.StatusNoContent, wantMoved: domain.TaskStatusPending},
		{name: "status by name", principal: employee, canModify: true, target: "/api/Tasks/10/status", body: `"Working"`, wantStatus: http.StatusNoContent, wantMoved: domain.TaskStatusWorking},
		{name: "object body", principal: employee, canModify: true, target: "/api/Tasks/10/status", body: `{"status":3}`, wantStatus: http.StatusNoContent, wantMoved: domain.TaskStatusCompleted},
		{name: "outsider employee", principal: employee, canModify: false, target: "/api/Tasks/10/status", body: `2`, wantStatus: http.StatusForbidden, wantBody: service.MsgNotTaskParticipant},
		{name: "manager skips participant check", principal: manager, canModify: false, target: "/api/Tasks/10/status", body: `1`, wantStatus: http.StatusNoContent, wantMoved: domain.TaskStatusWorking},
		{name: "unknown task", principal: employee, target: "/api/Tasks/999/status", body: `1`, wantStatus: http.StatusNotFound},
		{name: "unknown status name", principal: admin, target: "/api/Tasks/10/status", body: `"Blocked"`, wantStatus: http.StatusBadRequest, wantBody: "Status must be between 0 and 3."},
		{name: "out of range number", principal: admin, target: "/api/Tasks/10/status", body: `7`, wantStatus: http.StatusBadRequest, wantBody: "Status must be between 0 and 3."},
		{name: "anonymous", principal: nil, target: "/api/Tasks/10/status", body: `1`, wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			moved := domain.TaskStatus(-1)
			tasks := newTasks(tt.canModify, &moved)

			rec := serve(t, newTestRouter(&mocks.MockEmployeeService{}, tasks),
				request(http.MethodPatch, tt.target, tt.body, tt.principal))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusNoContent {
				assert.Equal(t, tt.wantMoved, moved)
			} else {
				assert.Equal(t, domain.TaskStatus(-1), moved, "status must not change")
			}
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestTaskHandler_SendReminder(t *testing.T) {
	t.Parallel()

	tasks := &mocks.MockTaskService{
		SendReminderFn: func(_ context.Context, id int64) service.Response[bool] {
			if id == 11 {
				return service.Fail[bool](service.OutcomeValidation, service.MsgTaskNotOverdue)
			}
			return service.OK(true, "Reminder sent successfully")
		},
	}
	router := newTestRouter(&mocks.MockEmployeeService{}, tasks)

	rec := serve(t, router, request(http.MethodPost, "/api/Tasks/13/send-reminder", "", manager))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"message":"Reminder sent successfully","data":true}`, rec.Body.String())

	rec = serve(t, router, request(http.MethodPost, "/api/Tasks/11/send-reminder", "", manager))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), service.MsgTaskNotOverdue)
}
