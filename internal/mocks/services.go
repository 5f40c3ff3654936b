package mocks

import (
	"context"

	"github.com/phrazzld/workforce-api/internal/domain"
	"github.com/phrazzld/workforce-api/internal/mapper"
	"github.com/phrazzld/workforce-api/internal/service"
)

// MockTaskService implements service.TaskService for handler tests. Methods
// without a function field return a failed response.
type MockTaskService struct {
	CreateFn                func(ctx context.Context, dto *mapper.TaskDTO) service.Response[*mapper.TaskDTO]
	UpdateFn                func(ctx context.Context, id int64, dto *mapper.TaskDTO) service.Response[*mapper.TaskDTO]
	UpdateStatusFn          func(ctx context.Context, id int64, status domain.TaskStatus) service.Response[*mapper.TaskDTO]
	DeleteFn                func(ctx context.Context, id int64) service.Response[bool]
	GetByIDFn               func(ctx context.Context, id int64) service.Response[*mapper.TaskDTO]
	GetAllFn                func(ctx context.Context) service.Response[[]*mapper.TaskDTO]
	GetTasksByEmployeeFn    func(ctx context.Context, employeeID int64) service.Response[[]*mapper.TaskDTO]
	CanEmployeeModifyTaskFn func(ctx context.Context, employeeID, taskID int64) service.Response[bool]
	SendReminderFn          func(ctx context.Context, taskID int64) service.Response[bool]
}

var _ service.TaskService = (*MockTaskService)(nil)

const unconfigured = "mock method not configured"

// Create implements service.TaskService
func (m *MockTaskService) Create(ctx context.Context, dto *mapper.TaskDTO) service.Response[*mapper.TaskDTO] {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, dto)
	}
	return service.Fail[*mapper.TaskDTO](service.OutcomeFailure, unconfigured)
}

// Update implements service.TaskService
func (m *MockTaskService) Update(ctx context.Context, id int64, dto *mapper.TaskDTO) service.Response[*mapper.TaskDTO] {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, id, dto)
	}
	return service.Fail[*mapper.TaskDTO](service.OutcomeFailure, unconfigured)
}

// UpdateStatus implements service.TaskService
func (m *MockTaskService) UpdateStatus(ctx context.Context, id int64, status domain.TaskStatus) service.Response[*mapper.TaskDTO] {
	if m.UpdateStatusFn != nil {
		return m.UpdateStatusFn(ctx, id, status)
	}
	return service.Fail[*mapper.TaskDTO](service.OutcomeFailure, unconfigured)
}

// Delete implements service.TaskService
func (m *MockTaskService) Delete(ctx context.Context, id int64) service.Response[bool] {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return service.Fail[bool](service.OutcomeFailure, unconfigured)
}

// GetByID implements service.TaskService
func (m *MockTaskService) GetByID(ctx context.Context, id int64) service.Response[*mapper.TaskDTO] {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return service.Fail[*mapper.TaskDTO](service.OutcomeFailure, unconfigured)
}

// GetAll implements service.TaskService
func (m *MockTaskService) GetAll(ctx context.Context) service.Response[[]*mapper.TaskDTO] {
	if m.GetAllFn != nil {
		return m.GetAllFn(ctx)
	}
	return service.Fail[[]*mapper.TaskDTO](service.OutcomeFailure, unconfigured)
}

// GetTasksByEmployee implements service.TaskService
func (m *MockTaskService) GetTasksByEmployee(ctx context.Context, employeeID int64) service.Response[[]*mapper.TaskDTO] {
	if m.GetTasksByEmployeeFn != nil {
		return m.GetTasksByEmployeeFn(ctx, employeeID)
	}
	return service.Fail[[]*mapper.TaskDTO](service.OutcomeFailure, unconfigured)
}

// CanEmployeeModifyTask implements service.TaskService
func (m *MockTaskService) CanEmployeeModifyTask(ctx context.Context, employeeID, taskID int64) service.Response[bool] {
	if m.CanEmployeeModifyTaskFn != nil {
		return m.CanEmployeeModifyTaskFn(ctx, employeeID, taskID)
	}
	return service.Fail[bool](service.OutcomeFailure, unconfigured)
}

// SendReminder implements service.TaskService
func (m *MockTaskService) SendReminder(ctx context.Context, taskID int64) service.Response[bool] {
	if m.SendReminderFn != nil {
		return m.SendReminderFn(ctx, taskID)
	}
	return service.Fail[bool](service.OutcomeFailure, unconfigured)
}

// MockEmployeeService implements service.EmployeeService for handler tests.
type MockEmployeeService struct {
	GetAllFn       func(ctx context.Context) service.Response[[]*mapper.EmployeeDTO]
	GetByIDFn      func(ctx context.Context, id int64) service.Response[*mapper.EmployeeDTO]
	CreateFn       func(ctx context.Context, dto *mapper.EmployeeDTO) service.Response[*mapper.EmployeeDTO]
	UpdateFn       func(ctx context.Context, id int64, dto *mapper.EmployeeDTO) service.Response[*mapper.EmployeeDTO]
	DeleteFn       func(ctx context.Context, id int64) service.Response[bool]
	AuthenticateFn func(ctx context.Context, email, password string) service.Response[*mapper.EmployeeDTO]
	DisplayNameFn  func(ctx context.Context, id int64) (string, bool)
	EnsureAdminFn  func(ctx context.Context, email, password string) error
}

var _ service.EmployeeService = (*MockEmployeeService)(nil)

// GetAll implements service.EmployeeService
func (m *MockEmployeeService) GetAll(ctx context.Context) service.Response[[]*mapper.EmployeeDTO] {
	if m.GetAllFn != nil {
		return m.GetAllFn(ctx)
	}
	return service.Fail[[]*mapper.EmployeeDTO](service.OutcomeFailure, unconfigured)
}

// GetByID implements service.EmployeeService
func (m *MockEmployeeService) GetByID(ctx context.Context, id int64) service.Response[*mapper.EmployeeDTO] {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return service.Fail[*mapper.EmployeeDTO](service.OutcomeFailure, unconfigured)
}

// Create implements service.EmployeeService
func (m *MockEmployeeService) Create(ctx context.Context, dto *mapper.EmployeeDTO) service.Response[*mapper.EmployeeDTO] {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, dto)
	}
	return service.Fail[*mapper.EmployeeDTO](service.OutcomeFailure, unconfigured)
}

// Update implements service.EmployeeService
func (m *MockEmployeeService) Update(ctx context.Context, id int64, dto *mapper.EmployeeDTO) service.Response[*mapper.EmployeeDTO] {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, id, dto)
	}
	return service.Fail[*mapper.EmployeeDTO](service.OutcomeFailure, unconfigured)
}

// Delete implements service.EmployeeService
func (m *MockEmployeeService) Delete(ctx context.Context, id int64) service.Response[bool] {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return service.Fail[bool](service.OutcomeFailure, unconfigured)
}

// Authenticate implements service.EmployeeService
func (m *MockEmployeeService) Authenticate(ctx context.Context, email, password string) service.Response[*mapper.EmployeeDTO] {
	if m.AuthenticateFn != nil {
		return m.AuthenticateFn(ctx, email, password)
	}
	return service.Fail[*mapper.EmployeeDTO](service.OutcomeUnauthorized, service.MsgInvalidCredentials)
}

// DisplayName implements service.EmployeeService
func (m *MockEmployeeService) DisplayName(ctx context.Context, id int64) (string, bool) {
	if m.DisplayNameFn != nil {
		return m.DisplayNameFn(ctx, id)
	}
	return "", false
}

// EnsureAdmin implements service.EmployeeService
func (m *MockEmployeeService) EnsureAdmin(ctx context.Context, email, password string) error {
	if m.EnsureAdminFn != nil {
		return m.EnsureAdminFn(ctx, email, password)
	}
	return nil
}
