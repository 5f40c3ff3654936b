package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/phrazzld/workforce-api/internal/cache"
	"github.com/phrazzld/workforce-api/internal/domain"
	"github.com/phrazzld/workforce-api/internal/mapper"
	"github.com/phrazzld/workforce-api/internal/notify"
	"github.com/phrazzld/workforce-api/internal/redact"
	"github.com/phrazzld/workforce-api/internal/store"
	"gorm.io/gorm"
)

// TaskService provides the task use cases.
type TaskService interface {
	// Create applies defaults, validates and stores a new task.
	Create(ctx context.Context, dto *mapper.TaskDTO) Response[*mapper.TaskDTO]

	// Update overwrites the task's scalar fields. The start date is frozen
	// once work began and the deadline once the task is completed; a status
	// change must follow the lifecycle.
	Update(ctx context.Context, id int64, dto *mapper.TaskDTO) Response[*mapper.TaskDTO]

	// UpdateStatus moves the task to status.
	UpdateStatus(ctx context.Context, id int64, status domain.TaskStatus) Response[*mapper.TaskDTO]

	// Delete removes the task.
	Delete(ctx context.Context, id int64) Response[bool]

	// GetByID returns one task with derived fields and names.
	GetByID(ctx context.Context, id int64) Response[*mapper.TaskDTO]

	// GetAll returns every task.
	GetAll(ctx context.Context) Response[[]*mapper.TaskDTO]

	// GetTasksByEmployee returns the tasks assigned to the employee. It
	// fails with NotFound when the employee does not exist.
	GetTasksByEmployee(ctx context.Context, employeeID int64) Response[[]*mapper.TaskDTO]

	// CanEmployeeModifyTask reports whether the employee is the task's
	// assignee or reviewer and the task is not completed.
	CanEmployeeModifyTask(ctx context.Context, employeeID, taskID int64) Response[bool]

	// SendReminder notifies the assignee of an overdue task.
	SendReminder(ctx context.Context, taskID int64) Response[bool]
}

// TaskServiceOption configures a TaskServiceImpl.
type TaskServiceOption func(*TaskServiceImpl)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) TaskServiceOption {
	return func(s *TaskServiceImpl) {
		s.now = now
	}
}

// TaskServiceImpl implements TaskService.
type TaskServiceImpl struct {
	db        *gorm.DB
	tasks     store.TaskStore
	employees store.EmployeeStore
	people    EmployeeService
	cache     *cache.TaskCache
	notifier  notify.Notifier
	now       func() time.Time
	logger    *slog.Logger
}

var _ TaskService = (*TaskServiceImpl)(nil)

// NewTaskService creates a TaskService. people resolves assignee and
// reviewer names through the employee cache.
func NewTaskService(
	db *gorm.DB,
	tasks store.TaskStore,
	employees store.EmployeeStore,
	people EmployeeService,
	taskCache *cache.TaskCache,
	notifier notify.Notifier,
	logger *slog.Logger,
	opts ...TaskServiceOption,
) *TaskServiceImpl {
	s := &TaskServiceImpl{
		db:        db,
		tasks:     tasks,
		employees: employees,
		people:    people,
		cache:     taskCache,
		notifier:  notifier,
		now:       time.Now,
		logger:    logger.With("component", "task_service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *TaskServiceImpl) clock() time.Time {
	return s.now().UTC()
}

// Create stores a new task.
func (s *TaskServiceImpl) Create(ctx context.Context, dto *mapper.TaskDTO) Response[*mapper.TaskDTO] {
	if dto == nil {
		return Fail[*mapper.TaskDTO](OutcomeValidation, MsgTaskRequired)
	}
	now := s.clock()

	task := mapper.TaskFromDTOForCreate(dto, now)
	if err := task.Validate(); err != nil {
		return fromError[*mapper.TaskDTO](ctx, s.logger, "creating task", err)
	}
	task.MarkStatusChanged(now)

	var created *domain.Task
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *gorm.DB) error {
		if err := s.verifyEmployees(ctx, s.employees.WithTx(tx), task); err != nil {
			return err
		}
		var err error
		created, err = s.tasks.WithTx(tx).Create(ctx, task)
		return err
	})
	if err != nil {
		if errors.Is(err, store.ErrInvalidEntity) {
			err = domain.ErrUnknownTaskEmployees
		}
		return fromError[*mapper.TaskDTO](ctx, s.logger, "creating task", err)
	}

	s.cache.Put(ctx, created)
	s.cache.InvalidateAll(ctx)

	s.logger.InfoContext(ctx, "task created",
		"task_id", created.ID,
		"assignee_id", created.AssignedEmployeeID)

	return OK(s.toDTO(ctx, created, now), "Task created successfully")
}

// verifyEmployees fails with a validation error when the assignee or the
// reviewer does not exist.
func (s *TaskServiceImpl) verifyEmployees(ctx context.Context, employees store.EmployeeStore, task *domain.Task) error {
	for _, id := range []int64{task.AssignedEmployeeID, task.ReviewerID} {
		exists, err := employees.ExistsByID(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return domain.ErrUnknownTaskEmployees
		}
	}
	return nil
}

// Update overwrites a task's scalar fields.
func (s *TaskServiceImpl) Update(ctx context.Context, id int64, dto *mapper.TaskDTO) Response[*mapper.TaskDTO] {
	if dto == nil {
		return Fail[*mapper.TaskDTO](OutcomeValidation, MsgTaskRequired)
	}
	if dto.TaskID != 0 && dto.TaskID != id {
		return Fail[*mapper.TaskDTO](OutcomeValidation, MsgTaskIDMismatch)
	}
	now := s.clock()

	task := mapper.TaskFromDTOForUpdate(dto)
	task.ID = id
	if err := domain.ValidateDates(task.StartDate, task.DeadlineDate); err != nil {
		return fromError[*mapper.TaskDTO](ctx, s.logger, "updating task", err)
	}

	existing, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return NotFound[*mapper.TaskDTO](msgTaskNotFound, id)
		}
		return fromError[*mapper.TaskDTO](ctx, s.logger, "updating task", err)
	}

	if err := domain.ValidateImmutability(existing, task.StartDate, task.DeadlineDate); err != nil {
		return fromError[*mapper.TaskDTO](ctx, s.logger, "updating task", err)
	}
	if err := task.Validate(); err != nil {
		return fromError[*mapper.TaskDTO](ctx, s.logger, "updating task", err)
	}

	if task.Status != existing.Status {
		if err := domain.ValidateTransition(existing.Status, task.Status); err != nil {
			return fromError[*mapper.TaskDTO](ctx, s.logger, "updating task", err)
		}
		task.MarkStatusChanged(now)
	} else {
		task.StatusChangedAt = existing.StatusChangedAt
	}
	if task.Version == 0 {
		task.Version = existing.Version
	}
	task.CreatedAt = existing.CreatedAt

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *gorm.DB) error {
		if err := s.verifyEmployees(ctx, s.employees.WithTx(tx), task); err != nil {
			return err
		}
		return s.tasks.WithTx(tx).UpdateScalarFields(ctx, task)
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrTaskNotFound):
			return NotFound[*mapper.TaskDTO](msgTaskNotFound, id)
		case errors.Is(err, store.ErrInvalidEntity):
			err = domain.ErrUnknownTaskEmployees
		}
		return fromError[*mapper.TaskDTO](ctx, s.logger, "updating task", err)
	}

	s.cache.Invalidate(ctx, id)

	s.logger.InfoContext(ctx, "task updated",
		"task_id", id,
		"status", task.Status,
		"version", task.Version)

	return OK(s.toDTO(ctx, task, now), "Task updated successfully")
}

// UpdateStatus moves a task along the lifecycle.
func (s *TaskServiceImpl) UpdateStatus(ctx context.Context, id int64, status domain.TaskStatus) Response[*mapper.TaskDTO] {
	now := s.clock()

	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return NotFound[*mapper.TaskDTO](msgTaskNotFound, id)
		}
		return fromError[*mapper.TaskDTO](ctx, s.logger, "updating task status", err)
	}

	from := task.Status
	if err := task.TransitionTo(status, now); err != nil {
		return fromError[*mapper.TaskDTO](ctx, s.logger, "updating task status", err)
	}

	if err := s.tasks.UpdateStatus(ctx, task); err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return NotFound[*mapper.TaskDTO](msgTaskNotFound, id)
		}
		return fromError[*mapper.TaskDTO](ctx, s.logger, "updating task status", err)
	}

	s.cache.Invalidate(ctx, id)

	s.logger.InfoContext(ctx, "task status changed",
		"task_id", id,
		"from", from,
		"to", status)

	return OK(s.toDTO(ctx, task, now), "Task status updated successfully")
}

// Delete removes a task.
func (s *TaskServiceImpl) Delete(ctx context.Context, id int64) Response[bool] {
	if err := s.tasks.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return NotFound[bool](msgTaskNotFound, id)
		}
		return fromError[bool](ctx, s.logger, "deleting task", err)
	}

	s.cache.Invalidate(ctx, id)
	s.cache.InvalidateAll(ctx)

	s.logger.InfoContext(ctx, "task deleted", "task_id", id)
	return OK(true, "Task deleted successfully")
}

// GetByID returns one task.
func (s *TaskServiceImpl) GetByID(ctx context.Context, id int64) Response[*mapper.TaskDTO] {
	task, err := s.lookup(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return NotFound[*mapper.TaskDTO](msgTaskNotFound, id)
		}
		return fromError[*mapper.TaskDTO](ctx, s.logger, "retrieving task", err)
	}
	return OK(s.toDTO(ctx, task, s.clock()), "Task retrieved successfully")
}

// lookup is the cache-aside read of a single task.
func (s *TaskServiceImpl) lookup(ctx context.Context, id int64) (*domain.Task, error) {
	if cached, ok := s.cache.Get(ctx, id); ok {
		return cached, nil
	}

	gen := s.cache.Generation()
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.PutIf(ctx, gen, task)
	return task, nil
}

// GetAll returns every task.
func (s *TaskServiceImpl) GetAll(ctx context.Context) Response[[]*mapper.TaskDTO] {
	tasks, ok := s.cache.GetAll(ctx)
	if !ok {
		gen := s.cache.Generation()
		var err error
		tasks, err = s.tasks.GetAll(ctx)
		if err != nil {
			return fromError[[]*mapper.TaskDTO](ctx, s.logger, "retrieving tasks", err)
		}
		s.cache.PutAllIf(ctx, gen, tasks)
	}

	return OK(s.toDTOs(ctx, tasks, s.clock()), "Tasks retrieved successfully")
}

// GetTasksByEmployee returns the employee's assigned tasks. A complete
// cached listing is filtered in memory; otherwise the store is queried by
// assignee.
func (s *TaskServiceImpl) GetTasksByEmployee(ctx context.Context, employeeID int64) Response[[]*mapper.TaskDTO] {
	if _, ok := s.people.DisplayName(ctx, employeeID); !ok {
		exists, err := s.employees.ExistsByID(ctx, employeeID)
		if err != nil {
			return fromError[[]*mapper.TaskDTO](ctx, s.logger, "retrieving tasks", err)
		}
		if !exists {
			return NotFound[[]*mapper.TaskDTO](msgEmployeeNotFound, employeeID)
		}
	}

	var assigned []*domain.Task
	if all, ok := s.cache.GetAll(ctx); ok {
		for _, t := range all {
			if t.AssignedEmployeeID == employeeID {
				assigned = append(assigned, t)
			}
		}
	} else {
		var err error
		assigned, err = s.tasks.GetByAssignee(ctx, employeeID)
		if err != nil {
			return fromError[[]*mapper.TaskDTO](ctx, s.logger, "retrieving tasks", err)
		}
	}

	return OK(s.toDTOs(ctx, assigned, s.clock()), "Tasks retrieved successfully")
}

// CanEmployeeModifyTask implements TaskService.
func (s *TaskServiceImpl) CanEmployeeModifyTask(ctx context.Context, employeeID, taskID int64) Response[bool] {
	task, err := s.lookup(ctx, taskID)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return NotFound[bool](msgTaskNotFound, taskID)
		}
		return fromError[bool](ctx, s.logger, "checking task modification permissions", err)
	}

	participant := task.AssignedEmployeeID == employeeID || task.ReviewerID == employeeID
	return OK(participant && task.Status != domain.TaskStatusCompleted, "")
}

// SendReminder notifies the assignee of an overdue task. A task within
// domain.ReminderGrace of its deadline already counts as overdue.
func (s *TaskServiceImpl) SendReminder(ctx context.Context, taskID int64) Response[bool] {
	now := s.clock()

	task, err := s.lookup(ctx, taskID)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return NotFound[bool](msgTaskNotFound, taskID)
		}
		return fromError[bool](ctx, s.logger, "sending reminder", err)
	}

	if !task.IsOverdueWithGrace(now, domain.ReminderGrace) {
		return Fail[bool](OutcomeValidation, MsgTaskNotOverdue)
	}

	assignee := s.people.GetByID(ctx, task.AssignedEmployeeID)
	if !assignee.Success {
		if assignee.Outcome == OutcomeNotFound {
			return NotFound[bool](msgEmployeeNotFound, task.AssignedEmployeeID)
		}
		return Fail[bool](assignee.Outcome, assignee.Message)
	}

	err = s.notifier.SendReminder(ctx, notify.Reminder{
		To:        assignee.Data.Email,
		TaskID:    task.ID,
		TaskTitle: task.Title,
		Deadline:  task.DeadlineDate,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to send reminder",
			"task_id", task.ID,
			"error", redact.Error(err))
		return Fail[bool](OutcomeFailure, "Failed to send reminder email.")
	}

	s.logger.InfoContext(ctx, "reminder sent",
		"task_id", task.ID,
		"to", redact.Email(assignee.Data.Email))
	return OK(true, "Reminder sent successfully")
}

// toDTO maps the task and fills in assignee and reviewer names that the
// mapper could not take from loaded navigation.
func (s *TaskServiceImpl) toDTO(ctx context.Context, task *domain.Task, now time.Time) *mapper.TaskDTO {
	dto := mapper.TaskToDTO(task, now)
	if dto.AssignedEmployeeName == "" {
		dto.AssignedEmployeeName, _ = s.people.DisplayName(ctx, dto.AssignedEmployeeID)
	}
	if dto.ReviewerName == "" {
		dto.ReviewerName, _ = s.people.DisplayName(ctx, dto.ReviewerID)
	}
	return dto
}

func (s *TaskServiceImpl) toDTOs(ctx context.Context, tasks []*domain.Task, now time.Time) []*mapper.TaskDTO {
	out := make([]*mapper.TaskDTO, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, s.toDTO(ctx, t, now))
	}
	return out
}
