package store

import (
	"context"

	"github.com/phrazzld/workforce-api/internal/domain"
	"gorm.io/gorm"
)

// TaskStore defines the interface for task persistence.
type TaskStore interface {
	// GetByID retrieves a task with its assignee and reviewer loaded.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Task, error)

	// GetAll returns every task ordered by ID, with navigation loaded.
	GetAll(ctx context.Context) ([]*domain.Task, error)

	// GetByAssignee returns the tasks assigned to the given employee.
	GetByAssignee(ctx context.Context, employeeID int64) ([]*domain.Task, error)

	// GetIDsByEmployee returns the IDs of tasks where the employee is assignee
	// or reviewer.
	GetIDsByEmployee(ctx context.Context, employeeID int64) ([]int64, error)

	// Create inserts the task and returns the persisted row, reloaded so
	// generated values and navigation are populated.
	// Returns ErrInvalidEntity when a referenced employee does not exist.
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)

	// UpdateScalarFields writes title, description, status, assignee,
	// reviewer, dates and status change time. The row must still carry
	// task.Version; on success task.Version is incremented.
	// Returns ErrTaskNotFound or ErrVersionConflict.
	UpdateScalarFields(ctx context.Context, task *domain.Task) error

	// UpdateStatus writes only status and status change time, with the same
	// version check as UpdateScalarFields.
	UpdateStatus(ctx context.Context, task *domain.Task) error

	// Delete removes the task.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id int64) error

	// ExistsByID reports whether a task with the given ID exists.
	ExistsByID(ctx context.Context, id int64) (bool, error)

	// WithTx returns a store bound to the given transaction.
	WithTx(tx *gorm.DB) TaskStore
}
