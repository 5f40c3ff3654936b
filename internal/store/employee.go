package store

import (
	"context"

	"github.com/phrazzld/workforce-api/internal/domain"
	"gorm.io/gorm"
)

// EmployeeStore defines the interface for employee persistence.
type EmployeeStore interface {
	// GetByID retrieves an employee by ID.
	// Returns ErrEmployeeNotFound if the employee does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Employee, error)

	// GetByEmail retrieves an employee by exact, case-sensitive email match.
	// Returns ErrEmployeeNotFound if no employee has that email.
	GetByEmail(ctx context.Context, email string) (*domain.Employee, error)

	// GetAll returns every employee ordered by ID.
	GetAll(ctx context.Context) ([]*domain.Employee, error)

	// Create inserts the employee and sets its generated ID.
	// PasswordHash must already be populated.
	// Returns ErrEmailExists if the email is taken.
	Create(ctx context.Context, employee *domain.Employee) error

	// Update overwrites the employee's scalar fields including PasswordHash.
	// Returns ErrEmployeeNotFound if the employee does not exist.
	Update(ctx context.Context, employee *domain.Employee) error

	// Delete removes the employee. Tasks referencing it are removed by the
	// schema's cascade.
	// Returns ErrEmployeeNotFound if the employee does not exist.
	Delete(ctx context.Context, id int64) error

	// ExistsByID reports whether an employee with the given ID exists.
	ExistsByID(ctx context.Context, id int64) (bool, error)

	// EmailExists reports whether another employee already uses email.
	// excludeID is ignored when zero.
	EmailExists(ctx context.Context, email string, excludeID int64) (bool, error)

	// WithTx returns a store bound to the given transaction.
	WithTx(tx *gorm.DB) EmployeeStore
}
