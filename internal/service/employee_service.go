package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/workforce-api/internal/cache"
	"github.com/phrazzld/workforce-api/internal/domain"
	"github.com/phrazzld/workforce-api/internal/mapper"
	"github.com/phrazzld/workforce-api/internal/redact"
	"github.com/phrazzld/workforce-api/internal/service/auth"
	"github.com/phrazzld/workforce-api/internal/store"
	"gorm.io/gorm"
)

// EmployeeService provides employee management and login.
type EmployeeService interface {
	// GetAll returns every employee.
	GetAll(ctx context.Context) Response[[]*mapper.EmployeeDTO]

	// GetByID returns one employee.
	GetByID(ctx context.Context, id int64) Response[*mapper.EmployeeDTO]

	// Create validates, hashes the password and stores a new employee.
	// The email must not be used by any other employee.
	Create(ctx context.Context, dto *mapper.EmployeeDTO) Response[*mapper.EmployeeDTO]

	// Update overwrites the employee's fields. An empty password keeps
	// the stored hash.
	Update(ctx context.Context, id int64, dto *mapper.EmployeeDTO) Response[*mapper.EmployeeDTO]

	// Delete removes the employee together with every task it is assigned
	// to or reviews.
	Delete(ctx context.Context, id int64) Response[bool]

	// Authenticate checks an email and password pair.
	Authenticate(ctx context.Context, email, password string) Response[*mapper.EmployeeDTO]

	// DisplayName returns the name shown on tasks for the employee, which is
	// the first name. ok is false when the employee does not exist.
	DisplayName(ctx context.Context, id int64) (name string, ok bool)

	// EnsureAdmin creates an Admin with the given credentials unless an
	// employee with that email already exists. An empty email is a no-op.
	EnsureAdmin(ctx context.Context, email, password string) error
}

// EmployeeServiceImpl implements EmployeeService.
type EmployeeServiceImpl struct {
	db        *gorm.DB
	employees store.EmployeeStore
	tasks     store.TaskStore
	cache     *cache.EmployeeCache
	taskCache *cache.TaskCache
	hasher    auth.PasswordHasher
	logger    *slog.Logger
}

var _ EmployeeService = (*EmployeeServiceImpl)(nil)

// NewEmployeeService creates an EmployeeService.
func NewEmployeeService(
	db *gorm.DB,
	employees store.EmployeeStore,
	tasks store.TaskStore,
	employeeCache *cache.EmployeeCache,
	taskCache *cache.TaskCache,
	hasher auth.PasswordHasher,
	logger *slog.Logger,
) *EmployeeServiceImpl {
	return &EmployeeServiceImpl{
		db:        db,
		employees: employees,
		tasks:     tasks,
		cache:     employeeCache,
		taskCache: taskCache,
		hasher:    hasher,
		logger:    logger.With("component", "employee_service"),
	}
}

// GetAll returns every employee, serving the listing from the cache when
// it is complete.
func (s *EmployeeServiceImpl) GetAll(ctx context.Context) Response[[]*mapper.EmployeeDTO] {
	if cached, ok := s.cache.GetAll(ctx); ok {
		return OK(mapper.EmployeesToDTO(cached), "Employees retrieved successfully")
	}

	gen := s.cache.Generation()
	employees, err := s.employees.GetAll(ctx)
	if err != nil {
		return fromError[[]*mapper.EmployeeDTO](ctx, s.logger, "retrieving employees", err)
	}
	s.cache.PutAllIf(ctx, gen, employees)

	return OK(mapper.EmployeesToDTO(employees), "Employees retrieved successfully")
}

// GetByID returns one employee.
func (s *EmployeeServiceImpl) GetByID(ctx context.Context, id int64) Response[*mapper.EmployeeDTO] {
	employee, err := s.lookup(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrEmployeeNotFound) {
			return NotFound[*mapper.EmployeeDTO](msgEmployeeNotFound, id)
		}
		return fromError[*mapper.EmployeeDTO](ctx, s.logger, "retrieving employee", err)
	}
	return OK(mapper.EmployeeToDTO(employee), "Employee retrieved successfully")
}

// lookup is the cache-aside read of a single employee. Cached employees
// never carry a password hash.
func (s *EmployeeServiceImpl) lookup(ctx context.Context, id int64) (*domain.Employee, error) {
	if cached, ok := s.cache.Get(ctx, id); ok {
		return cached, nil
	}

	gen := s.cache.Generation()
	employee, err := s.employees.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.PutIf(ctx, gen, employee)
	return employee, nil
}

// Create stores a new employee.
func (s *EmployeeServiceImpl) Create(ctx context.Context, dto *mapper.EmployeeDTO) Response[*mapper.EmployeeDTO] {
	if dto == nil {
		return Fail[*mapper.EmployeeDTO](OutcomeValidation, MsgEmployeeRequired)
	}

	employee, err := mapper.EmployeeFromDTO(dto)
	if err != nil {
		return fromError[*mapper.EmployeeDTO](ctx, s.logger, "creating employee", err)
	}
	employee.ID = 0
	if employee.Password == "" {
		return fromError[*mapper.EmployeeDTO](ctx, s.logger, "creating employee", domain.ErrEmptyPassword)
	}
	if err := employee.Validate(); err != nil {
		return fromError[*mapper.EmployeeDTO](ctx, s.logger, "creating employee", err)
	}

	if err := s.create(ctx, employee); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			s.logger.DebugContext(ctx, "attempted to create employee with existing email",
				"email", redact.Email(employee.Email))
		}
		return fromError[*mapper.EmployeeDTO](ctx, s.logger, "creating employee", err)
	}

	s.cache.Put(ctx, employee)
	s.cache.InvalidateAll(ctx)

	s.logger.InfoContext(ctx, "employee created",
		"employee_id", employee.ID,
		"role", employee.Role)

	return OK(mapper.EmployeeToDTO(employee), "Employee created successfully")
}

// create hashes the password and inserts the employee after checking the
// email inside the same transaction.
func (s *EmployeeServiceImpl) create(ctx context.Context, employee *domain.Employee) error {
	hash, err := s.hasher.Hash(employee.Password)
	if err != nil {
		return err
	}
	employee.PasswordHash = hash
	employee.Password = ""

	return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *gorm.DB) error {
		txStore := s.employees.WithTx(tx)

		taken, err := txStore.EmailExists(ctx, employee.Email, 0)
		if err != nil {
			return err
		}
		if taken {
			return store.ErrEmailExists
		}
		return txStore.Create(ctx, employee)
	})
}

// Update overwrites an existing employee.
func (s *EmployeeServiceImpl) Update(ctx context.Context, id int64, dto *mapper.EmployeeDTO) Response[*mapper.EmployeeDTO] {
	if dto == nil {
		return Fail[*mapper.EmployeeDTO](OutcomeValidation, MsgEmployeeRequired)
	}
	if dto.ID != 0 && dto.ID != id {
		return Fail[*mapper.EmployeeDTO](OutcomeValidation, MsgEmployeeIDMismatch)
	}

	employee, err := mapper.EmployeeFromDTO(dto)
	if err != nil {
		return fromError[*mapper.EmployeeDTO](ctx, s.logger, "updating employee", err)
	}
	employee.ID = id

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *gorm.DB) error {
		txStore := s.employees.WithTx(tx)

		// The cache never holds the hash, so read the row itself.
		existing, err := txStore.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if employee.Password == "" {
			employee.PasswordHash = existing.PasswordHash
		}
		if err := employee.Validate(); err != nil {
			return err
		}

		taken, err := txStore.EmailExists(ctx, employee.Email, id)
		if err != nil {
			return err
		}
		if taken {
			return store.ErrEmailExists
		}

		if employee.Password != "" {
			hash, err := s.hasher.Hash(employee.Password)
			if err != nil {
				return err
			}
			employee.PasswordHash = hash
			employee.Password = ""
		}

		return txStore.Update(ctx, employee)
	})
	if err != nil {
		if errors.Is(err, store.ErrEmployeeNotFound) {
			return NotFound[*mapper.EmployeeDTO](msgEmployeeNotFound, id)
		}
		return fromError[*mapper.EmployeeDTO](ctx, s.logger, "updating employee", err)
	}

	s.cache.Put(ctx, employee)

	s.logger.InfoContext(ctx, "employee updated", "employee_id", id)
	return OK(mapper.EmployeeToDTO(employee), "Employee updated successfully")
}

// Delete removes an employee. Their tasks go with them through the schema
// cascade, so those task entries are invalidated too.
func (s *EmployeeServiceImpl) Delete(ctx context.Context, id int64) Response[bool] {
	taskIDs, err := s.tasks.GetIDsByEmployee(ctx, id)
	if err != nil {
		return fromError[bool](ctx, s.logger, "deleting employee", err)
	}

	if err := s.employees.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrEmployeeNotFound) {
			return NotFound[bool](msgEmployeeNotFound, id)
		}
		return fromError[bool](ctx, s.logger, "deleting employee", err)
	}

	s.cache.Invalidate(ctx, id)
	s.cache.InvalidateAll(ctx)
	s.taskCache.Invalidate(ctx, taskIDs...)
	s.taskCache.InvalidateAll(ctx)

	s.logger.InfoContext(ctx, "employee deleted",
		"employee_id", id,
		"cascaded_tasks", len(taskIDs))
	return OK(true, "Employee deleted successfully")
}

// Authenticate checks credentials. Unknown emails and wrong passwords
// produce the same response.
func (s *EmployeeServiceImpl) Authenticate(ctx context.Context, email, password string) Response[*mapper.EmployeeDTO] {
	if email == "" || password == "" {
		return Fail[*mapper.EmployeeDTO](OutcomeUnauthorized, MsgInvalidCredentials)
	}

	employee, err := s.employees.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrEmployeeNotFound) {
			s.logger.DebugContext(ctx, "login for unknown email", "email", redact.Email(email))
			return Fail[*mapper.EmployeeDTO](OutcomeUnauthorized, MsgInvalidCredentials)
		}
		return fromError[*mapper.EmployeeDTO](ctx, s.logger, "signing in", err)
	}

	if err := s.hasher.Compare(employee.PasswordHash, password); err != nil {
		s.logger.DebugContext(ctx, "login with wrong password", "employee_id", employee.ID)
		return Fail[*mapper.EmployeeDTO](OutcomeUnauthorized, MsgInvalidCredentials)
	}

	return OK(mapper.EmployeeToDTO(employee), "Signed in successfully")
}

// DisplayName implements EmployeeService.
func (s *EmployeeServiceImpl) DisplayName(ctx context.Context, id int64) (string, bool) {
	employee, err := s.lookup(ctx, id)
	if err != nil {
		if !errors.Is(err, store.ErrEmployeeNotFound) {
			s.logger.WarnContext(ctx, "failed to resolve employee name",
				"employee_id", id,
				"error", redact.Error(err))
		}
		return "", false
	}
	return employee.FirstName, true
}

// EnsureAdmin implements EmployeeService.
func (s *EmployeeServiceImpl) EnsureAdmin(ctx context.Context, email, password string) error {
	if email == "" {
		return nil
	}

	_, err := s.employees.GetByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrEmployeeNotFound) {
		return fmt.Errorf("failed to look up bootstrap admin: %w", err)
	}

	resp := s.Create(ctx, &mapper.EmployeeDTO{
		FirstName:    "System",
		LastName:     "Administrator",
		Role:         string(domain.RoleAdmin),
		Email:        email,
		MobileNumber: "-",
		Password:     password,
	})
	if !resp.Success {
		return fmt.Errorf("failed to create bootstrap admin: %s", resp.Message)
	}

	s.logger.InfoContext(ctx, "bootstrap admin created", "employee_id", resp.Data.ID)
	return nil
}
