package postgres

import (
	"context"
	"log/slog"

	"github.com/phrazzld/workforce-api/internal/domain"
	"github.com/phrazzld/workforce-api/internal/store"
	"gorm.io/gorm"
)

// EmployeeStore implements store.EmployeeStore on PostgreSQL.
type EmployeeStore struct {
	db     *gorm.DB
	logger *slog.Logger
}

var _ store.EmployeeStore = (*EmployeeStore)(nil)

// NewEmployeeStore creates an EmployeeStore using the given GORM handle.
func NewEmployeeStore(db *gorm.DB, logger *slog.Logger) *EmployeeStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &EmployeeStore{
		db:     db,
		logger: logger.With("component", "employee_store"),
	}
}

// WithTx implements store.EmployeeStore.
func (s *EmployeeStore) WithTx(tx *gorm.DB) store.EmployeeStore {
	return &EmployeeStore{db: tx, logger: s.logger}
}

// GetByID implements store.EmployeeStore.
func (s *EmployeeStore) GetByID(ctx context.Context, id int64) (*domain.Employee, error) {
	var row employeeRow
	if err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, mapNotFound(err, store.ErrEmployeeNotFound)
	}
	return employeeFromRow(&row), nil
}

// GetByEmail implements store.EmployeeStore.
func (s *EmployeeStore) GetByEmail(ctx context.Context, email string) (*domain.Employee, error) {
	var row employeeRow
	if err := s.db.WithContext(ctx).First(&row, "email = ?", email).Error; err != nil {
		return nil, mapNotFound(err, store.ErrEmployeeNotFound)
	}
	return employeeFromRow(&row), nil
}

// GetAll implements store.EmployeeStore.
func (s *EmployeeStore) GetAll(ctx context.Context) ([]*domain.Employee, error) {
	var rows []employeeRow
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, MapError(err)
	}

	employees := make([]*domain.Employee, 0, len(rows))
	for i := range rows {
		employees = append(employees, employeeFromRow(&rows[i]))
	}
	return employees, nil
}

// Create implements store.EmployeeStore.
func (s *EmployeeStore) Create(ctx context.Context, employee *domain.Employee) error {
	row := employeeToRow(employee)
	row.ID = 0

	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		if IsUniqueViolation(err) {
			s.logger.Debug("duplicate employee email on create")
			return store.ErrEmailExists
		}
		return MapError(err)
	}

	employee.ID = row.ID
	return nil
}

// Update implements store.EmployeeStore.
func (s *EmployeeStore) Update(ctx context.Context, employee *domain.Employee) error {
	res := s.db.WithContext(ctx).
		Model(&employeeRow{}).
		Where("id = ?", employee.ID).
		Updates(map[string]interface{}{
			"first_name":    employee.FirstName,
			"last_name":     employee.LastName,
			"role":          string(employee.Role),
			"email":         employee.Email,
			"mobile_number": employee.MobileNumber,
			"password_hash": employee.PasswordHash,
		})
	if res.Error != nil {
		if IsUniqueViolation(res.Error) {
			return store.ErrEmailExists
		}
		return MapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrEmployeeNotFound
	}
	return nil
}

// Delete implements store.EmployeeStore.
func (s *EmployeeStore) Delete(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&employeeRow{}, "id = ?", id)
	if res.Error != nil {
		return MapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrEmployeeNotFound
	}
	return nil
}

// ExistsByID implements store.EmployeeStore.
func (s *EmployeeStore) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&employeeRow{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, MapError(err)
	}
	return n > 0, nil
}

// EmailExists implements store.EmployeeStore.
func (s *EmployeeStore) EmailExists(ctx context.Context, email string, excludeID int64) (bool, error) {
	q := s.db.WithContext(ctx).Model(&employeeRow{}).Where("email = ?", email)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, MapError(err)
	}
	return n > 0, nil
}
