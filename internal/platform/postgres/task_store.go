package postgres

import (
	"context"
	"log/slog"
	"time"

	"github.com/phrazzld/workforce-api/internal/domain"
	"github.com/phrazzld/workforce-api/internal/store"
	"gorm.io/gorm"
)

// TaskStore implements store.TaskStore on PostgreSQL.
type TaskStore struct {
	db     *gorm.DB
	logger *slog.Logger
	now    func() time.Time
}

var _ store.TaskStore = (*TaskStore)(nil)

// NewTaskStore creates a TaskStore using the given GORM handle.
func NewTaskStore(db *gorm.DB, logger *slog.Logger) *TaskStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskStore{
		db:     db,
		logger: logger.With("component", "task_store"),
		now:    time.Now,
	}
}

// WithTx implements store.TaskStore.
func (s *TaskStore) WithTx(tx *gorm.DB) store.TaskStore {
	return &TaskStore{db: tx, logger: s.logger, now: s.now}
}

// withNavigation eagerly loads assignee and reviewer.
func (s *TaskStore) withNavigation(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Preload("Assignee").Preload("Reviewer")
}

// GetByID implements store.TaskStore.
func (s *TaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	var row taskRow
	if err := s.withNavigation(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, mapNotFound(err, store.ErrTaskNotFound)
	}
	return taskFromRow(&row), nil
}

// GetAll implements store.TaskStore.
func (s *TaskStore) GetAll(ctx context.Context) ([]*domain.Task, error) {
	var rows []taskRow
	if err := s.withNavigation(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, MapError(err)
	}
	return tasksFromRows(rows), nil
}

// GetByAssignee implements store.TaskStore.
func (s *TaskStore) GetByAssignee(ctx context.Context, employeeID int64) ([]*domain.Task, error) {
	var rows []taskRow
	err := s.withNavigation(ctx).
		Where("assigned_employee_id = ?", employeeID).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, MapError(err)
	}
	return tasksFromRows(rows), nil
}

// GetIDsByEmployee implements store.TaskStore.
func (s *TaskStore) GetIDsByEmployee(ctx context.Context, employeeID int64) ([]int64, error) {
	var ids []int64
	err := s.db.WithContext(ctx).
		Model(&taskRow{}).
		Where("assigned_employee_id = ? OR reviewer_id = ?", employeeID, employeeID).
		Order("id").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, MapError(err)
	}
	return ids, nil
}

// Create implements store.TaskStore.
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	row := taskToRow(task)
	row.ID = 0
	row.Version = 1

	if err := s.db.WithContext(ctx).Omit("Assignee", "Reviewer").Create(row).Error; err != nil {
		if IsForeignKeyViolation(err) {
			s.logger.Debug("task references unknown employee",
				"assigned_employee_id", task.AssignedEmployeeID,
				"reviewer_id", task.ReviewerID)
		}
		return nil, MapError(err)
	}

	return s.GetByID(ctx, row.ID)
}

// UpdateScalarFields implements store.TaskStore.
func (s *TaskStore) UpdateScalarFields(ctx context.Context, task *domain.Task) error {
	return s.updateVersioned(ctx, task, map[string]interface{}{
		"title":                task.Title,
		"description":          task.Description,
		"status":               int(task.Status),
		"assigned_employee_id": task.AssignedEmployeeID,
		"reviewer_id":          task.ReviewerID,
		"start_date":           task.StartDate.UTC(),
		"deadline_date":        task.DeadlineDate.UTC(),
		"status_changed_at":    task.StatusChangedAt,
	})
}

// UpdateStatus implements store.TaskStore.
func (s *TaskStore) UpdateStatus(ctx context.Context, task *domain.Task) error {
	return s.updateVersioned(ctx, task, map[string]interface{}{
		"status":            int(task.Status),
		"status_changed_at": task.StatusChangedAt,
	})
}

// updateVersioned applies fields only if the row still carries task.Version,
// bumping the version in the same statement.
func (s *TaskStore) updateVersioned(
	ctx context.Context,
	task *domain.Task,
	fields map[string]interface{},
) error {
	now := s.now().UTC()
	fields["version"] = gorm.Expr("version + 1")
	fields["updated_at"] = now

	res := s.db.WithContext(ctx).
		Model(&taskRow{}).
		Where("id = ? AND version = ?", task.ID, task.Version).
		Updates(fields)
	if res.Error != nil {
		return MapError(res.Error)
	}

	if res.RowsAffected == 0 {
		exists, err := s.ExistsByID(ctx, task.ID)
		if err != nil {
			return err
		}
		if !exists {
			return store.ErrTaskNotFound
		}
		s.logger.Info("stale task update rejected",
			"task_id", task.ID,
			"version", task.Version)
		return store.ErrVersionConflict
	}

	task.Version++
	task.UpdatedAt = now
	return nil
}

// Delete implements store.TaskStore.
func (s *TaskStore) Delete(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&taskRow{}, "id = ?", id)
	if res.Error != nil {
		return MapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrTaskNotFound
	}
	return nil
}

// ExistsByID implements store.TaskStore.
func (s *TaskStore) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&taskRow{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, MapError(err)
	}
	return n > 0, nil
}

func tasksFromRows(rows []taskRow) []*domain.Task {
	tasks := make([]*domain.Task, 0, len(rows))
	for i := range rows {
		tasks = append(tasks, taskFromRow(&rows[i]))
	}
	return tasks
}
