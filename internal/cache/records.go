package cache

import (
	"log/slog"
	"time"

	"github.com/phrazzld/workforce-api/internal/domain"
)

// employeeRecord is the cached form of an employee. The password hash is
// never cached.
type employeeRecord struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Role         string `json:"role"`
	Email        string `json:"email"`
	MobileNumber string `json:"mobileNumber"`
}

// taskRecord is the cached form of a task, without navigation.
type taskRecord struct {
	ID                 int64      `json:"id"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	Status             int        `json:"status"`
	AssignedEmployeeID int64      `json:"assignedEmployeeId"`
	ReviewerID         int64      `json:"reviewerId"`
	StartDate          time.Time  `json:"startDate"`
	DeadlineDate       time.Time  `json:"deadlineDate"`
	StatusChangedAt    *time.Time `json:"statusChangedAt,omitempty"`
	Version            int        `json:"version"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// EmployeeCache caches employees under "employee:{id}".
type EmployeeCache = EntityCache[*domain.Employee]

// TaskCache caches tasks under "task:{id}".
type TaskCache = EntityCache[*domain.Task]

// NewEmployeeCache creates the employee cache on backend.
func NewEmployeeCache(backend Backend, ttl time.Duration, logger *slog.Logger) *EmployeeCache {
	return newEntityCache(backend, "employee", ttl, jsonCodec(
		func(e *domain.Employee) employeeRecord {
			return employeeRecord{
				ID:           e.ID,
				FirstName:    e.FirstName,
				LastName:     e.LastName,
				Role:         string(e.Role),
				Email:        e.Email,
				MobileNumber: e.MobileNumber,
			}
		},
		func(r employeeRecord) *domain.Employee {
			return &domain.Employee{
				ID:           r.ID,
				FirstName:    r.FirstName,
				LastName:     r.LastName,
				Role:         domain.Role(r.Role),
				Email:        r.Email,
				MobileNumber: r.MobileNumber,
			}
		},
		func(e *domain.Employee) int64 { return e.ID },
	), logger)
}

// NewTaskCache creates the task cache on backend.
func NewTaskCache(backend Backend, ttl time.Duration, logger *slog.Logger) *TaskCache {
	return newEntityCache(backend, "task", ttl, jsonCodec(
		func(t *domain.Task) taskRecord {
			return taskRecord{
				ID:                 t.ID,
				Title:              t.Title,
				Description:        t.Description,
				Status:             int(t.Status),
				AssignedEmployeeID: t.AssignedEmployeeID,
				ReviewerID:         t.ReviewerID,
				StartDate:          t.StartDate.UTC(),
				DeadlineDate:       t.DeadlineDate.UTC(),
				StatusChangedAt:    utcPtr(t.StatusChangedAt),
				Version:            t.Version,
				CreatedAt:          t.CreatedAt.UTC(),
				UpdatedAt:          t.UpdatedAt.UTC(),
			}
		},
		func(r taskRecord) *domain.Task {
			return &domain.Task{
				ID:                 r.ID,
				Title:              r.Title,
				Description:        r.Description,
				Status:             domain.TaskStatus(r.Status),
				AssignedEmployeeID: r.AssignedEmployeeID,
				ReviewerID:         r.ReviewerID,
				StartDate:          r.StartDate.UTC(),
				DeadlineDate:       r.DeadlineDate.UTC(),
				StatusChangedAt:    utcPtr(r.StatusChangedAt),
				Version:            r.Version,
				CreatedAt:          r.CreatedAt.UTC(),
				UpdatedAt:          r.UpdatedAt.UTC(),
			}
		},
		func(t *domain.Task) int64 { return t.ID },
	), logger)
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
