package postgres

import (
	"time"

	"github.com/phrazzld/workforce-api/internal/domain"
)

// employeeRow is the GORM model for the employees table.
type employeeRow struct {
	ID           int64  `gorm:"column:id;primaryKey"`
	FirstName    string `gorm:"column:first_name"`
	LastName     string `gorm:"column:last_name"`
	Role         string `gorm:"column:role"`
	Email        string `gorm:"column:email"`
	MobileNumber string `gorm:"column:mobile_number"`
	PasswordHash string `gorm:"column:password_hash"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (employeeRow) TableName() string { return "employees" }

// taskRow is the GORM model for the tasks table.
type taskRow struct {
	ID                 int64      `gorm:"column:id;primaryKey"`
	Title              string     `gorm:"column:title"`
	Description        string     `gorm:"column:description"`
	Status             int        `gorm:"column:status"`
	AssignedEmployeeID int64      `gorm:"column:assigned_employee_id"`
	ReviewerID         int64      `gorm:"column:reviewer_id"`
	StartDate          time.Time  `gorm:"column:start_date"`
	DeadlineDate       time.Time  `gorm:"column:deadline_date"`
	StatusChangedAt    *time.Time `gorm:"column:status_changed_at"`
	Version            int        `gorm:"column:version"`
	CreatedAt          time.Time
	UpdatedAt          time.Time

	Assignee *employeeRow `gorm:"foreignKey:AssignedEmployeeID"`
	Reviewer *employeeRow `gorm:"foreignKey:ReviewerID"`
}

func (taskRow) TableName() string { return "tasks" }

func employeeFromRow(r *employeeRow) *domain.Employee {
	if r == nil {
		return nil
	}
	return &domain.Employee{
		ID:           r.ID,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Role:         domain.Role(r.Role),
		Email:        r.Email,
		MobileNumber: r.MobileNumber,
		PasswordHash: r.PasswordHash,
	}
}

func employeeToRow(e *domain.Employee) *employeeRow {
	return &employeeRow{
		ID:           e.ID,
		FirstName:    e.FirstName,
		LastName:     e.LastName,
		Role:         string(e.Role),
		Email:        e.Email,
		MobileNumber: e.MobileNumber,
		PasswordHash: e.PasswordHash,
	}
}

func taskFromRow(r *taskRow) *domain.Task {
	if r == nil {
		return nil
	}
	t := &domain.Task{
		ID:                 r.ID,
		Title:              r.Title,
		Description:        r.Description,
		Status:             domain.TaskStatus(r.Status),
		AssignedEmployeeID: r.AssignedEmployeeID,
		ReviewerID:         r.ReviewerID,
		StartDate:          r.StartDate.UTC(),
		DeadlineDate:       r.DeadlineDate.UTC(),
		Version:            r.Version,
		CreatedAt:          r.CreatedAt.UTC(),
		UpdatedAt:          r.UpdatedAt.UTC(),
		Assignee:           employeeFromRow(r.Assignee),
		Reviewer:           employeeFromRow(r.Reviewer),
	}
	if r.StatusChangedAt != nil {
		changed := r.StatusChangedAt.UTC()
		t.StatusChangedAt = &changed
	}
	return t
}

func taskToRow(t *domain.Task) *taskRow {
	return &taskRow{
		ID:                 t.ID,
		Title:              t.Title,
		Description:        t.Description,
		Status:             int(t.Status),
		AssignedEmployeeID: t.AssignedEmployeeID,
		ReviewerID:         t.ReviewerID,
		StartDate:          t.StartDate.UTC(),
		DeadlineDate:       t.DeadlineDate.UTC(),
		StatusChangedAt:    t.StatusChangedAt,
		Version:            t.Version,
	}
}
