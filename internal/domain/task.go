package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// TaskStatus is the lifecycle state of a task. The integer values are part
// of the wire format.
type TaskStatus int

// Task statuses in lifecycle order.
const (
	TaskStatusNotStarted TaskStatus = 0
	TaskStatusWorking    TaskStatus = 1
	TaskStatusPending    TaskStatus = 2
	TaskStatusCompleted  TaskStatus = 3
)

// Field limits.
const (
	MaxTaskTitleLength       = 100
	MaxTaskDescriptionLength = 500
)

// Task validation errors.
var (
	ErrEmptyTaskTitle       = NewValidationError("title", "Title is required.", nil)
	ErrTaskTitleTooLong     = NewValidationError("title", "Title can't be longer than 100 characters.", nil)
	ErrDescriptionTooLong   = NewValidationError("description", "Description can't be longer than 500 characters.", nil)
	ErrInvalidTaskStatus    = NewValidationError("status", "Status must be between 0 and 3.", nil)
	ErrInvalidAssignee      = NewValidationError("assigned_employee_id", "Assigned Employee Id must be a valid positive number.", ErrInvalidID)
	ErrInvalidReviewer      = NewValidationError("reviewer_id", "Reviewer Id must be a valid positive number.", ErrInvalidID)
	ErrStartDateRequired    = NewValidationError("start_date", "Start date must be set", nil)
	ErrDeadlineRequired     = NewValidationError("deadline_date", "Deadline date must be set", nil)
	ErrDeadlineBeforeStart  = NewValidationError("deadline_date", "Deadline date cannot be earlier than start date", nil)
	ErrStartDateFrozen      = NewValidationError("start_date", "Cannot modify start date for tasks that have already started", ErrImmutableField)
	ErrDeadlineFrozen       = NewValidationError("deadline_date", "Cannot modify deadline for completed tasks", ErrImmutableField)
	ErrUnknownTaskEmployees = NewValidationError("assigned_employee_id", "Invalid AssignedEmployeeId or ReviewerId", nil)
)

var statusNames = [...]string{
	TaskStatusNotStarted: "NotStarted",
	TaskStatusWorking:    "Working",
	TaskStatusPending:    "Pending",
	TaskStatusCompleted:  "Completed",
}

// String returns the display name of the status.
func (s TaskStatus) String() string {
	if s.Valid() {
		return statusNames[s]
	}
	return fmt.Sprintf("TaskStatus(%d)", int(s))
}

// Valid reports whether s is a known status.
func (s TaskStatus) Valid() bool {
	return s >= TaskStatusNotStarted && s <= TaskStatusCompleted
}

// ParseTaskStatus accepts either the display name or the numeric form.
func ParseTaskStatus(s string) (TaskStatus, error) {
	for i, name := range statusNames {
		if strings.EqualFold(s, name) {
			return TaskStatus(i), nil
		}
	}
	var n int
	if _, err := fmt.Sscanf(s, "%d", &n); err == nil && TaskStatus(n).Valid() {
		return TaskStatus(n), nil
	}
	return 0, ErrInvalidTaskStatus
}

// Task is a unit of work assigned to one employee and reviewed by another.
type Task struct {
	ID                 int64
	Title              string
	Description        string
	Status             TaskStatus
	AssignedEmployeeID int64
	ReviewerID         int64
	StartDate          time.Time
	DeadlineDate       time.Time

	// StatusChangedAt is set whenever the task leaves NotStarted and cleared
	// if it ever returns there.
	StatusChangedAt *time.Time

	// Version is the optimistic concurrency token maintained by the store.
	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time

	// Navigation, populated only when the store eagerly loads it.
	Assignee *Employee
	Reviewer *Employee
}

// Validate checks scalar fields and the date range. It does not check
// immutability, which needs the persisted row.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTaskTitle
	}
	if utf8.RuneCountInString(t.Title) > MaxTaskTitleLength {
		return ErrTaskTitleTooLong
	}
	if utf8.RuneCountInString(t.Description) > MaxTaskDescriptionLength {
		return ErrDescriptionTooLong
	}
	if !t.Status.Valid() {
		return ErrInvalidTaskStatus
	}
	if t.AssignedEmployeeID < 1 {
		return ErrInvalidAssignee
	}
	if t.ReviewerID < 1 {
		return ErrInvalidReviewer
	}
	return ValidateDates(t.StartDate, t.DeadlineDate)
}
