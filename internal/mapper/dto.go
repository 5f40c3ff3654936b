// Package mapper converts between domain entities and the transfer objects
// exposed at the service boundary. Every function is pure: it never fetches
// related rows and never panics, and a nil input yields a nil output.
package mapper

import "time"

// EmployeeDTO is the transfer form of an employee. Password is only read
// on create and update requests and is never populated on output.
type EmployeeDTO struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Role         string `json:"role"`
	Email        string `json:"email"`
	MobileNumber string `json:"mobileNumber"`
	Password     string `json:"password,omitempty"`
}

// TaskDTO is the transfer form of a task. The fields after DeadlineDate are
// computed on read and ignored on input, except Version which a client may
// echo back to detect concurrent edits.
type TaskDTO struct {
	TaskID             int64      `json:"taskId"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	Status             int        `json:"status"`
	AssignedEmployeeID int64      `json:"assignedEmployeeId"`
	ReviewerID         int64      `json:"reviewerId"`
	StartDate          *time.Time `json:"startDate"`
	DeadlineDate       *time.Time `json:"deadlineDate"`

	StatusDisplayName    string     `json:"statusDisplayName"`
	AssignedEmployeeName string     `json:"assignedEmployeeName,omitempty"`
	ReviewerName         string     `json:"reviewerName,omitempty"`
	CompletionPercentage float64    `json:"completionPercentage"`
	IsOverdue            bool       `json:"isOverdue"`
	DaysUntilDeadline    int        `json:"daysUntilDeadline"`
	DaysSinceStart       int        `json:"daysSinceStart"`
	DaysInStatus         *int       `json:"daysInStatus,omitempty"`
	StatusChangeDate     *time.Time `json:"statusChangeDate,omitempty"`
	Version              int        `json:"version,omitempty"`
}
