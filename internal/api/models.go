package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/phrazzld/workforce-api/internal/domain"
	"github.com/phrazzld/workforce-api/internal/mapper"
)

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResult is returned in the data of a successful login. The session
// token itself travels only in the cookie.
type LoginResult struct {
	Employee  *mapper.EmployeeDTO `json:"employee"`
	ExpiresAt time.Time           `json:"expiresAt"`
}

// timestampLayouts are tried in order. Layouts without an offset parse as
// UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Timestamp is a request date. Values without a zone offset are read as
// UTC, and every value is normalized to UTC.
type Timestamp struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (ts *Timestamp) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			ts.Time = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("invalid timestamp %q", s)
}

func (ts *Timestamp) ptr() *time.Time {
	if ts == nil || ts.IsZero() {
		return nil
	}
	t := ts.Time
	return &t
}

// TaskRequest is the body of task create and update requests. Derived
// fields sent by clients are ignored.
type TaskRequest struct {
	TaskID             int64      `json:"taskId"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	Status             int        `json:"status"`
	AssignedEmployeeID int64      `json:"assignedEmployeeId"`
	ReviewerID         int64      `json:"reviewerId"`
	StartDate          *Timestamp `json:"startDate"`
	DeadlineDate       *Timestamp `json:"deadlineDate"`
	Version            int        `json:"version"`
}

// DTO converts the request for the service layer.
func (req *TaskRequest) DTO() *mapper.TaskDTO {
	return &mapper.TaskDTO{
		TaskID:             req.TaskID,
		Title:              req.Title,
		Description:        req.Description,
		Status:             req.Status,
		AssignedEmployeeID: req.AssignedEmployeeID,
		ReviewerID:         req.ReviewerID,
		StartDate:          req.StartDate.ptr(),
		DeadlineDate:       req.DeadlineDate.ptr(),
		Version:            req.Version,
	}
}

var errMissingStatus = errors.New("status is required")

// StatusRequest is the body of PATCH /api/Tasks/{id}/status. It accepts a
// bare status (number or name) as well as {"status": ...}. Numbers are
// passed through unchecked so the lifecycle reports out-of-range values.
type StatusRequest struct {
	Status domain.TaskStatus
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *StatusRequest) UnmarshalJSON(b []byte) error {
	raw := bytes.TrimSpace(b)
	if len(raw) > 0 && raw[0] == '{' {
		var body struct {
			Status json.RawMessage `json:"status"`
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return err
		}
		if len(body.Status) == 0 || string(body.Status) == "null" {
			return errMissingStatus
		}
		raw = body.Status
	}

	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		s.Status = domain.TaskStatus(n)
		return nil
	}
	var name string
	if err := json.Unmarshal(raw, &name); err != nil {
		return fmt.Errorf("status must be a number or a name: %w", err)
	}
	status, err := domain.ParseTaskStatus(name)
	if err != nil {
		return err
	}
	s.Status = status
	return nil
}
