package mapper

import (
	"math"
	"time"

	"github.com/phrazzld/workforce-api/internal/domain"
)

// DefaultTaskDuration is the deadline offset applied when a new task has no
// deadline.
const DefaultTaskDuration = 7 * 24 * time.Hour

// TaskToDTO converts a task for output and fills the derived fields as of
// now. Assignee and reviewer names are projected only when the navigation
// is loaded; callers enrich them otherwise.
func TaskToDTO(t *domain.Task, now time.Time) *TaskDTO {
	if t == nil {
		return nil
	}

	dto := &TaskDTO{
		TaskID:             t.ID,
		Title:              t.Title,
		Description:        t.Description,
		Status:             int(t.Status),
		AssignedEmployeeID: t.AssignedEmployeeID,
		ReviewerID:         t.ReviewerID,
		StartDate:          timePtr(t.StartDate),
		DeadlineDate:       timePtr(t.DeadlineDate),

		StatusDisplayName:    t.Status.String(),
		CompletionPercentage: roundPercent(t.CompletionPercentage(now)),
		IsOverdue:            t.IsOverdue(now),
		DaysUntilDeadline:    t.DaysUntilDeadline(now),
		DaysSinceStart:       t.DaysSinceStart(now),
		Version:              t.Version,
	}

	if t.Assignee != nil {
		dto.AssignedEmployeeName = t.Assignee.FirstName
	}
	if t.Reviewer != nil {
		dto.ReviewerName = t.Reviewer.FirstName
	}
	if days, ok := t.DaysInStatus(now); ok {
		dto.DaysInStatus = &days
		dto.StatusChangeDate = timePtr(*t.StatusChangedAt)
	}

	return dto
}

// TasksToDTO converts a slice, never returning nil.
func TasksToDTO(tasks []*domain.Task, now time.Time) []*TaskDTO {
	out := make([]*TaskDTO, 0, len(tasks))
	for _, t := range tasks {
		if dto := TaskToDTO(t, now); dto != nil {
			out = append(out, dto)
		}
	}
	return out
}

// TaskFromDTOForCreate converts input for a new task. A missing start date
// defaults to now and a missing deadline to now plus DefaultTaskDuration.
func TaskFromDTOForCreate(dto *TaskDTO, now time.Time) *domain.Task {
	if dto == nil {
		return nil
	}
	t := taskFromDTO(dto)
	t.ID = 0
	t.Version = 0
	if t.StartDate.IsZero() {
		t.StartDate = now.UTC()
	}
	if t.DeadlineDate.IsZero() {
		t.DeadlineDate = now.UTC().Add(DefaultTaskDuration)
	}
	return t
}

// TaskFromDTOForUpdate converts input for an update. No defaults are
// applied, so missing dates fail validation.
func TaskFromDTOForUpdate(dto *TaskDTO) *domain.Task {
	if dto == nil {
		return nil
	}
	return taskFromDTO(dto)
}

func taskFromDTO(dto *TaskDTO) *domain.Task {
	t := &domain.Task{
		ID:                 dto.TaskID,
		Title:              dto.Title,
		Description:        dto.Description,
		Status:             domain.TaskStatus(dto.Status),
		AssignedEmployeeID: dto.AssignedEmployeeID,
		ReviewerID:         dto.ReviewerID,
		Version:            dto.Version,
	}
	if dto.StartDate != nil {
		t.StartDate = dto.StartDate.UTC()
	}
	if dto.DeadlineDate != nil {
		t.DeadlineDate = dto.DeadlineDate.UTC()
	}
	return t
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	u := t.UTC()
	return &u
}

func roundPercent(p float64) float64 {
	return math.Round(p*100) / 100
}
