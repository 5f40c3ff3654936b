package domain

import (
	"time"
)

// ReminderGrace is subtracted from the deadline when deciding whether a
// reminder may be sent, so small clock differences do not hide an overdue
// task.
const ReminderGrace = 5 * time.Minute

const day = 24 * time.Hour

// transitions lists the allowed target states for each status.
var transitions = map[TaskStatus][]TaskStatus{
	TaskStatusNotStarted: {TaskStatusWorking},
	TaskStatusWorking:    {TaskStatusPending, TaskStatusCompleted},
	TaskStatusPending:    {TaskStatusWorking, TaskStatusCompleted},
	TaskStatusCompleted:  nil,
}

// CanTransition reports whether a task in status from may move to to.
func CanTransition(from, to TaskStatus) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ValidateTransition returns a validation error unless from -> to is an
// allowed edge. Staying in the same status is not a transition and fails.
func ValidateTransition(from, to TaskStatus) error {
	if !to.Valid() {
		return ErrInvalidTaskStatus
	}
	if !CanTransition(from, to) {
		return transitionError(from, to)
	}
	return nil
}

// TransitionTo moves the task to status to, recording when it happened.
func (t *Task) TransitionTo(to TaskStatus, now time.Time) error {
	if err := ValidateTransition(t.Status, to); err != nil {
		return err
	}
	t.applyStatus(to, now)
	return nil
}

// MarkStatusChanged records now as the time the current status was entered.
// It is used when a task is created directly in a status other than
// NotStarted.
func (t *Task) MarkStatusChanged(now time.Time) {
	if t.Status == TaskStatusNotStarted {
		t.StatusChangedAt = nil
		return
	}
	changed := now.UTC()
	t.StatusChangedAt = &changed
}

// applyStatus sets the status without checking the state machine.
func (t *Task) applyStatus(to TaskStatus, now time.Time) {
	if t.Status == to {
		return
	}
	t.Status = to
	if to == TaskStatusNotStarted {
		t.StatusChangedAt = nil
		return
	}
	changed := now.UTC()
	t.StatusChangedAt = &changed
}

// ValidateDates checks that both dates are set and that the deadline is not
// before the start.
func ValidateDates(start, deadline time.Time) error {
	if start.IsZero() {
		return ErrStartDateRequired
	}
	if deadline.IsZero() {
		return ErrDeadlineRequired
	}
	if deadline.Before(start) {
		return ErrDeadlineBeforeStart
	}
	return nil
}

// ValidateImmutability checks a proposed start and deadline against the
// persisted task: the start date is frozen once work began and the deadline
// is frozen once the task is completed.
func ValidateImmutability(existing *Task, start, deadline time.Time) error {
	if existing.Status != TaskStatusNotStarted && !start.Equal(existing.StartDate) {
		return ErrStartDateFrozen
	}
	if existing.Status == TaskStatusCompleted && !deadline.Equal(existing.DeadlineDate) {
		return ErrDeadlineFrozen
	}
	return nil
}

// CompletionPercentage estimates progress from elapsed time. Completed tasks
// are 100, not-started tasks 0, otherwise elapsed/planned clamped to [0,100].
func (t *Task) CompletionPercentage(now time.Time) float64 {
	switch t.Status {
	case TaskStatusCompleted:
		return 100
	case TaskStatusNotStarted:
		return 0
	}

	planned := t.DeadlineDate.Sub(t.StartDate)
	if planned <= 0 {
		return 0
	}

	pct := float64(now.Sub(t.StartDate)) / float64(planned) * 100
	switch {
	case pct < 0:
		return 0
	case pct > 100:
		return 100
	default:
		return pct
	}
}

// IsOverdue reports whether the deadline has passed on an unfinished task.
func (t *Task) IsOverdue(now time.Time) bool {
	return now.After(t.DeadlineDate) && t.Status != TaskStatusCompleted
}

// IsOverdueWithGrace is IsOverdue with the deadline pulled forward by grace.
func (t *Task) IsOverdueWithGrace(now time.Time, grace time.Duration) bool {
	return now.After(t.DeadlineDate.Add(-grace)) && t.Status != TaskStatusCompleted
}

// DaysUntilDeadline is the whole number of days left, negative when overdue.
func (t *Task) DaysUntilDeadline(now time.Time) int {
	return int(t.DeadlineDate.Sub(now) / day)
}

// DaysSinceStart is the whole number of days since the start date.
func (t *Task) DaysSinceStart(now time.Time) int {
	return int(now.Sub(t.StartDate) / day)
}

// DaysInStatus is the whole number of days since the last status change.
// ok is false when no change was recorded.
func (t *Task) DaysInStatus(now time.Time) (days int, ok bool) {
	if t.Status == TaskStatusNotStarted || t.StatusChangedAt == nil {
		return 0, false
	}
	return int(now.Sub(*t.StatusChangedAt) / day), true
}
