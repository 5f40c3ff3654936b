package domain

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validTask() Task {
	start := time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)
	return Task{
		Title:              "Prepare quarterly report",
		Description:        "Numbers for Q1",
		Status:             TaskStatusNotStarted,
		AssignedEmployeeID: 1,
		ReviewerID:         2,
		StartDate:          start,
		DeadlineDate:       start.Add(72 * time.Hour),
	}
}

func TestTaskValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Task)
		wantErr error
	}{
		{"valid", func(*Task) {}, nil},
		{"blank title", func(tk *Task) { tk.Title = "   " }, ErrEmptyTaskTitle},
		{"long title", func(tk *Task) { tk.Title = strings.Repeat("a", 101) }, ErrTaskTitleTooLong},
		{"title at limit", func(tk *Task) { tk.Title = strings.Repeat("é", 100) }, nil},
		{"long description", func(tk *Task) { tk.Description = strings.Repeat("d", 501) }, ErrDescriptionTooLong},
		{"bad status", func(tk *Task) { tk.Status = 4 }, ErrInvalidTaskStatus},
		{"missing assignee", func(tk *Task) { tk.AssignedEmployeeID = 0 }, ErrInvalidAssignee},
		{"missing reviewer", func(tk *Task) { tk.ReviewerID = -1 }, ErrInvalidReviewer},
		{"same assignee and reviewer", func(tk *Task) { tk.ReviewerID = tk.AssignedEmployeeID }, nil},
		{"deadline before start", func(tk *Task) { tk.DeadlineDate = tk.StartDate.Add(-time.Minute) }, ErrDeadlineBeforeStart},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			task := validTask()
			tc.mutate(&task)
			err := task.Validate()
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tc.wantErr, err)
			assert.True(t, errors.Is(err, ErrValidation))
		})
	}
}

func TestParseTaskStatus(t *testing.T) {
	for _, s := range []string{"Working", "working", "1"} {
		got, err := ParseTaskStatus(s)
		assert.NoError(t, err)
		assert.Equal(t, TaskStatusWorking, got)
	}

	_, err := ParseTaskStatus("Archived")
	assert.ErrorIs(t, err, ErrInvalidTaskStatus)
	_, err = ParseTaskStatus("9")
	assert.ErrorIs(t, err, ErrInvalidTaskStatus)
}

func TestTaskStatusString(t *testing.T) {
	assert.Equal(t, "NotStarted", TaskStatusNotStarted.String())
	assert.Equal(t, "Completed", TaskStatusCompleted.String())
	assert.Equal(t, "TaskStatus(9)", TaskStatus(9).String())
}
