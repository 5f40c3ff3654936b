// Package notify delivers overdue-task reminders. A Notifier either sends
// the reminder itself (SMTP), records it (log) or queues it for the mailer
// worker (AMQP).
package notify

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/phrazzld/workforce-api/internal/metrics"
)

var (
	// ErrEmptyRecipient is returned when a reminder has no address.
	ErrEmptyRecipient = errors.New("recipient email cannot be empty")

	// ErrEmptyTitle is returned when a reminder has no task title.
	ErrEmptyTitle = errors.New("task title cannot be empty")
)

// Reminder is one overdue-task notice. It is also the AMQP message body.
type Reminder struct {
	To        string    `json:"to"`
	TaskID    int64     `json:"taskId"`
	TaskTitle string    `json:"taskTitle"`
	Deadline  time.Time `json:"deadline"`
}

// Validate checks the fields every transport needs.
func (r Reminder) Validate() error {
	if strings.TrimSpace(r.To) == "" {
		return ErrEmptyRecipient
	}
	if strings.TrimSpace(r.TaskTitle) == "" {
		return ErrEmptyTitle
	}
	return nil
}

// Notifier delivers reminders.
type Notifier interface {
	SendReminder(ctx context.Context, r Reminder) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, r Reminder) error

// SendReminder calls f.
func (f NotifierFunc) SendReminder(ctx context.Context, r Reminder) error {
	return f(ctx, r)
}

// Instrument counts every delivery attempt of n under transport.
func Instrument(n Notifier, transport string) Notifier {
	return NotifierFunc(func(ctx context.Context, r Reminder) error {
		err := n.SendReminder(ctx, r)
		status := "sent"
		if err != nil {
			status = "failed"
		}
		metrics.RecordReminder(transport, status)
		return err
	})
}
