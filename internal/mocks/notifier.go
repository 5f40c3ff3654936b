package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/workforce-api/internal/notify"
)

// MockNotifier implements notify.Notifier and records every reminder.
type MockNotifier struct {
	SendReminderFn func(ctx context.Context, r notify.Reminder) error
	Err            error

	mu   sync.Mutex
	sent []notify.Reminder
}

var _ notify.Notifier = (*MockNotifier)(nil)

// SendReminder implements the notify.Notifier interface
func (m *MockNotifier) SendReminder(ctx context.Context, r notify.Reminder) error {
	m.mu.Lock()
	m.sent = append(m.sent, r)
	m.mu.Unlock()

	if m.SendReminderFn != nil {
		return m.SendReminderFn(ctx, r)
	}
	return m.Err
}

// Sent returns the reminders passed to SendReminder so far.
func (m *MockNotifier) Sent() []notify.Reminder {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]notify.Reminder(nil), m.sent...)
}
