package notify

import (
	"context"
	"log/slog"

	"github.com/phrazzld/workforce-api/internal/redact"
)

// LogNotifier records reminders in the log instead of sending them.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With("component", "notify", "transport", "log")}
}

// SendReminder implements Notifier.
func (n *LogNotifier) SendReminder(ctx context.Context, r Reminder) error {
	if err := r.Validate(); err != nil {
		return err
	}
	n.logger.InfoContext(ctx, "reminder recorded",
		"to", redact.Email(r.To),
		"task_id", r.TaskID,
		"subject", Subject(r.TaskTitle),
		"deadline", r.Deadline.UTC())
	return nil
}
