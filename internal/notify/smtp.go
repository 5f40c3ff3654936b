package notify

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/phrazzld/workforce-api/internal/config"
	"github.com/phrazzld/workforce-api/internal/redact"
)

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPNotifier sends reminders as HTML mail.
type SMTPNotifier struct {
	addr   string
	auth   smtp.Auth
	from   string
	send   sendMailFunc
	now    func() time.Time
	logger *slog.Logger
}

// NewSMTPNotifier creates an SMTPNotifier from the notify settings. The
// sender defaults to the SMTP username.
func NewSMTPNotifier(cfg config.NotifyConfig, logger *slog.Logger) (*SMTPNotifier, error) {
	if cfg.SMTPHost == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	from := cfg.Sender
	if from == "" {
		from = cfg.SMTPUsername
	}
	if from == "" {
		return nil, fmt.Errorf("smtp sender or username is required")
	}

	var auth smtp.Auth
	if cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPHost)
	}

	return &SMTPNotifier{
		addr:   net.JoinHostPort(cfg.SMTPHost, strconv.Itoa(cfg.SMTPPort)),
		auth:   auth,
		from:   from,
		send:   smtp.SendMail,
		now:    time.Now,
		logger: logger.With("component", "notify", "transport", "smtp"),
	}, nil
}

// SendReminder implements Notifier.
func (n *SMTPNotifier) SendReminder(ctx context.Context, r Reminder) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := n.buildMessage(r)
	if err != nil {
		return err
	}

	if err := n.send(n.addr, n.auth, n.from, []string{r.To}, msg); err != nil {
		n.logger.ErrorContext(ctx, "failed to send reminder email",
			"error", redact.Error(err),
			"to", redact.Email(r.To),
			"task_id", r.TaskID)
		return fmt.Errorf("failed to send reminder email: %w", err)
	}

	n.logger.InfoContext(ctx, "reminder email sent",
		"to", redact.Email(r.To),
		"task_id", r.TaskID)
	return nil
}

func (n *SMTPNotifier) buildMessage(r Reminder) ([]byte, error) {
	body, err := RenderBody(r)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	header := func(k, v string) {
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(v)
		b.WriteString("\r\n")
	}
	header("From", n.from)
	header("To", r.To)
	header("Subject", mime.QEncoding.Encode("utf-8", Subject(r.TaskTitle)))
	header("Date", n.now().UTC().Format(time.RFC1123Z))
	header("MIME-Version", "1.0")
	header("Content-Type", `text/html; charset="UTF-8"`)
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))

	return []byte(b.String()), nil
}
