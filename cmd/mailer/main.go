// Command mailer consumes queued overdue-task reminders and delivers them
// over SMTP. The API server queues reminders when its notify transport is
// amqp.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/workforce-api/internal/config"
	"github.com/phrazzld/workforce-api/internal/notify"
	"github.com/phrazzld/workforce-api/internal/platform/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Fatalf("mailer: %v", err)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.LoadMailer()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	l = l.With("component", "mailer")

	smtpNotifier, err := notify.NewSMTPNotifier(cfg.Notify, l)
	if err != nil {
		return fmt.Errorf("failed to initialize SMTP notifier: %w", err)
	}

	conn, ch, err := notify.Dial(cfg.Notify.AMQPURL, cfg.Notify.AMQPQueue)
	if err != nil {
		return err
	}
	defer func() {
		_ = ch.Close()
		_ = conn.Close()
	}()

	consumer, err := notify.NewConsumer(ch, cfg.Notify.AMQPQueue, notify.Instrument(smtpNotifier, "smtp"), l)
	if err != nil {
		return err
	}

	l.Info("mailer started", slog.String("queue", cfg.Notify.AMQPQueue))
	return consumer.Run(ctx)
}
