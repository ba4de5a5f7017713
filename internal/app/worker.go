package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/registro/internal/core/ports"
	"github.com/GoArmGo/registro/internal/messaging/payloads"
)

// ErrNoConsumer — воркер запущен без RABBITMQ_URL.
var ErrNoConsumer = errors.New("worker mode requires RABBITMQ_URL")

// auditHandler пишет журнал аудита для каждого события о регистрации.
func auditHandler(logger *slog.Logger) func(context.Context, payloads.AccountRegisteredPayload) error {
	return func(ctx context.Context, p payloads.AccountRegisteredPayload) error {
		if p.Event != payloads.AccountRegisteredEvent {
			return fmt.Errorf("%w: unexpected event type %q", payloads.ErrUnprocessable, p.Event)
		}
		logger.InfoContext(ctx, "audit: account registered",
			"event_id", p.EventID,
			"email", p.Email,
			"registered_at", p.RegisteredAt,
		)
		return nil
	}
}

// runWorker запускает потребителя RabbitMQ и обрабатывает сообщения до отмены ctx
func runWorker(ctx context.Context, consumer ports.AccountEventConsumer, logger *slog.Logger) error {
	if consumer == nil {
		return ErrNoConsumer
	}

	if err := consumer.StartConsumingAccountRegistered(ctx, auditHandler(logger)); err != nil {
		return fmt.Errorf("start RabbitMQ consumer: %w", err)
	}
	logger.Info("worker started, waiting for account registered events")

	<-ctx.Done()

	logger.Info("worker stopped")
	return nil
}
