package ports

import (
	"context"

	"github.com/GoArmGo/registro/internal/messaging/payloads"
)

// AccountEventPublisher публикует события об успешной регистрации.
type AccountEventPublisher interface {
	PublishAccountRegistered(ctx context.Context, payload payloads.AccountRegisteredPayload) error
}

// AccountEventConsumer используется воркером для получения событий из очереди
type AccountEventConsumer interface {
	// StartConsumingAccountRegistered начинает прослушивание очереди;
	// handler вызывается для каждого полученного сообщения
	StartConsumingAccountRegistered(ctx context.Context, handler func(context.Context, payloads.AccountRegisteredPayload) error) error
}
