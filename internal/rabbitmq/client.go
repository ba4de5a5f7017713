package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/registro/internal/messaging/payloads"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Client представляет собой клиент RabbitMQ для событий регистрации
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   amqp.Queue
	logger  *slog.Logger
}

// NewClient подключается к RabbitMQ и объявляет очередь queueName
func NewClient(url, queueName string, logger *slog.Logger) (*Client, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	// Идемпотентно: очередь создаётся, только если её ещё нет.
	q, err := ch.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare a queue: %w", err)
	}

	logger.Info("RabbitMQ queue declared", "queue", q.Name, "messages", q.Messages)

	return &Client{conn: conn, channel: ch, queue: q, logger: logger}, nil
}

// Close закрывает канал и соединение RabbitMQ
func (c *Client) Close() error {
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			c.logger.Warn("error closing RabbitMQ channel", "error", err)
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			return fmt.Errorf("close RabbitMQ connection: %w", err)
		}
	}
	c.logger.Info("RabbitMQ connection closed")
	return nil
}

// PublishAccountRegistered публикует событие в очередь.
// Реализует ports.AccountEventPublisher.
func (c *Client) PublishAccountRegistered(ctx context.Context, payload payloads.AccountRegisteredPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload to JSON: %w", err)
	}

	err = c.channel.PublishWithContext(
		ctx,
		"",           // exchange
		c.queue.Name, // routing key
		false,        // mandatory
		false,        // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    payload.EventID.String(),
			Type:         payload.Event,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish a message: %w", err)
	}
	c.logger.Debug("event published", "queue", c.queue.Name, "event_id", payload.EventID)
	return nil
}

// StartConsumingAccountRegistered начинает потребление сообщений из очереди.
// Реализует ports.AccountEventConsumer.
func (c *Client) StartConsumingAccountRegistered(ctx context.Context, handler func(context.Context, payloads.AccountRegisteredPayload) error) error {
	msgs, err := c.channel.Consume(
		c.queue.Name, // queue
		"",           // consumer
		false,        // auto-ack (подтверждаем вручную)
		false,        // exclusive
		false,        // no-local
		false,        // no-wait
		nil,          // args
	)
	if err != nil {
		return fmt.Errorf("failed to register a consumer: %w", err)
	}

	c.logger.Info("consumer registered", "queue", c.queue.Name)

	go func() {
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					c.logger.Info("RabbitMQ channel closed, stopping consumer")
					return
				}
				handleDelivery(ctx, msg, handler, c.logger)
			case <-ctx.Done():
				c.logger.Info("context cancelled, stopping RabbitMQ consumer")
				return
			}
		}
	}()

	return nil
}

// handleDelivery декодирует одно сообщение и подтверждает его.
// Битое или необрабатываемое сообщение отклоняется без возврата в очередь,
// прочие ошибки обработчика возвращают его в очередь.
func handleDelivery(ctx context.Context, msg amqp.Delivery, handler func(context.Context, payloads.AccountRegisteredPayload) error, logger *slog.Logger) {
	var payload payloads.AccountRegisteredPayload
	if err := json.Unmarshal(msg.Body, &payload); err != nil {
		logger.Warn("error unmarshalling message", "error", err, "message_id", msg.MessageId)
		if err := msg.Nack(false, false); err != nil {
			logger.Error("error NACKing message after unmarshal failure", "error", err)
		}
		return
	}

	if err := handler(ctx, payload); err != nil {
		requeue := !errors.Is(err, payloads.ErrUnprocessable)
		logger.Error("error processing message", "error", err, "event_id", payload.EventID, "requeue", requeue)
		if err := msg.Nack(false, requeue); err != nil {
			logger.Error("error NACKing message after processing failure", "error", err)
		}
		return
	}

	if err := msg.Ack(false); err != nil {
		logger.Error("error ACKing message", "error", err)
	}
}
