package di

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/GoArmGo/registro/internal/app"
	"github.com/GoArmGo/registro/internal/config"
	"github.com/GoArmGo/registro/internal/core/ports"
	"github.com/GoArmGo/registro/internal/credential"
	"github.com/GoArmGo/registro/internal/database/client"
	"github.com/GoArmGo/registro/internal/database/storage"
	"github.com/GoArmGo/registro/internal/logger"
	"github.com/GoArmGo/registro/internal/rabbitmq"
	"github.com/GoArmGo/registro/internal/usecase"
	"github.com/GoArmGo/registro/internal/web"
)

// BuildApp инициализирует все зависимости и возвращает готовый объект App.
func BuildApp() (*app.App, error) {
	// 1. Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	slogger := logger.NewSlog(logger.SlogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	slogger.Info("logger initialized", "level", cfg.LogLevel, "format", cfg.LogFormat)

	var closers []io.Closer

	// 2-3. Хранилище учётных записей (PostgreSQL с миграциями или память)
	accounts, dbCloser, err := newAccountStorage(cfg, slogger)
	if err != nil {
		return nil, err
	}
	if dbCloser != nil {
		closers = append(closers, dbCloser)
	}

	// 4. RabbitMQ (необязателен)
	var (
		publisher ports.AccountEventPublisher
		consumer  ports.AccountEventConsumer
	)
	if cfg.RabbitMQ.RabbitMQURL != "" {
		mq, err := rabbitmq.NewClient(cfg.RabbitMQ.RabbitMQURL, cfg.RabbitMQ.RabbitMQQueueName, slogger)
		if err != nil {
			for _, c := range closers {
				_ = c.Close()
			}
			return nil, err
		}
		publisher, consumer = mq, mq
		closers = append(closers, mq)
	} else {
		slogger.Info("RABBITMQ_URL is empty, account events are disabled")
	}

	// 5. Бизнес-логика
	registration := usecase.NewRegistrationUseCase(accounts, credential.NewHasher(nil), publisher, slogger)

	// 6. Страницы
	pages, err := web.ParsePages()
	if err != nil {
		for _, c := range closers {
			_ = c.Close()
		}
		return nil, fmt.Errorf("parse pages: %w", err)
	}

	slogger.Info("all dependencies initialized")
	return app.NewApp(cfg, slogger, registration, pages, consumer, closers...), nil
}

// newAccountStorage выбирает хранилище по STORAGE_BACKEND.
// Для postgres возвращает клиент БД, который нужно закрыть при остановке.
func newAccountStorage(cfg *config.Config, logger *slog.Logger) (ports.AccountStorage, io.Closer, error) {
	switch cfg.StorageBackend {
	case config.StoragePostgres:
		dbClient, err := client.NewClient(cfg.Database, logger)
		if err != nil {
			return nil, nil, err
		}
		return storage.NewAccountStorage(dbClient.DB, logger), dbClient, nil
	case config.StorageMemory:
		logger.Warn("using in-memory account storage, accounts are lost on restart")
		return storage.NewMemoryAccountStorage(), nil, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", config.ErrUnknownStorage, cfg.StorageBackend)
	}
}
