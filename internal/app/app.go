package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/GoArmGo/registro/internal/config"
	"github.com/GoArmGo/registro/internal/core/ports"
	"github.com/GoArmGo/registro/internal/usecase"
	"github.com/GoArmGo/registro/internal/web"
)

// App держит собранные зависимости и запускает выбранный режим.
type App struct {
	cfg          *config.Config
	logger       *slog.Logger
	registration usecase.RegistrationUseCase
	pages        *web.Pages
	consumer     ports.AccountEventConsumer
	closers      []io.Closer
}

func NewApp(
	cfg *config.Config,
	logger *slog.Logger,
	registration usecase.RegistrationUseCase,
	pages *web.Pages,
	consumer ports.AccountEventConsumer,
	closers ...io.Closer,
) *App {
	return &App{
		cfg:          cfg,
		logger:       logger,
		registration: registration,
		pages:        pages,
		consumer:     consumer,
		closers:      closers,
	}
}

// LoggerIns возвращает основной логгер приложения.
func (a *App) LoggerIns() *slog.Logger {
	return a.logger
}

// Run запускает режим "server" или "worker" и блокируется до сигнала завершения.
func (a *App) Run(ctx context.Context, mode string) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.logger.Info("starting", "mode", mode)

	var err error
	switch mode {
	case "server":
		err = runServer(ctx, a.cfg, a.registration, a.pages, a.logger)
	case "worker":
		err = runWorker(ctx, a.consumer, a.logger)
	default:
		err = fmt.Errorf("unknown mode: %s (use 'server' or 'worker')", mode)
	}

	if closeErr := a.Shutdown(); closeErr != nil {
		a.logger.Error("shutdown failed", "error", closeErr)
	}
	return err
}

// Shutdown закрывает все ресурсы приложения
func (a *App) Shutdown() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
