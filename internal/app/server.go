package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/GoArmGo/registro/internal/config"
	"github.com/GoArmGo/registro/internal/handler"
	"github.com/GoArmGo/registro/internal/usecase"
	"github.com/GoArmGo/registro/internal/web"
)

const shutdownTimeout = 30 * time.Second

// runServer запускает HTTP сервер формы регистрации
func runServer(
	ctx context.Context,
	cfg *config.Config,
	registration usecase.RegistrationUseCase,
	pages *web.Pages,
	logger *slog.Logger,
) error {
	h := handler.NewRegistrationHandler(registration, pages, logger)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ServerPort),
		Handler: handler.NewRouter(h, logger),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutdown signal received, stopping HTTP server")

	ctxServer, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctxServer); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	logger.Info("HTTP server stopped")
	return nil
}
