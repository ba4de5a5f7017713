package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/GoArmGo/registro/internal/di"
)

func main() {
	mode := flag.String("mode", "server", "режим запуска: server или worker")
	flag.Parse()

	// bootstrap-логгер, пока основной ещё не создан
	bootstrapLogger := slog.New(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
	)
	bootstrapLogger.Info("starting application", "mode", *mode)

	application, err := di.BuildApp()
	if err != nil {
		bootstrapLogger.Error("failed to build app", "error", err)
		os.Exit(1)
	}

	log := application.LoggerIns()

	if err := application.Run(context.Background(), *mode); err != nil {
		log.Error("application run failed", "error", err)
		os.Exit(1)
	}

	log.Info("application stopped gracefully")
}
