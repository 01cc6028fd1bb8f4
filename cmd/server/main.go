package main // Entry point package

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/iliyamo/ecommerce-backend/internal/app"
	"github.com/iliyamo/ecommerce-backend/internal/config"
	"github.com/iliyamo/ecommerce-backend/internal/logger"
)

func main() {
	cfg := config.Load() // Load environment config

	logs, err := logger.New().FromPath(cfg.LogFile).WithLevel(cfg.LogLevel).Make()
	if err != nil {
		log.Fatalf("open log: %v", err)
	}
	defer logs.Close()

	a, err := app.New(cfg, logs.Logger)
	if err != nil {
		logs.Logger.Fatal().Err(err).Msg("startup failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Run(ctx); err != nil {
		logs.Logger.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
