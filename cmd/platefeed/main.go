package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"platefeed/internal/api"
	"platefeed/internal/config"
	"platefeed/internal/env"
	"platefeed/internal/http"
	"platefeed/internal/log"
	"platefeed/internal/setup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	const setupTime = 30 * time.Second
	setupCtx, cancel := context.WithTimeout(ctx, setupTime)
	defer cancel()

	logger := log.New(nil)

	httpConfig := http.DefaultConfig()
	httpConfig.Logger = logger
	httpClient := http.New(httpConfig)

	conf, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	media, err := setup.Media(setupCtx, conf.Media)
	if err != nil {
		logger.Error("failed to setup media store", slog.Any("error", err))
		os.Exit(1)
	}

	db, err := setup.Database(setupCtx, conf.Database)
	if err != nil {
		logger.Error("failed to setup database", slog.Any("error", err))
		os.Exit(1)
	}

	environment := &env.Env{
		Logger:   logger,
		Database: db,
		Media:    media,
		HTTP:     httpClient,
		Config:   conf,
	}
	if sender := setup.SMTP(conf.SMTP); sender != nil {
		environment.SMTP = sender
	}

	logger.DebugContext(ctx, "setting up admin")
	if err := setup.Admin(setupCtx, environment); err != nil {
		logger.Error("failed to setup admin", slog.Any("error", err))
		os.Exit(1)
	}

	logger.DebugContext(ctx, "seeding tags")
	if err := setup.Tags(setupCtx, environment); err != nil {
		logger.Error("failed to seed tags", slog.Any("error", err))
		os.Exit(1)
	}

	logger.DebugContext(ctx, "seeding ingredient catalog")
	if err := setup.Ingredients(setupCtx, environment); err != nil {
		logger.Error("failed to seed ingredients", slog.Any("error", err))
		os.Exit(1)
	}

	if purged, err := db.DeleteExpiredAuthTokens(setupCtx); err != nil {
		logger.Warn("failed to purge expired tokens", slog.Any("error", err))
	} else if purged > 0 {
		logger.Info("purged expired auth tokens", slog.Int64("count", purged))
	}

	if err := api.Start(environment); err != nil {
		environment.Logger.Error("API Failed", slog.Any("error", err))
		os.Exit(1)
	}
}
