package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/avolosh/tankarena-go/internal/api"
	"github.com/avolosh/tankarena-go/internal/config"
	"github.com/avolosh/tankarena-go/internal/factory"
	"github.com/avolosh/tankarena-go/internal/janitor"
	"github.com/avolosh/tankarena-go/internal/services/room"
	"github.com/avolosh/tankarena-go/internal/session"
	redisstorage "github.com/avolosh/tankarena-go/internal/storage/redis"
)

func main() {
	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	roomCfg := room.DefaultConfig()
	roomCfg.CreateTimeout = cfg.CreateTimeout()
	roomCfg.MapWaitTimeout = cfg.MapWaitTimeout()
	roomCfg.GridSize = cfg.GridSize
	roomCfg.ObstacleProbability = cfg.ObstacleProbability
	roomCfg.DefaultDurationSeconds = cfg.DefaultDuration

	sessionCfg := session.DefaultConfig()
	sessionCfg.TickInterval = cfg.TickInterval()

	janitorCfg := janitor.DefaultConfig()
	janitorCfg.Interval = cfg.JanitorInterval()
	janitorCfg.IdleRoomTTL = cfg.IdleRoomTTL()

	factoryCfg := factory.Config{
		Logger:        logger,
		StorageType:   cfg.StorageType,
		PostgresDSN:   cfg.PostgresDSN,
		RoomConfig:    roomCfg,
		SessionConfig: sessionCfg,
		JanitorConfig: janitorCfg,
	}

	if factoryCfg.StorageType == factory.StorageTypeRedis {
		if cfg.RedisURL == "" {
			logger.Error("TANKARENA_REDIS_URL required when storage type is redis")
			os.Exit(1)
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		factoryCfg.RedisConfig = &redisCfg
	}

	app, err := factory.New(factoryCfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	router := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		RoomController: app.RoomController,
		Sessions:       app.Sessions,
		Records:        app.Records,
		HubManager:     app.HubManager,
	})

	serverCfg := api.DefaultServerConfig()
	serverCfg.Host = cfg.Host
	serverCfg.Port = cfg.Port
	server := api.NewServer(router, serverCfg, logger)

	app.Janitor.Start()

	// Handle shutdown signals
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started", slog.String("addr", server.Addr()))

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		if err := app.Janitor.Stop(); err != nil {
			logger.Warn("janitor shutdown error", slog.String("error", err.Error()))
		}
		app.Sessions.StopAll()
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("server stopped")
}
