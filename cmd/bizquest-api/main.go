package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bizquest/internal/api"
	"bizquest/internal/config"
	"bizquest/internal/content"
	"bizquest/internal/db"
	"bizquest/internal/game"
	"bizquest/internal/tutor"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadAPIFromEnv()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	pool, err := db.Connect(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		logger.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	contentStore, err := content.NewStore(pool)
	if err != nil {
		logger.Error("content store init failed", "err", err)
		os.Exit(1)
	}

	gameSvc := game.NewService(pool, contentStore, logger, game.Tuning{
		CashFloorCents:    cfg.CashFloorCents,
		EventProbScale:    cfg.EventProbScale,
		IdleRateCentsHour: cfg.IdleRateCents,
	})
	if cfg.TutorURL != "" {
		gameSvc.UseTutor(tutor.NewClient(cfg.TutorURL, cfg.TutorAPIKey, logger))
	}

	if cfg.SeedContent {
		if err := gameSvc.SeedDefaults(ctx); err != nil {
			logger.Error("seed defaults failed", "err", err)
			os.Exit(1)
		}
	}

	server := api.New(cfg, logger, gameSvc)
	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info("bizquest api listening", "addr", cfg.Addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed", "err", err)
		os.Exit(1)
	}
}
