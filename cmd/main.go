package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "adpulse/internal/adapter/http"
	"adpulse/internal/adapter/postgres"
	"adpulse/internal/adapter/usecase"
	"adpulse/internal/config"
	"adpulse/internal/core/analytics"
	"adpulse/internal/db"
)

// main is the entry point of the adpulse service. It loads configuration,
// optionally runs database migrations and seeds demo data, initializes
// the database pool and repository, then starts the HTTP server. On
// receiving a termination signal it gracefully shuts down the server.
func main() {
	exitCode := 1
	defer func() {
		if r := recover(); r != nil {
			panic(r)
		} else {
			os.Exit(exitCode)
		}
	}()

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	var logger *slog.Logger
	{
		// Initialise structured logger based on configuration.
		var handler slog.Handler
		level := cfg.Log.SlogLevel()
		switch cfg.Log.SlogFormat() {
		case "json":
			handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
		default:
			handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
		}
		logger = slog.New(handler)
	}

	// Optionally run migrations if configured. We use the Psql sub-config.
	if cfg.Psql.RunMigrations {
		if err = db.Migrate(cfg.Psql.Addr.String()); err != nil {
			logger.Error("migration error", slog.Any("error", err))
		} else {
			logger.Info("migrations applied successfully")
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg.Psql)
	if err != nil {
		logger.Error("database connection error", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	if cfg.Psql.RunSeed {
		if err = db.Seed(ctx, pool); err != nil {
			logger.Error("seed error", slog.Any("error", err))
		} else {
			logger.Info("demo data seeded")
		}
	}

	repo := postgres.NewAnalyticsRepository(pool)
	svc := usecase.NewAnalyticsUseCase(repo,
		analytics.DetectorOptions{
			ImpressionThresholdPct:      cfg.Detector.ImpressionThresholdPct,
			TransactionDropThresholdPct: cfg.Detector.TransactionDropThresholdPct,
			ZeroTransactionDays:         cfg.Detector.ZeroTransactionDays,
			CTRThresholdPct:             cfg.Detector.CTRThresholdPct,
		},
		healthBands(cfg),
		healthWeights(cfg),
		logger,
	)

	handler := httpadapter.NewHandler(svc, logger)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler: handler.Router(),
	}

	go func() {
		logger.Info("server listening", slog.Int("port", int(cfg.HTTP.Port)))
		if err = srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	value := <-quit
	exitCode = 128 + int(value.(syscall.Signal))

	ctx, cancel = context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err = srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
	} else {
		logger.Info("server gracefully stopped")
	}
}

func healthBands(cfg config.Config) analytics.HealthBands {
	return analytics.HealthBands{
		ROASExcellent:  cfg.Health.ROASExcellent,
		ROASGood:       cfg.Health.ROASGood,
		ROASFair:       cfg.Health.ROASFair,
		ROASPoor:       cfg.Health.ROASPoor,
		PacingTight:    cfg.Health.PacingTight,
		PacingNear:     cfg.Health.PacingNear,
		PacingWide:     cfg.Health.PacingWide,
		BurnTight:      cfg.Health.BurnTight,
		BurnNear:       cfg.Health.BurnNear,
		BurnWide:       cfg.Health.BurnWide,
		CTRFloor:       cfg.Health.CTRFloor,
		CTRLow:         cfg.Health.CTRLow,
		CTRCeiling:     cfg.Health.CTRCeiling,
		CTRHigh:        cfg.Health.CTRHigh,
		OverspendMinor: cfg.Health.OverspendMinor,
		OverspendMajor: cfg.Health.OverspendMajor,
	}
}

func healthWeights(cfg config.Config) analytics.HealthWeights {
	return analytics.HealthWeights{
		ROAS:      cfg.Health.WeightROAS,
		Pacing:    cfg.Health.WeightPacing,
		BurnRate:  cfg.Health.WeightBurnRate,
		CTR:       cfg.Health.WeightCTR,
		Overspend: cfg.Health.WeightOverspend,
	}
}
