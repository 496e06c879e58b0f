// Package main provides the long-running scheduler daemon: daily
// prediction runs, lineup-confirmed refreshes and next-morning
// verification, plus the Prometheus metrics endpoint.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/longball/internal/aggregator"
	"github.com/yourusername/longball/internal/config"
	"github.com/yourusername/longball/internal/database"
	"github.com/yourusername/longball/internal/datasource"
	"github.com/yourusername/longball/internal/factors"
	"github.com/yourusername/longball/internal/health"
	"github.com/yourusername/longball/internal/logger"
	"github.com/yourusername/longball/internal/metrics"
	"github.com/yourusername/longball/internal/scheduler"
	"github.com/yourusername/longball/internal/scoring"
	"github.com/yourusername/longball/internal/service"
	"github.com/yourusername/longball/internal/tracking"
	"github.com/yourusername/longball/internal/verify"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	configPath := os.Getenv("LONGBALL_CONFIG")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := config.LoadWithDefaults(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			log.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			log.Fatalf("Failed to load secrets: %v", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	appLog := logger.NewLogger(cfg.App.LogLevel)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"log_level":   cfg.App.LogLevel,
	}).Info("Longball scheduler starting")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.Initialize(ctx, &cfg.Database)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()
	appLog.Info("Database connection established")

	httpClient := datasource.NewRateLimitedHTTPClient(datasource.HTTPClientConfig{
		Timeout:           time.Duration(cfg.Sources.TimeoutSeconds) * time.Second,
		MaxRetries:        cfg.Sources.MaxRetries,
		RetryWaitMin:      time.Duration(cfg.Sources.RetryWaitMinMS) * time.Millisecond,
		RetryWaitMax:      time.Duration(cfg.Sources.RetryWaitMaxMS) * time.Millisecond,
		RateLimit:         cfg.Sources.RateLimitPerSec,
		CircuitBreakerMax: 5,
	}, logger.WithComponent(appLog, "http"))
	defer httpClient.Close()

	mlbClient := datasource.NewMLBStatsClient(httpClient, cfg.Sources.StatsBaseURL,
		logger.WithComponent(appLog, "mlb_stats"))
	savant := datasource.NewSavantClient(httpClient, cfg.Sources.SavantBaseURL,
		time.Duration(cfg.Sources.CacheTTLSeconds)*time.Second,
		logger.WithComponent(appLog, "savant"))
	weatherClient := datasource.NewOpenWeatherClient(httpClient, cfg.Sources.WeatherBaseURL,
		cfg.Sources.WeatherAPIKey, logger.WithComponent(appLog, "weather"))
	rotowire := datasource.NewRotowireClient(httpClient, cfg.Sources.RotowireBaseURL,
		logger.WithComponent(appLog, "rotowire"))

	var lineupSources []datasource.LineupSource
	for _, name := range cfg.Sources.LineupPriority {
		switch name {
		case "mlb":
			lineupSources = append(lineupSources, mlbClient)
		case "rotowire":
			lineupSources = append(lineupSources, rotowire)
		}
	}
	chain := datasource.NewLineupChain(lineupSources, logger.WithComponent(appLog, "lineup_chain"))
	chain.OnFallback(metrics.RecordLineupFallback)

	agg := aggregator.New(aggregator.Config{
		Schedule:    mlbClient,
		Lineups:     chain,
		Stats:       mlbClient,
		Contact:     savant,
		Weather:     weatherClient,
		Logger:      logger.WithComponent(appLog, "aggregator"),
		Concurrency: cfg.Sources.FetchConcurrency,
	})

	table, err := config.LoadWeightTable(&cfg.Weights)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to load weight table")
	}
	model, err := scoring.NewProbabilityModel(table)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to build probability model")
	}

	store := tracking.NewPostgresStore(db, logger.WithComponent(appLog, "tracking"))

	predictionSvc := service.NewPredictionService(
		agg,
		factors.NewEngine(),
		model,
		scoring.NewCategorizer(cfg.Tiers),
		store,
		logger.NewAuditLogger(appLog),
		logrus.NewEntry(appLog),
		cfg.Run,
	)
	verifier := verify.NewVerifier(mlbClient, store, logger.WithComponent(appLog, "verify"))

	sched := scheduler.NewScheduler(predictionSvc, verifier, logger.WithComponent(appLog, "scheduler"))
	if err := sched.ScheduleEarlyRun(cfg.Schedule.Early); err != nil {
		appLog.WithError(err).Fatal("Failed to schedule early run")
	}
	if err := sched.ScheduleMiddayRuns(cfg.Schedule.Midday); err != nil {
		appLog.WithError(err).Fatal("Failed to schedule midday runs")
	}
	if err := sched.ScheduleVerification(cfg.Schedule.Verify); err != nil {
		appLog.WithError(err).Fatal("Failed to schedule verification")
	}
	if err := sched.Start(); err != nil {
		appLog.WithError(err).Fatal("Failed to start scheduler")
	}
	appLog.WithField("next_run", sched.GetNextRun().Format(time.RFC3339)).Info("Scheduler running")

	healthServer := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Commit:      GitCommit,
		Logger:      appLog,
	})
	healthServer.AddCheck("database", db.Ping)
	healthServer.AddCheck("scheduler", func(context.Context) error {
		if !sched.IsRunning() {
			return fmt.Errorf("scheduler not running")
		}
		return nil
	})
	if err := healthServer.Start(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to start health server")
	}
	healthServer.SetReady(true)

	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, metrics.Handler())
		metricsServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
			Handler: mux,
		}
		go func() {
			appLog.WithField("port", cfg.Metrics.Port).Info("Metrics server listening")
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				appLog.WithError(err).Error("Metrics server failed")
			}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	appLog.WithField("signal", sig.String()).Info("Shutting down")

	if err := sched.Stop(); err != nil {
		appLog.WithError(err).Error("Failed to stop scheduler")
	}
	if metricsServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			appLog.WithError(err).Error("Failed to stop metrics server")
		}
	}
	appLog.Info("Shutdown complete")
}
