// Package main provides the one-shot prediction run command.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/longball/internal/aggregator"
	"github.com/yourusername/longball/internal/config"
	"github.com/yourusername/longball/internal/database"
	"github.com/yourusername/longball/internal/datasource"
	"github.com/yourusername/longball/internal/factors"
	"github.com/yourusername/longball/internal/logger"
	"github.com/yourusername/longball/internal/scoring"
	"github.com/yourusername/longball/internal/service"
	"github.com/yourusername/longball/internal/tracking"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	dateFlag   string
	tagFlag    string
	appLog     *logrus.Logger
	cfg        *config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().StringVar(&dateFlag, "date", "", "Slate date (YYYY-MM-DD), defaults to today")
	rootCmd.Flags().StringVar(&tagFlag, "tag", service.RunTagEarly, "Run tag: early or midday-N")
}

var rootCmd = &cobra.Command{
	Use:   "predict",
	Short: "Run one home run prediction slate",
	Long:  `Aggregates today's games, scores every starting batter and commits the ranked top picks.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadWithDefaults(configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
			region := os.Getenv("AWS_REGION")
			secretName := os.Getenv("AWS_SECRET_NAME")
			if region == "" || secretName == "" {
				return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
			}
			if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
				return fmt.Errorf("failed to load secrets: %w", err)
			}
		}
		if err := config.Validate(cfg); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		appLog = logger.NewLogger(cfg.App.LogLevel)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSlate()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func runSlate() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	date := dateFlag
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	}

	db, err := database.Initialize(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	svc, err := buildPredictionService(db)
	if err != nil {
		return err
	}

	result, err := svc.Run(ctx, date, tagFlag)
	if err != nil {
		return err
	}

	fmt.Printf("Committed %d predictions for %s (%s run, %d/%d games)\n",
		len(result.Predictions), result.Date, result.RunTag,
		result.GamesTotal-result.GamesDropped, result.GamesTotal)
	for i, p := range result.Predictions {
		fmt.Printf("%2d. [%-8s] %-24s %s vs %s  %.1f%%\n",
			i+1, p.Category, p.PlayerName, p.Team, p.Opponent, p.Probability*100)
	}
	return nil
}

func buildPredictionService(db *database.DB) (*service.PredictionService, error) {
	entry := logrus.NewEntry(appLog)

	httpClient := datasource.NewRateLimitedHTTPClient(datasource.HTTPClientConfig{
		Timeout:           time.Duration(cfg.Sources.TimeoutSeconds) * time.Second,
		MaxRetries:        cfg.Sources.MaxRetries,
		RetryWaitMin:      time.Duration(cfg.Sources.RetryWaitMinMS) * time.Millisecond,
		RetryWaitMax:      time.Duration(cfg.Sources.RetryWaitMaxMS) * time.Millisecond,
		RateLimit:         cfg.Sources.RateLimitPerSec,
		CircuitBreakerMax: 5,
	}, logger.WithComponent(appLog, "http"))

	mlbClient := datasource.NewMLBStatsClient(httpClient, cfg.Sources.StatsBaseURL,
		logger.WithComponent(appLog, "mlb_stats"))
	savant := datasource.NewSavantClient(httpClient, cfg.Sources.SavantBaseURL,
		time.Duration(cfg.Sources.CacheTTLSeconds)*time.Second,
		logger.WithComponent(appLog, "savant"))
	weather := datasource.NewOpenWeatherClient(httpClient, cfg.Sources.WeatherBaseURL,
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

	agg := aggregator.New(aggregator.Config{
		Schedule:    mlbClient,
		Lineups:     chain,
		Stats:       mlbClient,
		Contact:     savant,
		Weather:     weather,
		Logger:      logger.WithComponent(appLog, "aggregator"),
		Concurrency: cfg.Sources.FetchConcurrency,
	})

	table, err := config.LoadWeightTable(&cfg.Weights)
	if err != nil {
		return nil, fmt.Errorf("failed to load weight table: %w", err)
	}
	model, err := scoring.NewProbabilityModel(table)
	if err != nil {
		return nil, fmt.Errorf("failed to build probability model: %w", err)
	}

	return service.NewPredictionService(
		agg,
		factors.NewEngine(),
		model,
		scoring.NewCategorizer(cfg.Tiers),
		tracking.NewPostgresStore(db, logger.WithComponent(appLog, "tracking")),
		logger.NewAuditLogger(appLog),
		entry,
		cfg.Run,
	), nil
}
