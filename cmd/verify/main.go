// Package main provides the verification command: grade a past slate
// against real outcomes and append an accuracy report.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/longball/internal/backtest"
	"github.com/yourusername/longball/internal/config"
	"github.com/yourusername/longball/internal/database"
	"github.com/yourusername/longball/internal/datasource"
	"github.com/yourusername/longball/internal/logger"
	"github.com/yourusername/longball/internal/metrics"
	"github.com/yourusername/longball/internal/tracking"
	"github.com/yourusername/longball/internal/verify"
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
	fromFlag   string
	toFlag     string
	appLog     *logrus.Logger
	cfg        *config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().StringVar(&dateFlag, "date", "", "Slate date to verify (YYYY-MM-DD), defaults to yesterday")
	reportsCmd.Flags().StringVar(&fromFlag, "from", "", "Range start (YYYY-MM-DD)")
	reportsCmd.Flags().StringVar(&toFlag, "to", "", "Range end (YYYY-MM-DD), defaults to today")
	replayCmd.Flags().StringVar(&fromFlag, "from", "", "Range start (YYYY-MM-DD)")
	replayCmd.Flags().StringVar(&toFlag, "to", "", "Range end (YYYY-MM-DD), defaults to yesterday")
	rootCmd.AddCommand(reportsCmd)
	rootCmd.AddCommand(replayCmd)
}

var rootCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify a past prediction slate",
	Long:  `Fetches final box scores for a past date, grades that date's predictions and appends an accuracy report.`,
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
		return runVerification()
	},
}

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "List accuracy reports for a date range",
	RunE: func(cmd *cobra.Command, args []string) error {
		return listReports()
	},
}

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay verification over a date range and summarize accuracy",
	Long:  `Grades every stored slate in the range against final box scores and reports range-level accuracy, calibration and Brier score.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReplay()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func runVerification() error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	date := dateFlag
	if date == "" {
		date = time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return fmt.Errorf("invalid date %q: %w", date, err)
	}

	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	store := tracking.NewPostgresStore(db, logger.WithComponent(appLog, "tracking"))

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

	verifier := verify.NewVerifier(mlbClient, store, logger.WithComponent(appLog, "verify"))
	report, err := verifier.Verify(ctx, date)
	if err != nil {
		return err
	}

	audit := logger.NewAuditLogger(appLog)
	audit.LogVerification(report.Date, report.Scored, report.Correct, report.Excluded)

	byCategory := make(map[string]float64, len(report.ByCategory))
	for category, ca := range report.ByCategory {
		byCategory[category] = ca.Accuracy.InexactFloat64()
	}
	metrics.UpdateAccuracy(report.Overall.InexactFloat64(), byCategory)

	fmt.Print(report.String())
	return nil
}

func runReplay() error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Hour)
	defer cancel()

	to := toFlag
	if to == "" {
		to = time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")
	}
	from := fromFlag
	if from == "" {
		return fmt.Errorf("--from is required")
	}

	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	store := tracking.NewPostgresStore(db, logger.WithComponent(appLog, "tracking"))

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

	verifier := verify.NewVerifier(mlbClient, store, logger.WithComponent(appLog, "verify"))
	engine, err := backtest.NewEngine(store, verifier, logger.WithComponent(appLog, "backtest"))
	if err != nil {
		return err
	}

	result, err := engine.Run(ctx, from, to)
	if err != nil {
		return err
	}
	fmt.Print(backtest.GenerateConsoleReport(result))
	return nil
}

func listReports() error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	to := toFlag
	if to == "" {
		to = time.Now().UTC().Format("2006-01-02")
	}
	from := fromFlag
	if from == "" {
		from = time.Now().UTC().AddDate(0, 0, -30).Format("2006-01-02")
	}

	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	store := tracking.NewPostgresStore(db, logger.WithComponent(appLog, "tracking"))
	reports, err := store.ListReports(ctx, from, to)
	if err != nil {
		return err
	}
	if len(reports) == 0 {
		fmt.Printf("No accuracy reports between %s and %s\n", from, to)
		return nil
	}
	for i := range reports {
		fmt.Print(reports[i].String())
	}
	return nil
}
