// Package scheduler drives the daily run cadence: one early run from
// probable pitchers, repeated midday runs once lineups confirm, and a
// next-morning verification pass.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/longball/internal/service"
	"github.com/yourusername/longball/internal/verify"
)

// runTimeout bounds a single prediction or verification job.
const runTimeout = 30 * time.Minute

// Scheduler manages the cron jobs for prediction and verification runs.
type Scheduler struct {
	cron        *cron.Cron
	predictions *service.PredictionService
	verifier    *verify.Verifier
	logger      *logrus.Entry
	mu          sync.RWMutex
	isRunning   bool
	jobIDs      []cron.EntryID
}

// NewScheduler creates a scheduler in UTC.
func NewScheduler(predictions *service.PredictionService, verifier *verify.Verifier, logger *logrus.Entry) *Scheduler {
	return &Scheduler{
		cron:        cron.New(cron.WithLocation(time.UTC)),
		predictions: predictions,
		verifier:    verifier,
		logger:      logger,
		jobIDs:      make([]cron.EntryID, 0),
	}
}

// ScheduleEarlyRun schedules the probable-pitcher run.
func (s *Scheduler) ScheduleEarlyRun(cronExpression string) error {
	return s.schedulePrediction(cronExpression, service.RunTagEarly)
}

// ScheduleMiddayRuns schedules the confirmed-lineup runs; the nth
// expression produces the midday-n tag.
func (s *Scheduler) ScheduleMiddayRuns(cronExpressions []string) error {
	for i, expr := range cronExpressions {
		if err := s.schedulePrediction(expr, service.MiddayRunTag(i+1)); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scheduler) schedulePrediction(cronExpression, runTag string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()

		date := time.Now().UTC().Format("2006-01-02")
		result, err := s.predictions.Run(ctx, date, runTag)
		if err != nil {
			s.logger.WithFields(logrus.Fields{
				"date":    date,
				"run_tag": runTag,
			}).Errorf("Scheduled run failed: %v", err)
			return
		}
		s.logger.WithFields(logrus.Fields{
			"date":        date,
			"run_tag":     runTag,
			"predictions": len(result.Predictions),
			"duration":    result.Duration.String(),
		}).Info("Scheduled run completed")
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add %s job: %w", runTag, err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithFields(logrus.Fields{
		"run_tag": runTag,
		"cron":    cronExpression,
	}).Info("Scheduled prediction run")
	return nil
}

// ScheduleVerification schedules next-morning grading of the previous
// day's slate.
func (s *Scheduler) ScheduleVerification(cronExpression string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()

		date := time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")
		report, err := s.verifier.Verify(ctx, date)
		if err != nil {
			s.logger.WithField("date", date).Errorf("Scheduled verification failed: %v", err)
			return
		}
		s.logger.WithFields(logrus.Fields{
			"date":    date,
			"scored":  report.Scored,
			"correct": report.Correct,
		}).Info("Scheduled verification completed")
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add verification job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("cron", cronExpression).Info("Scheduled verification")
	return nil
}

// Start starts the scheduler.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}
	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")
	return nil
}

// Stop gracefully stops the scheduler, waiting for in-flight jobs.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	<-s.cron.Stop().Done()
	s.isRunning = false
	s.logger.Info("Scheduler stopped")
	return nil
}

// IsRunning returns whether the scheduler is currently running.
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled job.
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			if nextRun.IsZero() || entry.Next.Before(nextRun) {
				nextRun = entry.Next
			}
		}
	}
	return nextRun
}
