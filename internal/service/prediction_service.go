// Package service orchestrates the prediction workflow: aggregate the
// slate, score it, tier it, and commit the run.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/longball/internal/aggregator"
	"github.com/yourusername/longball/internal/config"
	"github.com/yourusername/longball/internal/factors"
	"github.com/yourusername/longball/internal/logger"
	"github.com/yourusername/longball/internal/metrics"
	"github.com/yourusername/longball/internal/models"
	"github.com/yourusername/longball/internal/scoring"
	"github.com/yourusername/longball/internal/tracking"
)

// PredictionService runs the full pipeline for one date and run tag.
type PredictionService struct {
	aggregator  *aggregator.DataAggregator
	engine      *factors.Engine
	model       *scoring.ProbabilityModel
	categorizer *scoring.Categorizer
	store       tracking.Store
	audit       *logger.AuditLogger
	logger      *logrus.Entry
	minPA       int
}

// NewPredictionService wires the pipeline together.
func NewPredictionService(
	agg *aggregator.DataAggregator,
	engine *factors.Engine,
	model *scoring.ProbabilityModel,
	categorizer *scoring.Categorizer,
	store tracking.Store,
	audit *logger.AuditLogger,
	log *logrus.Entry,
	runCfg config.RunConfig,
) *PredictionService {
	return &PredictionService{
		aggregator:  agg,
		engine:      engine,
		model:       model,
		categorizer: categorizer,
		store:       store,
		audit:       audit,
		logger:      log,
		minPA:       runCfg.MinPlateAppearances,
	}
}

// RunResult summarizes one committed run.
type RunResult struct {
	RunID        string
	Date         string
	RunTag       string
	Predictions  []models.Prediction
	GamesTotal   int
	GamesDropped int
	// Degraded counts committed predictions that used at least one
	// estimated-default factor.
	Degraded int
	Duration time.Duration
}

// Run executes one prediction run. A slate that yields zero scorable
// batters fails loud with ErrEmptyRun rather than committing nothing
// silently.
func (s *PredictionService) Run(ctx context.Context, date, runTag string) (*RunResult, error) {
	if !ValidRunTag(runTag) {
		return nil, fmt.Errorf("invalid run tag %q", runTag)
	}

	runID := uuid.New().String()
	startedAt := time.Now()
	s.audit.LogRunStart(runID, date, runTag, startedAt)

	// The hook carries this run's id, so it is scoped to this Aggregate
	// call; overlapping runs each report drops under their own run.
	onDropped := func(gameID, reason string) {
		metrics.RecordGameDropped()
		s.audit.LogGameDropped(runID, gameID, reason)
	}

	slate, err := s.aggregator.Aggregate(ctx, date, LineupModeForTag(runTag), onDropped)
	if err != nil {
		metrics.RecordRunFailed(runTag)
		return nil, fmt.Errorf("aggregate slate for %s: %w", date, err)
	}

	predictions := s.score(slate, runTag)
	picks := s.categorizer.Categorize(predictions)
	if len(picks) == 0 {
		metrics.RecordRunFailed(runTag)
		return nil, fmt.Errorf("run %s for %s: %w", runTag, date, models.ErrEmptyRun)
	}

	if err := s.store.CommitRun(ctx, picks); err != nil {
		metrics.RecordRunFailed(runTag)
		return nil, fmt.Errorf("commit run %s: %w", runTag, err)
	}

	degraded := 0
	for _, p := range picks {
		if len(p.Factors.Estimated()) > 0 {
			degraded++
		}
	}

	duration := time.Since(startedAt)
	metrics.RecordRunCommitted(runTag, len(picks), duration.Seconds(), degraded > 0)
	s.audit.LogRunCommit(runID, date, runTag, len(picks), slate.GamesTotal-slate.GamesDropped, degraded)

	return &RunResult{
		RunID:        runID,
		Date:         date,
		RunTag:       runTag,
		Predictions:  picks,
		GamesTotal:   slate.GamesTotal,
		GamesDropped: slate.GamesDropped,
		Degraded:     degraded,
		Duration:     duration,
	}, nil
}

// score converts observations to predictions, skipping batters known to
// be under the plate-appearance floor. An unknown sample size passes
// through; only a confirmed small sample is filtered.
func (s *PredictionService) score(slate *aggregator.Slate, runTag string) []models.Prediction {
	computedAt := time.Now().UTC()
	predictions := make([]models.Prediction, 0, len(slate.Observations))

	for i := range slate.Observations {
		obs := &slate.Observations[i]
		if s.underPAFloor(obs) {
			continue
		}

		factorSet := s.engine.Compute(obs)
		for _, name := range factorSet.Estimated() {
			metrics.RecordFactorDefault(name)
		}

		seasonRate, _ := obs.Season.HRRate()
		opponent := obs.Game.HomeTeam
		team := obs.Game.AwayTeam
		if obs.IsHome {
			opponent = obs.Game.AwayTeam
			team = obs.Game.HomeTeam
		}

		predictions = append(predictions, models.Prediction{
			GameID:         obs.Game.ID,
			PlayerID:       obs.Batter.ID,
			PlayerName:     obs.Batter.Name,
			Team:           team,
			Opponent:       opponent,
			Date:           slate.Date,
			Probability:    s.model.Score(factorSet),
			SeasonHRRate:   seasonRate,
			Factors:        factorSet,
			WeightsVersion: s.model.Version(),
			RunTag:         runTag,
			ComputedAt:     computedAt,
		})
	}
	return predictions
}

func (s *PredictionService) underPAFloor(obs *models.RawObservation) bool {
	if s.minPA <= 0 || obs.Season == nil || obs.Season.PlateAppearances == nil {
		return false
	}
	return *obs.Season.PlateAppearances < s.minPA
}
