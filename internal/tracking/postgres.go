package tracking

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/longball/internal/database"
	"github.com/yourusername/longball/internal/models"
)

// PostgresStore persists runs and reports in Postgres.
type PostgresStore struct {
	db     *database.DB
	logger *logrus.Entry
}

// NewPostgresStore creates a Postgres-backed tracking store.
func NewPostgresStore(db *database.DB, logger *logrus.Entry) *PostgresStore {
	return &PostgresStore{db: db, logger: logger}
}

const upsertPredictionQuery = `
	INSERT INTO predictions (
		date, game_id, player_id, player_name, team, opponent,
		probability, season_hr_rate, category, factors,
		weights_version, run_tag, computed_at, state
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, 'recorded')
	ON CONFLICT (date, game_id, player_id) DO UPDATE SET
		player_name = EXCLUDED.player_name,
		team = EXCLUDED.team,
		opponent = EXCLUDED.opponent,
		probability = EXCLUDED.probability,
		season_hr_rate = EXCLUDED.season_hr_rate,
		category = EXCLUDED.category,
		factors = EXCLUDED.factors,
		weights_version = EXCLUDED.weights_version,
		run_tag = EXCLUDED.run_tag,
		computed_at = EXCLUDED.computed_at,
		state = 'recorded',
		hit_home_run = NULL,
		verified_at = NULL`

// CommitRun upserts every prediction inside one transaction. An
// advisory lock on the slate date serializes concurrent runs for the
// same day so interleaved upserts cannot mix two runs' rows.
func (s *PostgresStore) CommitRun(ctx context.Context, predictions []models.Prediction) error {
	if len(predictions) == 0 {
		return models.ErrEmptyRun
	}

	date := predictions[0].Date
	err := s.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", dateLockKey(date)); err != nil {
			return models.NewPersistenceError("lock run date", err)
		}

		batch := &pgx.Batch{}
		for i := range predictions {
			p := &predictions[i]
			factors, err := p.FactorsJSON()
			if err != nil {
				return models.NewPersistenceError("encode factors", err)
			}
			batch.Queue(upsertPredictionQuery,
				p.Date, p.GameID, p.PlayerID, p.PlayerName, p.Team, p.Opponent,
				p.Probability, p.SeasonHRRate, p.Category, factors,
				p.WeightsVersion, p.RunTag, p.ComputedAt)
		}

		results := tx.SendBatch(ctx, batch)
		defer results.Close()
		for range predictions {
			if _, err := results.Exec(); err != nil {
				return models.NewPersistenceError("upsert prediction", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"date":        date,
		"predictions": len(predictions),
	}).Info("Run committed")
	return nil
}

const selectByDateQuery = `
	SELECT date, game_id, player_id, player_name, team, opponent,
		probability, season_hr_rate, category, factors,
		weights_version, run_tag, computed_at,
		state, hit_home_run, verified_at
	FROM predictions
	WHERE date = $1
	ORDER BY probability DESC, season_hr_rate DESC, player_id ASC`

// GetByDate returns the tracking records for a slate date.
func (s *PostgresStore) GetByDate(ctx context.Context, date string) ([]models.TrackingRecord, error) {
	rows, err := s.db.GetPool().Query(ctx, selectByDateQuery, date)
	if err != nil {
		return nil, models.NewPersistenceError("query predictions", err)
	}
	defer rows.Close()

	var records []models.TrackingRecord
	for rows.Next() {
		var rec models.TrackingRecord
		var rowDate time.Time
		var factorsJSON []byte
		p := &rec.Prediction
		if err := rows.Scan(
			&rowDate, &p.GameID, &p.PlayerID, &p.PlayerName, &p.Team, &p.Opponent,
			&p.Probability, &p.SeasonHRRate, &p.Category, &factorsJSON,
			&p.WeightsVersion, &p.RunTag, &p.ComputedAt,
			&rec.State, &rec.HitHomeRun, &rec.VerifiedAt,
		); err != nil {
			return nil, models.NewPersistenceError("scan prediction", err)
		}
		p.Date = rowDate.Format("2006-01-02")
		if err := json.Unmarshal(factorsJSON, &p.Factors); err != nil {
			return nil, models.NewPersistenceError("decode factors", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, models.NewPersistenceError("iterate predictions", err)
	}
	return records, nil
}

const markVerifiedQuery = `
	UPDATE predictions
	SET state = 'verified', hit_home_run = $4, verified_at = $5
	WHERE date = $1 AND game_id = $2 AND player_id = $3 AND state = 'recorded'`

// MarkVerified stamps outcomes onto recorded rows. Keys absent from
// outcomes stay recorded; already-verified rows are never rewritten.
func (s *PostgresStore) MarkVerified(ctx context.Context, date string, outcomes map[string]bool, verifiedAt time.Time) error {
	records, err := s.GetByDate(ctx, date)
	if err != nil {
		return err
	}

	return s.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		for _, rec := range records {
			hit, ok := outcomes[OutcomeKey(rec.Prediction.GameID, rec.Prediction.PlayerID)]
			if !ok {
				continue
			}
			if _, err := tx.Exec(ctx, markVerifiedQuery,
				date, rec.Prediction.GameID, rec.Prediction.PlayerID, hit, verifiedAt); err != nil {
				return models.NewPersistenceError("mark verified", err)
			}
		}
		return nil
	})
}

const insertReportQuery = `
	INSERT INTO accuracy_reports (
		id, date, scored, correct, excluded, overall, by_category, generated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

// AppendReport appends an accuracy report row.
func (s *PostgresStore) AppendReport(ctx context.Context, report *models.AccuracyReport) error {
	byCategory, err := json.Marshal(report.ByCategory)
	if err != nil {
		return models.NewPersistenceError("encode category accuracy", err)
	}
	_, err = s.db.GetPool().Exec(ctx, insertReportQuery,
		report.ID, report.Date, report.Scored, report.Correct,
		report.Excluded, report.Overall, byCategory, report.GeneratedAt)
	if err != nil {
		return models.NewPersistenceError("insert report", err)
	}
	return nil
}

const listReportsQuery = `
	SELECT id, date, scored, correct, excluded, overall, by_category, generated_at
	FROM accuracy_reports
	WHERE date >= $1 AND date <= $2
	ORDER BY date DESC, generated_at DESC`

// ListReports returns reports in the inclusive date range, newest first.
func (s *PostgresStore) ListReports(ctx context.Context, from, to string) ([]models.AccuracyReport, error) {
	rows, err := s.db.GetPool().Query(ctx, listReportsQuery, from, to)
	if err != nil {
		return nil, models.NewPersistenceError("query reports", err)
	}
	defer rows.Close()

	var reports []models.AccuracyReport
	for rows.Next() {
		var r models.AccuracyReport
		var rowDate time.Time
		var byCategory []byte
		if err := rows.Scan(&r.ID, &rowDate, &r.Scored, &r.Correct,
			&r.Excluded, &r.Overall, &byCategory, &r.GeneratedAt); err != nil {
			return nil, models.NewPersistenceError("scan report", err)
		}
		r.Date = rowDate.Format("2006-01-02")
		if err := json.Unmarshal(byCategory, &r.ByCategory); err != nil {
			return nil, models.NewPersistenceError("decode category accuracy", err)
		}
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		return nil, models.NewPersistenceError("iterate reports", err)
	}
	return reports, nil
}

// dateLockKey derives a stable advisory-lock key from an ISO slate date.
func dateLockKey(date string) int64 {
	digits := strings.ReplaceAll(date, "-", "")
	var key int64
	for _, c := range digits {
		if c < '0' || c > '9' {
			continue
		}
		key = key*10 + int64(c-'0')
	}
	return key
}
