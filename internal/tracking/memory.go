package tracking

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/yourusername/longball/internal/models"
)

// MemoryStore is an in-memory Store with the same upsert and lifecycle
// semantics as the Postgres store. Used in tests and dry runs.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]map[string]*models.TrackingRecord // date -> key -> record
	reports []models.AccuracyReport
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]map[string]*models.TrackingRecord)}
}

// CommitRun upserts the run's predictions under their (game, player)
// keys. A superseded row is fully replaced and reset to recorded.
func (s *MemoryStore) CommitRun(_ context.Context, predictions []models.Prediction) error {
	if len(predictions) == 0 {
		return models.ErrEmptyRun
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range predictions {
		day := s.records[p.Date]
		if day == nil {
			day = make(map[string]*models.TrackingRecord)
			s.records[p.Date] = day
		}
		day[OutcomeKey(p.GameID, p.PlayerID)] = &models.TrackingRecord{
			Prediction: p,
			State:      models.StateRecorded,
		}
	}
	return nil
}

// GetByDate returns the date's records in ranked order.
func (s *MemoryStore) GetByDate(_ context.Context, date string) ([]models.TrackingRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	day := s.records[date]
	records := make([]models.TrackingRecord, 0, len(day))
	for _, rec := range day {
		records = append(records, *rec)
	}
	sort.Slice(records, func(i, j int) bool {
		a, b := records[i].Prediction, records[j].Prediction
		if a.Probability != b.Probability {
			return a.Probability > b.Probability
		}
		if a.SeasonHRRate != b.SeasonHRRate {
			return a.SeasonHRRate > b.SeasonHRRate
		}
		return a.PlayerID < b.PlayerID
	})
	return records, nil
}

// MarkVerified transitions matched recorded rows to verified.
func (s *MemoryStore) MarkVerified(_ context.Context, date string, outcomes map[string]bool, verifiedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, rec := range s.records[date] {
		hit, ok := outcomes[key]
		if !ok || rec.State != models.StateRecorded {
			continue
		}
		h := hit
		at := verifiedAt
		rec.State = models.StateVerified
		rec.HitHomeRun = &h
		rec.VerifiedAt = &at
	}
	return nil
}

// AppendReport appends a report.
func (s *MemoryStore) AppendReport(_ context.Context, report *models.AccuracyReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, *report)
	return nil
}

// ListReports returns reports in the inclusive range, newest first.
func (s *MemoryStore) ListReports(_ context.Context, from, to string) ([]models.AccuracyReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.AccuracyReport
	for _, r := range s.reports {
		if r.Date >= from && r.Date <= to {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].GeneratedAt.After(out[j].GeneratedAt)
	})
	return out, nil
}
