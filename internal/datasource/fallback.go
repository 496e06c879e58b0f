package datasource

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// LineupChain tries lineup sources in a fixed priority order. A source
// failure of any kind moves to the next source; only exhaustion of the
// whole chain is an error, which the aggregator translates into dropping
// the game from the run.
type LineupChain struct {
	sources []LineupSource
	logger  *logrus.Entry
	// onFallback, when set, observes each failed source attempt.
	onFallback func(source string)
}

// NewLineupChain creates a chain over sources in priority order.
func NewLineupChain(sources []LineupSource, logger *logrus.Entry) *LineupChain {
	return &LineupChain{sources: sources, logger: logger}
}

// OnFallback registers a hook invoked with the name of each source that
// failed before the chain moved on. Used for metrics.
func (ch *LineupChain) OnFallback(hook func(source string)) {
	ch.onFallback = hook
}

// Fetch attempts each source in order and returns the first lineup
// obtained along with the name of the serving source.
func (ch *LineupChain) Fetch(ctx context.Context, gameID string, mode LineupMode) (*Lineup, string, error) {
	var lastErr error
	for _, source := range ch.sources {
		lineup, err := source.FetchLineup(ctx, gameID, mode)
		if err == nil {
			return lineup, source.Name(), nil
		}

		lastErr = err
		if ch.onFallback != nil {
			ch.onFallback(source.Name())
		}
		ch.logger.WithFields(logrus.Fields{
			"game_id": gameID,
			"source":  source.Name(),
		}).Warnf("Lineup source failed, trying next: %v", err)

		if ctx.Err() != nil {
			return nil, "", ctx.Err()
		}
	}

	return nil, "", &SourceError{
		Source:  "lineup_chain",
		Code:    ErrCodeExhausted,
		Message: fmt.Sprintf("no lineup for game %s", gameID),
		Err:     errors.Join(ErrSourcesExhausted, lastErr),
	}
}
