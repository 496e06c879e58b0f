package datasource

import (
	"errors"
)

// Error codes attached to SourceError.
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
	ErrCodeExhausted            = "sources_exhausted"
)

// SourceError represents a failure from one upstream source.
type SourceError struct {
	Source  string
	Code    string
	Message string
	Err     error
}

func (e *SourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// Transient reports whether retrying the same source could succeed.
// Non-transient failures (auth, schema, 4xx) skip straight to the next
// fallback source.
func (e *SourceError) Transient() bool {
	switch e.Code {
	case ErrCodeNetworkError, ErrCodeServerError, ErrCodeRateLimitExceeded:
		return true
	default:
		return false
	}
}

// NewSourceError creates a SourceError.
func NewSourceError(source, code, message string, err error) *SourceError {
	return &SourceError{Source: source, Code: code, Message: message, Err: err}
}

// ErrSourcesExhausted signals that every source in a fallback chain
// failed for a game; the aggregator drops that game from the run.
var ErrSourcesExhausted = errors.New("all lineup sources exhausted")
