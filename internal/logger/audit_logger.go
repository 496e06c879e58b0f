// Package logger provides audit logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// AuditLogger provides a dedicated audit trail for prediction runs.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogRunStart logs the start of a prediction run.
func (al *AuditLogger) LogRunStart(runID, date, runTag string, startedAt time.Time) {
	al.WithFields(logrus.Fields{
		"run_id":     runID,
		"date":       date,
		"run_tag":    runTag,
		"started_at": startedAt.Unix(),
	}).Info("Prediction run started")
}

// LogGameDropped logs a game excluded from a run after source exhaustion.
func (al *AuditLogger) LogGameDropped(runID, gameID, reason string) {
	al.WithFields(logrus.Fields{
		"run_id":  runID,
		"game_id": gameID,
		"reason":  reason,
	}).Warn("Game dropped from run")
}

// LogRunCommit logs a committed batch of predictions.
func (al *AuditLogger) LogRunCommit(runID, date, runTag string, predictions, games, degraded int) {
	al.WithFields(logrus.Fields{
		"run_id":      runID,
		"date":        date,
		"run_tag":     runTag,
		"predictions": predictions,
		"games":       games,
		"degraded":    degraded,
	}).Info("Prediction run committed")
}

// LogVerification logs a completed verification pass.
func (al *AuditLogger) LogVerification(date string, scored, correct, excluded int) {
	al.WithFields(logrus.Fields{
		"date":     date,
		"scored":   scored,
		"correct":  correct,
		"excluded": excluded,
	}).Info("Verification recorded")
}
