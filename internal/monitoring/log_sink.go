package monitoring

import (
	"context"

	"github.com/sirupsen/logrus"
)

// LogSink writes each event as a structured log line.
type LogSink struct {
	logger *logrus.Logger
}

// NewLogSink creates a LogSink.
func NewLogSink(logger *logrus.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Record implements Sink.
func (s *LogSink) Record(_ context.Context, e Event) error {
	s.logger.WithFields(logrus.Fields{
		"case_id":          e.CaseID,
		"timestamp":        e.Timestamp.Format("2006-01-02T15:04:05.000000"),
		"model":            e.Model,
		"latency_ms":       e.LatencyMs,
		"symptoms_snippet": e.SymptomsSnippet,
	}).Info("inference recorded")
	return nil
}
