// Package monitoring records one inference event per analysed case so model
// latency and input drift can be followed over time.
package monitoring

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"
)

// SnippetRunes bounds how much of the symptom text is kept in an event.
const SnippetRunes = 50

// Event is one model inference.
type Event struct {
	CaseID          string    `json:"case_id"`
	Timestamp       time.Time `json:"timestamp"`
	Model           string    `json:"model"`
	LatencyMs       float64   `json:"latency_ms"`
	SymptomsSnippet string    `json:"symptoms_snippet"`
}

// NewEvent builds an event, rounding latency to two decimals and
// truncating the symptoms on a rune boundary.
func NewEvent(caseID, model string, at time.Time, latency time.Duration, symptoms string) Event {
	ms := float64(latency.Microseconds()) / 1000
	return Event{
		CaseID:          caseID,
		Timestamp:       at,
		Model:           model,
		LatencyMs:       float64(int64(ms*100+0.5)) / 100,
		SymptomsSnippet: Snippet(symptoms),
	}
}

// Snippet returns the first SnippetRunes runes of s.
func Snippet(s string) string {
	if utf8.RuneCountInString(s) <= SnippetRunes {
		return s
	}
	r := []rune(s)
	return string(r[:SnippetRunes])
}

// Sink receives inference events. Implementations must be safe for
// concurrent use.
type Sink interface {
	Record(ctx context.Context, e Event) error
}

// Multi fans an event out to every sink and joins their errors.
type Multi []Sink

// Record implements Sink.
func (m Multi) Record(ctx context.Context, e Event) error {
	var errs []error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Record(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
