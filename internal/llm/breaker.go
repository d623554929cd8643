package llm

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// BreakerModel guards a Model with a circuit breaker.
type BreakerModel struct {
	next Model
	cb   *gobreaker.CircuitBreaker
}

// NewBreakerModel wraps next. The breaker opens once at least three calls in
// a window failed at a ratio of 60% or more, and half-opens after a minute.
func NewBreakerModel(next Model, logger *logrus.Logger) *BreakerModel {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "ai-model",
		MaxRequests: 1,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("circuit breaker state changed")
		},
	})
	return &BreakerModel{next: next, cb: cb}
}

// Name returns the wrapped model's name.
func (b *BreakerModel) Name() string { return b.next.Name() }

// Generate calls the wrapped model unless the breaker is open.
func (b *BreakerModel) Generate(ctx context.Context, prompt string) (string, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.Generate(ctx, prompt)
	})
	if err != nil {
		return "", err
	}
	return out.(string), nil
}

// State reports the breaker state, for health checks.
func (b *BreakerModel) State() gobreaker.State { return b.cb.State() }
