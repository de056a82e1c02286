package app

import (
	"time"

	"github.com/okian/aporte/internal/domain/period"
	"github.com/okian/aporte/internal/domain/scoring"
	"github.com/okian/aporte/pkg/logger"
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithClock sets the period cadence clock.
func WithClock(clock period.Clock) Option {
	return func(e *Engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// WithScoringPolicy sets the contribution scoring policy.
func WithScoringPolicy(policy scoring.Policy) Option {
	return func(e *Engine) {
		if policy != nil {
			e.policy = policy
		}
	}
}

// WithNow sets the time source. Intended for tests.
func WithNow(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithHistoryTopN sets how many ranking rows a historical period shows.
func WithHistoryTopN(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.historyTopN = n
		}
	}
}

// WithLogger sets a custom logger for the engine.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}
