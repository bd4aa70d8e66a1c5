// Package retry runs provider calls again with exponential backoff when they
// fail with a transient error.
package retry

import (
	"math"
	"math/rand"
	"time"
)

// Config controls how Do backs off.
type Config struct {
	// MaxAttempts counts the first call. Values below 1 mean a single call.
	MaxAttempts int

	// InitialDelay is the wait before the second attempt. Each later wait is
	// Multiplier times longer, capped at MaxDelay when MaxDelay is positive.
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64

	// Jitter spreads each wait uniformly over [1-Jitter, 1+Jitter] times the
	// computed delay.
	Jitter float64

	// OnRetry observes each retry before the wait starts.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// DefaultConfig allows five attempts with waits of roughly 1s, 2s, 4s and 8s.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:  5,
		InitialDelay: time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2,
		Jitter:       0.1,
	}
}

// WithAttempts returns a copy of c allowing n attempts.
func (c Config) WithAttempts(n int) Config {
	c.MaxAttempts = n
	return c
}

// Disabled makes a single attempt.
func Disabled() Config {
	return Config{MaxAttempts: 1}
}

// Delay is the wait after the given zero-based failed attempt.
func (c Config) Delay(attempt int) time.Duration {
	n := math.Max(float64(attempt), 0)
	d := float64(c.InitialDelay) * math.Pow(c.Multiplier, n)
	if c.MaxDelay > 0 {
		d = math.Min(d, float64(c.MaxDelay))
	}
	if c.Jitter > 0 {
		d *= 1 + c.Jitter*(2*rand.Float64()-1)
	}
	return time.Duration(d)
}
