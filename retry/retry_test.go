package retry

import (
	"context"
	"errors"
	"net"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	ai "github.com/spetersoncode/finsight"
)

// mockTimeoutError simulates a network timeout.
type mockTimeoutError struct{}

func (e *mockTimeoutError) Error() string   { return "i/o timeout" }
func (e *mockTimeoutError) Timeout() bool   { return true }
func (e *mockTimeoutError) Temporary() bool { return true }

var _ net.Error = (*mockTimeoutError)(nil)

// mockAPIError simulates an SDK error with a status code.
type mockAPIError struct{ code int }

func (e *mockAPIError) Error() string   { return "api error" }
func (e *mockAPIError) StatusCode() int { return e.code }

func fastConfig(attempts int) Config {
	return Config{
		MaxAttempts:  attempts,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestDoSuccess(t *testing.T) {
	calls := 0
	result, err := Do(context.Background(), DefaultConfig(), func(context.Context) (string, error) {
		calls++
		return "ok", nil
	})

	assert.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 1, calls)
}

func TestDoRetriesTransientErrors(t *testing.T) {
	calls := 0
	var retried []int
	cfg := fastConfig(3)
	cfg.OnRetry = func(attempt int, err error, delay time.Duration) {
		retried = append(retried, attempt)
	}

	result, err := Do(context.Background(), cfg, func(context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", &mockTimeoutError{}
		}
		return "ok", nil
	})

	assert.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int{1, 2}, retried)
}

func TestDoStopsOnPermanentError(t *testing.T) {
	calls := 0
	permanent := errors.New("invalid api key")

	_, err := Do(context.Background(), fastConfig(5), func(context.Context) (int, error) {
		calls++
		return 0, permanent
	})

	assert.Equal(t, permanent, err)
	assert.Equal(t, 1, calls)
}

func TestDoExhaustsAttempts(t *testing.T) {
	calls := 0
	transient := ai.NewTransientError("overloaded", 503, nil)

	_, err := Do(context.Background(), fastConfig(3), func(context.Context) (int, error) {
		calls++
		return 0, transient
	})

	assert.Equal(t, transient, err)
	assert.Equal(t, 3, calls)
}

func TestDoRespectsContextCancellation(t *testing.T) {
	cfg := Config{MaxAttempts: 10, InitialDelay: time.Second, MaxDelay: time.Second, Multiplier: 1}
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := Do(ctx, cfg, func(context.Context) (int, error) {
		calls++
		return 0, &mockTimeoutError{}
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestDisabled(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), Disabled(), func(context.Context) (int, error) {
		calls++
		return 0, &mockTimeoutError{}
	})

	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDelay(t *testing.T) {
	cfg := Config{InitialDelay: time.Second, MaxDelay: 5 * time.Second, Multiplier: 2}

	assert.Equal(t, time.Second, cfg.Delay(0))
	assert.Equal(t, 2*time.Second, cfg.Delay(1))
	assert.Equal(t, 4*time.Second, cfg.Delay(2))
	assert.Equal(t, 5*time.Second, cfg.Delay(3))
	assert.Equal(t, time.Second, cfg.Delay(-1))
}

func TestWithAttempts(t *testing.T) {
	base := DefaultConfig()
	cfg := base.WithAttempts(2)
	assert.Equal(t, 2, cfg.MaxAttempts)
	assert.Equal(t, 5, base.MaxAttempts)
	assert.Equal(t, base.InitialDelay, cfg.InitialDelay)
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil", nil, false},
		{"categorized transient", ai.NewTransientError("x", 429, nil), true},
		{"categorized permanent", ai.NewPermanentError("x", 401, nil), false},
		{"status 429", &mockAPIError{code: 429}, true},
		{"status 502", &mockAPIError{code: 502}, true},
		{"status 404", &mockAPIError{code: 404}, false},
		{"net timeout", &mockTimeoutError{}, true},
		{"connection reset", syscall.ECONNRESET, true},
		{"message pattern", errors.New("upstream: Service Unavailable"), true},
		{"plain", errors.New("bad input"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsTransient(tt.err))
		})
	}
}
