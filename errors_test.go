package finsight

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProviderErrorCategories(t *testing.T) {
	cause := errors.New("upstream")

	tests := []struct {
		name      string
		err       *ProviderError
		category  ErrorCategory
		transient bool
		permanent bool
	}{
		{"rate limited", NewTransientError("rate limited", 429, cause), ErrorTransient, true, false},
		{"bad key", NewPermanentError("bad key", 401, cause), ErrorPermanent, false, true},
		{"bad request", NewUserInputError("bad request", 400, cause), ErrorUserInput, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("chat: %w", tt.err)
			assert.Equal(t, tt.category, tt.err.Category())
			assert.Equal(t, tt.transient, IsTransient(wrapped))
			assert.Equal(t, tt.permanent, IsPermanent(wrapped))
			assert.Equal(t, tt.err.Status, StatusCodeOf(wrapped))
			assert.ErrorIs(t, wrapped, cause)
		})
	}
}

func TestProviderErrorMessage(t *testing.T) {
	assert.Equal(t, "overloaded", NewTransientError("overloaded", 503, nil).Error())
	assert.Equal(t, "overloaded: upstream", NewTransientError("overloaded", 503, errors.New("upstream")).Error())
}

func TestRetryAfterOf(t *testing.T) {
	err := NewTransientErrorWithRetry("slow down", 429, 3*time.Second, nil)
	assert.Equal(t, 3*time.Second, RetryAfterOf(err))
	assert.True(t, err.Retryable())
	assert.Zero(t, RetryAfterOf(errors.New("plain")))
	assert.Zero(t, StatusCodeOf(errors.New("plain")))
}
