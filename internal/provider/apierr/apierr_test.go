package apierr

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	ai "github.com/spetersoncode/finsight"
)

func TestCategory(t *testing.T) {
	tests := []struct {
		code     int
		expected ai.ErrorCategory
	}{
		{429, ai.ErrorTransient},
		{500, ai.ErrorTransient},
		{503, ai.ErrorTransient},
		{400, ai.ErrorUserInput},
		{404, ai.ErrorUserInput},
		{422, ai.ErrorUserInput},
		{401, ai.ErrorPermanent},
		{403, ai.ErrorPermanent},
		{418, ai.ErrorPermanent},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Category(tt.code), "code %d", tt.code)
	}
}

func TestCategorize(t *testing.T) {
	cause := errors.New("overloaded")

	err := Categorize(cause, 503, 0)
	assert.True(t, ai.IsTransient(err))
	assert.Equal(t, 503, ai.StatusCodeOf(err))
	assert.ErrorIs(t, err, cause)

	err = Categorize(cause, 401, 0)
	assert.True(t, ai.IsPermanent(err))

	err = Categorize(cause, 400, 2*time.Second)
	assert.True(t, ai.IsTransient(err))
	assert.Equal(t, 2*time.Second, ai.RetryAfterOf(err))
}

func TestRetryAfter(t *testing.T) {
	assert.Zero(t, RetryAfter(nil))

	resp := &http.Response{Header: http.Header{}}
	assert.Zero(t, RetryAfter(resp))

	resp.Header.Set("Retry-After", "7")
	assert.Equal(t, 7*time.Second, RetryAfter(resp))

	resp.Header.Set("Retry-After", "soon")
	assert.Zero(t, RetryAfter(resp))
}
