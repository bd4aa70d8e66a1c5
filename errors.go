package finsight

import (
	"errors"
	"fmt"
	"time"
)

// ErrEmptyInput is returned when a request has nothing to send, such as an
// embedding call with no texts.
var ErrEmptyInput = errors.New("empty input")

// ErrorCategory tells callers whether a failed model call is worth retrying.
type ErrorCategory string

const (
	// ErrorTransient covers rate limits, overloaded servers and dropped
	// connections.
	ErrorTransient ErrorCategory = "transient"
	// ErrorPermanent covers bad credentials and missing permissions.
	ErrorPermanent ErrorCategory = "permanent"
	// ErrorUserInput covers malformed requests and unknown models.
	ErrorUserInput ErrorCategory = "user_input"
)

// CategorizedError is implemented by provider errors. retry.IsTransient
// trusts the category when it is present.
type CategorizedError interface {
	error
	Category() ErrorCategory
	Retryable() bool
	// StatusCode is the HTTP status of the failed call, or 0.
	StatusCode() int
	// RetryAfter is the delay the server asked for, or 0.
	RetryAfter() time.Duration
}

// ProviderError is the CategorizedError returned by the provider adapters.
type ProviderError struct {
	Message string
	Kind    ErrorCategory
	Status  int
	Delay   time.Duration
	Err     error
}

var _ CategorizedError = (*ProviderError)(nil)

func (e *ProviderError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *ProviderError) Unwrap() error             { return e.Err }
func (e *ProviderError) Category() ErrorCategory   { return e.Kind }
func (e *ProviderError) Retryable() bool           { return e.Kind == ErrorTransient }
func (e *ProviderError) StatusCode() int           { return e.Status }
func (e *ProviderError) RetryAfter() time.Duration { return e.Delay }

// NewTransientError returns a retryable error.
func NewTransientError(msg string, status int, cause error) *ProviderError {
	return &ProviderError{Message: msg, Kind: ErrorTransient, Status: status, Err: cause}
}

// NewTransientErrorWithRetry returns a retryable error carrying the delay
// from a Retry-After header.
func NewTransientErrorWithRetry(msg string, status int, retryAfter time.Duration, cause error) *ProviderError {
	e := NewTransientError(msg, status, cause)
	e.Delay = retryAfter
	return e
}

// NewPermanentError returns an error that retrying will not fix.
func NewPermanentError(msg string, status int, cause error) *ProviderError {
	return &ProviderError{Message: msg, Kind: ErrorPermanent, Status: status, Err: cause}
}

// NewUserInputError returns an error caused by the request itself.
func NewUserInputError(msg string, status int, cause error) *ProviderError {
	return &ProviderError{Message: msg, Kind: ErrorUserInput, Status: status, Err: cause}
}

func categorized(err error) CategorizedError {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce
	}
	return nil
}

// IsTransient reports whether err, or an error it wraps, is transient.
func IsTransient(err error) bool {
	ce := categorized(err)
	return ce != nil && ce.Category() == ErrorTransient
}

// IsPermanent reports whether err, or an error it wraps, is permanent.
func IsPermanent(err error) bool {
	ce := categorized(err)
	return ce != nil && ce.Category() == ErrorPermanent
}

// StatusCodeOf returns the HTTP status carried by err, or 0.
func StatusCodeOf(err error) int {
	if ce := categorized(err); ce != nil {
		return ce.StatusCode()
	}
	return 0
}

// RetryAfterOf returns the server-requested delay carried by err, or 0.
func RetryAfterOf(err error) time.Duration {
	if ce := categorized(err); ce != nil {
		return ce.RetryAfter()
	}
	return 0
}
