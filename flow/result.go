package flow

import "maps"

// Payload is the step-local result map delivered to callers.
type Payload map[string]any

// Clone returns a shallow copy of p.
func (p Payload) Clone() Payload {
	if p == nil {
		return nil
	}
	return maps.Clone(p)
}

// Result is the tagged outcome of a step.
type Result struct {
	// Payload is the step's result map.
	Payload Payload

	// Failed marks the failure variant.
	Failed bool

	// Err holds the underlying error when the failure came from an error or
	// panic caught by Guard.
	Err error
}

// Success returns the success variant carrying p.
func Success(p Payload) Result {
	return Result{Payload: p}
}

// Failure returns the failure variant carrying p.
func Failure(p Payload) Result {
	return Result{Payload: p, Failed: true}
}

// OK reports whether r is the success variant.
func (r Result) OK() bool { return !r.Failed }
