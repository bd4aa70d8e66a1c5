package flow

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNilState indicates Kickoff was called without a state value.
	ErrNilState = errors.New("flow: nil state")

	// ErrStepPanic wraps a value recovered from a panicking step.
	ErrStepPanic = errors.New("flow: step panicked")
)

// GraphError reports an invalid step graph.
type GraphError struct {
	Flow     string
	Problems []string
}

func (e *GraphError) Error() string {
	return fmt.Sprintf("flow %q: invalid graph: %s", e.Flow, strings.Join(e.Problems, "; "))
}

// StepError wraps the error behind a failed step.
type StepError struct {
	Flow string
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("flow %q: step %q failed: %v", e.Flow, e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
