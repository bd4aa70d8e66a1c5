package flow

import (
	"context"
	"fmt"
	"log/slog"
)

// StepFunc is the body of a step.
type StepFunc[S any] func(ctx context.Context, state *S) (Result, error)

// Guard wraps fn so that it never returns an error or panics. A normal
// return passes through unchanged. An error or panic is logged and replaced
// by the failure variant carrying a copy of def, or, when def is nil,
// {success: false, message: "Step '<name>' failed: <error>"}. The underlying
// error is kept in Result.Err.
func Guard[S any](name string, fn StepFunc[S], def Payload, logger *slog.Logger) StepFunc[S] {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, state *S) (res Result, _ error) {
		defer func() {
			if r := recover(); r != nil {
				res = failed(name, fmt.Errorf("%w: %v", ErrStepPanic, r), def, logger)
			}
		}()

		res, err := fn(ctx, state)
		if err != nil {
			return failed(name, err, def, logger), nil
		}
		return res, nil
	}
}

func failed(name string, err error, def Payload, logger *slog.Logger) Result {
	logger.Error("step failed", "step", name, "error", err)

	payload := def.Clone()
	if payload == nil {
		payload = Payload{
			"success": false,
			"message": fmt.Sprintf("Step '%s' failed: %s", name, err.Error()),
		}
	}
	return Result{Payload: payload, Failed: true, Err: err}
}
