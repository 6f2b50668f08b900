package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"super8/internal/player"
)

// reportFailures wraps obs so failure diagnostics reach stderr. failed is set
// when any failure event arrives.
func reportFailures(stderr io.Writer, failed *bool, obs player.ObserverFuncs) player.ObserverFuncs {
	next := obs.Failure
	obs.Failure = func(message string) {
		*failed = true
		fmt.Fprintln(stderr, message)
		if next != nil {
			next(message)
		}
	}
	return obs
}

// finishRun maps the outcome of Dispatch to a command error.
func finishRun(op player.Operation, code int, dispatchErr error, failed bool) error {
	if dispatchErr != nil {
		if errors.Is(dispatchErr, context.DeadlineExceeded) {
			return fmt.Errorf("%s timed out", operationLabel(op))
		}
		return dispatchErr
	}
	if failed {
		return fmt.Errorf("%s failed (exit code %d)", operationLabel(op), code)
	}
	return nil
}
