package player

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoInput is reported when a request has no input path.
var ErrNoInput = errors.New("input path required")

// LaunchError reports that the player could not be started at all.
type LaunchError struct {
	CommandLine string
	Err         error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launch player: %v", e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// Diagnostic is the text shown to a user for a failed launch.
func (e *LaunchError) Diagnostic() string {
	return e.CommandLine + "\n\n" + e.Err.Error()
}

// ExitError reports a non-zero exit that the caller did not ask for.
type ExitError struct {
	CommandLine string
	Tool        string
	Code        int
	Tail        []string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with code %d", e.Tool, e.Code)
}

// Diagnostic includes the command line and the last incidental output lines.
func (e *ExitError) Diagnostic() string {
	return fmt.Sprintf("%s\n\n%s finished with return code %d:\n%s",
		e.CommandLine, e.Tool, e.Code, strings.Join(e.Tail, "\n"))
}
