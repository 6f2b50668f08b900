// Package logging assembles structured slog loggers and formatting helpers used
// across super8 commands.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context helpers so runner code can tag log lines with
// the operation and run ID of the process it is tailing. The package also
// provides a no-op logger for tests and wiring code that cannot fail.
package logging
