// Package player launches the external media player for crop detection,
// preview, and conversion, and turns its console output into typed events.
//
// A Runner builds one argument vector per Request and starts the process on a
// dedicated goroutine. The returned Handle owns that process: it scans the
// merged stdout/stderr stream line by line, reports crop candidates and
// progress, keeps the last few incidental lines for failure diagnostics, and
// always finishes with exactly one completion event. Stop is idempotent and
// suppresses failure reporting for the run it terminates.
//
// Consumers either range over Handle.Events or pass an Observer to Dispatch,
// which delivers the events on the calling goroutine.
package player
