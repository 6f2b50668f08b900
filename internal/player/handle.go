package player

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"super8/internal/logging"
)

// State is the lifecycle position of a handle.
type State int

const (
	StateCreated State = iota
	StateRunning
	StateFailed
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateRunning:
		return "running"
	case StateFailed:
		return "failed"
	case StateCompleted:
		return "completed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Result summarizes a finished run.
type Result struct {
	RunID       string
	Operation   Operation
	Request     Request
	CommandLine string
	ExitCode    int
	Stopped     bool
	Err         error
	Started     time.Time
	Finished    time.Time
}

// Handle owns one player process and its event stream. Events must be drained
// (directly or through Dispatch) for the run to finish.
type Handle struct {
	id      string
	req     Request
	binary  string
	args    []string
	cmdline string
	logger  *slog.Logger
	now     func() time.Time
	grace   time.Duration

	events chan Event
	done   chan struct{}

	stopped atomic.Bool

	mu     sync.Mutex
	state  State
	proc   *os.Process
	reader *os.File
	result Result
}

// ID returns the run identifier.
func (h *Handle) ID() string { return h.id }

// Request returns the request the handle was started with.
func (h *Handle) Request() Request { return h.req.clone() }

// CommandLine returns the full player invocation.
func (h *Handle) CommandLine() string { return h.cmdline }

// Events returns the ordered event stream; it is closed after the completion event.
func (h *Handle) Events() <-chan Event { return h.events }

// Done is closed once the completion event has been delivered.
func (h *Handle) Done() <-chan struct{} { return h.done }

// State reports the current lifecycle state.
func (h *Handle) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Result returns the run summary; it is final once Done is closed.
func (h *Handle) Result() Result {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.result
}

// Wait blocks until the run completes or ctx ends.
func (h *Handle) Wait(ctx context.Context) (Result, error) {
	select {
	case <-h.done:
		return h.Result(), nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// Stop terminates the process if it is still running. The run then completes
// with exit code 0 and no failure event. Calling Stop again, or after
// completion, does nothing.
func (h *Handle) Stop() {
	if !h.stopped.CompareAndSwap(false, true) {
		return
	}
	h.mu.Lock()
	proc, reader, state := h.proc, h.reader, h.state
	h.mu.Unlock()
	if state != StateRunning || proc == nil {
		return
	}
	h.logger.Info("stopping player", logging.Duration("stop_grace", h.grace))
	h.terminate(proc, reader)
}

// terminate signals the process and, if the run has not finished within the
// grace window, kills it and closes the output pipe so the scan loop exits.
func (h *Handle) terminate(proc *os.Process, reader *os.File) {
	if err := terminate(proc); err != nil && !errors.Is(err, os.ErrProcessDone) {
		h.logger.Debug("terminate player", logging.Error(err))
	}
	time.AfterFunc(h.grace, func() {
		select {
		case <-h.done:
			return
		default:
		}
		_ = proc.Kill()
		_ = reader.Close()
	})
}

func (h *Handle) run() {
	defer close(h.done)
	defer close(h.events)

	h.mu.Lock()
	h.result.Started = h.now()
	h.mu.Unlock()

	if h.stopped.Load() {
		h.markStopped()
		h.logger.Info("player stopped before launch")
		h.complete(0)
		return
	}
	if strings.TrimSpace(h.req.Input) == "" {
		h.launchFailed(ErrNoInput)
		return
	}

	reader, writer, err := os.Pipe()
	if err != nil {
		h.launchFailed(fmt.Errorf("create output pipe: %w", err))
		return
	}
	cmd := exec.Command(h.binary, h.args...) //nolint:gosec
	cmd.Stdout = writer
	cmd.Stderr = writer
	if err := cmd.Start(); err != nil {
		_ = writer.Close()
		_ = reader.Close()
		h.launchFailed(err)
		return
	}
	_ = writer.Close()
	started := h.now()

	h.mu.Lock()
	h.proc = cmd.Process
	h.reader = reader
	h.state = StateRunning
	h.mu.Unlock()
	h.logger.Debug("player started", logging.Int("pid", cmd.Process.Pid))

	// A Stop that raced with the launch saw no process yet.
	if h.stopped.Load() {
		h.terminate(cmd.Process, reader)
	}

	parser := &lineParser{}
	h.scan(reader, parser, started)
	_ = reader.Close()

	code := exitCode(cmd.Wait())
	if h.stopped.Load() {
		h.markStopped()
		h.logger.Info("player stopped", logging.Int("exit_code", code))
		h.complete(0)
		return
	}
	if code != 0 {
		exitErr := &ExitError{
			CommandLine: h.cmdline,
			Tool:        filepath.Base(h.binary),
			Code:        code,
			Tail:        parser.lastLines(),
		}
		logging.WarnWithContext(h.logger, "player exited abnormally", "player_exit",
			logging.Int("exit_code", code),
			logging.String(logging.FieldErrorHint, "check the player output in the failure message"),
			logging.String(logging.FieldImpact, "the operation did not finish"),
		)
		h.fail(exitErr, exitErr.Diagnostic())
		h.complete(code)
		return
	}
	h.logger.Info("player finished")
	h.complete(0)
}

func (h *Handle) scan(reader io.Reader, parser *lineParser, started time.Time) {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	scanner.Split(scanLines)
	for scanner.Scan() {
		if h.stopped.Load() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		parsed := parser.parse(line, h.now().Sub(started))
		switch parsed.kind {
		case lineCrop:
			if parsed.crop != "" {
				h.emit(Event{Kind: EventCropCandidate, Crop: parsed.crop})
			}
		case lineProgress:
			h.emit(Event{Kind: EventProgress, Percent: parsed.percent, Status: parsed.status})
		default:
			h.logger.Debug("player output", logging.String("line", line))
		}
	}
	if err := scanner.Err(); err != nil && !h.stopped.Load() {
		h.logger.Warn("read player output", logging.Error(err))
		// Keep the pipe drained so the player cannot block on a full buffer.
		_, _ = io.Copy(io.Discard, reader)
	}
}

func (h *Handle) markStopped() {
	h.mu.Lock()
	h.result.Stopped = true
	h.mu.Unlock()
}

func (h *Handle) launchFailed(err error) {
	launchErr := &LaunchError{CommandLine: h.cmdline, Err: err}
	logging.ErrorWithContext(h.logger, "player launch failed", "player_launch",
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check player.binary in the config or run `super8 status`"),
	)
	h.fail(launchErr, launchErr.Diagnostic())
	h.complete(-1)
}

func (h *Handle) fail(err error, message string) {
	h.mu.Lock()
	h.state = StateFailed
	h.result.Err = err
	h.mu.Unlock()
	h.emit(Event{Kind: EventFailure, Message: message, Err: err})
}

func (h *Handle) complete(code int) {
	h.mu.Lock()
	h.state = StateCompleted
	h.result.ExitCode = code
	h.result.Finished = h.now()
	h.mu.Unlock()
	h.emit(Event{Kind: EventCompletion, ExitCode: code})
}

func (h *Handle) emit(ev Event) {
	ev.RunID = h.id
	ev.Time = h.now()
	h.events <- ev
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
