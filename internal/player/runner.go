package player

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"super8/internal/logging"
)

const (
	defaultStopGrace   = 2 * time.Second
	defaultEventBuffer = 32
)

// Option configures the runner.
type Option func(*Runner)

// WithLogger sets the base logger; run handles add run_id and operation fields.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithExtraArgs adds arguments to every launch, ahead of the request's own extra arguments.
func WithExtraArgs(args []string) Option {
	return func(r *Runner) {
		r.extraArgs = slices.Clone(args)
	}
}

// WithStopGrace bounds how long a stopped process may keep its output open.
func WithStopGrace(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.stopGrace = d
		}
	}
}

// WithClock injects the time source used for progress estimates (primarily for tests).
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		if now != nil {
			r.now = now
		}
	}
}

// WithEventBuffer sets the per-handle event channel capacity.
func WithEventBuffer(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.eventBuffer = n
		}
	}
}

// Runner starts player processes. It holds no per-run state, so handles
// started from one runner are independent.
type Runner struct {
	binary      string
	extraArgs   []string
	logger      *slog.Logger
	stopGrace   time.Duration
	now         func() time.Time
	eventBuffer int
}

// New constructs a runner for the given player binary.
func New(binary string, opts ...Option) (*Runner, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("player binary required")
	}
	r := &Runner{
		binary:      binary,
		logger:      logging.NewNop(),
		stopGrace:   defaultStopGrace,
		now:         time.Now,
		eventBuffer: defaultEventBuffer,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logging.NewComponentLogger(r.logger, "player")
	return r, nil
}

// Binary returns the player executable.
func (r *Runner) Binary() string { return r.binary }

// Start launches the player for req without blocking. Launch problems are
// reported on the handle's event stream, never returned. When ctx ends the
// handle is stopped.
func (r *Runner) Start(ctx context.Context, req Request) *Handle {
	if ctx == nil {
		ctx = context.Background()
	}
	req = req.clone()
	if len(r.extraArgs) > 0 {
		req.ExtraArgs = append(slices.Clone(r.extraArgs), req.ExtraArgs...)
	}
	args := BuildArgs(req)
	id := uuid.NewString()
	op := req.Operation()

	h := &Handle{
		id:      id,
		req:     req,
		binary:  r.binary,
		args:    args,
		cmdline: CommandLine(r.binary, args),
		logger:  logging.WithContext(logging.WithRun(ctx, id, string(op)), r.logger),
		now:     r.now,
		grace:   r.stopGrace,
		events:  make(chan Event, r.eventBuffer),
		done:    make(chan struct{}),
		state:   StateCreated,
	}
	h.result = Result{RunID: id, Operation: op, Request: req, CommandLine: h.cmdline}
	h.logger.Info("launching player", logging.String("command", h.cmdline))

	if ctx.Done() != nil {
		release := context.AfterFunc(ctx, h.Stop)
		go func() {
			<-h.done
			release()
		}()
	}
	go h.run()
	return h
}
