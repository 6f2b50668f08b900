package workbench

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sys/unix"

	"super8/internal/crop"
	"super8/internal/history"
	"super8/internal/logging"
	"super8/internal/player"
)

// AcceptedExtensions lists the capture containers a session can open.
var AcceptedExtensions = []string{".avi", ".mp4", ".mkv"}

// Starter launches player runs. Start must return without waiting for the run.
type Starter interface {
	Start(ctx context.Context, req player.Request) *player.Handle
}

// Recorder persists finished runs.
type Recorder interface {
	Record(ctx context.Context, run history.Run) (history.Run, error)
}

// Option configures a Workbench.
type Option func(*Workbench)

// WithRecorder records every finished run.
func WithRecorder(rec Recorder) Option {
	return func(w *Workbench) { w.recorder = rec }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Workbench) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithOutputExtension sets the extension of default output names.
func WithOutputExtension(ext string) Option {
	return func(w *Workbench) {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			return
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		w.outputExt = ext
	}
}

// WithOutputDir sets the initial output directory. Without it the input's
// directory is used until an output path is chosen.
func WithOutputDir(dir string) Option {
	return func(w *Workbench) { w.outputDir = strings.TrimSpace(dir) }
}

// Workbench is the session controller.
type Workbench struct {
	runner    Starter
	recorder  Recorder
	logger    *slog.Logger
	outputExt string

	mu        sync.Mutex
	input     string
	crop      *crop.Rect
	output    string
	outputDir string
	slots     map[player.Operation]*player.Handle

	recording sync.WaitGroup
}

// New returns a workbench launching runs through runner.
func New(runner Starter, opts ...Option) (*Workbench, error) {
	if runner == nil {
		return nil, errors.New("workbench requires a runner")
	}
	w := &Workbench{
		runner:    runner,
		logger:    logging.NewNop(),
		outputExt: ".mp4",
		slots:     make(map[player.Operation]*player.Handle),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = logging.NewComponentLogger(w.logger, "workbench")
	return w, nil
}

// Accepts reports whether path has an accepted capture extension.
func Accepts(path string) bool {
	return slices.Contains(AcceptedExtensions, strings.ToLower(filepath.Ext(path)))
}

// Drop selects a file handed over by drag and drop. Unlike SelectFile it
// only takes the accepted capture extensions.
func (w *Workbench) Drop(path string) error {
	if !Accepts(path) {
		return fmt.Errorf("%w: %s", ErrUnsupportedFile, filepath.Base(path))
	}
	return w.SelectFile(path)
}

// SelectFile makes path the session input. Any readable file is taken. The
// crop and output choices of a previous file are cleared.
func (w *Workbench) SelectFile(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return ErrNoFile
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %q: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("inspect capture file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("capture path %q is a directory", abs)
	}
	if err := unix.Access(abs, unix.R_OK); err != nil {
		return fmt.Errorf("capture file %q is not readable: %w", abs, err)
	}

	w.mu.Lock()
	w.input = abs
	w.crop = nil
	w.output = ""
	w.mu.Unlock()
	w.logger.Info("capture file selected", logging.String("input", abs))
	return nil
}

// Input returns the selected capture file.
func (w *Workbench) Input() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.input
}

// CanCropDetect reports whether crop detection can start.
func (w *Workbench) CanCropDetect() bool {
	return w.Input() != ""
}

// SetCrop validates and stores the crop rectangle. An invalid value clears
// the current crop.
func (w *Workbench) SetCrop(text string) error {
	rect, err := crop.Parse(text)
	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.crop = nil
		return err
	}
	w.crop = &rect
	return nil
}

// Crop returns the stored crop rectangle.
func (w *Workbench) Crop() (crop.Rect, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.crop == nil {
		return crop.Rect{}, false
	}
	return *w.crop, true
}

// CanPreview reports whether an input and a valid crop exist.
func (w *Workbench) CanPreview() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.input != "" && w.crop != nil
}

// CanConvert has the same precondition as CanPreview.
func (w *Workbench) CanConvert() bool {
	return w.CanPreview()
}

// SetOutput chooses the conversion target; its directory becomes the
// default for later files.
func (w *Workbench) SetOutput(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("output path required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %q: %w", path, err)
	}
	w.mu.Lock()
	w.output = abs
	w.outputDir = filepath.Dir(abs)
	w.mu.Unlock()
	return nil
}

// Output returns the chosen output path or, when none was chosen, DefaultOutput.
func (w *Workbench) Output() string {
	w.mu.Lock()
	output := w.output
	w.mu.Unlock()
	if output != "" {
		return output
	}
	return w.DefaultOutput()
}

// DefaultOutput names the output after the input with the configured
// extension, in the last used output directory.
func (w *Workbench) DefaultOutput() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.input == "" {
		return ""
	}
	base := strings.TrimSuffix(filepath.Base(w.input), filepath.Ext(w.input))
	dir := w.outputDir
	if dir == "" {
		dir = filepath.Dir(w.input)
	}
	return filepath.Join(dir, base+w.outputExt)
}

// Launch starts req in slot, stopping whatever ran there before. The
// returned handle's events belong to the caller. The slot stays locked from
// the stop through the new start, so concurrent launches never leave a run
// that no slot owns.
func (w *Workbench) Launch(ctx context.Context, slot player.Operation, req player.Request) *player.Handle {
	w.mu.Lock()
	if previous := w.slots[slot]; previous != nil {
		w.logger.Info("stopping previous run", logging.String(logging.FieldOperation, string(slot)),
			logging.String(logging.FieldRunID, previous.ID()))
		previous.Stop()
	}
	handle := w.runner.Start(ctx, req)
	w.slots[slot] = handle
	w.recording.Add(1)
	w.mu.Unlock()

	go w.finish(slot, handle)
	return handle
}

func (w *Workbench) finish(slot player.Operation, handle *player.Handle) {
	defer w.recording.Done()
	<-handle.Done()

	w.mu.Lock()
	if w.slots[slot] == handle {
		delete(w.slots, slot)
	}
	w.mu.Unlock()

	if w.recorder == nil {
		return
	}
	run := RunFromResult(handle.Result())
	if _, err := w.recorder.Record(context.Background(), run); err != nil {
		logging.WarnWithContext(w.logger, "record run history failed", "history_record",
			logging.String(logging.FieldRunID, run.ID),
			logging.Error(err),
			logging.String(logging.FieldImpact, "the run is missing from `super8 history`"),
		)
	}
}

// Active reports whether slot holds an unfinished run.
func (w *Workbench) Active(slot player.Operation) bool {
	w.mu.Lock()
	handle := w.slots[slot]
	w.mu.Unlock()
	if handle == nil {
		return false
	}
	select {
	case <-handle.Done():
		return false
	default:
		return true
	}
}

// Stop stops the run in slot, if any.
func (w *Workbench) Stop(slot player.Operation) {
	w.mu.Lock()
	handle := w.slots[slot]
	w.mu.Unlock()
	if handle != nil {
		handle.Stop()
	}
}

// StopAll stops every run.
func (w *Workbench) StopAll() {
	w.mu.Lock()
	handles := make([]*player.Handle, 0, len(w.slots))
	for _, handle := range w.slots {
		handles = append(handles, handle)
	}
	w.mu.Unlock()
	for _, handle := range handles {
		handle.Stop()
	}
}

// Close stops every run and waits until finished runs are recorded or ctx ends.
// Handles must still be drained by their owners for this to return.
func (w *Workbench) Close(ctx context.Context) error {
	w.StopAll()
	done := make(chan struct{})
	go func() {
		w.recording.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunFromResult converts a finished handle result into a history row.
func RunFromResult(res player.Result) history.Run {
	run := history.Run{
		ID:          res.RunID,
		Operation:   string(res.Operation),
		Input:       res.Request.Input,
		Output:      res.Request.Output,
		CommandLine: res.CommandLine,
		ExitCode:    res.ExitCode,
		Status:      history.StatusCompleted,
		StartedAt:   res.Started,
		FinishedAt:  res.Finished,
	}
	switch {
	case res.Stopped:
		run.Status = history.StatusStopped
	case res.Err != nil:
		run.Status = history.StatusFailed
		run.Message = res.Err.Error()
	}
	return run
}
