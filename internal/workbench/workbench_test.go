package workbench_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"super8/internal/crop"
	"super8/internal/history"
	"super8/internal/player"
	"super8/internal/workbench"
)

type memoryRecorder struct {
	mu   sync.Mutex
	runs []history.Run
}

func (m *memoryRecorder) Record(_ context.Context, run history.Run) (history.Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, run)
	return run, nil
}

func (m *memoryRecorder) snapshot() []history.Run {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]history.Run(nil), m.runs...)
}

func stubRunner(t *testing.T, body string) *player.Runner {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mpv")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	runner, err := player.New(path, player.WithStopGrace(500*time.Millisecond))
	if err != nil {
		t.Fatalf("player.New: %v", err)
	}
	return runner
}

func writeCapture(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("frames"), 0o644); err != nil {
		t.Fatalf("write capture: %v", err)
	}
	return path
}

func drain(h *player.Handle) int {
	code := 0
	for ev := range h.Events() {
		if ev.Kind == player.EventCompletion {
			code = ev.ExitCode
		}
	}
	return code
}

func TestAccepts(t *testing.T) {
	cases := map[string]bool{
		"reel.avi":      true,
		"REEL.MKV":      true,
		"/a/b/reel.mp4": true,
		"reel.mov":      false,
		"reel":          false,
	}
	for path, want := range cases {
		if got := workbench.Accepts(path); got != want {
			t.Errorf("Accepts(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestSelectFileGatesOperations(t *testing.T) {
	wb, err := workbench.New(stubRunner(t, "exit 0"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if wb.CanCropDetect() || wb.CanPreview() || wb.CanConvert() {
		t.Fatal("nothing should be enabled before a file is selected")
	}
	if _, err := wb.CropDetectRequest(25, 60, 25); !errors.Is(err, workbench.ErrNoFile) {
		t.Fatalf("expected ErrNoFile, got %v", err)
	}

	if err := wb.SelectFile(filepath.Join(t.TempDir(), "missing.avi")); err == nil {
		t.Fatal("expected error for missing file")
	}
	if err := wb.SelectFile(t.TempDir()); err == nil {
		t.Fatal("expected error for a directory")
	}

	capture := writeCapture(t, "reel.avi")
	if err := wb.SelectFile(capture); err != nil {
		t.Fatalf("SelectFile: %v", err)
	}
	if !wb.CanCropDetect() || wb.CanPreview() {
		t.Fatal("only crop detection should be enabled without a crop")
	}
	if _, err := wb.PreviewRequest(workbench.Filters{}); !errors.Is(err, workbench.ErrNoCrop) {
		t.Fatalf("expected ErrNoCrop, got %v", err)
	}

	if err := wb.SetCrop("720:abc:0:0"); !errors.Is(err, crop.ErrInvalid) {
		t.Fatalf("expected crop.ErrInvalid, got %v", err)
	}
	if wb.CanPreview() {
		t.Fatal("invalid crop must not enable preview")
	}
	if err := wb.SetCrop("720:528:0:16"); err != nil {
		t.Fatalf("SetCrop: %v", err)
	}
	if !wb.CanPreview() || !wb.CanConvert() {
		t.Fatal("preview and convert should be enabled")
	}

	// Selecting another file resets the crop.
	if err := wb.SelectFile(writeCapture(t, "reel2.mkv")); err != nil {
		t.Fatalf("SelectFile: %v", err)
	}
	if _, ok := wb.Crop(); ok {
		t.Fatal("expected crop to be cleared")
	}
}

func TestSelectFileTakesAnyReadableFile(t *testing.T) {
	wb, err := workbench.New(stubRunner(t, "exit 0"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	capture := writeCapture(t, "reel.mov")
	if err := wb.SelectFile(capture); err != nil {
		t.Fatalf("SelectFile(%q): %v", capture, err)
	}
	if wb.Input() != capture {
		t.Fatalf("unexpected input %q", wb.Input())
	}
	if got := wb.DefaultOutput(); got != filepath.Join(filepath.Dir(capture), "reel.mp4") {
		t.Fatalf("unexpected default output %q", got)
	}
}

func TestDropFiltersExtensions(t *testing.T) {
	wb, err := workbench.New(stubRunner(t, "exit 0"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := wb.Drop(writeCapture(t, "reel.mov")); !errors.Is(err, workbench.ErrUnsupportedFile) {
		t.Fatalf("expected ErrUnsupportedFile, got %v", err)
	}
	if wb.Input() != "" {
		t.Fatalf("rejected drop must not select a file, got %q", wb.Input())
	}
	capture := writeCapture(t, "reel.MKV")
	if err := wb.Drop(capture); err != nil {
		t.Fatalf("Drop: %v", err)
	}
	if wb.Input() != capture {
		t.Fatalf("unexpected input %q", wb.Input())
	}
}

func TestDefaultOutputFollowsLastDirectory(t *testing.T) {
	wb, err := workbench.New(stubRunner(t, "exit 0"), workbench.WithOutputExtension("mkv"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	capture := writeCapture(t, "reel.avi")
	if err := wb.SelectFile(capture); err != nil {
		t.Fatalf("SelectFile: %v", err)
	}
	want := filepath.Join(filepath.Dir(capture), "reel.mkv")
	if got := wb.Output(); got != want {
		t.Fatalf("Output() = %q, want %q", got, want)
	}

	outDir := t.TempDir()
	if err := wb.SetOutput(filepath.Join(outDir, "custom.mkv")); err != nil {
		t.Fatalf("SetOutput: %v", err)
	}
	if got := wb.Output(); got != filepath.Join(outDir, "custom.mkv") {
		t.Fatalf("unexpected chosen output %q", got)
	}

	if err := wb.SelectFile(writeCapture(t, "second.mp4")); err != nil {
		t.Fatalf("SelectFile: %v", err)
	}
	if got := wb.Output(); got != filepath.Join(outDir, "second.mkv") {
		t.Fatalf("expected default in last output dir, got %q", got)
	}
}

func TestConvertRequestCarriesFilters(t *testing.T) {
	wb, err := workbench.New(stubRunner(t, "exit 0"), workbench.WithOutputDir("/out"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := wb.SelectFile(writeCapture(t, "reel.avi")); err != nil {
		t.Fatalf("SelectFile: %v", err)
	}
	if err := wb.SetCrop("720:528:0:16"); err != nil {
		t.Fatalf("SetCrop: %v", err)
	}
	req, err := wb.ConvertRequest(workbench.Filters{StartAt: 5, ForcedFPS: 18, Mirror: true, ExtraArgs: []string{"--ovc=libx264"}})
	if err != nil {
		t.Fatalf("ConvertRequest: %v", err)
	}
	if req.Operation() != player.OperationConvert || req.Output != "/out/reel.mp4" {
		t.Fatalf("unexpected request %+v", req)
	}
	if req.Crop == nil || req.Crop.String() != "720:528:0:16" || !req.Mirror || req.ForcedFPS != 18 {
		t.Fatalf("filters not applied: %+v", req)
	}
}

func TestLaunchReplacesRunInSlotAndRecords(t *testing.T) {
	rec := &memoryRecorder{}
	wb, err := workbench.New(stubRunner(t, `exec sleep 30`), workbench.WithRecorder(rec))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	req := player.Request{Input: "reel.avi"}

	first := wb.Launch(context.Background(), player.OperationPreview, req)
	firstDone := make(chan int, 1)
	go func() { firstDone <- drain(first) }()

	second := wb.Launch(context.Background(), player.OperationPreview, req)
	select {
	case code := <-firstDone:
		if code != 0 {
			t.Fatalf("replaced run should complete with 0, got %d", code)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("first run was not stopped")
	}
	if !wb.Active(player.OperationPreview) {
		t.Fatal("second run should occupy the slot")
	}
	if wb.Active(player.OperationConvert) {
		t.Fatal("convert slot should be empty")
	}

	secondDone := make(chan int, 1)
	go func() { secondDone <- drain(second) }()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := wb.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
	<-secondDone
	if wb.Active(player.OperationPreview) {
		t.Fatal("slot should be empty after close")
	}

	runs := rec.snapshot()
	if len(runs) != 2 {
		t.Fatalf("expected 2 recorded runs, got %d", len(runs))
	}
	for _, run := range runs {
		if run.Status != history.StatusStopped || run.Operation != string(player.OperationPreview) {
			t.Fatalf("unexpected recorded run %+v", run)
		}
	}
}

func TestConcurrentLaunchesLeaveOneRunPerSlot(t *testing.T) {
	rec := &memoryRecorder{}
	wb, err := workbench.New(stubRunner(t, `exec sleep 30`), workbench.WithRecorder(rec))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	const launches = 8
	handles := make(chan *player.Handle, launches)
	var wg sync.WaitGroup
	for i := 0; i < launches; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			handles <- wb.Launch(context.Background(), player.OperationConvert, player.Request{Input: "reel.avi", Output: "out.mp4"})
		}()
	}
	wg.Wait()
	close(handles)

	finished := make(chan string, launches)
	for h := range handles {
		go func(h *player.Handle) {
			drain(h)
			finished <- h.ID()
		}(h)
	}

	// Every replaced run must end on its own; only the slot owner keeps running.
	for i := 0; i < launches-1; i++ {
		select {
		case <-finished:
		case <-time.After(10 * time.Second):
			t.Fatalf("only %d of %d replaced runs finished", i, launches-1)
		}
	}
	if !wb.Active(player.OperationConvert) {
		t.Fatal("the last launch should still own the slot")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := wb.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
	<-finished
	if got := len(rec.snapshot()); got != launches {
		t.Fatalf("expected %d recorded runs, got %d", launches, got)
	}
}

func TestRunFromResultFailure(t *testing.T) {
	res := player.Result{
		RunID:     "run-1",
		Operation: player.OperationConvert,
		Request:   player.Request{Input: "in.avi", Output: "out.mp4"},
		ExitCode:  3,
		Err:       &player.ExitError{Tool: "mpv", Code: 3},
	}
	run := workbench.RunFromResult(res)
	if run.Status != history.StatusFailed || run.Message != "mpv exited with code 3" || run.Output != "out.mp4" {
		t.Fatalf("unexpected run %+v", run)
	}
}
