package history_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"super8/internal/history"
)

func openStore(t *testing.T) (*history.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state", "history.db")
	store, err := history.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store, path
}

func TestRecordAndGet(t *testing.T) {
	store, _ := openStore(t)
	ctx := context.Background()

	started := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	recorded, err := store.Record(ctx, history.Run{
		Operation:   "convert",
		Input:       "/captures/reel.avi",
		Output:      "/out/reel.mp4",
		CommandLine: "mpv /captures/reel.avi -o /out/reel.mp4",
		ExitCode:    3,
		Status:      history.StatusFailed,
		Message:     "mpv finished with return code 3",
		StartedAt:   started,
		FinishedAt:  started.Add(90 * time.Second),
	})
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if recorded.ID == "" {
		t.Fatal("expected an ID to be assigned")
	}

	got, err := store.Get(ctx, recorded.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected run to be found")
	}
	if got.Status != history.StatusFailed || got.ExitCode != 3 || got.Output != "/out/reel.mp4" {
		t.Fatalf("unexpected run %#v", got)
	}
	if !got.StartedAt.Equal(started) || got.Duration() != 90*time.Second {
		t.Fatalf("unexpected timestamps %v %v", got.StartedAt, got.FinishedAt)
	}

	missing, err := store.Get(ctx, "does-not-exist")
	if err != nil || missing != nil {
		t.Fatalf("expected nil for missing run, got %#v err=%v", missing, err)
	}
}

func TestRecordRequiresOperation(t *testing.T) {
	store, _ := openStore(t)
	if _, err := store.Record(context.Background(), history.Run{Input: "reel.avi"}); err == nil {
		t.Fatal("expected error without operation")
	}
}

func TestListNewestFirstWithLimit(t *testing.T) {
	store, _ := openStore(t)
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	for i, op := range []string{"crop-detect", "preview", "convert"} {
		finished := base.Add(time.Duration(i) * time.Minute)
		if i == 1 {
			// Sub-second timestamps must still order correctly.
			finished = finished.Add(500 * time.Millisecond)
		}
		if _, err := store.Record(ctx, history.Run{Operation: op, Input: "reel.avi", FinishedAt: finished}); err != nil {
			t.Fatalf("Record %s failed: %v", op, err)
		}
	}

	runs, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Operation != "convert" || runs[1].Operation != "preview" {
		t.Fatalf("unexpected order: %s, %s", runs[0].Operation, runs[1].Operation)
	}
	if runs[0].Status != history.StatusCompleted {
		t.Fatalf("expected default status completed, got %s", runs[0].Status)
	}

	all, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected default limit to include all 3 runs, got %d", len(all))
	}
}

func TestReopenKeepsRuns(t *testing.T) {
	store, path := openStore(t)
	if _, err := store.Record(context.Background(), history.Run{Operation: "preview", Input: "reel.avi"}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	store.Close()

	reopened, err := history.Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()
	runs, err := reopened.List(context.Background(), 10)
	if err != nil || len(runs) != 1 {
		t.Fatalf("expected 1 run after reopen, got %d err=%v", len(runs), err)
	}
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	store, path := openStore(t)
	store.Close()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open raw db: %v", err)
	}
	if _, err := db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("update version: %v", err)
	}
	db.Close()

	if _, err := history.Open(path); !errors.Is(err, history.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	} else if !strings.Contains(err.Error(), path) {
		t.Fatalf("expected the database path in %q", err)
	}
}
