package deps

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"super8/internal/config"
)

func writeStub(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func TestCheckBinaries(t *testing.T) {
	present := writeStub(t, t.TempDir(), "present", "exit 0")
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Unset", Command: "  "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}
	if results[1].Available || results[1].Detail == "" {
		t.Fatalf("expected missing binary to be unavailable with detail, got %#v", results[1])
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}
	if results[2].Available || results[2].Detail != "command not configured" {
		t.Fatalf("unexpected status for unset command: %#v", results[2])
	}
}

func TestStatusBlocking(t *testing.T) {
	results := CheckBinaries([]Requirement{
		{Name: "mpv", Command: "clearly-not-present-binary"},
		{Name: "ffprobe", Command: "clearly-not-present-binary", Optional: true},
	})
	if !results[0].Blocking() {
		t.Fatal("missing required binary should block")
	}
	if results[1].Blocking() {
		t.Fatal("missing optional binary should not block")
	}
	if !strings.Contains(results[0].Detail, "SUPER8_PLAYER") {
		t.Fatalf("expected a configuration hint, got %q", results[0].Detail)
	}
}

func TestCheckBinariesResolvesFromPath(t *testing.T) {
	binDir := t.TempDir()
	writeStub(t, binDir, "mpv", "exit 0")
	t.Setenv("PATH", binDir)

	results := CheckBinaries([]Requirement{{Name: "mpv", Command: "mpv"}})
	if !results[0].Available || results[0].Detail != filepath.Join(binDir, "mpv") {
		t.Fatalf("unexpected status %#v", results[0])
	}
}

func TestCheckDirectoryAccess(t *testing.T) {
	dir := t.TempDir()
	if status := CheckDirectoryAccess("State", dir); !status.Passed {
		t.Fatalf("expected writable temp dir to pass, got %#v", status)
	}

	missing := filepath.Join(dir, "missing")
	if status := CheckDirectoryAccess("State", missing); status.Passed || status.Detail != "does not exist" {
		t.Fatalf("unexpected status for missing dir %#v", status)
	}

	file := filepath.Join(dir, "file")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if status := CheckDirectoryAccess("State", file); status.Passed || status.Detail != "is not a directory" {
		t.Fatalf("unexpected status for file %#v", status)
	}
}

func TestCheckSystemUsesConfiguredPlayer(t *testing.T) {
	cfg := config.Default()
	cfg.Player.Binary = writeStub(t, t.TempDir(), "mpv", "exit 0")
	results := CheckSystem(&cfg)
	if len(results) != 1 || !results[0].Available || results[0].Name != "mpv" {
		t.Fatalf("unexpected results %#v", results)
	}
}

func TestToolVersion(t *testing.T) {
	stub := writeStub(t, t.TempDir(), "mpv", `echo "mpv 0.38.0 Copyright"
echo "built on"`)
	version, err := ToolVersion(context.Background(), stub)
	if err != nil {
		t.Fatalf("ToolVersion: %v", err)
	}
	if version != "mpv 0.38.0 Copyright" {
		t.Fatalf("unexpected version %q", version)
	}
}
