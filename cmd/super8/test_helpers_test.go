package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
	stateDir   string
	outputDir  string
	playerPath string
	argsFile   string
}

// setupCLITestEnv writes a config whose player is a shell stub with the given body.
// The stub can read its arguments back through $SUPER8_ARGS_OUT.
func setupCLITestEnv(t *testing.T, playerBody string, extraConfig string) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	home := filepath.Join(base, "home")
	if err := os.MkdirAll(home, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", home)
	t.Setenv("SUPER8_PLAYER", "")

	env := &cliTestEnv{
		baseDir:    base,
		configPath: filepath.Join(base, "super8.toml"),
		stateDir:   filepath.Join(base, "state"),
		outputDir:  filepath.Join(base, "out"),
		playerPath: filepath.Join(base, "bin", "mpv"),
		argsFile:   filepath.Join(base, "args.txt"),
	}
	t.Setenv("SUPER8_ARGS_OUT", env.argsFile)

	if err := os.MkdirAll(filepath.Dir(env.playerPath), 0o755); err != nil {
		t.Fatalf("mkdir bin: %v", err)
	}
	if err := os.WriteFile(env.playerPath, []byte("#!/bin/sh\n"+playerBody+"\n"), 0o755); err != nil {
		t.Fatalf("write player stub: %v", err)
	}

	content := fmt.Sprintf(`[paths]
state_dir = %q
log_dir = %q

[player]
binary = %q
stop_grace_seconds = 1

[conversion]
output_dir = %q

[logging]
level = "error"
%s
`, env.stateDir, filepath.Join(base, "logs"), env.playerPath, env.outputDir, extraConfig)
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return env
}

func (e *cliTestEnv) writeCapture(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(e.baseDir, "captures", name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir captures: %v", err)
	}
	if err := os.WriteFile(path, []byte("frames"), 0o644); err != nil {
		t.Fatalf("write capture: %v", err)
	}
	return path
}

func (e *cliTestEnv) playerArgs(t *testing.T) []string {
	t.Helper()
	data, err := os.ReadFile(e.argsFile)
	if err != nil {
		t.Fatalf("read player args: %v", err)
	}
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	return runCLIContext(t, context.Background(), args, configPath)
}

func runCLIContext(t *testing.T, ctx context.Context, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.ExecuteContext(ctx)
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q\n---\n%s", needle, haystack)
	}
}
