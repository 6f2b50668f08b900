package deps

import (
	"bufio"
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"super8/internal/config"
)

// CheckSystem evaluates the binaries the configuration depends on.
func CheckSystem(cfg *config.Config) []Status {
	return CheckBinaries([]Requirement{
		{
			Name:        "mpv",
			Command:     cfg.Player.Binary,
			Description: "Required for crop detection, preview and conversion",
		},
	})
}

// CheckDirectories evaluates the configured state and log directories.
func CheckDirectories(cfg *config.Config) []DirectoryStatus {
	return []DirectoryStatus{
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
	}
}

// ToolVersion returns the first line printed by "<command> --version".
func ToolVersion(ctx context.Context, command string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	out, err := exec.CommandContext(ctx, command, "--version").Output() //nolint:gosec
	if err != nil {
		return "", err
	}
	scanner := bufio.NewScanner(bytes.NewReader(out))
	if scanner.Scan() {
		return strings.TrimSpace(scanner.Text()), nil
	}
	return "", nil
}
