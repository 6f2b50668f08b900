package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	StateDir string `toml:"state_dir"`
	LogDir   string `toml:"log_dir"`
}

// Player configures the external media player that performs every operation.
type Player struct {
	Binary string `toml:"binary"`
	// ExtraArgs are appended to every invocation before the input path.
	ExtraArgs []string `toml:"extra_args"`
	// StopGraceSeconds bounds how long a stopped run may keep its output pipe open.
	StopGraceSeconds int `toml:"stop_grace_seconds"`
}

// CropDetect contains defaults for crop detection runs.
type CropDetect struct {
	StartAt       float64 `toml:"start_at"`
	Threshold     int     `toml:"threshold"`
	ForcedFPS     int     `toml:"forced_fps"`
	SettleSeconds int     `toml:"settle_seconds"`
}

// Conversion contains defaults shared by preview and convert runs.
type Conversion struct {
	OutputDir       string  `toml:"output_dir"`
	OutputExtension string  `toml:"output_extension"`
	StartAt         float64 `toml:"start_at"`
	ForcedFPS       int     `toml:"forced_fps"`
	Mirror          bool    `toml:"mirror"`
}

// EQ holds image adjustment settings expressed in percent, where 100 means unchanged.
type EQ struct {
	Enabled     bool `toml:"enabled"`
	Contrast    int  `toml:"contrast"`
	Brightness  int  `toml:"brightness"`
	Saturation  int  `toml:"saturation"`
	GammaRed    int  `toml:"gamma_r"`
	GammaGreen  int  `toml:"gamma_g"`
	GammaBlue   int  `toml:"gamma_b"`
	GammaWeight int  `toml:"gamma_weight"`
}

// History controls the run history database.
type History struct {
	Enabled bool `toml:"enabled"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for super8.
//
// Configuration sections by subsystem:
//   - Paths: state (history database) and log directories
//   - Player: external player binary and arguments
//   - CropDetect: sampling offset, threshold, and settle window
//   - Conversion: output naming and filter defaults
//   - EQ: image adjustment percentages
//   - History: run history recording
//   - Logging: log format and level
type Config struct {
	Paths      Paths      `toml:"paths"`
	Player     Player     `toml:"player"`
	CropDetect CropDetect `toml:"crop_detect"`
	Conversion Conversion `toml:"conversion"`
	EQ         EQ         `toml:"eq"`
	History    History    `toml:"history"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/super8/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("super8.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// HistoryPath returns the location of the run history database.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.Paths.StateDir, "history.db")
}

// LogPath returns the location of the persistent log file.
func (c *Config) LogPath() string {
	return filepath.Join(c.Paths.LogDir, "super8.log")
}

// StopGrace converts the configured grace window into a duration.
func (c *Config) StopGrace() time.Duration {
	return time.Duration(c.Player.StopGraceSeconds) * time.Second
}

// SettleWindow is how long a crop-detect candidate must stay unchanged.
func (c *Config) SettleWindow() time.Duration {
	return time.Duration(c.CropDetect.SettleSeconds) * time.Second
}

// EQPercentages returns the enabled adjustments keyed by eq filter parameter,
// or nil when image adjustment is disabled.
func (c *Config) EQPercentages() map[string]int {
	if !c.EQ.Enabled {
		return nil
	}
	return map[string]int{
		"contrast":     c.EQ.Contrast,
		"brightness":   c.EQ.Brightness,
		"saturation":   c.EQ.Saturation,
		"gamma_r":      c.EQ.GammaRed,
		"gamma_g":      c.EQ.GammaGreen,
		"gamma_b":      c.EQ.GammaBlue,
		"gamma_weight": c.EQ.GammaWeight,
	}
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
