package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizePlayer()
	c.normalizeConversion()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Conversion.OutputDir = strings.TrimSpace(c.Conversion.OutputDir); c.Conversion.OutputDir != "" {
		if c.Conversion.OutputDir, err = expandPath(c.Conversion.OutputDir); err != nil {
			return fmt.Errorf("conversion.output_dir: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizePlayer() {
	if value, ok := os.LookupEnv("SUPER8_PLAYER"); ok && strings.TrimSpace(value) != "" {
		c.Player.Binary = value
	}
	c.Player.Binary = strings.TrimSpace(c.Player.Binary)
	if c.Player.Binary == "" {
		c.Player.Binary = defaultPlayerBinary
	}
	args := c.Player.ExtraArgs[:0]
	for _, arg := range c.Player.ExtraArgs {
		if arg = strings.TrimSpace(arg); arg != "" {
			args = append(args, arg)
		}
	}
	c.Player.ExtraArgs = args
}

func (c *Config) normalizeConversion() {
	ext := strings.TrimSpace(c.Conversion.OutputExtension)
	if ext == "" {
		ext = defaultOutputExtension
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	c.Conversion.OutputExtension = strings.ToLower(ext)
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
