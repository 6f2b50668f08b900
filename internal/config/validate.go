package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePlayer(); err != nil {
		return err
	}
	if err := c.validateCropDetect(); err != nil {
		return err
	}
	if err := c.validateConversion(); err != nil {
		return err
	}
	if err := c.validateEQ(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePlayer() error {
	if c.Player.Binary == "" {
		return errors.New("player.binary must be set")
	}
	if c.Player.StopGraceSeconds <= 0 {
		return errors.New("player.stop_grace_seconds must be positive")
	}
	return nil
}

func (c *Config) validateCropDetect() error {
	cfg := c.CropDetect
	if cfg.StartAt < 0 {
		return errors.New("crop_detect.start_at must be >= 0")
	}
	if cfg.Threshold < 1 || cfg.Threshold > 255 {
		return errors.New("crop_detect.threshold must be between 1 and 255")
	}
	if cfg.ForcedFPS < 0 {
		return errors.New("crop_detect.forced_fps must be >= 0")
	}
	if cfg.SettleSeconds <= 0 {
		return errors.New("crop_detect.settle_seconds must be positive")
	}
	return nil
}

func (c *Config) validateConversion() error {
	if c.Conversion.StartAt < 0 {
		return errors.New("conversion.start_at must be >= 0")
	}
	if c.Conversion.ForcedFPS < 0 {
		return errors.New("conversion.forced_fps must be >= 0")
	}
	return nil
}

func (c *Config) validateEQ() error {
	if !c.EQ.Enabled {
		return nil
	}
	return ensureRanges([]percentRange{
		{"eq.contrast", c.EQ.Contrast, -1000, 1000},
		{"eq.brightness", c.EQ.Brightness, -100, 100},
		{"eq.saturation", c.EQ.Saturation, 0, 300},
		{"eq.gamma_r", c.EQ.GammaRed, 10, 1000},
		{"eq.gamma_g", c.EQ.GammaGreen, 10, 1000},
		{"eq.gamma_b", c.EQ.GammaBlue, 10, 1000},
		{"eq.gamma_weight", c.EQ.GammaWeight, 10, 100},
	})
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}

type percentRange struct {
	key      string
	value    int
	min, max int
}

func ensureRanges(ranges []percentRange) error {
	for _, r := range ranges {
		if r.value < r.min || r.value > r.max {
			return fmt.Errorf("%s must be between %d and %d (percent), got %d", r.key, r.min, r.max, r.value)
		}
	}
	return nil
}
