// Package config loads, normalizes, and validates super8 configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the SUPER8_PLAYER environment
// override for the player binary. The Config type centralizes the defaults
// the CLI hands to each operation: crop-detect sampling, conversion filters,
// image adjustments, and where history and logs are kept.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
