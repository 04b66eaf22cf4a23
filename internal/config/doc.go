// Package config loads, normalizes, and validates tunepress configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes the transcoder
// location, the state directory holding the resume checkpoint and conversion
// history, and log output settings.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
