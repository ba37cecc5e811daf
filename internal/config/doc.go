// Package config loads, normalizes, and validates recap configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// RECAP_PASSWORD and RECAP_MANIFEST. The Config type centralizes every knob
// the daemon and CLI need, so the manifest source, gate password, and
// preloader limits are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
