// Package config loads, normalizes, and validates songdiff configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob the
// CLI and the scanning pipeline need: which extensions count as audio, how many
// extraction workers to run, where reports land, and whether the tag cache is
// enabled.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical extension lists, and clear validation errors.
package config
