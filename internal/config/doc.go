// Package config loads, normalizes, and validates the cardbox TOML
// configuration. All path fields are expanded to absolute paths before any
// other package sees them.
package config
