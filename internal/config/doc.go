// Package config loads, normalizes and validates the TOML configuration
// for the subweld bot. Defaults mirror the sample config; paths are
// expanded and the temp directory is resolved exactly once at load time.
package config
