// Package logging configures slog handlers for console and JSON output and
// provides attr helpers plus context-derived logger decoration shared across
// the pipeline.
package logging
