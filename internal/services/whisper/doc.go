// Package whisper wraps the whisper CLI to turn extracted audio into
// ordered, timed speech segments.
package whisper
