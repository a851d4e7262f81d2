// Package pipeline orchestrates a job's stages in strict order: acquire,
// extract audio, transcribe, translate, compose subtitles, burn in, deliver.
// Ledger cleanup runs unconditionally when a job ends.
package pipeline
