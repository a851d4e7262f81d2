// Package services provides shared error classification and context
// annotation helpers for pipeline stages. Stage failures are tagged with
// sentinel markers via Wrap so the orchestrator can map them to a single
// user-facing message without string matching.
package services
