// Package daemon wires the transport, pipeline, and bot router into a
// single long-running process with flock-based locking to prevent multiple
// instances from polling the same bot token.
package daemon
