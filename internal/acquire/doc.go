// Package acquire downloads user-supplied videos from the chat transport
// into job-scoped scratch paths, enforcing the transport's size ceiling and
// retrying transient transfer failures.
package acquire
