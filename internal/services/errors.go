package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDependency marks a missing external dependency detected before work starts.
	ErrDependency = errors.New("dependency unavailable")
	// ErrExternalTool marks a non-zero exit or unusable output from an external process.
	ErrExternalTool = errors.New("external tool error")
	// ErrTooLarge marks an input or output that exceeds a configured size ceiling.
	ErrTooLarge = errors.New("file too large")
	// ErrNotFound marks a remote file that is missing or expired.
	ErrNotFound = errors.New("not found")
	// ErrInvalidReference marks a malformed remote file reference.
	ErrInvalidReference = errors.New("invalid file reference")
	// ErrNetworkExhausted marks a transfer that failed after the retry budget.
	ErrNetworkExhausted = errors.New("network retries exhausted")
	// ErrNoSpeech marks a transcription that produced no segments.
	ErrNoSpeech = errors.New("no speech detected")
	// ErrTimeout marks an operation cut off by its wall-clock bound.
	ErrTimeout = errors.New("timeout")
	// ErrValidation marks bad input that retrying cannot fix.
	ErrValidation = errors.New("validation error")
	// ErrConfiguration marks a component wired without its required collaborators.
	ErrConfiguration = errors.New("configuration error")
	// ErrTransient marks a failure that may succeed on retry.
	ErrTransient = errors.New("transient failure")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// UserMessage maps a stage error to the single human-readable message shown
// to the user when a job fails.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrDependency):
		return "A required component is missing on the server. Please try again later."
	case errors.Is(err, ErrTooLarge):
		return "The file is too large to process."
	case errors.Is(err, ErrNotFound):
		return "The file could not be found or has expired."
	case errors.Is(err, ErrInvalidReference):
		return "The file reference is not valid. Please resend the video."
	case errors.Is(err, ErrNetworkExhausted):
		return "Downloading the video failed after several attempts."
	case errors.Is(err, ErrNoSpeech):
		return "No speech was detected in the video."
	case errors.Is(err, ErrTimeout):
		return "Processing took too long and was stopped."
	case errors.Is(err, ErrExternalTool):
		return "Processing the video failed. Please try a different file."
	default:
		return "An unexpected error occurred while processing the video."
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
