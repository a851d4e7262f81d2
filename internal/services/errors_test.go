package services

import (
	"errors"
	"testing"
)

func TestWrapTagsMarker(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(ErrNetworkExhausted, "acquire", "download", "giving up", cause)
	if !errors.Is(err, ErrNetworkExhausted) {
		t.Fatalf("expected marker to survive wrapping: %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to survive wrapping: %v", err)
	}
}

func TestWrapNilMarkerDefaultsToTransient(t *testing.T) {
	err := Wrap(nil, "stage", "op", "", nil)
	if !errors.Is(err, ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
}

func TestUserMessage(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		expect string
	}{
		{"nil", nil, ""},
		{"too large", Wrap(ErrTooLarge, "acquire", "preflight", "", nil), "The file is too large to process."},
		{"no speech", Wrap(ErrNoSpeech, "transcribe", "", "", nil), "No speech was detected in the video."},
		{"timeout", Wrap(ErrTimeout, "burn", "", "", nil), "Processing took too long and was stopped."},
		{"unknown", errors.New("boom"), "An unexpected error occurred while processing the video."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := UserMessage(tc.err); got != tc.expect {
				t.Fatalf("UserMessage = %q, want %q", got, tc.expect)
			}
		})
	}
}
