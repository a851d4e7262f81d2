package transport

import (
	"context"
	"errors"
	"time"
)

// Wire-level failures surfaced by a FileSource. The acquirer treats
// ErrNetwork as transient and everything else as immediately fatal.
var (
	ErrFileTooBig       = errors.New("file too big for transport")
	ErrFileNotFound     = errors.New("file not found")
	ErrInvalidReference = errors.New("invalid file reference")
	ErrNetwork          = errors.New("network failure")
)

// FileRef identifies a remote file offered by the transport, with whatever
// metadata the transport declared up front.
type FileRef struct {
	ID       string
	Size     int64
	Name     string
	Duration time.Duration
}

// FileSource resolves and downloads files offered through the transport.
type FileSource interface {
	// ResolveFile exchanges a file reference for a downloadable location.
	ResolveFile(ctx context.Context, ref FileRef) (string, error)
	// Download fetches the resolved location into destPath.
	Download(ctx context.Context, location, destPath string) error
}

// Messenger sends user-facing messages and media through the transport.
type Messenger interface {
	// SendMessage posts a text message to a chat and returns its message id.
	SendMessage(ctx context.Context, chatID int64, text string) (int64, error)
	// EditMessage replaces the text of a previously sent message.
	EditMessage(ctx context.Context, chatID, messageID int64, text string) error
	// SendVideo uploads a video file to a chat with a caption.
	SendVideo(ctx context.Context, chatID int64, path, caption string) error
}
