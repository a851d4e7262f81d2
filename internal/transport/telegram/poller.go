package telegram

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"subweld/internal/logging"
)

// UpdateHandler receives each update delivered by the poller. Handlers own
// their own concurrency; the poller invokes them sequentially.
type UpdateHandler func(ctx context.Context, update Update)

// Poller drives a getUpdates long-poll loop and hands every update to the
// configured handler.
type Poller struct {
	client  *Client
	timeout time.Duration
	handle  UpdateHandler
	logger  *slog.Logger

	offset int64
}

// NewPoller builds a poller. timeout is the server-side long-poll hold.
func NewPoller(client *Client, timeout time.Duration, handle UpdateHandler, logger *slog.Logger) *Poller {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Poller{
		client:  client,
		timeout: timeout,
		handle:  handle,
		logger:  logging.NewComponentLogger(logger, "poller"),
	}
}

// Run polls until ctx is cancelled. Transport errors are logged and the
// loop continues after a short pause.
func (p *Poller) Run(ctx context.Context) error {
	p.logger.Info("starting update poller", logging.Duration("poll_timeout", p.timeout))
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		updates, err := p.client.GetUpdates(ctx, p.offset, p.timeout)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return ctx.Err()
			}
			p.logger.Warn("getUpdates failed", logging.Error(err))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(3 * time.Second):
			}
			continue
		}
		for _, update := range updates {
			if update.UpdateID >= p.offset {
				p.offset = update.UpdateID + 1
			}
			p.handle(ctx, update)
		}
	}
}
