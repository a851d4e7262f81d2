package acquire

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"subweld/internal/fileutil"
	"subweld/internal/logging"
	"subweld/internal/services"
	"subweld/internal/transport"
)

// minPlausibleBytes is the smallest download accepted as a real video file.
const minPlausibleBytes = 100

// Acquirer downloads a transport file into a job-scoped path, retrying
// transient transfer failures with exponential backoff.
type Acquirer struct {
	source      transport.FileSource
	ceiling     int64
	maxRetries  int
	backoffBase time.Duration
	timeout     time.Duration
	logger      *slog.Logger

	sleep func(ctx context.Context, d time.Duration) error
}

// Options configures an Acquirer.
type Options struct {
	// Ceiling is the transport's declared download limit in bytes.
	Ceiling int64
	// MaxRetries is the number of additional attempts after the first.
	MaxRetries int
	// BackoffBase is the delay before the first retry; it doubles per attempt.
	BackoffBase time.Duration
	// Timeout bounds the whole acquisition including retries.
	Timeout time.Duration
	Logger  *slog.Logger
}

// New builds an Acquirer over the given file source.
func New(source transport.FileSource, opts Options) (*Acquirer, error) {
	if source == nil {
		return nil, services.Wrap(services.ErrConfiguration, "acquire", "new", "file source is required", nil)
	}
	backoff := opts.BackoffBase
	if backoff <= 0 {
		backoff = time.Second
	}
	retries := opts.MaxRetries
	if retries < 0 {
		retries = 0
	}
	return &Acquirer{
		source:      source,
		ceiling:     opts.Ceiling,
		maxRetries:  retries,
		backoffBase: backoff,
		timeout:     opts.Timeout,
		logger:      logging.NewComponentLogger(opts.Logger, "acquire"),
		sleep:       sleepCtx,
	}, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Acquire downloads the referenced file into destPath. Declared-too-big,
// missing, and malformed references fail immediately; network failures are
// retried with the delay doubling per attempt until the retry budget is
// spent.
func (a *Acquirer) Acquire(ctx context.Context, ref transport.FileRef, destPath string) error {
	if a.ceiling > 0 && ref.Size > a.ceiling {
		return services.Wrap(services.ErrTooLarge, "acquire", "precheck",
			fmt.Sprintf("declared size %d exceeds transport ceiling %d", ref.Size, a.ceiling), nil)
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	var lastErr error
	for attempt := 0; attempt <= a.maxRetries; attempt++ {
		if attempt > 0 {
			delay := a.backoffBase << (attempt - 1)
			a.logger.Debug("retrying download",
				logging.Int("attempt", attempt),
				logging.Duration("delay", delay),
			)
			if err := a.sleep(ctx, delay); err != nil {
				return services.Wrap(services.ErrTimeout, "acquire", "download", "download deadline reached", lastErr)
			}
		}

		err := a.attempt(ctx, ref, destPath)
		if err == nil {
			return a.verify(destPath)
		}
		if fatal := classify(err); fatal != nil {
			return fatal
		}
		if ctx.Err() != nil {
			return services.Wrap(services.ErrTimeout, "acquire", "download", "download deadline reached", err)
		}
		a.logger.Warn("download attempt failed",
			logging.Int("attempt", attempt),
			logging.Error(err),
		)
		lastErr = err
	}
	return services.Wrap(services.ErrNetworkExhausted, "acquire", "download",
		fmt.Sprintf("gave up after %d attempts", a.maxRetries+1), lastErr)
}

func (a *Acquirer) attempt(ctx context.Context, ref transport.FileRef, destPath string) error {
	location, err := a.source.ResolveFile(ctx, ref)
	if err != nil {
		return err
	}
	return a.source.Download(ctx, location, destPath)
}

// classify maps non-transient transport failures onto their service markers.
// It returns nil for failures worth retrying.
func classify(err error) error {
	switch {
	case errors.Is(err, transport.ErrFileTooBig):
		return services.Wrap(services.ErrTooLarge, "acquire", "resolve", "transport refused the file as too big", err)
	case errors.Is(err, transport.ErrFileNotFound):
		return services.Wrap(services.ErrNotFound, "acquire", "resolve", "file missing or expired", err)
	case errors.Is(err, transport.ErrInvalidReference):
		return services.Wrap(services.ErrInvalidReference, "acquire", "resolve", "malformed file reference", err)
	case errors.Is(err, transport.ErrNetwork):
		return nil
	default:
		return services.Wrap(nil, "acquire", "download", "transport request failed", err)
	}
}

func (a *Acquirer) verify(destPath string) error {
	if !fileutil.SizeAtLeast(destPath, minPlausibleBytes) {
		return services.Wrap(services.ErrValidation, "acquire", "verify",
			fmt.Sprintf("downloaded file smaller than %d bytes", minPlausibleBytes), nil)
	}
	return nil
}
