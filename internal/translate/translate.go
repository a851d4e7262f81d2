package translate

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"subweld/internal/logging"
)

// Progress reports how many segments have been handled so far. Reporting
// failures never affect translation.
type Progress func(done, total int) error

// Options tunes TranslateAll's retry and progress behavior.
type Options struct {
	// MaxAttempts is the total number of tries per segment.
	MaxAttempts int
	// RetryDelay is the fixed pause between tries.
	RetryDelay time.Duration
	// ProgressInterval reports progress every N segments; the final segment
	// is always reported.
	ProgressInterval int
	Progress         Progress
	Logger           *slog.Logger

	sleep func(ctx context.Context, d time.Duration)
}

// TranslateAll translates every segment text through the engine, preserving
// list length exactly. A segment whose translation keeps failing falls back
// to its source text; whitespace-only segments pass through untouched.
func TranslateAll(ctx context.Context, engine Engine, texts []string, opts Options) []string {
	logger := logging.NewComponentLogger(opts.Logger, "translate")
	attempts := opts.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	delay := opts.RetryDelay
	if delay < 0 {
		delay = 0
	}
	interval := opts.ProgressInterval
	if interval < 1 {
		interval = 1
	}
	sleep := opts.sleep
	if sleep == nil {
		sleep = func(ctx context.Context, d time.Duration) {
			timer := time.NewTimer(d)
			defer timer.Stop()
			select {
			case <-ctx.Done():
			case <-timer.C:
			}
		}
	}

	total := len(texts)
	out := make([]string, total)
	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			out[i] = text
		} else {
			out[i] = translateOne(ctx, engine, text, attempts, delay, sleep, logger)
		}

		done := i + 1
		if opts.Progress != nil && (done%interval == 0 || done == total) {
			if err := opts.Progress(done, total); err != nil {
				logger.Debug("progress report failed", logging.Error(err))
			}
		}
	}
	return out
}

func translateOne(ctx context.Context, engine Engine, text string, attempts int, delay time.Duration, sleep func(context.Context, time.Duration), logger *slog.Logger) string {
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		translated, err := engine.Translate(ctx, text)
		if err == nil {
			return SpacePunctuation(translated)
		}
		lastErr = err
		if attempt < attempts && delay > 0 {
			sleep(ctx, delay)
		}
		if ctx.Err() != nil {
			break
		}
	}
	logger.Warn("translation failed, keeping source text",
		logging.Int("attempts", attempts),
		logging.Error(lastErr),
	)
	return text
}

// spacingPunctuation is the set of marks that must be followed by a space
// when text continues after them.
const spacingPunctuation = ",.!?:;)]}"

// SpacePunctuation inserts a space after sentence punctuation that runs
// straight into the next word. Applying it twice yields the same result.
func SpacePunctuation(text string) string {
	runes := []rune(text)
	var b strings.Builder
	b.Grow(len(text) + 8)
	for i, r := range runes {
		b.WriteRune(r)
		if !strings.ContainsRune(spacingPunctuation, r) {
			continue
		}
		if i+1 >= len(runes) {
			continue
		}
		next := runes[i+1]
		if unicode.IsSpace(next) || strings.ContainsRune(spacingPunctuation, next) {
			continue
		}
		b.WriteRune(' ')
	}
	return b.String()
}
