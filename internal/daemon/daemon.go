package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/text/language"

	"subweld/internal/acquire"
	"subweld/internal/bot"
	"subweld/internal/config"
	"subweld/internal/deps"
	"subweld/internal/logging"
	"subweld/internal/pipeline"
	"subweld/internal/services"
	"subweld/internal/services/ffmpeg"
	"subweld/internal/services/whisper"
	"subweld/internal/translate"
	"subweld/internal/transport/telegram"
)

// Daemon owns the bot's long-running pieces and enforces single-instance
// execution through a file lock.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger
	bot    *bot.Bot
	poller *telegram.Poller

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
}

// New wires the full processing stack from configuration.
func New(cfg *config.Config, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("daemon requires config")
	}

	pollTimeout := time.Duration(cfg.Telegram.PollTimeout) * time.Second
	requestTimeout := time.Duration(cfg.Telegram.RequestTimeout) * time.Second
	// The long poll holds the connection open for the full poll timeout, so
	// the HTTP client deadline must sit beyond it.
	clientTimeout := requestTimeout
	if pollTimeout+10*time.Second > clientTimeout {
		clientTimeout = pollTimeout + 10*time.Second
	}

	client, err := telegram.New(telegram.Options{
		Token:          cfg.Telegram.Token,
		APIBase:        cfg.Telegram.APIBase,
		RequestTimeout: clientTimeout,
		Logger:         logger,
	})
	if err != nil {
		return nil, err
	}

	acquirer, err := acquire.New(client, acquire.Options{
		Ceiling:     cfg.APIFileCeilingBytes(),
		MaxRetries:  cfg.Acquire.MaxRetries,
		BackoffBase: time.Duration(cfg.Acquire.BackoffBase) * time.Second,
		Timeout:     cfg.DownloadTimeout(),
		Logger:      logger,
	})
	if err != nil {
		return nil, err
	}

	engine, err := translate.NewOpenAIEngine(translate.OpenAIOptions{
		APIKey:         cfg.Translate.APIKey,
		BaseURL:        cfg.Translate.BaseURL,
		Model:          cfg.Translate.Model,
		Source:         language.Make(cfg.Translate.SourceLanguage),
		Target:         language.Make(cfg.Translate.TargetLanguage),
		RequestTimeout: time.Duration(cfg.Translate.RequestTimeout) * time.Second,
		Logger:         logger,
	})
	if err != nil {
		return nil, err
	}

	transcoder := ffmpeg.NewService(cfg.Subtitles.FFmpegBinary, logger)
	recognizer := whisper.NewService(cfg.Whisper.Binary, cfg.Whisper.Model, cfg.Whisper.Language, logger)

	orchestrator, err := pipeline.New(acquirer, transcoder, recognizer, engine, transcoder, client, pipeline.Options{
		OutputCeiling:     cfg.MaxOutputBytes(),
		BurnTimeout:       cfg.BurnTimeout(),
		TranslateAttempts: cfg.Translate.MaxRetries,
		TranslateDelay:    time.Duration(cfg.Translate.RetryDelay) * time.Second,
		ProgressInterval:  cfg.Translate.ProgressInterval,
		Logger:            logger,
	})
	if err != nil {
		return nil, err
	}

	router, err := bot.New(client, orchestrator, cfg, logger)
	if err != nil {
		return nil, err
	}

	lockPath := filepath.Join(cfg.Paths.LogDir, "subweld.lock")
	return &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		bot:      router,
		poller:   telegram.NewPoller(client, pollTimeout, router.HandleUpdate, logger),
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// LockPath returns the single-instance lock file location.
func (d *Daemon) LockPath() string {
	return d.lockPath
}

// Run checks external dependencies, acquires the instance lock, and polls
// for updates until ctx is cancelled. In-flight jobs are allowed to finish
// before Run returns.
func (d *Daemon) Run(ctx context.Context) error {
	if !d.running.CompareAndSwap(false, true) {
		return errors.New("daemon already running")
	}
	defer d.running.Store(false)

	if err := d.preflight(); err != nil {
		return err
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another subweld instance is already running")
	}
	defer func() {
		if err := d.lock.Unlock(); err != nil {
			d.logger.Warn("failed to release instance lock", logging.Error(err))
		}
	}()

	d.logger.Info("subweld started",
		logging.String("lock", d.lockPath),
		logging.String("temp_dir", d.cfg.Paths.TempDir),
	)

	runErr := d.poller.Run(ctx)
	d.logger.Info("poller stopped, waiting for in-flight jobs")
	d.bot.Wait()
	d.logger.Info("subweld stopped")

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	return nil
}

func (d *Daemon) preflight() error {
	statuses := deps.CheckBinaries(deps.Requirements(d.cfg.Subtitles.FFmpegBinary, d.cfg.Whisper.Binary))
	missing := deps.Missing(statuses)
	if len(missing) == 0 {
		return nil
	}
	return services.Wrap(services.ErrDependency, "daemon", "preflight",
		fmt.Sprintf("missing required binaries: %s", strings.Join(missing, ", ")), nil)
}
