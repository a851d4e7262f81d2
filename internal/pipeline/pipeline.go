package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"subweld/internal/fileutil"
	"subweld/internal/job"
	"subweld/internal/logging"
	"subweld/internal/services"
	"subweld/internal/services/ffmpeg"
	"subweld/internal/services/whisper"
	"subweld/internal/subtitle"
	"subweld/internal/translate"
	"subweld/internal/transport"
)

// Acquirer downloads the referenced file into a destination path.
type Acquirer interface {
	Acquire(ctx context.Context, ref transport.FileRef, destPath string) error
}

// AudioExtractor produces recognizer-ready audio from a video.
type AudioExtractor interface {
	ExtractAudio(ctx context.Context, videoPath, audioPath string) error
}

// Transcriber returns ordered timed speech segments for an audio file.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) ([]whisper.Segment, error)
}

// Burner renders a subtitle track into a video.
type Burner interface {
	Burn(ctx context.Context, req ffmpeg.BurnRequest) error
}

// Options carries the pipeline's fixed policy knobs.
type Options struct {
	// OutputCeiling is the largest burned video the pipeline will deliver.
	OutputCeiling int64
	// BurnTimeout bounds the burn-in invocation.
	BurnTimeout time.Duration
	// TranslateAttempts is the per-segment translation try budget.
	TranslateAttempts int
	// TranslateDelay is the fixed pause between translation tries.
	TranslateDelay time.Duration
	// ProgressInterval controls how often translation progress is reported.
	ProgressInterval int
	Logger           *slog.Logger
}

// Orchestrator drives one job through every stage in order. It is safe to
// invoke concurrently for distinct jobs.
type Orchestrator struct {
	acquirer    Acquirer
	extractor   AudioExtractor
	transcriber Transcriber
	engine      translate.Engine
	burner      Burner
	messenger   transport.Messenger
	opts        Options
	logger      *slog.Logger
}

// New wires an orchestrator from its stage services.
func New(acquirer Acquirer, extractor AudioExtractor, transcriber Transcriber, engine translate.Engine, burner Burner, messenger transport.Messenger, opts Options) (*Orchestrator, error) {
	if acquirer == nil || extractor == nil || transcriber == nil || engine == nil || burner == nil || messenger == nil {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "new", "all stage services are required", nil)
	}
	return &Orchestrator{
		acquirer:    acquirer,
		extractor:   extractor,
		transcriber: transcriber,
		engine:      engine,
		burner:      burner,
		messenger:   messenger,
		opts:        opts,
		logger:      logging.NewComponentLogger(opts.Logger, "pipeline"),
	}, nil
}

// Run processes one job to a terminal stage. Whatever happens, every
// ledger-registered artifact is removed before Run returns, and a failure
// produces exactly one user-visible error message.
func (o *Orchestrator) Run(ctx context.Context, j *job.Job, ref transport.FileRef) error {
	ctx = services.WithJobID(ctx, j.ID)
	logger := logging.WithContext(ctx, o.logger)
	defer j.Ledger.Cleanup()

	logger.Info("job started",
		logging.Int64("chat_id", j.ChatID),
		logging.Int64("declared_size", ref.Size),
	)

	err := o.process(ctx, logger, j, ref)
	if err != nil {
		j.Fail()
		logger.Error("job failed",
			logging.String("stage", string(j.Stage)),
			logging.Error(err),
		)
		o.notify(ctx, logger, j.ChatID, services.UserMessage(err))
		return err
	}
	j.Advance(job.StageDelivered)
	logger.Info("job delivered")
	return nil
}

func (o *Orchestrator) process(ctx context.Context, logger *slog.Logger, j *job.Job, ref transport.FileRef) error {
	statusID := o.notify(ctx, logger, j.ChatID, "Processing your video...")

	videoPath := j.VideoPath()
	ctx = services.WithStage(ctx, "acquire")
	if err := o.acquirer.Acquire(ctx, ref, videoPath); err != nil {
		return err
	}
	j.SourcePath = videoPath
	j.Advance(job.StageAcquired)

	audioPath := j.WavPath()
	ctx = services.WithStage(ctx, "extract")
	if err := o.extractor.ExtractAudio(ctx, videoPath, audioPath); err != nil {
		return err
	}
	j.AudioPath = audioPath
	j.Advance(job.StageAudioExtracted)

	// The recognizer writes its JSON beside the audio file; register it so
	// the sweep collects it with the rest of the job's artifacts.
	transcriptPath := j.TranscriptPath()
	ctx = services.WithStage(ctx, "transcribe")
	segments, err := o.transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		return err
	}
	j.Advance(job.StageTranscribed)
	logging.WithContext(ctx, o.logger).Info("transcription complete",
		logging.Int("segments", len(segments)),
		logging.String("transcript", transcriptPath),
	)

	texts := make([]string, len(segments))
	for i, seg := range segments {
		texts[i] = seg.Text
	}
	ctx = services.WithStage(ctx, "translate")
	translated := translate.TranslateAll(ctx, o.engine, texts, translate.Options{
		MaxAttempts:      o.opts.TranslateAttempts,
		RetryDelay:       o.opts.TranslateDelay,
		ProgressInterval: o.opts.ProgressInterval,
		Progress:         o.progressFunc(ctx, j.ChatID, statusID),
		Logger:           o.opts.Logger,
	})
	j.Advance(job.StageTranslated)

	entries := make([]subtitle.Entry, len(segments))
	for i, seg := range segments {
		entries[i] = subtitle.Entry{Start: seg.Start, End: seg.End, Text: translated[i]}
	}
	doc, err := subtitle.Compose(entries)
	if err != nil {
		return err
	}
	srtPath := j.SrtPath()
	if err := os.WriteFile(srtPath, []byte(doc), 0o644); err != nil {
		return services.Wrap(services.ErrValidation, "compose", "write", "failed to write subtitle file", err)
	}
	j.SubtitlePath = srtPath
	j.Advance(job.StageSubtitleComposed)

	outputPath := j.BurnedPath()
	ctx = services.WithStage(ctx, "burn")
	if err := o.burner.Burn(ctx, ffmpeg.BurnRequest{
		VideoPath:    videoPath,
		SubtitlePath: srtPath,
		OutputPath:   outputPath,
		FontSize:     j.FontSize,
		FontColor:    j.FontColor,
		Timeout:      o.opts.BurnTimeout,
	}); err != nil {
		return err
	}
	j.OutputPath = outputPath
	j.Advance(job.StageBurnedIn)

	ctx = services.WithStage(ctx, "deliver")
	if o.opts.OutputCeiling > 0 && fileutil.SizeAtLeast(outputPath, o.opts.OutputCeiling+1) {
		return services.Wrap(services.ErrTooLarge, "deliver", "precheck",
			fmt.Sprintf("burned video exceeds the %d byte delivery ceiling", o.opts.OutputCeiling), nil)
	}

	if err := o.messenger.SendVideo(ctx, j.ChatID, outputPath, "Here is your subtitled video."); err != nil {
		return services.Wrap(nil, "deliver", "send", "failed to deliver the burned video", err)
	}
	return nil
}

// notify sends a best-effort status message and returns its id, or 0 when
// sending failed.
func (o *Orchestrator) notify(ctx context.Context, logger *slog.Logger, chatID int64, text string) int64 {
	if text == "" {
		return 0
	}
	id, err := o.messenger.SendMessage(ctx, chatID, text)
	if err != nil {
		logger.Debug("status message failed", logging.Error(err))
		return 0
	}
	return id
}

// progressFunc edits the status message with translation progress. Edit
// failures never affect the job.
func (o *Orchestrator) progressFunc(ctx context.Context, chatID, statusID int64) translate.Progress {
	if statusID == 0 {
		return nil
	}
	return func(done, total int) error {
		return o.messenger.EditMessage(ctx, chatID, statusID,
			fmt.Sprintf("Translating subtitles... %d/%d", done, total))
	}
}
