package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"subweld/internal/fileutil"
	"subweld/internal/logging"
	"subweld/internal/services"
)

// minOutputBytes is the smallest artifact accepted as real transcoder output.
const minOutputBytes = 1000

type commandRunner func(ctx context.Context, dir, name string, args ...string) error

// Service invokes the ffmpeg binary for audio extraction and subtitle
// burn-in.
type Service struct {
	binary string
	logger *slog.Logger
	run    commandRunner
}

// NewService constructs an ffmpeg service around the given binary.
func NewService(binary string, logger *slog.Logger) *Service {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	return &Service{
		binary: binary,
		logger: logging.NewComponentLogger(logger, "ffmpeg"),
		run:    defaultCommandRunner,
	}
}

// WithCommandRunner injects a custom command runner (primarily for tests).
func (s *Service) WithCommandRunner(r commandRunner) {
	if s != nil && r != nil {
		s.run = r
	}
}

// defaultCommandRunner executes ffmpeg with the working directory set per
// invocation, so concurrent burns never race on process state.
func defaultCommandRunner(ctx context.Context, dir, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

// ExtractAudio decodes the video's audio track into a mono 16 kHz PCM WAV
// suitable for speech recognition. Any pre-existing destination is removed
// first.
func (s *Service) ExtractAudio(ctx context.Context, videoPath, audioPath string) error {
	if err := fileutil.RemoveIfExists(audioPath); err != nil {
		return services.Wrap(services.ErrExternalTool, "extract", "prepare", "failed to clear stale audio file", err)
	}

	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", videoPath,
		"-vn",
		"-sn",
		"-dn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		audioPath,
	}
	s.logger.Debug("extracting audio",
		logging.String("video", videoPath),
		logging.String("audio", audioPath),
	)
	if err := s.run(ctx, "", s.binary, args...); err != nil {
		return services.Wrap(services.ErrExternalTool, "extract", "ffmpeg", "audio extraction failed", err)
	}
	if !fileutil.SizeAtLeast(audioPath, minOutputBytes) {
		return services.Wrap(services.ErrExternalTool, "extract", "verify",
			fmt.Sprintf("audio file missing or smaller than %d bytes", minOutputBytes), nil)
	}
	return nil
}

// BurnRequest describes a subtitle burn-in invocation.
type BurnRequest struct {
	VideoPath    string
	SubtitlePath string
	OutputPath   string
	FontSize     int
	FontColor    string
	Timeout      time.Duration
}

// Burn renders the subtitle track into the video. ffmpeg runs with its
// working directory set to the output's directory and sees only short
// relative filenames, which keeps the subtitles filter free of path
// escaping. Inputs living outside that directory are copied in for the
// duration of the invocation.
func (s *Service) Burn(ctx context.Context, req BurnRequest) error {
	if strings.TrimSpace(req.VideoPath) == "" || strings.TrimSpace(req.SubtitlePath) == "" || strings.TrimSpace(req.OutputPath) == "" {
		return services.Wrap(services.ErrConfiguration, "burn", "validate", "video, subtitle, and output paths are required", nil)
	}
	if _, err := os.Stat(req.VideoPath); err != nil {
		return services.Wrap(services.ErrExternalTool, "burn", "validate", "source video missing", err)
	}
	if _, err := os.Stat(req.SubtitlePath); err != nil {
		return services.Wrap(services.ErrExternalTool, "burn", "validate", "subtitle file missing", err)
	}

	scratch := filepath.Dir(req.OutputPath)
	video, cleanupVideo, err := s.stageInput(req.VideoPath, scratch)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "burn", "stage", "failed to stage video into scratch dir", err)
	}
	defer cleanupVideo()
	subtitle, cleanupSubtitle, err := s.stageInput(req.SubtitlePath, scratch)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "burn", "stage", "failed to stage subtitle into scratch dir", err)
	}
	defer cleanupSubtitle()

	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	filter := fmt.Sprintf("subtitles=%s:force_style='Fontsize=%d,PrimaryColour=%s,OutlineColour=%s,Bold=1'",
		subtitle, req.FontSize, ResolveColor(req.FontColor), ColorBlack)
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", video,
		"-vf", filter,
		"-c:a", "copy",
		filepath.Base(req.OutputPath),
	}
	s.logger.Debug("burning subtitles",
		logging.String("video", req.VideoPath),
		logging.String("output", req.OutputPath),
		logging.Int("font_size", req.FontSize),
		logging.String("font_color", req.FontColor),
	)

	if err := s.run(ctx, scratch, s.binary, args...); err != nil {
		_ = fileutil.RemoveIfExists(req.OutputPath)
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return services.Wrap(services.ErrTimeout, "burn", "ffmpeg", "burn-in exceeded its time limit", err)
		}
		return services.Wrap(services.ErrExternalTool, "burn", "ffmpeg", "burn-in failed", err)
	}

	if !fileutil.SizeAtLeast(req.OutputPath, minOutputBytes) {
		return services.Wrap(services.ErrExternalTool, "burn", "verify",
			fmt.Sprintf("output missing or smaller than %d bytes", minOutputBytes), nil)
	}
	return nil
}

// stageInput ensures path is visible under scratch by its base name,
// copying it in when it lives elsewhere. The returned cleanup removes the
// copy, never the original.
func (s *Service) stageInput(path, scratch string) (string, func(), error) {
	base := filepath.Base(path)
	if filepath.Dir(path) == scratch {
		return base, func() {}, nil
	}
	staged := filepath.Join(scratch, base)
	if err := fileutil.CopyFile(path, staged); err != nil {
		return "", func() {}, err
	}
	return base, func() { _ = fileutil.RemoveIfExists(staged) }, nil
}
