package whisper

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"subweld/internal/logging"
	"subweld/internal/services"
)

// DefaultModel is the whisper model used when none is configured.
const DefaultModel = "base"

// Service runs the whisper CLI to obtain timed speech segments.
type Service struct {
	binary   string
	model    string
	language string
	logger   *slog.Logger
	run      func(ctx context.Context, dir, name string, args ...string) error
}

// NewService creates a transcription service. language is the hint passed
// to the recognizer, typically "en".
func NewService(binary, model, language string, logger *slog.Logger) *Service {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "whisper"
	}
	model = strings.TrimSpace(model)
	if model == "" {
		model = DefaultModel
	}
	return &Service{
		binary:   binary,
		model:    model,
		language: strings.TrimSpace(language),
		logger:   logging.NewComponentLogger(logger, "whisper"),
		run:      defaultRun,
	}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, dir, name string, args ...string) error) {
	if s != nil && runner != nil {
		s.run = runner
	}
}

func defaultRun(ctx context.Context, dir, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

// Word carries word-level timing from the recognizer's JSON output.
type Word struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Segment is one timed span of recognized speech.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
	Words []Word  `json:"words,omitempty"`
}

type whisperPayload struct {
	Segments []Segment `json:"segments"`
}

// Transcribe runs the recognizer over audioPath and returns its ordered
// segments. An empty segment list is a fatal no-speech error.
func (s *Service) Transcribe(ctx context.Context, audioPath string) ([]Segment, error) {
	if strings.TrimSpace(audioPath) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "transcribe", "validate", "audio path is required", nil)
	}
	outputDir := filepath.Dir(audioPath)

	args := s.buildArgs(audioPath, outputDir)
	s.logger.Debug("running speech recognition",
		logging.String("audio", audioPath),
		logging.String("model", s.model),
	)
	if err := s.run(ctx, outputDir, s.binary, args...); err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "transcribe", "whisper", "speech recognition failed", err)
	}

	jsonPath := outputJSONPath(audioPath, outputDir)
	segments, err := LoadSegments(jsonPath)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "transcribe", "parse", "unreadable recognizer output", err)
	}
	segments = dropEmpty(segments)
	if len(segments) == 0 {
		return nil, services.Wrap(services.ErrNoSpeech, "transcribe", "whisper", "recognizer produced no segments", nil)
	}
	return segments, nil
}

func (s *Service) buildArgs(audioPath, outputDir string) []string {
	args := []string{
		audioPath,
		"--model", s.model,
		"--output_dir", outputDir,
		"--output_format", "json",
		"--word_timestamps", "True",
	}
	if s.language != "" {
		args = append(args, "--language", s.language)
	}
	return args
}

// outputJSONPath derives the recognizer's JSON output path from the audio
// file name.
func outputJSONPath(audioPath, outputDir string) string {
	base := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	return filepath.Join(outputDir, base+".json")
}

// LoadSegments parses a recognizer JSON file into ordered segments.
func LoadSegments(jsonPath string) ([]Segment, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, err
	}
	var payload whisperPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parse whisper json: %w", err)
	}
	return payload.Segments, nil
}

func dropEmpty(segments []Segment) []Segment {
	kept := segments[:0]
	for _, seg := range segments {
		if strings.TrimSpace(seg.Text) != "" {
			kept = append(kept, seg)
		}
	}
	return kept
}
