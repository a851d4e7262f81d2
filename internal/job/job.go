package job

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"subweld/internal/ledger"
)

// Stage represents the lifecycle of a subtitle job.
type Stage string

const (
	StagePending          Stage = "pending"
	StageAcquired         Stage = "acquired"
	StageAudioExtracted   Stage = "audio_extracted"
	StageTranscribed      Stage = "transcribed"
	StageTranslated       Stage = "translated"
	StageSubtitleComposed Stage = "subtitle_composed"
	StageBurnedIn         Stage = "burned_in"
	StageDelivered        Stage = "delivered"
	StageFailed           Stage = "failed"
)

var allStages = []Stage{
	StagePending,
	StageAcquired,
	StageAudioExtracted,
	StageTranscribed,
	StageTranslated,
	StageSubtitleComposed,
	StageBurnedIn,
	StageDelivered,
	StageFailed,
}

var stageSet = func() map[Stage]struct{} {
	set := make(map[Stage]struct{}, len(allStages))
	for _, stage := range allStages {
		set[stage] = struct{}{}
	}
	return set
}()

// AllStages returns the ordered list of known stages.
func AllStages() []Stage {
	cp := make([]Stage, len(allStages))
	copy(cp, allStages)
	return cp
}

// ParseStage converts a string into a known Stage.
func ParseStage(value string) (Stage, bool) {
	normalized := Stage(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := stageSet[normalized]
	return normalized, ok
}

// Terminal reports whether a stage ends the job lifecycle.
func (s Stage) Terminal() bool {
	return s == StageDelivered || s == StageFailed
}

// Job carries the state of a single video through the pipeline. Every path
// the job generates is namespaced by (user id, creation timestamp) so
// concurrent jobs never collide, and is registered with the job's ledger so
// it is swept when the job concludes.
type Job struct {
	ID         string
	ChatID     int64
	UserID     int64
	CreatedAt  time.Time
	SourcePath string
	FontSize   int
	FontColor  string
	Stage      Stage
	Ledger     *ledger.Ledger

	AudioPath    string
	SubtitlePath string
	OutputPath   string

	workDir string
}

// New creates a pending job for the given chat and user. workDir is the
// resolved scratch directory all job artifacts live under.
func New(chatID, userID int64, workDir string, led *ledger.Ledger) *Job {
	now := time.Now().UTC()
	return &Job{
		ID:        fmt.Sprintf("%d_%d", userID, now.UnixNano()),
		ChatID:    chatID,
		UserID:    userID,
		CreatedAt: now,
		Stage:     StagePending,
		Ledger:    led,
		workDir:   workDir,
	}
}

// WorkDir returns the scratch directory the job's artifacts live under.
func (j *Job) WorkDir() string {
	return j.workDir
}

// Path builds a job-scoped scratch path with the given prefix and extension
// and registers it with the ledger.
func (j *Job) Path(prefix, ext string) string {
	name := fmt.Sprintf("%s_%s%s", prefix, j.ID, ext)
	path := filepath.Join(j.workDir, name)
	if j.Ledger != nil {
		j.Ledger.Register(path)
	}
	return path
}

// VideoPath returns the ledger-registered path for the acquired source video.
func (j *Job) VideoPath() string {
	return j.Path("v", ".mp4")
}

// WavPath returns the ledger-registered path for the extracted audio.
func (j *Job) WavPath() string {
	return j.Path("a", ".wav")
}

// TranscriptPath returns the ledger-registered path for the recognizer's
// JSON output, which lands beside the extracted audio.
func (j *Job) TranscriptPath() string {
	return j.Path("a", ".json")
}

// SrtPath returns the ledger-registered path for the composed subtitle track.
func (j *Job) SrtPath() string {
	return j.Path("s", ".srt")
}

// BurnedPath returns the ledger-registered path for the burned output video.
func (j *Job) BurnedPath() string {
	return j.Path("o", ".mp4")
}

// Advance moves the job to the next stage.
func (j *Job) Advance(stage Stage) {
	j.Stage = stage
}

// Fail marks the job failed.
func (j *Job) Fail() {
	j.Stage = StageFailed
}
