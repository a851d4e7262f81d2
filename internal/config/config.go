package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	TempDir string `toml:"temp_dir"`
	LogDir  string `toml:"log_dir"`
}

// Telegram contains the chat transport settings.
type Telegram struct {
	Token            string `toml:"token"`
	APIBase          string `toml:"api_base"`
	RequestTimeout   int    `toml:"request_timeout"`
	PollTimeout      int    `toml:"poll_timeout"`
	DownloadTimeout  int    `toml:"download_timeout"`
	APIFileCeilingMB int    `toml:"api_file_ceiling_mb"`
}

// Limits contains the pipeline size ceilings.
type Limits struct {
	MaxInputMB  int `toml:"max_input_mb"`
	MaxOutputMB int `toml:"max_output_mb"`
}

// Acquire contains the download retry policy.
type Acquire struct {
	MaxRetries  int `toml:"max_retries"`
	BackoffBase int `toml:"backoff_base"`
}

// Whisper contains speech-recognition settings.
type Whisper struct {
	Binary   string `toml:"binary"`
	Model    string `toml:"model"`
	Language string `toml:"language"`
}

// Translate contains the translation engine settings and retry policy.
type Translate struct {
	APIKey           string `toml:"api_key"`
	BaseURL          string `toml:"base_url"`
	Model            string `toml:"model"`
	SourceLanguage   string `toml:"source_language"`
	TargetLanguage   string `toml:"target_language"`
	MaxRetries       int    `toml:"max_retries"`
	RetryDelay       int    `toml:"retry_delay"`
	ProgressInterval int    `toml:"progress_interval"`
	RequestTimeout   int    `toml:"request_timeout"`
}

// Subtitles contains burn-in rendering settings.
type Subtitles struct {
	FontSize     int    `toml:"font_size"`
	FontColor    string `toml:"font_color"`
	BurnTimeout  int    `toml:"burn_timeout"`
	FFmpegBinary string `toml:"ffmpeg_binary"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for subweld.
//
// Configuration sections by subsystem:
//   - Paths: temp and log directories (temp_dir is resolved once at load
//     time and injected into every component; nothing reads ambient
//     temp-dir state later)
//   - Telegram: bot token, API endpoints, poll and download timeouts
//   - Limits: input/output size ceilings for the pipeline
//   - Acquire: download retry policy
//   - Whisper: speech-recognition binary, model, source language
//   - Translate: translation engine connection and retry policy
//   - Subtitles: default font settings and burn-in timeout
//   - Logging: log format and level
type Config struct {
	Paths     Paths     `toml:"paths"`
	Telegram  Telegram  `toml:"telegram"`
	Limits    Limits    `toml:"limits"`
	Acquire   Acquire   `toml:"acquire"`
	Whisper   Whisper   `toml:"whisper"`
	Translate Translate `toml:"translate"`
	Subtitles Subtitles `toml:"subtitles"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/subweld/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The boolean reports
// whether a config file was actually found at the resolved path.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("subweld.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the temp and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.TempDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// MaxInputBytes returns the inbound video ceiling in bytes.
func (c *Config) MaxInputBytes() int64 {
	return int64(c.Limits.MaxInputMB) * 1024 * 1024
}

// MaxOutputBytes returns the final output ceiling in bytes.
func (c *Config) MaxOutputBytes() int64 {
	return int64(c.Limits.MaxOutputMB) * 1024 * 1024
}

// APIFileCeilingBytes returns the transport's hard download ceiling in bytes.
func (c *Config) APIFileCeilingBytes() int64 {
	return int64(c.Telegram.APIFileCeilingMB) * 1024 * 1024
}

// DownloadTimeout returns the acquisition wall-clock bound.
func (c *Config) DownloadTimeout() time.Duration {
	return time.Duration(c.Telegram.DownloadTimeout) * time.Second
}

// BurnTimeout returns the burn-in wall-clock bound.
func (c *Config) BurnTimeout() time.Duration {
	return time.Duration(c.Subtitles.BurnTimeout) * time.Second
}

// FontSizes returns the supported subtitle font sizes in ascending order.
func FontSizes() []int {
	return []int{4, 6, 8, 10, 12, 14, 16, 18, 20, 22, 24}
}

// ValidFontSize reports whether size is one of the supported font sizes.
func ValidFontSize(size int) bool {
	for _, s := range FontSizes() {
		if s == size {
			return true
		}
	}
	return false
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
