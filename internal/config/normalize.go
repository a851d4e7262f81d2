package config

import (
	"os"
	"path/filepath"
	"strings"
)

// normalize expands paths and fills gaps left by a partial config file.
// The temp directory is resolved here, exactly once; when unset it falls
// back to a subweld subdirectory of the OS temp dir.
func (c *Config) normalize() error {
	if strings.TrimSpace(c.Paths.TempDir) == "" {
		c.Paths.TempDir = filepath.Join(os.TempDir(), "subweld")
	}
	tempDir, err := expandPath(c.Paths.TempDir)
	if err != nil {
		return err
	}
	c.Paths.TempDir = tempDir

	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	logDir, err := expandPath(c.Paths.LogDir)
	if err != nil {
		return err
	}
	c.Paths.LogDir = logDir

	c.Telegram.Token = strings.TrimSpace(c.Telegram.Token)
	if c.Telegram.Token == "" {
		c.Telegram.Token = strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN"))
	}
	c.Telegram.APIBase = strings.TrimRight(strings.TrimSpace(c.Telegram.APIBase), "/")
	if c.Telegram.APIBase == "" {
		c.Telegram.APIBase = defaultAPIBase
	}

	c.Translate.APIKey = strings.TrimSpace(c.Translate.APIKey)
	if c.Translate.APIKey == "" {
		c.Translate.APIKey = strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	}
	c.Translate.SourceLanguage = strings.ToLower(strings.TrimSpace(c.Translate.SourceLanguage))
	c.Translate.TargetLanguage = strings.ToLower(strings.TrimSpace(c.Translate.TargetLanguage))

	c.Whisper.Binary = strings.TrimSpace(c.Whisper.Binary)
	if c.Whisper.Binary == "" {
		c.Whisper.Binary = defaultWhisperBinary
	}
	c.Subtitles.FFmpegBinary = strings.TrimSpace(c.Subtitles.FFmpegBinary)
	if c.Subtitles.FFmpegBinary == "" {
		c.Subtitles.FFmpegBinary = defaultFFmpegBinary
	}
	c.Subtitles.FontColor = strings.ToLower(strings.TrimSpace(c.Subtitles.FontColor))
	if c.Subtitles.FontColor == "" {
		c.Subtitles.FontColor = defaultFontColor
	}

	return nil
}
