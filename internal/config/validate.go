package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTelegram(); err != nil {
		return err
	}
	if err := c.validateLimits(); err != nil {
		return err
	}
	if err := c.validateRetries(); err != nil {
		return err
	}
	if err := c.validateTranslate(); err != nil {
		return err
	}
	if err := c.validateSubtitles(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTelegram() error {
	if c.Telegram.Token == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/subweld/config.toml"
		}
		return fmt.Errorf("telegram.token is required. Set TELEGRAM_BOT_TOKEN env var or edit %s (create with 'subweld config init')", defaultPath)
	}
	return ensurePositiveMap(map[string]int{
		"telegram.request_timeout":     c.Telegram.RequestTimeout,
		"telegram.poll_timeout":        c.Telegram.PollTimeout,
		"telegram.download_timeout":    c.Telegram.DownloadTimeout,
		"telegram.api_file_ceiling_mb": c.Telegram.APIFileCeilingMB,
	})
}

func (c *Config) validateLimits() error {
	if err := ensurePositiveMap(map[string]int{
		"limits.max_input_mb":  c.Limits.MaxInputMB,
		"limits.max_output_mb": c.Limits.MaxOutputMB,
	}); err != nil {
		return err
	}
	if c.Limits.MaxInputMB < c.Telegram.APIFileCeilingMB {
		return errors.New("limits.max_input_mb must not be below telegram.api_file_ceiling_mb")
	}
	return nil
}

func (c *Config) validateRetries() error {
	if c.Acquire.MaxRetries < 1 {
		return errors.New("acquire.max_retries must be >= 1")
	}
	if c.Acquire.BackoffBase < 1 {
		return errors.New("acquire.backoff_base must be >= 1 (seconds)")
	}
	return nil
}

func (c *Config) validateTranslate() error {
	if strings.TrimSpace(c.Translate.APIKey) == "" {
		return errors.New("translate.api_key is required (or set OPENAI_API_KEY)")
	}
	if strings.TrimSpace(c.Translate.Model) == "" {
		return errors.New("translate.model must be set")
	}
	if c.Translate.SourceLanguage == "" || c.Translate.TargetLanguage == "" {
		return errors.New("translate.source_language and translate.target_language must be set")
	}
	return ensurePositiveMap(map[string]int{
		"translate.max_retries":       c.Translate.MaxRetries,
		"translate.retry_delay":       c.Translate.RetryDelay,
		"translate.progress_interval": c.Translate.ProgressInterval,
		"translate.request_timeout":   c.Translate.RequestTimeout,
	})
}

func (c *Config) validateSubtitles() error {
	if !ValidFontSize(c.Subtitles.FontSize) {
		return fmt.Errorf("subtitles.font_size must be one of %v", FontSizes())
	}
	if c.Subtitles.BurnTimeout <= 0 {
		return errors.New("subtitles.burn_timeout must be positive (seconds)")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
