package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func validConfig() Config {
	cfg := Default()
	cfg.Telegram.Token = "123:abc"
	cfg.Translate.APIKey = "sk-test"
	return cfg
}

func TestDefaultValidatesWithCredentials(t *testing.T) {
	cfg := validConfig()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestValidateRejectsMissingToken(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	cfg := Default()
	cfg.Translate.APIKey = "sk-test"
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "telegram.token") {
		t.Fatalf("expected token error, got %v", err)
	}
}

func TestValidateRejectsBadFontSize(t *testing.T) {
	cfg := validConfig()
	cfg.Subtitles.FontSize = 13
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "font_size") {
		t.Fatalf("expected font size error, got %v", err)
	}
}

func TestValidateRejectsInputBelowTransportCeiling(t *testing.T) {
	cfg := validConfig()
	cfg.Limits.MaxInputMB = 10
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "max_input_mb") {
		t.Fatalf("expected limits error, got %v", err)
	}
}

func TestNormalizeFallsBackToOSTempDir(t *testing.T) {
	cfg := validConfig()
	cfg.Paths.TempDir = ""
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if !strings.HasPrefix(cfg.Paths.TempDir, os.TempDir()) {
		t.Fatalf("expected fallback under %s, got %s", os.TempDir(), cfg.Paths.TempDir)
	}
}

func TestNormalizeReadsTokenFromEnv(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "999:env")
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Telegram.Token != "999:env" {
		t.Fatalf("expected env token, got %q", cfg.Telegram.Token)
	}
}

func TestLoadParsesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[telegram]
token = "42:file"

[translate]
api_key = "sk-file"

[subtitles]
font_size = 16
font_color = "Yellow"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("unexpected resolution: %q exists=%v", resolved, exists)
	}
	if cfg.Subtitles.FontSize != 16 {
		t.Fatalf("font size not loaded: %d", cfg.Subtitles.FontSize)
	}
	if cfg.Subtitles.FontColor != "yellow" {
		t.Fatalf("font color not normalized: %q", cfg.Subtitles.FontColor)
	}
	if cfg.Telegram.DownloadTimeout != defaultDownloadTimeout {
		t.Fatalf("defaults not preserved for unset fields: %d", cfg.Telegram.DownloadTimeout)
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("OPENAI_API_KEY", "")
	// The sample has no credentials, so loading must fail validation.
	if _, _, _, err := Load(path); err == nil {
		t.Fatal("expected validation error for credential-less sample")
	}
}

func TestFontSizes(t *testing.T) {
	sizes := FontSizes()
	if sizes[0] != 4 || sizes[len(sizes)-1] != 24 {
		t.Fatalf("unexpected font size range: %v", sizes)
	}
	if ValidFontSize(15) {
		t.Fatal("15 should not be a valid font size")
	}
}
