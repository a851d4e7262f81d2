package translate

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"subweld/internal/logging"
	"subweld/internal/services"
)

// OpenAIOptions configures the chat-completion translation engine.
type OpenAIOptions struct {
	APIKey         string
	BaseURL        string
	Model          string
	Source         language.Tag
	Target         language.Tag
	RequestTimeout time.Duration
	Logger         *slog.Logger
}

// OpenAIEngine translates text through an OpenAI-compatible chat completion
// endpoint.
type OpenAIEngine struct {
	client *openai.Client
	model  string
	system string
	logger *slog.Logger
}

// NewOpenAIEngine builds a translation engine for the given language pair.
func NewOpenAIEngine(opts OpenAIOptions) (*OpenAIEngine, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "translate", "new", "api key is required", nil)
	}
	cfg := openai.DefaultConfig(opts.APIKey)
	if base := strings.TrimSpace(opts.BaseURL); base != "" {
		cfg.BaseURL = base
	}
	if opts.RequestTimeout > 0 {
		cfg.HTTPClient = &http.Client{Timeout: opts.RequestTimeout}
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = openai.GPT4oMini
	}

	source := display.English.Languages().Name(opts.Source)
	target := display.English.Languages().Name(opts.Target)
	system := fmt.Sprintf(
		"You are a professional subtitle translator. Translate the %s text the user sends into %s. Keep it short and natural for on-screen subtitles. Output only the translation, with no quotes or commentary.",
		source, target)

	return &OpenAIEngine{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		system: system,
		logger: logging.NewComponentLogger(opts.Logger, "translate"),
	}, nil
}

// Translate implements Engine.
func (e *OpenAIEngine) Translate(ctx context.Context, text string) (string, error) {
	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: e.system},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	translated := strings.TrimSpace(resp.Choices[0].Message.Content)
	if translated == "" {
		return "", fmt.Errorf("chat completion returned empty text")
	}
	return translated, nil
}
