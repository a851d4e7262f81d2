package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"subweld/internal/logging"
	"subweld/internal/transport"
)

const userAgent = "Subweld/0.1.0"

const defaultAPIBase = "https://api.telegram.org"

// Client talks to the Telegram Bot API. It implements both
// transport.Messenger and transport.FileSource.
type Client struct {
	token   string
	apiBase string
	client  *http.Client
	logger  *slog.Logger
}

var (
	_ transport.Messenger  = (*Client)(nil)
	_ transport.FileSource = (*Client)(nil)
)

// Options configures a Client.
type Options struct {
	Token          string
	APIBase        string
	RequestTimeout time.Duration
	HTTPClient     *http.Client
	Logger         *slog.Logger
}

// New builds a Bot API client.
func New(opts Options) (*Client, error) {
	token := strings.TrimSpace(opts.Token)
	if token == "" {
		return nil, fmt.Errorf("telegram: token is required")
	}
	apiBase := strings.TrimRight(strings.TrimSpace(opts.APIBase), "/")
	if apiBase == "" {
		apiBase = defaultAPIBase
	}
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Client{
		token:   token,
		apiBase: apiBase,
		client:  client,
		logger:  logging.NewComponentLogger(opts.Logger, "telegram"),
	}, nil
}

func (c *Client) methodURL(method string) string {
	return c.apiBase + "/bot" + c.token + "/" + method
}

func (c *Client) fileURL(filePath string) string {
	return c.apiBase + "/file/bot" + c.token + "/" + filePath
}

// call posts a JSON-encoded method invocation and decodes the result
// envelope into out when out is non-nil.
func (c *Client) call(ctx context.Context, method string, params any, out any) error {
	body, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("telegram: encode %s params: %w", method, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.methodURL(method), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("telegram: build %s request: %w", method, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", transport.ErrNetwork, method, err)
	}
	defer resp.Body.Close()

	return c.decode(method, resp, out)
}

func (c *Client) decode(method string, resp *http.Response, out any) error {
	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("%w: read %s response: %v", transport.ErrNetwork, method, err)
	}
	var envelope apiResponse
	if err := json.Unmarshal(data, &envelope); err != nil {
		if resp.StatusCode >= 500 {
			return fmt.Errorf("%w: %s returned %d", transport.ErrNetwork, method, resp.StatusCode)
		}
		return fmt.Errorf("telegram: decode %s response: %w", method, err)
	}
	if !envelope.OK {
		return classifyAPIError(method, envelope.ErrorCode, envelope.Description)
	}
	if out != nil {
		if err := json.Unmarshal(envelope.Result, out); err != nil {
			return fmt.Errorf("telegram: decode %s result: %w", method, err)
		}
	}
	return nil
}

// classifyAPIError maps Bot API error descriptions onto the transport's
// typed failures so callers can tell fatal rejections from transient ones.
func classifyAPIError(method string, code int, description string) error {
	desc := strings.ToLower(description)
	switch {
	case strings.Contains(desc, "file is too big"):
		return fmt.Errorf("%w: %s", transport.ErrFileTooBig, description)
	case strings.Contains(desc, "file not found"), strings.Contains(desc, "file is temporarily unavailable"):
		return fmt.Errorf("%w: %s", transport.ErrFileNotFound, description)
	case strings.Contains(desc, "wrong file_id"), strings.Contains(desc, "invalid file_id"), strings.Contains(desc, "file_id doesn't correspond"):
		return fmt.Errorf("%w: %s", transport.ErrInvalidReference, description)
	case code >= 500, code == 429:
		return fmt.Errorf("%w: %s returned %d: %s", transport.ErrNetwork, method, code, description)
	default:
		return fmt.Errorf("telegram: %s failed (%d): %s", method, code, description)
	}
}

// GetFile exchanges a file id for a server-side download path.
func (c *Client) GetFile(ctx context.Context, fileID string) (File, error) {
	var file File
	params := map[string]string{"file_id": fileID}
	if err := c.call(ctx, "getFile", params, &file); err != nil {
		return File{}, err
	}
	return file, nil
}

// ResolveFile implements transport.FileSource.
func (c *Client) ResolveFile(ctx context.Context, ref transport.FileRef) (string, error) {
	if strings.TrimSpace(ref.ID) == "" {
		return "", fmt.Errorf("%w: empty file id", transport.ErrInvalidReference)
	}
	file, err := c.GetFile(ctx, ref.ID)
	if err != nil {
		return "", err
	}
	if file.FilePath == "" {
		return "", fmt.Errorf("%w: getFile returned no path", transport.ErrFileNotFound)
	}
	return c.fileURL(file.FilePath), nil
}

// Download implements transport.FileSource. It streams the resolved
// location into destPath.
func (c *Client) Download(ctx context.Context, location, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return fmt.Errorf("telegram: build download request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: download: %v", transport.ErrNetwork, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: download returned 404", transport.ErrFileNotFound)
	case resp.StatusCode >= 500, resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: download returned %d", transport.ErrNetwork, resp.StatusCode)
	default:
		return fmt.Errorf("telegram: download returned %d", resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fmt.Errorf("telegram: create download dir: %w", err)
	}
	dest, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("telegram: create download file: %w", err)
	}
	if _, err := io.Copy(dest, resp.Body); err != nil {
		dest.Close()
		os.Remove(destPath)
		return fmt.Errorf("%w: download interrupted: %v", transport.ErrNetwork, err)
	}
	if err := dest.Close(); err != nil {
		os.Remove(destPath)
		return fmt.Errorf("telegram: finish download file: %w", err)
	}
	return nil
}

// SendMessage implements transport.Messenger.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) (int64, error) {
	return c.sendMessage(ctx, chatID, text, nil)
}

// SendMessageWithKeyboard posts a message carrying an inline keyboard.
func (c *Client) SendMessageWithKeyboard(ctx context.Context, chatID int64, text string, keyboard *InlineKeyboardMarkup) (int64, error) {
	return c.sendMessage(ctx, chatID, text, keyboard)
}

func (c *Client) sendMessage(ctx context.Context, chatID int64, text string, keyboard *InlineKeyboardMarkup) (int64, error) {
	params := map[string]any{
		"chat_id": chatID,
		"text":    text,
	}
	if keyboard != nil {
		params["reply_markup"] = keyboard
	}
	var msg Message
	if err := c.call(ctx, "sendMessage", params, &msg); err != nil {
		return 0, err
	}
	return msg.MessageID, nil
}

// EditMessage implements transport.Messenger.
func (c *Client) EditMessage(ctx context.Context, chatID, messageID int64, text string) error {
	params := map[string]any{
		"chat_id":    chatID,
		"message_id": messageID,
		"text":       text,
	}
	return c.call(ctx, "editMessageText", params, nil)
}

// EditMessageWithKeyboard replaces both the text and the inline keyboard of
// a previously sent message.
func (c *Client) EditMessageWithKeyboard(ctx context.Context, chatID, messageID int64, text string, keyboard *InlineKeyboardMarkup) error {
	params := map[string]any{
		"chat_id":      chatID,
		"message_id":   messageID,
		"text":         text,
		"reply_markup": keyboard,
	}
	return c.call(ctx, "editMessageText", params, nil)
}

// AnswerCallbackQuery acknowledges an inline keyboard press.
func (c *Client) AnswerCallbackQuery(ctx context.Context, callbackID, text string) error {
	params := map[string]any{"callback_query_id": callbackID}
	if text != "" {
		params["text"] = text
	}
	return c.call(ctx, "answerCallbackQuery", params, nil)
}

// SendVideo implements transport.Messenger. The video is uploaded as
// multipart form data.
func (c *Client) SendVideo(ctx context.Context, chatID int64, path, caption string) error {
	src, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("telegram: open video: %w", err)
	}
	defer src.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.WriteField("chat_id", strconv.FormatInt(chatID, 10)); err != nil {
		return fmt.Errorf("telegram: write chat_id field: %w", err)
	}
	if caption != "" {
		if err := writer.WriteField("caption", caption); err != nil {
			return fmt.Errorf("telegram: write caption field: %w", err)
		}
	}
	part, err := writer.CreateFormFile("video", filepath.Base(path))
	if err != nil {
		return fmt.Errorf("telegram: create video part: %w", err)
	}
	if _, err := io.Copy(part, src); err != nil {
		return fmt.Errorf("telegram: read video: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("telegram: finish upload body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.methodURL("sendVideo"), &buf)
	if err != nil {
		return fmt.Errorf("telegram: build sendVideo request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: sendVideo: %v", transport.ErrNetwork, err)
	}
	defer resp.Body.Close()

	return c.decode("sendVideo", resp, nil)
}

// GetUpdates long-polls for new updates starting at offset. timeout is the
// server-side hold duration.
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]Update, error) {
	params := map[string]any{
		"offset":  offset,
		"timeout": int(timeout.Seconds()),
		"allowed_updates": []string{
			"message", "callback_query",
		},
	}
	var updates []Update
	if err := c.call(ctx, "getUpdates", params, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}
