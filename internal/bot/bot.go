package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"subweld/internal/config"
	"subweld/internal/job"
	"subweld/internal/ledger"
	"subweld/internal/logging"
	"subweld/internal/services"
	"subweld/internal/services/ffmpeg"
	"subweld/internal/transport"
	"subweld/internal/transport/telegram"
)

const welcomeText = "Send me a short English video and I will send it back with Hebrew subtitles burned in.\n\nUse /settings to pick the subtitle font size and color."

// ChatAPI is the slice of the transport client the router needs beyond
// plain messaging.
type ChatAPI interface {
	SendMessage(ctx context.Context, chatID int64, text string) (int64, error)
	SendMessageWithKeyboard(ctx context.Context, chatID int64, text string, keyboard *telegram.InlineKeyboardMarkup) (int64, error)
	EditMessageWithKeyboard(ctx context.Context, chatID, messageID int64, text string, keyboard *telegram.InlineKeyboardMarkup) error
	AnswerCallbackQuery(ctx context.Context, callbackID, text string) error
}

// Runner processes one accepted job end to end.
type Runner interface {
	Run(ctx context.Context, j *job.Job, ref transport.FileRef) error
}

// Bot routes transport updates: commands and settings callbacks are handled
// inline, accepted videos each spawn a pipeline job in its own goroutine.
type Bot struct {
	api     ChatAPI
	runner  Runner
	cfg     *config.Config
	prefs   *prefsStore
	logger  *slog.Logger
	workDir string

	wg sync.WaitGroup
}

// New wires the update router.
func New(api ChatAPI, runner Runner, cfg *config.Config, logger *slog.Logger) (*Bot, error) {
	if api == nil || runner == nil || cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "bot", "new", "api, runner, and config are required", nil)
	}
	return &Bot{
		api:     api,
		runner:  runner,
		cfg:     cfg,
		prefs:   newPrefsStore(cfg.Subtitles.FontSize, cfg.Subtitles.FontColor),
		logger:  logging.NewComponentLogger(logger, "bot"),
		workDir: cfg.Paths.TempDir,
	}, nil
}

// HandleUpdate dispatches one update. It satisfies telegram.UpdateHandler.
func (b *Bot) HandleUpdate(ctx context.Context, update telegram.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}

// Wait blocks until all in-flight jobs have finished.
func (b *Bot) Wait() {
	b.wg.Wait()
}

func (b *Bot) handleMessage(ctx context.Context, msg *telegram.Message) {
	if ref, ok := videoRef(msg); ok {
		b.handleVideo(ctx, msg, ref)
		return
	}

	switch command(msg.Text) {
	case "/start", "/help":
		b.reply(ctx, msg.Chat.ID, welcomeText)
	case "/settings":
		prefs := b.prefs.Get(msg.Chat.ID)
		if _, err := b.api.SendMessageWithKeyboard(ctx, msg.Chat.ID, settingsText(prefs), settingsKeyboard()); err != nil {
			b.logger.Warn("failed to send settings menu", logging.Error(err))
		}
	default:
		if strings.TrimSpace(msg.Text) != "" {
			b.reply(ctx, msg.Chat.ID, "Send me a video to subtitle, or /help for instructions.")
		}
	}
}

func (b *Bot) handleVideo(ctx context.Context, msg *telegram.Message, ref transport.FileRef) {
	chatID := msg.Chat.ID
	if ceiling := b.cfg.MaxInputBytes(); ref.Size > ceiling {
		b.reply(ctx, chatID, fmt.Sprintf("That video is too large. The limit is %d MB.", b.cfg.Limits.MaxInputMB))
		return
	}

	var userID int64
	if msg.From != nil {
		userID = msg.From.ID
	}
	prefs := b.prefs.Get(chatID)
	j := job.New(chatID, userID, b.workDir, ledger.New(b.logger))
	j.FontSize = prefs.FontSize
	j.FontColor = prefs.FontColor

	requestID := uuid.NewString()
	logger := b.logger.With(
		logging.String(logging.FieldJobID, j.ID),
		logging.String(logging.FieldCorrelationID, requestID),
	)
	logger.Info("accepted video",
		logging.Int64("chat_id", chatID),
		logging.Int64("declared_size", ref.Size),
		logging.Duration("duration", ref.Duration),
	)

	// Jobs run to completion even when the poller shuts down.
	jobCtx := services.WithRequestID(context.WithoutCancel(ctx), requestID)
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		start := time.Now()
		if err := b.runner.Run(jobCtx, j, ref); err != nil {
			logger.Warn("job ended in failure",
				logging.Duration("elapsed", time.Since(start)),
				logging.Error(err),
			)
			return
		}
		logger.Info("job completed", logging.Duration("elapsed", time.Since(start)))
	}()
}

func (b *Bot) handleCallback(ctx context.Context, cb *telegram.CallbackQuery) {
	if cb.Message == nil {
		_ = b.api.AnswerCallbackQuery(ctx, cb.ID, "")
		return
	}
	chatID := cb.Message.Chat.ID
	messageID := cb.Message.MessageID

	var ack string
	switch {
	case cb.Data == callbackMenuSize:
		b.editMenu(ctx, chatID, messageID, "Pick a font size:", fontSizeKeyboard())
	case cb.Data == callbackMenuColor:
		b.editMenu(ctx, chatID, messageID, "Pick a font color:", fontColorKeyboard())
	case strings.HasPrefix(cb.Data, callbackSetSize):
		size, err := strconv.Atoi(strings.TrimPrefix(cb.Data, callbackSetSize))
		if err != nil || !config.ValidFontSize(size) {
			ack = "Unsupported font size."
			break
		}
		b.prefs.SetFontSize(chatID, size)
		ack = fmt.Sprintf("Font size set to %d.", size)
		b.editMenu(ctx, chatID, messageID, settingsText(b.prefs.Get(chatID)), settingsKeyboard())
	case strings.HasPrefix(cb.Data, callbackSetColor):
		color := strings.TrimPrefix(cb.Data, callbackSetColor)
		if !ffmpeg.ValidColor(color) {
			ack = "Unsupported color."
			break
		}
		b.prefs.SetFontColor(chatID, color)
		ack = fmt.Sprintf("Font color set to %s.", color)
		b.editMenu(ctx, chatID, messageID, settingsText(b.prefs.Get(chatID)), settingsKeyboard())
	}
	if err := b.api.AnswerCallbackQuery(ctx, cb.ID, ack); err != nil {
		b.logger.Debug("failed to answer callback", logging.Error(err))
	}
}

func (b *Bot) editMenu(ctx context.Context, chatID, messageID int64, text string, keyboard *telegram.InlineKeyboardMarkup) {
	if err := b.api.EditMessageWithKeyboard(ctx, chatID, messageID, text, keyboard); err != nil {
		b.logger.Debug("failed to edit settings menu", logging.Error(err))
	}
}

func (b *Bot) reply(ctx context.Context, chatID int64, text string) {
	if _, err := b.api.SendMessage(ctx, chatID, text); err != nil {
		b.logger.Warn("failed to send reply", logging.Error(err))
	}
}

// videoRef extracts a downloadable video reference from a message, whether
// sent as a video or as a video document.
func videoRef(msg *telegram.Message) (transport.FileRef, bool) {
	if msg.Video != nil {
		return transport.FileRef{
			ID:       msg.Video.FileID,
			Size:     msg.Video.FileSize,
			Name:     msg.Video.FileName,
			Duration: time.Duration(msg.Video.Duration) * time.Second,
		}, true
	}
	if msg.Document != nil && strings.HasPrefix(msg.Document.MimeType, "video/") {
		return transport.FileRef{
			ID:   msg.Document.FileID,
			Size: msg.Document.FileSize,
			Name: msg.Document.FileName,
		}, true
	}
	return transport.FileRef{}, false
}

func command(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return ""
	}
	fields := strings.Fields(text)
	cmd := fields[0]
	if at := strings.Index(cmd, "@"); at > 0 {
		cmd = cmd[:at]
	}
	return strings.ToLower(cmd)
}
