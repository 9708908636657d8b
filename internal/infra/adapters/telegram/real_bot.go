package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"amath-info-bot/internal/config"
	"amath-info-bot/internal/domain"
	"amath-info-bot/internal/domain/ports/adapter"
	"amath-info-bot/internal/infra/logging"
)

var _ adapter.TelegramBotAdapter = (*RealTelegramBotAdapter)(nil)

// RealTelegramBotAdapter talks to the Bot API through tgbotapi.
type RealTelegramBotAdapter struct {
	bot    *tgbotapi.BotAPI
	logger *zerolog.Logger
}

// NewRealTelegramBotAdapter builds the client without calling getMe, so a bad
// token surfaces on the first request instead of at startup. A nil client
// falls back to http.DefaultClient.
func NewRealTelegramBotAdapter(cfg *config.BotConfig, client tgbotapi.HTTPClient, logger *zerolog.Logger) (*RealTelegramBotAdapter, error) {
	if cfg == nil {
		return nil, errors.New("bot config is nil")
	}
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, fmt.Errorf("%w: bot token is empty", domain.ErrInvalidArgument)
	}
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	bot := &tgbotapi.BotAPI{
		Token:  cfg.Token,
		Client: client,
		Buffer: 100,
	}
	endpoint := cfg.APIEndpoint
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	bot.SetAPIEndpoint(endpoint)

	return &RealTelegramBotAdapter{bot: bot, logger: logger}, nil
}

// ctxClient binds every outgoing request to ctx.
type ctxClient struct {
	ctx  context.Context
	base tgbotapi.HTTPClient
}

func (c ctxClient) Do(req *http.Request) (*http.Response, error) {
	return c.base.Do(req.WithContext(c.ctx))
}

// withContext returns a shallow copy of the bot whose HTTP calls carry ctx.
func (r *RealTelegramBotAdapter) withContext(ctx context.Context) *tgbotapi.BotAPI {
	b := *r.bot
	b.Client = ctxClient{ctx: ctx, base: r.bot.Client}
	return &b
}

func (r *RealTelegramBotAdapter) SendMessage(ctx context.Context, params adapter.SendMessageParams) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if params.ChatID == 0 {
		return domain.ErrNoChatTarget
	}

	msg := tgbotapi.NewMessage(params.ChatID, params.Text)
	if kb, ok := inlineKeyboard(params.Buttons); ok {
		msg.ReplyMarkup = kb
	}

	start := time.Now()
	_, err := r.withContext(ctx).Send(msg)
	logging.With(ctx, r.logger).Debug().
		Int64("chat_id", params.ChatID).
		Int("rows", len(params.Buttons)).
		Dur("took", time.Since(start)).
		Err(err).
		Msg("sendMessage")
	if err != nil {
		return fmt.Errorf("sendMessage to %d: %w", params.ChatID, err)
	}
	return nil
}

// inlineKeyboard converts button rows; empty rows are skipped.
func inlineKeyboard(rows [][]adapter.InlineButton) (tgbotapi.InlineKeyboardMarkup, bool) {
	kbRows := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		r := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, btn := range row {
			r = append(r, tgbotapi.NewInlineKeyboardButtonData(btn.Text, btn.Data))
		}
		kbRows = append(kbRows, r)
	}
	if len(kbRows) == 0 {
		return tgbotapi.InlineKeyboardMarkup{}, false
	}
	return tgbotapi.NewInlineKeyboardMarkup(kbRows...), true
}

func (r *RealTelegramBotAdapter) AnswerCallback(ctx context.Context, callbackID, text string) error {
	if callbackID == "" {
		return fmt.Errorf("%w: empty callback id", domain.ErrInvalidArgument)
	}
	if _, err := r.withContext(ctx).Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		return fmt.Errorf("answerCallbackQuery: %w", err)
	}
	return nil
}

func (r *RealTelegramBotAdapter) RegisterWebhook(ctx context.Context, url string) error {
	wh, err := tgbotapi.NewWebhook(url)
	if err != nil {
		return fmt.Errorf("%w: webhook url %q: %v", domain.ErrInvalidArgument, url, err)
	}
	if _, err := r.withContext(ctx).Request(wh); err != nil {
		return fmt.Errorf("setWebhook: %w", err)
	}
	return nil
}

func (r *RealTelegramBotAdapter) WebhookInfo(ctx context.Context) (adapter.WebhookStatus, error) {
	info, err := r.withContext(ctx).GetWebhookInfo()
	if err != nil {
		return adapter.WebhookStatus{}, fmt.Errorf("getWebhookInfo: %w", err)
	}
	st := adapter.WebhookStatus{
		URL:                info.URL,
		PendingUpdateCount: info.PendingUpdateCount,
		LastErrorMessage:   info.LastErrorMessage,
	}
	if info.LastErrorDate > 0 {
		st.LastErrorAt = time.Unix(int64(info.LastErrorDate), 0).UTC()
	}
	return st, nil
}
