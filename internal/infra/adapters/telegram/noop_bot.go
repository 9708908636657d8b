package telegram

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"amath-info-bot/internal/domain/ports/adapter"
	"amath-info-bot/internal/infra/logging"
)

var _ adapter.TelegramBotAdapter = (*NoopBotAdapter)(nil)

// NoopBotAdapter logs outbound calls instead of sending them. Used with -dev.
type NoopBotAdapter struct {
	logger *zerolog.Logger

	mu         sync.Mutex
	webhookURL string
}

func NewNoopBotAdapter(logger *zerolog.Logger) *NoopBotAdapter {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &NoopBotAdapter{logger: logger}
}

func (b *NoopBotAdapter) SendMessage(ctx context.Context, params adapter.SendMessageParams) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	logging.With(ctx, b.logger).Info().
		Str("component", "noop-telegram").
		Int64("chat_id", params.ChatID).
		Str("text", params.Text).
		Interface("buttons", params.Buttons).
		Msg("sendMessage")
	return nil
}

func (b *NoopBotAdapter) AnswerCallback(ctx context.Context, callbackID, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	logging.With(ctx, b.logger).Info().
		Str("component", "noop-telegram").
		Str("callback_id", callbackID).
		Msg("answerCallbackQuery")
	return nil
}

func (b *NoopBotAdapter) RegisterWebhook(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	b.webhookURL = url
	b.mu.Unlock()
	b.logger.Info().Str("component", "noop-telegram").Str("url", url).Msg("setWebhook")
	return nil
}

func (b *NoopBotAdapter) WebhookInfo(ctx context.Context) (adapter.WebhookStatus, error) {
	if err := ctx.Err(); err != nil {
		return adapter.WebhookStatus{}, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return adapter.WebhookStatus{URL: b.webhookURL}, nil
}
