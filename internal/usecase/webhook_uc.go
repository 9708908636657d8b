package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"amath-info-bot/internal/domain"
	"amath-info-bot/internal/domain/ports/adapter"
	"amath-info-bot/internal/infra/logging"
	"amath-info-bot/internal/infra/metrics"
)

var _ WebhookUseCase = (*webhookUC)(nil)

// WebhookUseCase registers the public webhook URL with Telegram.
type WebhookUseCase interface {
	Register(ctx context.Context, url string) (adapter.WebhookStatus, error)
}

type webhookUC struct {
	bot adapter.TelegramBotAdapter
	log *zerolog.Logger
}

func NewWebhookUseCase(bot adapter.TelegramBotAdapter, logger *zerolog.Logger) *webhookUC {
	return &webhookUC{bot: bot, log: logger}
}

// Register calls setWebhook and then reads back what Telegram reports.
// A failed status lookup after a successful registration is only logged.
func (w *webhookUC) Register(ctx context.Context, url string) (adapter.WebhookStatus, error) {
	defer logging.TraceDuration(w.log, "WebhookUC.Register")()

	url = strings.TrimSpace(url)
	if url == "" {
		metrics.IncWebhookRegistration(false)
		return adapter.WebhookStatus{}, fmt.Errorf("%w: webhook url is empty", domain.ErrInvalidArgument)
	}

	if err := w.bot.RegisterWebhook(ctx, url); err != nil {
		metrics.IncWebhookRegistration(false)
		return adapter.WebhookStatus{}, fmt.Errorf("register webhook: %w", err)
	}
	metrics.IncWebhookRegistration(true)
	w.log.Info().Str("url", url).Msg("webhook registered")

	st, err := w.bot.WebhookInfo(ctx)
	if err != nil {
		w.log.Warn().Err(err).Msg("failed to read webhook info")
		return adapter.WebhookStatus{URL: url}, nil
	}
	ev := w.log.Info().
		Str("url", st.URL).
		Int("pending_updates", st.PendingUpdateCount)
	if st.LastErrorMessage != "" {
		ev = ev.Time("last_error_at", st.LastErrorAt).Str("last_error", st.LastErrorMessage)
	}
	ev.Msg("webhook info")
	if st.URL != url {
		w.log.Warn().Str("want", url).Str("got", st.URL).Msg("webhook url mismatch")
	}
	return st, nil
}
