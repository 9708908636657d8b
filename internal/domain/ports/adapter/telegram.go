// File: internal/domain/ports/adapter/telegram.go
package adapter

import (
	"context"
	"time"
)

type InlineButton struct {
	Text string
	Data string
}

// SendMessageParams addresses one outbound message. Buttons is optional.
type SendMessageParams struct {
	ChatID  int64
	Text    string
	Buttons [][]InlineButton
}

// WebhookStatus is what Telegram reports about the registered webhook.
type WebhookStatus struct {
	URL                string
	PendingUpdateCount int
	LastErrorAt        time.Time
	LastErrorMessage   string
}

type TelegramBotAdapter interface {
	SendMessage(ctx context.Context, params SendMessageParams) error
	AnswerCallback(ctx context.Context, callbackID, text string) error
	RegisterWebhook(ctx context.Context, url string) error
	WebhookInfo(ctx context.Context) (WebhookStatus, error)
}
