//go:build !integration

package usecase_test

import (
	"context"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"amath-info-bot/internal/domain/ports/adapter"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.New(io.Discard)
	return &l
}

// ---- Mock TelegramBotAdapter ----

type MockTelegramBot struct {
	mu       sync.Mutex
	Sent     []adapter.SendMessageParams
	Answered []string

	SendMessageFunc     func(ctx context.Context, params adapter.SendMessageParams) error
	AnswerCallbackFunc  func(ctx context.Context, callbackID, text string) error
	RegisterWebhookFunc func(ctx context.Context, url string) error
	WebhookInfoFunc     func(ctx context.Context) (adapter.WebhookStatus, error)
}

var _ adapter.TelegramBotAdapter = (*MockTelegramBot)(nil)

func (m *MockTelegramBot) SendMessage(ctx context.Context, params adapter.SendMessageParams) error {
	m.mu.Lock()
	m.Sent = append(m.Sent, params)
	m.mu.Unlock()
	if m.SendMessageFunc != nil {
		return m.SendMessageFunc(ctx, params)
	}
	return nil
}

func (m *MockTelegramBot) AnswerCallback(ctx context.Context, callbackID, text string) error {
	m.mu.Lock()
	m.Answered = append(m.Answered, callbackID)
	m.mu.Unlock()
	if m.AnswerCallbackFunc != nil {
		return m.AnswerCallbackFunc(ctx, callbackID, text)
	}
	return nil
}

func (m *MockTelegramBot) RegisterWebhook(ctx context.Context, url string) error {
	if m.RegisterWebhookFunc != nil {
		return m.RegisterWebhookFunc(ctx, url)
	}
	return nil
}

func (m *MockTelegramBot) WebhookInfo(ctx context.Context) (adapter.WebhookStatus, error) {
	if m.WebhookInfoFunc != nil {
		return m.WebhookInfoFunc(ctx)
	}
	return adapter.WebhookStatus{}, nil
}

func (m *MockTelegramBot) SentMessages() []adapter.SendMessageParams {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]adapter.SendMessageParams(nil), m.Sent...)
}
