//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"amath-info-bot/internal/domain"
	"amath-info-bot/internal/domain/model"
	"amath-info-bot/internal/domain/ports/adapter"
	"amath-info-bot/internal/infra/menu"
	"amath-info-bot/internal/usecase"
)

func newTable(t *testing.T) *menu.Table {
	t.Helper()
	table, err := menu.Default()
	if err != nil {
		t.Fatalf("menu.Default: %v", err)
	}
	return table
}

func buttonData(p adapter.SendMessageParams) []string {
	var ids []string
	for _, row := range p.Buttons {
		for _, b := range row {
			ids = append(ids, b.Data)
		}
	}
	return ids
}

func TestDispatchUseCase_Dispatch(t *testing.T) {
	ctx := context.Background()
	table := newTable(t)
	start, _ := table.Command("/start")
	partners, _ := table.Callback("partners")
	psa, _ := table.Callback("psa")

	tests := []struct {
		name        string
		update      model.Update
		wantOutcome usecase.Outcome
		wantSent    int
		wantChat    int64
		wantText    string
		wantButtons []string
	}{
		{
			name:        "start command sends root menu",
			update:      model.Update{Kind: model.KindMessage, Chat: 42, Text: "/start"},
			wantOutcome: usecase.OutcomeCommand,
			wantSent:    1,
			wantChat:    42,
			wantText:    start.Text,
			wantButtons: []string{"governance", "history", "science", "partners"},
		},
		{
			name:        "other text gets the fallback",
			update:      model.Update{Kind: model.KindMessage, Chat: 42, Text: "hello"},
			wantOutcome: usecase.OutcomeFallback,
			wantSent:    1,
			wantChat:    42,
			wantText:    table.Fallback().Text,
		},
		{
			name:        "command match is exact",
			update:      model.Update{Kind: model.KindMessage, Chat: 42, Text: "/start now"},
			wantOutcome: usecase.OutcomeFallback,
			wantSent:    1,
			wantChat:    42,
			wantText:    table.Fallback().Text,
		},
		{
			name:        "partners callback sends submenu to the callback chat",
			update:      model.Update{Kind: model.KindCallback, Chat: -100, CallbackID: "cb", CallbackData: "partners"},
			wantOutcome: usecase.OutcomeCallback,
			wantSent:    1,
			wantChat:    -100,
			wantText:    partners.Text,
			wantButtons: []string{"psa", "pan", "ysp", "softserve", "credobank"},
		},
		{
			name:        "leaf callback is terminal",
			update:      model.Update{Kind: model.KindCallback, Chat: 7, CallbackID: "cb", CallbackData: "psa"},
			wantOutcome: usecase.OutcomeCallback,
			wantSent:    1,
			wantChat:    7,
			wantText:    psa.Text,
		},
		{
			name:        "unknown callback sends nothing",
			update:      model.Update{Kind: model.KindCallback, Chat: 7, CallbackID: "cb", CallbackData: "unknown_id"},
			wantOutcome: usecase.OutcomeUnknownCallback,
		},
		{
			name:        "message without text is ignored",
			update:      model.Update{Kind: model.KindMessage, Chat: 7},
			wantOutcome: usecase.OutcomeIgnored,
		},
		{
			name:        "other updates are ignored",
			update:      model.Update{Kind: model.KindOther},
			wantOutcome: usecase.OutcomeIgnored,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bot := &MockTelegramBot{}
			uc := usecase.NewDispatchUseCase(table, bot, false, newTestLogger())

			got, err := uc.Dispatch(ctx, tt.update)
			if err != nil {
				t.Fatalf("Dispatch failed: %v", err)
			}
			if got != tt.wantOutcome {
				t.Errorf("outcome = %q, want %q", got, tt.wantOutcome)
			}

			sent := bot.SentMessages()
			if len(sent) != tt.wantSent {
				t.Fatalf("expected %d sends, got %d: %+v", tt.wantSent, len(sent), sent)
			}
			if tt.wantSent == 0 {
				return
			}
			if sent[0].ChatID != tt.wantChat {
				t.Errorf("chat = %d, want %d", sent[0].ChatID, tt.wantChat)
			}
			if sent[0].Text != tt.wantText {
				t.Errorf("text = %q, want %q", sent[0].Text, tt.wantText)
			}
			if ids := buttonData(sent[0]); strings.Join(ids, ",") != strings.Join(tt.wantButtons, ",") {
				t.Errorf("buttons = %v, want %v", ids, tt.wantButtons)
			}
			if len(bot.Answered) != 0 {
				t.Error("callbacks must not be answered unless enabled")
			}
		})
	}
}

func TestDispatchUseCase_KeepsRowLayout(t *testing.T) {
	bot := &MockTelegramBot{}
	uc := usecase.NewDispatchUseCase(newTable(t), bot, false, newTestLogger())

	if _, err := uc.Dispatch(context.Background(), model.Update{Kind: model.KindCallback, Chat: 1, CallbackData: "partners"}); err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	rows := bot.SentMessages()[0].Buttons
	if len(rows) != 4 || len(rows[3]) != 2 {
		t.Fatalf("expected 4 rows with two buttons in the last, got %+v", rows)
	}
	if rows[3][0].Data != "softserve" || rows[3][1].Data != "credobank" {
		t.Errorf("unexpected last row %+v", rows[3])
	}
}

func TestDispatchUseCase_SendFailureIsSwallowed(t *testing.T) {
	bot := &MockTelegramBot{
		SendMessageFunc: func(ctx context.Context, params adapter.SendMessageParams) error {
			return errors.New("telegram down")
		},
	}
	uc := usecase.NewDispatchUseCase(newTable(t), bot, false, newTestLogger())

	got, err := uc.Dispatch(context.Background(), model.Update{Kind: model.KindMessage, Chat: 42, Text: "/start"})
	if err != nil {
		t.Fatalf("expected send failure to be swallowed, got %v", err)
	}
	if got != usecase.OutcomeCommand {
		t.Errorf("outcome = %q", got)
	}
	if n := len(bot.SentMessages()); n != 1 {
		t.Errorf("expected a single attempt without retry, got %d", n)
	}
}

func TestDispatchUseCase_NoChatTarget(t *testing.T) {
	bot := &MockTelegramBot{}
	uc := usecase.NewDispatchUseCase(newTable(t), bot, false, newTestLogger())

	_, err := uc.Dispatch(context.Background(), model.Update{Kind: model.KindCallback, CallbackID: "cb", CallbackData: "psa"})
	if !errors.Is(err, domain.ErrNoChatTarget) {
		t.Errorf("expected ErrNoChatTarget, got %v", err)
	}
	_, err = uc.Dispatch(context.Background(), model.Update{Kind: model.KindMessage, Text: "/start"})
	if !errors.Is(err, domain.ErrNoChatTarget) {
		t.Errorf("expected ErrNoChatTarget for message, got %v", err)
	}
	if len(bot.SentMessages()) != 0 {
		t.Error("nothing should be sent without a target")
	}
}

func TestDispatchUseCase_AnswerCallbacks(t *testing.T) {
	t.Run("answers after sending", func(t *testing.T) {
		var order []string
		bot := &MockTelegramBot{}
		bot.SendMessageFunc = func(ctx context.Context, p adapter.SendMessageParams) error {
			order = append(order, "send")
			return nil
		}
		bot.AnswerCallbackFunc = func(ctx context.Context, id, text string) error {
			order = append(order, "answer:"+id)
			return nil
		}
		uc := usecase.NewDispatchUseCase(newTable(t), bot, true, newTestLogger())

		if _, err := uc.Dispatch(context.Background(), model.Update{Kind: model.KindCallback, Chat: 1, CallbackID: "cb-9", CallbackData: "history"}); err != nil {
			t.Fatalf("Dispatch failed: %v", err)
		}
		if strings.Join(order, ",") != "send,answer:cb-9" {
			t.Errorf("unexpected call order %v", order)
		}
	})

	t.Run("answer failure does not fail dispatch", func(t *testing.T) {
		bot := &MockTelegramBot{
			AnswerCallbackFunc: func(ctx context.Context, id, text string) error { return errors.New("query is too old") },
		}
		uc := usecase.NewDispatchUseCase(newTable(t), bot, true, newTestLogger())
		got, err := uc.Dispatch(context.Background(), model.Update{Kind: model.KindCallback, Chat: 1, CallbackID: "cb", CallbackData: "psa"})
		if err != nil || got != usecase.OutcomeCallback {
			t.Errorf("Dispatch = %q, %v", got, err)
		}
	})

	t.Run("unknown callback is not answered", func(t *testing.T) {
		bot := &MockTelegramBot{}
		uc := usecase.NewDispatchUseCase(newTable(t), bot, true, newTestLogger())
		if _, err := uc.Dispatch(context.Background(), model.Update{Kind: model.KindCallback, Chat: 1, CallbackID: "cb", CallbackData: "nope"}); err != nil {
			t.Fatalf("Dispatch failed: %v", err)
		}
		if len(bot.Answered) != 0 {
			t.Errorf("expected no answers, got %v", bot.Answered)
		}
	})
}
