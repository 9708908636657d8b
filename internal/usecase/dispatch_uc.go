package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"amath-info-bot/internal/domain"
	"amath-info-bot/internal/domain/model"
	"amath-info-bot/internal/domain/ports/adapter"
	"amath-info-bot/internal/domain/ports/repository"
	"amath-info-bot/internal/infra/logging"
	"amath-info-bot/internal/infra/metrics"
)

// Outcome names the branch a dispatched update took.
type Outcome string

const (
	OutcomeCommand         Outcome = "command"
	OutcomeFallback        Outcome = "fallback"
	OutcomeCallback        Outcome = "callback"
	OutcomeUnknownCallback Outcome = "unknown_callback"
	OutcomeIgnored         Outcome = "ignored"
)

// Compile-time check
var _ DispatchUseCase = (*dispatchUC)(nil)

// DispatchUseCase decides the reply for one update and sends it.
type DispatchUseCase interface {
	Dispatch(ctx context.Context, u model.Update) (Outcome, error)
}

type dispatchUC struct {
	replies         repository.ReplyRepository
	bot             adapter.TelegramBotAdapter
	answerCallbacks bool
	log             *zerolog.Logger
}

func NewDispatchUseCase(replies repository.ReplyRepository, bot adapter.TelegramBotAdapter, answerCallbacks bool, logger *zerolog.Logger) *dispatchUC {
	return &dispatchUC{
		replies:         replies,
		bot:             bot,
		answerCallbacks: answerCallbacks,
		log:             logger,
	}
}

// Dispatch sends at most one message per update. A failed send is logged
// and swallowed; only a missing reply target is returned as an error.
func (d *dispatchUC) Dispatch(ctx context.Context, u model.Update) (Outcome, error) {
	defer logging.TraceDuration(d.log, "DispatchUC.Dispatch")()

	if !u.Chat.IsZero() {
		ctx = logging.WithChatID(ctx, int64(u.Chat))
	}

	switch u.Kind {
	case model.KindMessage:
		if u.Text == "" {
			return d.done(ctx, OutcomeIgnored), nil
		}
		if u.Chat.IsZero() {
			return d.fail(ctx, "message")
		}
		if r, ok := d.replies.Command(u.Text); ok {
			d.send(ctx, u.Chat, r)
			return d.done(ctx, OutcomeCommand), nil
		}
		d.send(ctx, u.Chat, d.replies.Fallback())
		return d.done(ctx, OutcomeFallback), nil

	case model.KindCallback:
		r, ok := d.replies.Callback(u.CallbackData)
		if !ok {
			logging.With(ctx, d.log).Warn().Str("data", u.CallbackData).Msg("unknown callback data")
			return d.done(ctx, OutcomeUnknownCallback), nil
		}
		if u.Chat.IsZero() {
			return d.fail(ctx, "callback")
		}
		d.send(ctx, u.Chat, r)
		if d.answerCallbacks && u.CallbackID != "" {
			d.answer(ctx, u.CallbackID)
		}
		return d.done(ctx, OutcomeCallback), nil

	default:
		return d.done(ctx, OutcomeIgnored), nil
	}
}

func (d *dispatchUC) send(ctx context.Context, chat model.ChatTarget, r model.Reply) {
	err := d.bot.SendMessage(ctx, toParams(chat, r))
	metrics.IncReplySent(err == nil)
	if err != nil {
		logging.With(ctx, d.log).Error().Err(err).Msg("failed to send reply")
	}
}

func (d *dispatchUC) answer(ctx context.Context, callbackID string) {
	err := d.bot.AnswerCallback(ctx, callbackID, "")
	metrics.IncCallbackAnswer(err == nil)
	if err != nil {
		logging.With(ctx, d.log).Warn().Err(err).Str("callback_id", callbackID).Msg("failed to answer callback")
	}
}

func (d *dispatchUC) done(ctx context.Context, o Outcome) Outcome {
	metrics.IncOutcome(string(o))
	logging.With(ctx, d.log).Debug().Str("outcome", string(o)).Msg("dispatched")
	return o
}

func (d *dispatchUC) fail(ctx context.Context, kind string) (Outcome, error) {
	metrics.IncOutcome("error")
	return "", fmt.Errorf("%s update: %w", kind, domain.ErrNoChatTarget)
}

func toParams(chat model.ChatTarget, r model.Reply) adapter.SendMessageParams {
	p := adapter.SendMessageParams{ChatID: int64(chat), Text: r.Text}
	if r.IsTerminal() {
		return p
	}
	p.Buttons = make([][]adapter.InlineButton, 0, len(r.Buttons))
	for _, row := range r.Buttons {
		out := make([]adapter.InlineButton, 0, len(row))
		for _, b := range row {
			out = append(out, adapter.InlineButton{Text: b.Label, Data: b.Data})
		}
		p.Buttons = append(p.Buttons, out)
	}
	return p
}
