package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"amath-info-bot/internal/domain/model"
)

// FromAPIUpdate reduces a decoded Bot API update to the fields dispatch uses.
// A text message wins over a callback when both are present.
func FromAPIUpdate(u tgbotapi.Update) model.Update {
	out := model.Update{UpdateID: u.UpdateID}

	switch {
	case u.Message != nil && u.Message.Text != "":
		out.Kind = model.KindMessage
		out.Text = u.Message.Text
		if u.Message.Chat != nil {
			out.Chat = model.ChatTarget(u.Message.Chat.ID)
		}
		if u.Message.From != nil {
			out.Username = u.Message.From.UserName
		}
	case u.CallbackQuery != nil:
		cq := u.CallbackQuery
		out.Kind = model.KindCallback
		out.CallbackID = cq.ID
		out.CallbackData = cq.Data
		if cq.Message != nil && cq.Message.Chat != nil {
			out.Chat = model.ChatTarget(cq.Message.Chat.ID)
		}
		if cq.From != nil {
			out.Username = cq.From.UserName
			if out.Chat.IsZero() {
				out.Chat = model.ChatTarget(cq.From.ID)
			}
		}
	case u.Message != nil:
		// text-less message (photo, sticker, service message)
		out.Kind = model.KindMessage
		if u.Message.Chat != nil {
			out.Chat = model.ChatTarget(u.Message.Chat.ID)
		}
		if u.Message.From != nil {
			out.Username = u.Message.From.UserName
		}
	default:
		out.Kind = model.KindOther
	}
	return out
}
