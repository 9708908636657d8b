package repository

import "amath-info-bot/internal/domain/model"

// ReplyRepository is the read-only port over the static reply table.
type ReplyRepository interface {
	// Command returns the reply configured for an exact command text such as "/start".
	Command(text string) (model.Reply, bool)
	// Callback returns the reply bound to a button's callback identifier.
	Callback(id string) (model.Reply, bool)
	// Fallback is sent for any unrecognized text message.
	Fallback() model.Reply
}
