package model

import (
	"fmt"
	"strings"

	"amath-info-bot/internal/domain"
)

// MaxCallbackData is Telegram's limit on callback_data, in bytes.
const MaxCallbackData = 64

// Button is one inline keyboard button bound to a callback identifier.
type Button struct {
	Label string
	Data  string
}

// Reply is a precomputed answer: text plus optional rows of inline buttons.
type Reply struct {
	Text    string
	Buttons [][]Button
}

// IsTerminal reports whether the reply offers no further buttons.
func (r Reply) IsTerminal() bool {
	for _, row := range r.Buttons {
		if len(row) > 0 {
			return false
		}
	}
	return true
}

// CallbackIDs returns the identifiers of all buttons in row order.
func (r Reply) CallbackIDs() []string {
	var ids []string
	for _, row := range r.Buttons {
		for _, b := range row {
			ids = append(ids, b.Data)
		}
	}
	return ids
}

// NewReply validates and constructs a reply. Empty rows are dropped.
func NewReply(text string, rows [][]Button) (Reply, error) {
	if strings.TrimSpace(text) == "" {
		return Reply{}, domain.ErrInvalidArgument
	}
	var kept [][]Button
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		for _, b := range row {
			if strings.TrimSpace(b.Label) == "" || strings.TrimSpace(b.Data) == "" {
				return Reply{}, domain.ErrInvalidArgument
			}
			if len(b.Data) > MaxCallbackData {
				return Reply{}, fmt.Errorf("%w: callback data %q exceeds %d bytes", domain.ErrInvalidArgument, b.Data, MaxCallbackData)
			}
		}
		kept = append(kept, row)
	}
	return Reply{Text: text, Buttons: kept}, nil
}
