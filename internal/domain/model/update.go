package model

// Kind classifies an inbound update.
type Kind int

const (
	KindOther Kind = iota
	KindMessage
	KindCallback
)

func (k Kind) String() string {
	switch k {
	case KindMessage:
		return "message"
	case KindCallback:
		return "callback"
	default:
		return "other"
	}
}

// ChatTarget addresses the conversation a reply goes to. Zero means none.
type ChatTarget int64

func (c ChatTarget) IsZero() bool { return c == 0 }

// Update is an inbound event reduced to what dispatch needs.
type Update struct {
	UpdateID int
	Kind     Kind
	Chat     ChatTarget
	Username string

	// KindMessage
	Text string

	// KindCallback
	CallbackID   string
	CallbackData string
}
