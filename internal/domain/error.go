package domain

import "errors"

var (
	// Common domain errors
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNoChatTarget    = errors.New("update has no chat to reply to")
	ErrInvalidMenu     = errors.New("invalid reply table")
)
