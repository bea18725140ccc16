package session

import "errors"

var (
	ErrClosed         = errors.New("session is closed")
	ErrAlreadyStarted = errors.New("session already started")
	ErrInvalidMode    = errors.New("invalid session mode")
)
