package session

import "time"

// Source modes.
const (
	ModePoll      = "poll"
	ModeSubscribe = "subscribe"
)

type StatusResponse struct {
	Loaded      bool       `json:"loaded"`
	LoadedAt    *time.Time `json:"loaded_at,omitempty"`
	Version     uint64     `json:"version"`
	Mode        string     `json:"mode"`
	LastError   string     `json:"last_error,omitempty"`
	LastErrorAt *time.Time `json:"last_error_at,omitempty"`
	Subscribers int        `json:"subscribers"`
}

// UpdatedEvent is the payload of a document.updated push.
type UpdatedEvent struct {
	Version  uint64    `json:"version"`
	LoadedAt time.Time `json:"loaded_at"`
}
