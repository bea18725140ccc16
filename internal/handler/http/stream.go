package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/session"
	"github.com/cmlabs-hris/hr-analytics-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hr-analytics-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hr-analytics-go/internal/pkg/sse"
)

const defaultKeepalive = 30 * time.Second

type StreamHandler interface {
	Stream(w http.ResponseWriter, r *http.Request)
}

type streamHandlerImpl struct {
	jwtService  jwt.Service
	hub         *sse.Hub
	session     session.Session
	authEnabled bool
	keepalive   time.Duration
}

// NewStreamHandler serves document change events. When authEnabled is
// false the token query parameter is not required.
func NewStreamHandler(jwtService jwt.Service, hub *sse.Hub, sess session.Session, authEnabled bool) StreamHandler {
	return &streamHandlerImpl{
		jwtService:  jwtService,
		hub:         hub,
		session:     sess,
		authEnabled: authEnabled,
		keepalive:   defaultKeepalive,
	}
}

// Stream implements StreamHandler.
func (h *streamHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	username := middleware.AnonymousUser
	if h.authEnabled {
		// EventSource cannot send headers, so the token rides in the query.
		tokenStr := r.URL.Query().Get("token")
		if tokenStr == "" {
			http.Error(w, "Missing token", http.StatusUnauthorized)
			return
		}

		var err error
		username, err = h.jwtService.ValidateSSEToken(tokenStr)
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.hub.Subscribe(username)
	defer cleanup()

	status := h.session.Status()
	connected, _ := json.Marshal(map[string]any{
		"status":   "connected",
		"username": username,
		"version":  status.Version,
		"loaded":   status.Loaded,
	})
	fmt.Fprintf(w, "event: connected\ndata: %s\n\n", connected)
	flusher.Flush()

	keepalive := time.NewTicker(h.keepalive)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event.Data)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Event, data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
