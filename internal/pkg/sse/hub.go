package sse

import (
	"sync"
)

// Event names pushed to dashboard clients.
const (
	EventDocumentUpdated = "document.updated"
	EventStoreError      = "store.error"
	EventUploadMerged    = "upload.merged"
)

// Event is one server-sent event.
type Event struct {
	Event string
	Data  any
}

// Hub fans events out to subscribers grouped by key (the caller's
// username). Publishing never blocks; a full subscriber misses events.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[chan Event]struct{}),
	}
}

// Subscribe registers a subscriber under key and returns its channel
// and a cleanup function that must be called once.
func (h *Hub) Subscribe(key string) (chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, 10)

	if h.subscribers[key] == nil {
		h.subscribers[key] = make(map[chan Event]struct{})
	}
	h.subscribers[key][ch] = struct{}{}

	cleanup := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subscribers[key], ch)
		close(ch)
		if len(h.subscribers[key]) == 0 {
			delete(h.subscribers, key)
		}
	}

	return ch, cleanup
}

// Publish sends an event to the subscribers of one key.
func (h *Hub) Publish(key string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	send(h.subscribers[key], event)
}

// Broadcast sends an event to every subscriber.
func (h *Hub) Broadcast(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, subs := range h.subscribers {
		send(subs, event)
	}
}

func send(subs map[chan Event]struct{}, event Event) {
	for ch := range subs {
		select {
		case ch <- event:
		default:
		}
	}
}

// TotalSubscribers returns the number of open subscriptions.
func (h *Hub) TotalSubscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, subs := range h.subscribers {
		total += len(subs)
	}
	return total
}
