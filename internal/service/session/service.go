package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/document"
	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/session"
	"github.com/cmlabs-hris/hr-analytics-go/internal/pkg/cron"
	"github.com/cmlabs-hris/hr-analytics-go/internal/pkg/sse"
)

const refreshJobName = "refresh_document"

type Option func(*SessionImpl)

// WithHub pushes change and error events to dashboard clients.
func WithHub(hub *sse.Hub) Option {
	return func(s *SessionImpl) { s.hub = hub }
}

// WithPollInterval sets how often the store is re-read in poll mode and
// after a push subscription gives up.
func WithPollInterval(d time.Duration) Option {
	return func(s *SessionImpl) { s.interval = d }
}

// WithMode selects poll or subscribe. Subscribe needs a store that
// implements document.Subscriber.
func WithMode(mode string) Option {
	return func(s *SessionImpl) { s.mode = mode }
}

func WithClock(now func() time.Time) Option {
	return func(s *SessionImpl) { s.now = now }
}

type snapshot struct {
	doc      *document.Document
	raw      []byte
	loadedAt time.Time
	version  uint64
}

type SessionImpl struct {
	store    document.Store
	hub      *sse.Hub
	interval time.Duration
	mode     string
	now      func() time.Time

	mu          sync.RWMutex
	current     snapshot
	lastErr     error
	lastErrorAt time.Time

	refreshMu sync.Mutex

	lifeMu    sync.Mutex
	started   bool
	closed    bool
	cancel    context.CancelFunc
	scheduler *cron.Scheduler
	wg        sync.WaitGroup
}

func NewSession(store document.Store, opts ...Option) *SessionImpl {
	s := &SessionImpl{
		store:    store,
		interval: 30 * time.Second,
		mode:     session.ModePoll,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *SessionImpl) Start(ctx context.Context) error {
	s.lifeMu.Lock()
	defer s.lifeMu.Unlock()

	switch {
	case s.closed:
		return session.ErrClosed
	case s.started:
		return session.ErrAlreadyStarted
	}

	var sub document.Subscriber
	switch s.mode {
	case session.ModePoll:
	case session.ModeSubscribe:
		var ok bool
		if sub, ok = s.store.(document.Subscriber); !ok {
			return fmt.Errorf("%w: store does not support subscriptions", session.ErrInvalidMode)
		}
	default:
		return fmt.Errorf("%w: %q", session.ErrInvalidMode, s.mode)
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.started = true

	// The subscription delivers the current tree on connect, so only
	// polling needs an explicit first load.
	var err error
	if sub == nil {
		err = s.Refresh(ctx)
		s.startPolling(ctx, true)
	} else {
		s.wg.Add(1)
		go s.subscribe(ctx, sub)
	}

	slog.Info("Document session started", "mode", s.mode, "interval", s.interval)
	return err
}

// startPolling must be called with lifeMu held.
func (s *SessionImpl) startPolling(ctx context.Context, skipInitial bool) {
	s.scheduler = cron.NewScheduler()
	s.scheduler.AddJob(cron.Job{
		Name:        refreshJobName,
		Interval:    s.interval,
		SkipInitial: skipInitial,
		Fn:          s.Refresh,
	})
	s.scheduler.Start(ctx)
}

func (s *SessionImpl) subscribe(ctx context.Context, sub document.Subscriber) {
	defer s.wg.Done()

	err := sub.Subscribe(ctx, func(tree map[string]any) {
		s.refreshMu.Lock()
		defer s.refreshMu.Unlock()
		s.publish(tree)
	})
	if ctx.Err() != nil {
		return
	}

	s.recordError(fmt.Errorf("subscription ended: %w", err))
	slog.Warn("Document subscription ended, falling back to polling", "error", err, "interval", s.interval)

	s.lifeMu.Lock()
	defer s.lifeMu.Unlock()
	if !s.closed {
		s.startPolling(ctx, false)
	}
}

func (s *SessionImpl) Refresh(ctx context.Context) error {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	tree, err := s.store.Fetch(ctx)
	if err != nil {
		s.recordError(err)
		return err
	}
	s.publish(tree)
	return nil
}

// publish swaps in a new snapshot when the tree differs from the
// current one. Callers hold refreshMu.
func (s *SessionImpl) publish(tree map[string]any) {
	raw, err := json.Marshal(tree)
	if err != nil {
		s.recordError(fmt.Errorf("failed to encode document: %w", err))
		return
	}

	now := s.now()
	s.mu.Lock()
	s.lastErr = nil
	s.lastErrorAt = time.Time{}
	if s.current.version > 0 && bytes.Equal(raw, s.current.raw) {
		s.current.loadedAt = now
		s.mu.Unlock()
		return
	}
	s.current = snapshot{
		doc:      document.Decode(tree),
		raw:      raw,
		loadedAt: now,
		version:  s.current.version + 1,
	}
	event := session.UpdatedEvent{Version: s.current.version, LoadedAt: now}
	s.mu.Unlock()

	slog.Debug("Document snapshot updated", "version", event.Version, "bytes", len(raw))
	if s.hub != nil {
		s.hub.Broadcast(sse.Event{Event: sse.EventDocumentUpdated, Data: event})
	}
}

func (s *SessionImpl) recordError(err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	s.mu.Lock()
	s.lastErr = err
	s.lastErrorAt = s.now()
	s.mu.Unlock()

	if s.hub != nil {
		s.hub.Broadcast(sse.Event{Event: sse.EventStoreError, Data: map[string]string{"error": err.Error()}})
	}
}

func (s *SessionImpl) Snapshot() *document.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.doc
}

func (s *SessionImpl) Status() session.StatusResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status := session.StatusResponse{
		Loaded:  s.current.version > 0,
		Version: s.current.version,
		Mode:    s.mode,
	}
	if status.Loaded {
		at := s.current.loadedAt
		status.LoadedAt = &at
	}
	if s.lastErr != nil {
		at := s.lastErrorAt
		status.LastError = s.lastErr.Error()
		status.LastErrorAt = &at
	}
	if s.hub != nil {
		status.Subscribers = s.hub.TotalSubscribers()
	}
	return status
}

func (s *SessionImpl) Close() {
	s.lifeMu.Lock()
	if s.closed {
		s.lifeMu.Unlock()
		return
	}
	s.closed = true
	if s.cancel != nil {
		s.cancel()
	}
	s.lifeMu.Unlock()

	// subscribe may take lifeMu on its way out, so wait unlocked.
	s.wg.Wait()

	s.lifeMu.Lock()
	scheduler := s.scheduler
	s.lifeMu.Unlock()
	if scheduler != nil {
		scheduler.Stop()
	}
	slog.Info("Document session closed")
}
