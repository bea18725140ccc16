package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/document"
	"github.com/cmlabs-hris/hr-analytics-go/internal/pkg/jsontree"
)

// DocumentStore keeps the tree in process. It is used for local runs and
// tests and applies the same update semantics as the hosted store.
type DocumentStore struct {
	mu          sync.RWMutex
	tree        map[string]any
	subscribers map[chan struct{}]struct{}
}

func NewDocumentStore(seed map[string]any) *DocumentStore {
	return &DocumentStore{
		tree:        jsontree.CloneObject(seed),
		subscribers: make(map[chan struct{}]struct{}),
	}
}

func (s *DocumentStore) Fetch(ctx context.Context) (map[string]any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return jsontree.CloneObject(s.tree), nil
}

func (s *DocumentStore) Patch(ctx context.Context, collection string, updates map[string]any) error {
	if len(jsontree.SplitPath(collection)) == 0 {
		return document.ErrInvalidPath
	}
	s.mu.Lock()
	s.tree = jsontree.Update(s.tree, collection, updates)
	s.mu.Unlock()
	s.notify()
	return nil
}

func (s *DocumentStore) Put(ctx context.Context, path string, value any) error {
	s.mu.Lock()
	s.tree = jsontree.Set(s.tree, path, jsontree.Clone(value))
	s.mu.Unlock()
	s.notify()
	return nil
}

// Subscribe implements document.Subscriber.
func (s *DocumentStore) Subscribe(ctx context.Context, onChange func(tree map[string]any)) error {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.subscribers, ch)
		s.mu.Unlock()
	}()

	tree, _ := s.Fetch(ctx)
	onChange(tree)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ch:
			tree, _ := s.Fetch(ctx)
			onChange(tree)
		}
	}
}

func (s *DocumentStore) notify() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for ch := range s.subscribers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// LoadSeedFile reads a JSON export of the tree. A JSON null yields an
// empty tree.
func LoadSeedFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	var tree map[string]any
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	return tree, nil
}
