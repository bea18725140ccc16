package memory

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/document"
	"github.com/cmlabs-hris/hr-analytics-go/internal/pkg/jsontree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentStore_FetchEmpty(t *testing.T) {
	store := NewDocumentStore(nil)
	tree, err := store.Fetch(context.Background())
	require.NoError(t, err)
	assert.Nil(t, tree)
}

func TestDocumentStore_PatchMergesAndDeletes(t *testing.T) {
	ctx := context.Background()
	store := NewDocumentStore(map[string]any{
		"Overtime": map[string]any{
			"Dealerships": map[string]any{
				"Geelong Sales": map[string]any{
					"2025-07-02": map[string]any{"OT_Hours": 7.5},
				},
			},
		},
	})

	require.NoError(t, store.Patch(ctx, "Overtime", map[string]any{
		"Dealerships/Geelong Sales/2025-07-09": map[string]any{"OT_Hours": 8.0},
	}))
	tree, err := store.Fetch(ctx)
	require.NoError(t, err)
	_, ok := jsontree.Get(tree, "Overtime/Dealerships/Geelong Sales/2025-07-02")
	assert.True(t, ok, "sibling date preserved")

	require.NoError(t, store.Patch(ctx, "Overtime", map[string]any{
		"Dealerships/Geelong Sales/2025-07-02": nil,
	}))
	tree, _ = store.Fetch(ctx)
	_, ok = jsontree.Get(tree, "Overtime/Dealerships/Geelong Sales/2025-07-02")
	assert.False(t, ok)
}

func TestDocumentStore_PatchRequiresCollection(t *testing.T) {
	store := NewDocumentStore(nil)
	err := store.Patch(context.Background(), "", map[string]any{"a": 1.0})
	assert.ErrorIs(t, err, document.ErrInvalidPath)
}

func TestDocumentStore_FetchReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewDocumentStore(map[string]any{"Budget": map[string]any{"X": "y"}})

	tree, _ := store.Fetch(ctx)
	tree["Budget"].(map[string]any)["X"] = "mutated"

	again, _ := store.Fetch(ctx)
	v, _ := jsontree.Get(again, "Budget/X")
	assert.Equal(t, "y", v)
}

func TestDocumentStore_Subscribe(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	store := NewDocumentStore(nil)

	got := make(chan map[string]any, 4)
	done := make(chan error, 1)
	go func() {
		done <- store.Subscribe(ctx, func(tree map[string]any) { got <- tree })
	}()

	select {
	case tree := <-got:
		assert.Nil(t, tree)
	case <-time.After(time.Second):
		t.Fatal("no initial snapshot")
	}

	require.NoError(t, store.Put(ctx, "Budget/Production/2025-07", map[string]any{"Budget": "$10.00"}))
	select {
	case tree := <-got:
		v, ok := jsontree.Get(tree, "Budget/Production/2025-07/Budget")
		require.True(t, ok)
		assert.Equal(t, "$10.00", v)
	case <-time.After(time.Second):
		t.Fatal("no change notification")
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
