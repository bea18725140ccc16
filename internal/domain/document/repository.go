package document

import "context"

// Store is the persistence boundary for the HR tree.
type Store interface {
	// Fetch reads the whole tree. An empty store yields a nil map.
	Fetch(ctx context.Context) (map[string]any, error)

	// Patch applies a multi-path update at the root of collection. Keys
	// are slash-separated paths relative to the collection and a nil value
	// deletes the node. Unnamed siblings are preserved.
	Patch(ctx context.Context, collection string, updates map[string]any) error

	// Put overwrites the node at path.
	Put(ctx context.Context, path string, value any) error
}

// Subscriber is implemented by stores that can push changes. Subscribe
// blocks, calling onChange with the full tree after every remote change,
// until ctx is cancelled or the stream fails.
type Subscriber interface {
	Subscribe(ctx context.Context, onChange func(tree map[string]any)) error
}
