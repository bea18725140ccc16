package session

import (
	"context"

	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/document"
)

// Session owns the live copy of the document. Readers get immutable
// snapshots; a background loop keeps them current until Close.
type Session interface {
	// Start loads the document once and begins polling or subscribing.
	// A failed first load is returned but the loop still runs.
	Start(ctx context.Context) error

	// Refresh reloads the document now. Concurrent calls are serialized.
	Refresh(ctx context.Context) error

	// Snapshot returns the last good document, or nil before the first
	// successful load.
	Snapshot() *document.Document

	Status() StatusResponse

	// Close stops the background loop and waits for it to exit.
	Close()
}
