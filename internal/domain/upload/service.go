package upload

import "context"

type UploadService interface {
	// Upload parses, reshapes and merges a file into its collection.
	// Malformed files are rejected before anything is written.
	Upload(ctx context.Context, req UploadRequest) (UploadResponse, error)

	// Templates lists the downloadable CSV templates.
	Templates() []Template

	// Template returns one template including its CSV content.
	Template(collectionType string) (Template, error)
}
