package upload

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/document"
	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/upload"
	"github.com/cmlabs-hris/hr-analytics-go/internal/pkg/storage"
	"github.com/google/uuid"
)

// Refresher reloads whatever caches the document after a write.
type Refresher interface {
	Refresh(ctx context.Context) error
}

type uploadServiceImpl struct {
	store     document.Store
	archive   storage.FileStorage
	refresher Refresher
}

// NewUploadService wires the uploader. archive and refresher may be nil.
//
// Writes are plain multi-path patches without compare-and-swap. Two
// uploads touching the same slot race and the last one wins.
func NewUploadService(store document.Store, archive storage.FileStorage, refresher Refresher) upload.UploadService {
	return &uploadServiceImpl{
		store:     store,
		archive:   archive,
		refresher: refresher,
	}
}

func (s *uploadServiceImpl) Upload(ctx context.Context, req upload.UploadRequest) (upload.UploadResponse, error) {
	if err := req.Validate(); err != nil {
		return upload.UploadResponse{}, err
	}

	parsed, err := ParseFile(req.Filename, req.Data)
	if err != nil {
		return upload.UploadResponse{}, err
	}

	resp := upload.UploadResponse{
		Type:          req.Type,
		EffectiveDate: req.EffectiveDate,
		DryRun:        req.DryRun,
	}

	fragment := parsed.Fragment
	if fragment == nil {
		shaped := reshape(req.Type, req.EffectiveDate, parsed.Rows, req.UseRowDates)
		frag, ok := shaped.Fragment.(map[string]any)
		if !ok {
			return upload.UploadResponse{}, upload.ErrUnsupportedType
		}
		fragment = frag
		resp.Rows = shaped.Rows
		resp.SkippedRows = shaped.Skipped
	}

	tree, err := s.store.Fetch(ctx)
	if err != nil {
		return upload.UploadResponse{}, fmt.Errorf("failed to load current document: %w", err)
	}

	updates, dropped, err := BuildUpdates(req.Type, fragment, document.Decode(tree))
	if err != nil {
		return upload.UploadResponse{}, err
	}
	if parsed.Fragment != nil {
		resp.Rows = len(updates) + dropped
		resp.SkippedRows = dropped
	}
	if len(updates) == 0 && resp.SkippedRows > 0 {
		return upload.UploadResponse{}, fmt.Errorf("%w: all %d rows were skipped", upload.ErrEmptyFile, resp.SkippedRows)
	}
	resp.UpdatedPaths = len(updates)

	if req.DryRun {
		resp.Updates = updates
		return resp, nil
	}

	if s.archive != nil {
		key := path.Join("uploads", req.Type, req.EffectiveDate, uuid.New().String()+strings.ToLower(filepath.Ext(req.Filename)))
		stored, err := s.archive.Upload(ctx, bytes.NewReader(req.Data), key)
		if err != nil {
			slog.Warn("failed to archive upload", "type", req.Type, "filename", req.Filename, "error", err)
		} else {
			resp.ArchivePath = stored
		}
	}

	if len(updates) > 0 {
		if err := s.store.Patch(ctx, req.Type, updates); err != nil {
			if resp.ArchivePath != "" {
				_ = s.archive.Delete(ctx, resp.ArchivePath)
				resp.ArchivePath = ""
			}
			return upload.UploadResponse{}, fmt.Errorf("failed to write %s: %w", req.Type, err)
		}
	}

	if s.refresher != nil {
		if err := s.refresher.Refresh(ctx); err != nil {
			slog.Warn("refresh after upload failed", "type", req.Type, "error", err)
		}
	}

	slog.Info("upload merged",
		"type", req.Type,
		"date", req.EffectiveDate,
		"rows", resp.Rows,
		"skipped", resp.SkippedRows,
		"paths", resp.UpdatedPaths,
	)
	return resp, nil
}
