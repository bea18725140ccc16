package http

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/upload"
	"github.com/cmlabs-hris/hr-analytics-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hr-analytics-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hr-analytics-go/internal/pkg/sse"
	"github.com/cmlabs-hris/hr-analytics-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

// Room for the non-file multipart fields on top of the file limit.
const multipartOverhead = 1 << 20

type UploadHandler interface {
	Upload(w http.ResponseWriter, r *http.Request)
	ListTemplates(w http.ResponseWriter, r *http.Request)
	DownloadTemplate(w http.ResponseWriter, r *http.Request)
}

type uploadHandlerImpl struct {
	uploadService upload.UploadService
	hub           *sse.Hub
	maxFileSize   int64
}

// NewUploadHandler notifies the uploader's open streams on hub after a
// merge. hub may be nil.
func NewUploadHandler(uploadService upload.UploadService, hub *sse.Hub, maxFileSize int64) UploadHandler {
	return &uploadHandlerImpl{
		uploadService: uploadService,
		hub:           hub,
		maxFileSize:   maxFileSize,
	}
}

// Upload implements UploadHandler.
func (h *uploadHandlerImpl) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize+multipartOverhead)

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.HandleError(w, upload.ErrFileTooLarge)
			return
		}
		slog.Error("Upload parse form error", "error", err)
		response.BadRequest(w, "Invalid multipart form", nil)
		return
	}

	req := upload.UploadRequest{
		Type:          r.FormValue("type"),
		EffectiveDate: r.FormValue("date"),
	}

	var flagErrs validator.ValidationErrors
	for name, dst := range map[string]*bool{"dry_run": &req.DryRun, "use_row_dates": &req.UseRowDates} {
		raw := r.FormValue(name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			flagErrs = append(flagErrs, validator.ValidationError{Field: name, Message: name + " must be true or false"})
			continue
		}
		*dst = v
	}
	if len(flagErrs) > 0 {
		response.HandleError(w, flagErrs)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		slog.Error("Upload form file error", "error", err)
		response.BadRequest(w, "Invalid file", nil)
		return
	}
	if file != nil {
		defer file.Close()

		if header.Size > h.maxFileSize {
			response.HandleError(w, upload.ErrFileTooLarge)
			return
		}
		data, err := io.ReadAll(io.LimitReader(file, h.maxFileSize+1))
		if err != nil {
			slog.Error("Upload read error", "error", err)
			response.BadRequest(w, "Invalid file", nil)
			return
		}
		if int64(len(data)) > h.maxFileSize {
			response.HandleError(w, upload.ErrFileTooLarge)
			return
		}
		req.Filename = header.Filename
		req.Data = data
	}

	resp, err := h.uploadService.Upload(r.Context(), req)
	if err != nil {
		slog.Error("Upload service error", "error", err, "type", req.Type, "filename", req.Filename)
		response.HandleError(w, err)
		return
	}

	if resp.DryRun {
		response.SuccessWithMessage(w, "Dry run completed", resp)
		return
	}
	if h.hub != nil {
		h.hub.Publish(middleware.Username(r.Context()), sse.Event{Event: sse.EventUploadMerged, Data: resp})
	}
	response.Created(w, "Upload merged", resp)
}

// ListTemplates implements UploadHandler.
func (h *uploadHandlerImpl) ListTemplates(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.uploadService.Templates())
}

// DownloadTemplate implements UploadHandler.
func (h *uploadHandlerImpl) DownloadTemplate(w http.ResponseWriter, r *http.Request) {
	tmpl, err := h.uploadService.Template(chi.URLParam(r, "type"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", tmpl.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, tmpl.Content)
}
