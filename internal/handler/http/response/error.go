package response

import (
	"context"
	"errors"
	"net/http"

	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/auth"
	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/document"
	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/employee"
	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/session"
	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/upload"
	"github.com/cmlabs-hris/hr-analytics-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid username or password")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrAdminRequired):
		Forbidden(w, "Admin privilege required")
	case errors.Is(err, auth.ErrAuthDisabled):
		NotFound(w, "Authentication is disabled")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrUnknownLocation):
		ValidationError(w, map[string]string{"location": "location is not mapped to this department"})

	// Upload domain errors
	case errors.Is(err, upload.ErrFileTooLarge):
		RequestEntityTooLarge(w, "Upload file too large")
	case errors.Is(err, upload.ErrUnsupportedFormat):
		UnsupportedMediaType(w, err.Error())
	case errors.Is(err, upload.ErrMalformedFile):
		UnprocessableEntity(w, "MALFORMED_FILE", err.Error())
	case errors.Is(err, upload.ErrEmptyFile):
		UnprocessableEntity(w, "EMPTY_FILE", err.Error())
	case errors.Is(err, upload.ErrUnsupportedType), errors.Is(err, upload.ErrUnknownCollection):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, upload.ErrTemplateNotFound):
		NotFound(w, "Template not found")

	// Store and session errors
	case errors.Is(err, document.ErrInvalidPath):
		BadRequest(w, "Invalid document path", nil)
	case errors.Is(err, document.ErrStoreUnavailable):
		BadGateway(w, "Document store unavailable")
	case errors.Is(err, session.ErrClosed):
		ServiceUnavailable(w, "Session is closed")
	case errors.Is(err, context.DeadlineExceeded):
		GatewayTimeout(w, "Request timed out")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
