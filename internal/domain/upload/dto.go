package upload

import (
	"strings"

	"github.com/cmlabs-hris/hr-analytics-go/internal/pkg/validator"
)

// Accepted file extensions.
var AllowedExtensions = []string{".csv", ".xlsx", ".json"}

type UploadRequest struct {
	Type          string
	EffectiveDate string
	Filename      string
	Data          []byte
	// UseRowDates lets a valid Date column override EffectiveDate per row.
	UseRowDates bool
	// DryRun reshapes and builds updates without writing anything.
	DryRun bool
}

func (r *UploadRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Type) {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type is required",
		})
	} else if !validator.IsInSlice(r.Type, Types) {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type must be one of " + strings.Join(Types, ", "),
		})
	}

	if validator.IsEmpty(r.EffectiveDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date is required",
		})
	} else if _, ok := validator.IsValidDate(r.EffectiveDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if validator.IsEmpty(r.Filename) {
		errs = append(errs, validator.ValidationError{
			Field:   "file",
			Message: "file is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UploadResponse struct {
	Type          string         `json:"type"`
	EffectiveDate string         `json:"effective_date"`
	Rows          int            `json:"rows"`
	SkippedRows   int            `json:"skipped_rows"`
	UpdatedPaths  int            `json:"updated_paths"`
	ArchivePath   string         `json:"archive_path,omitempty"`
	DryRun        bool           `json:"dry_run"`
	Updates       map[string]any `json:"updates,omitempty"`
}
