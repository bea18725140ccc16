package employee

import "github.com/cmlabs-hris/hr-analytics-go/internal/pkg/validator"

type ListEmployeesRequest struct {
	// Search matches id, name, department or location, case-insensitively.
	Search string
}

type UpdateAssignmentRequest struct {
	ID         string `json:"-"`
	Department string `json:"department"`
	Location   string `json:"location"`
}

func (r *UpdateAssignmentRequest) Validate() error {
	var errs validator.ValidationErrors

	fields := []struct {
		name  string
		value string
	}{
		{"id", r.ID},
		{"department", r.Department},
		{"location", r.Location},
	}
	for _, f := range fields {
		if validator.IsEmpty(f.value) {
			errs = append(errs, validator.ValidationError{
				Field:   f.name,
				Message: f.name + " is required",
			})
		} else if !validator.IsValidKey(f.value) {
			errs = append(errs, validator.ValidationError{
				Field:   f.name,
				Message: f.name + " must not contain . $ # [ ] or /",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateAssignmentResponse struct {
	Employee Employee `json:"employee"`
	// Moved counts the records relocated across collections.
	Moved int `json:"moved"`
}
