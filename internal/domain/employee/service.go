package employee

import "context"

type EmployeeService interface {
	// ListEmployees returns named employees from the current snapshot,
	// one entry per department, location and id, sorted.
	ListEmployees(ctx context.Context, req ListEmployeesRequest) ([]Employee, error)

	// UpdateAssignment moves every record of an employee to a new
	// department and location. Records already at the target are merged.
	UpdateAssignment(ctx context.Context, req UpdateAssignmentRequest) (UpdateAssignmentResponse, error)
}
