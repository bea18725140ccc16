package employee

import "errors"

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrUnknownLocation  = errors.New("location is not mapped to department")
)
