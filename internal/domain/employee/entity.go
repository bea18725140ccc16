package employee

// Employee is one employee record found under
// Absenteeism or Payment [department][location][id].
type Employee struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Location   string `json:"location"`
	// Collections lists where the record was found.
	Collections []string `json:"collections"`
}
