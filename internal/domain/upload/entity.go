package upload

import "github.com/cmlabs-hris/hr-analytics-go/internal/domain/document"

// Row is one spreadsheet line keyed by column header.
type Row map[string]string

// Collection types accepted by the uploader.
const (
	TypeLocationMap        = document.CollectionLocationMap
	TypeOvertime           = document.CollectionOvertime
	TypePayment            = document.CollectionPayment
	TypeAbsenteeism        = document.CollectionAbsenteeism
	TypeStarterTermination = document.CollectionStarterTermination
)

// Types lists the collection types in template order.
var Types = []string{TypeLocationMap, TypeOvertime, TypePayment, TypeAbsenteeism, TypeStarterTermination}

// Column headers.
const (
	ColumnDepartment = "Department"
	ColumnLocation   = "Location"
	ColumnEmployeeID = "EmployeeID"
	ColumnName       = "Name"
	ColumnDate       = "Date"
	ColumnOTHours    = "OT_Hours"
	ColumnOTAmount   = "OT_Amount"
	ColumnPayment    = "Payment"
	ColumnAbsence    = "Absenteeism"
	ColumnType       = "Type"
	ColumnPosition   = "Position"
)

const (
	DefaultAmount = "$0.00"
	DefaultName   = "Unknown"
)

// Reshaped is the nested fragment built from rows.
type Reshaped struct {
	// Fragment is map[string]any for known types and []Row otherwise.
	Fragment any
	Rows     int
	Skipped  int
}

type Template struct {
	Type        string `json:"type"`
	Filename    string `json:"filename"`
	Description string `json:"description"`
	Content     string `json:"content,omitempty"`
}
