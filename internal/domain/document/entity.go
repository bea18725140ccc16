package document

// Collection names as they appear at the root of the document tree.
const (
	CollectionOvertime           = "Overtime"
	CollectionAbsenteeism        = "Absenteeism"
	CollectionPayment            = "Payment"
	CollectionBudget             = "Budget"
	CollectionLocationMap        = "LocationMap"
	CollectionStarterTermination = "startertermination"
)

// Field names inside collection leaves.
const (
	FieldName         = "Name"
	FieldOTHours      = "OT_Hours"
	FieldOTAmount     = "OT_Amount"
	FieldAbsenteeism  = "Absenteeism"
	FieldPayment      = "Payment"
	FieldBudget       = "Budget"
	FieldStarters     = "starters"
	FieldTerminations = "terminations"
)

type OvertimeEntry struct {
	Hours  float64 `json:"OT_Hours"`
	Amount string  `json:"OT_Amount"`
}

// AbsenteeismRecord is one employee under Absenteeism[dept][location].
// Days maps a YYYY-MM-DD key to absent hours.
type AbsenteeismRecord struct {
	Name  string
	Named bool
	Days  map[string]float64
}

// PaymentRecord is one employee under Payment[dept][location].
// Payments maps a YYYY-MM-DD key to a currency string.
type PaymentRecord struct {
	Name     string
	Named    bool
	Payments map[string]string
}

type HireRecord struct {
	EmployeeID string `json:"EmployeeID"`
	Name       string `json:"Name"`
}

// HireLog is date → department → position → records.
type HireLog map[string]map[string]map[string][]HireRecord

type StarterTermination struct {
	Starters     HireLog
	Terminations HireLog
}

type (
	OvertimeCollection    map[string]map[string]map[string]OvertimeEntry
	AbsenteeismCollection map[string]map[string]map[string]AbsenteeismRecord
	PaymentCollection     map[string]map[string]map[string]PaymentRecord
	// BudgetCollection is department → YYYY-MM → currency string.
	BudgetCollection      map[string]map[string]string
	LocationMapCollection map[string][]string
)

// Document is the typed view of the whole HR tree. A nil *Document is a
// valid empty document for every reader.
type Document struct {
	Overtime           OvertimeCollection
	Absenteeism        AbsenteeismCollection
	Payment            PaymentCollection
	Budget             BudgetCollection
	LocationMap        LocationMapCollection
	StarterTermination StarterTermination
}

// Departments returns the department keys of one collection in no
// particular order.
func (d *Document) Departments(collection string) []string {
	if d == nil {
		return nil
	}
	var keys []string
	switch collection {
	case CollectionOvertime:
		for k := range d.Overtime {
			keys = append(keys, k)
		}
	case CollectionAbsenteeism:
		for k := range d.Absenteeism {
			keys = append(keys, k)
		}
	case CollectionPayment:
		for k := range d.Payment {
			keys = append(keys, k)
		}
	case CollectionBudget:
		for k := range d.Budget {
			keys = append(keys, k)
		}
	case CollectionLocationMap:
		for k := range d.LocationMap {
			keys = append(keys, k)
		}
	}
	return keys
}
