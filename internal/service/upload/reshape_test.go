package upload

import (
	"testing"

	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/upload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReshape_LocationMap(t *testing.T) {
	rows := []upload.Row{
		{"Department": "Dealerships", "Location1": "Geelong Sales", "Location2": "Launceston Sales", "Location10": "Hobart"},
		{"Department": "Dealerships", "Location1": "Geelong Sales", "Location3": "Melbourne Sales"},
		{"Department": "Administration", "Location1": "Head Office", "Location2": ""},
		{"Department": "", "Location1": "Nowhere"},
	}

	got := Reshape(upload.TypeLocationMap, "2025-07-02", rows)

	assert.Equal(t, 4, got.Rows)
	assert.Equal(t, 1, got.Skipped)
	assert.Equal(t, map[string]any{
		"Dealerships":    []any{"Geelong Sales", "Launceston Sales", "Hobart", "Melbourne Sales"},
		"Administration": []any{"Head Office"},
	}, got.Fragment)
}

func TestReshape_Overtime(t *testing.T) {
	rows := []upload.Row{
		{"Department": "Dealerships", "Location": "Geelong Sales", "OT_Hours": "7.5", "OT_Amount": "$1111.00"},
		{"Department": "Production", "Location": "Factory Floor", "OT_Hours": "abc", "OT_Amount": ""},
		{"Department": "Production", "Location": "Bad/Key", "OT_Hours": "1"},
	}

	got := Reshape(upload.TypeOvertime, "2025-07-02", rows)

	assert.Equal(t, 1, got.Skipped)
	assert.Equal(t, map[string]any{
		"Dealerships": map[string]any{
			"Geelong Sales": map[string]any{
				"2025-07-02": map[string]any{"OT_Hours": 7.5, "OT_Amount": "$1111.00"},
			},
		},
		"Production": map[string]any{
			"Factory Floor": map[string]any{
				"2025-07-02": map[string]any{"OT_Hours": 0.0, "OT_Amount": "$0.00"},
			},
		},
	}, got.Fragment)
}

func TestReshape_PaymentNameFirstWriteWins(t *testing.T) {
	rows := []upload.Row{
		{"Department": "Sales", "Location": "StoreA", "EmployeeID": "E1", "Name": "Emma", "Payment": "$1200.00"},
		{"Department": "Sales", "Location": "StoreA", "EmployeeID": "E1", "Name": "Emma T", "Payment": "$1250.00", "Date": "2025-07-09"},
		{"Department": "Sales", "Location": "StoreA", "EmployeeID": "E2", "Payment": ""},
	}

	got := reshape(upload.TypePayment, "2025-07-02", rows, true)

	assert.Equal(t, map[string]any{
		"Sales": map[string]any{
			"StoreA": map[string]any{
				"E1": map[string]any{
					"Name":       "Emma",
					"2025-07-02": map[string]any{"Payment": "$1200.00"},
					"2025-07-09": map[string]any{"Payment": "$1250.00"},
				},
				"E2": map[string]any{
					"Name":       "Unknown",
					"2025-07-02": map[string]any{"Payment": "$0.00"},
				},
			},
		},
	}, got.Fragment)
}

func TestReshape_RowDatesIgnoredByDefault(t *testing.T) {
	rows := []upload.Row{
		{"Department": "Sales", "Location": "StoreA", "EmployeeID": "E1", "Absenteeism": "0.25", "Date": "2025-07-09"},
	}

	got := Reshape(upload.TypeAbsenteeism, "2025-07-02", rows)

	emp := got.Fragment.(map[string]any)["Sales"].(map[string]any)["StoreA"].(map[string]any)["E1"].(map[string]any)
	assert.Equal(t, map[string]any{"Absenteeism": 0.25}, emp["2025-07-02"])
	assert.NotContains(t, emp, "2025-07-09")
}

func TestReshape_StarterTermination(t *testing.T) {
	rows := []upload.Row{
		{"Type": "starter", "Department": "Production", "Position": "Team_member", "EmployeeID": "12345", "Name": "John Doe"},
		{"Type": "Terminations", "Department": "Administration", "Position": "Admin_assistant", "EmployeeID": "54321", "Name": "Jane Smith"},
		{"Type": "transfer", "Department": "Production", "Position": "Team_member"},
	}

	got := Reshape(upload.TypeStarterTermination, "2025-07-02", rows)

	assert.Equal(t, 1, got.Skipped)
	frag := got.Fragment.(map[string]any)
	require.Contains(t, frag, "starters")
	require.Contains(t, frag, "terminations")
	assert.Equal(t, []any{map[string]any{"EmployeeID": "12345", "Name": "John Doe"}},
		frag["starters"].(map[string]any)["2025-07-02"].(map[string]any)["Production"].(map[string]any)["Team_member"])
}

func TestReshape_UnknownTypeReturnsRows(t *testing.T) {
	rows := []upload.Row{{"a": "1"}}
	got := Reshape("Budget", "2025-07-02", rows)
	assert.Equal(t, rows, got.Fragment)
}
