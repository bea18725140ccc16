package document

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTree = `{
  "Overtime": {
    "Dealerships": {
      "Geelong Sales": {
        "2025-07-02": {"OT_Hours": 7.5, "OT_Amount": "$1111.00"},
        "2025-07-09": {"OT_Hours": "8", "OT_Amount": "$1,234.56"},
        "notes": {"OT_Hours": 99}
      }
    }
  },
  "Absenteeism": {
    "Dealerships": {
      "Geelong Sales": {
        "11169436": {"Name": "Emma Thomson", "2025-07-02": {"Absenteeism": 0.2}}
      }
    }
  },
  "Payment": {
    "Dealerships": {
      "Geelong Sales": {
        "11169436": {"Name": "Emma Thomson", "2025-07-02": {"Payment": "$1200.00"}},
        "stray": {"2025-07-02": {"Payment": "$5.00"}},
        "broken": "not-an-object"
      }
    }
  },
  "Budget": {
    "Dealerships": {"2025-07": {"Budget": "$5,000.00"}, "bogus": {"Budget": "$1"}}
  },
  "LocationMap": {
    "Dealerships": ["Geelong Sales", null, "Melbourne Sales"],
    "Production": {"0": "Factory Floor", "1": "Warehouse"}
  },
  "startertermination": {
    "starters": {
      "2025-07-02": {"Production": {"Production_team_member": [{"EmployeeID": 12345, "Name": "John Doe"}]}}
    },
    "terminations": {
      "2025-07-09": {"Administration": {"Admin_assistant": {"-Nab": {"EmployeeID": "54321", "Name": "Jane Smith"}}}}
    }
  }
}`

func decodeSample(t *testing.T) *Document {
	t.Helper()
	var tree map[string]any
	require.NoError(t, json.Unmarshal([]byte(sampleTree), &tree))
	return Decode(tree)
}

func TestDecode_Nil(t *testing.T) {
	assert.Nil(t, Decode(nil))
}

func TestDecode_Overtime(t *testing.T) {
	doc := decodeSample(t)

	dates := doc.Overtime["Dealerships"]["Geelong Sales"]
	require.Len(t, dates, 2, "non-date keys are dropped")
	assert.Equal(t, OvertimeEntry{Hours: 7.5, Amount: "$1111.00"}, dates["2025-07-02"])
	assert.Equal(t, 8.0, dates["2025-07-09"].Hours, "numeric strings are accepted")
}

func TestDecode_EmployeeRecords(t *testing.T) {
	doc := decodeSample(t)

	emps := doc.Payment["Dealerships"]["Geelong Sales"]
	require.Len(t, emps, 2, "scalar employee nodes are dropped")

	emma := emps["11169436"]
	assert.True(t, emma.Named)
	assert.Equal(t, "Emma Thomson", emma.Name)
	assert.Equal(t, map[string]string{"2025-07-02": "$1200.00"}, emma.Payments)

	assert.False(t, emps["stray"].Named)

	abs := doc.Absenteeism["Dealerships"]["Geelong Sales"]["11169436"]
	assert.Equal(t, map[string]float64{"2025-07-02": 0.2}, abs.Days)
}

func TestDecode_BudgetAndLocationMap(t *testing.T) {
	doc := decodeSample(t)

	assert.Equal(t, map[string]string{"2025-07": "$5,000.00"}, doc.Budget["Dealerships"])
	assert.Equal(t, []string{"Geelong Sales", "Melbourne Sales"}, doc.LocationMap["Dealerships"])
	assert.Equal(t, []string{"Factory Floor", "Warehouse"}, doc.LocationMap["Production"])
}

func TestDecode_StarterTermination(t *testing.T) {
	doc := decodeSample(t)

	starters := doc.StarterTermination.Starters["2025-07-02"]["Production"]["Production_team_member"]
	assert.Equal(t, []HireRecord{{EmployeeID: "12345", Name: "John Doe"}}, starters)

	terms := doc.StarterTermination.Terminations["2025-07-09"]["Administration"]["Admin_assistant"]
	assert.Equal(t, []HireRecord{{EmployeeID: "54321", Name: "Jane Smith"}}, terms)
}

func TestDecode_WrongShapesAreIgnored(t *testing.T) {
	doc := Decode(map[string]any{
		"Overtime":           "oops",
		"Payment":            []any{nil, 3.0},
		"startertermination": 42.0,
	})

	require.NotNil(t, doc)
	assert.Empty(t, doc.Overtime)
	assert.Empty(t, doc.Payment["1"])
	assert.Empty(t, doc.StarterTermination.Starters)
}

func TestDocument_Departments(t *testing.T) {
	doc := decodeSample(t)
	assert.ElementsMatch(t, []string{"Dealerships", "Production"}, doc.Departments(CollectionLocationMap))

	var empty *Document
	assert.Nil(t, empty.Departments(CollectionPayment))
}
