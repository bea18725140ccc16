package upload

import (
	"testing"

	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/document"
	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/upload"
	"github.com/cmlabs-hris/hr-analytics-go/internal/pkg/jsontree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildUpdates_SlotPaths(t *testing.T) {
	frag := map[string]any{
		"Sales": map[string]any{
			"StoreA": map[string]any{
				"2025-07-02": map[string]any{"OT_Hours": 7.5, "OT_Amount": "$100.00"},
			},
		},
	}

	updates, dropped, err := BuildUpdates(document.CollectionOvertime, frag, nil)

	require.NoError(t, err)
	assert.Zero(t, dropped)
	assert.Equal(t, map[string]any{
		"Sales/StoreA/2025-07-02": map[string]any{"OT_Hours": 7.5, "OT_Amount": "$100.00"},
	}, updates)
}

func TestBuildUpdates_KeepsStoredName(t *testing.T) {
	existing := &document.Document{
		Payment: document.PaymentCollection{
			"Sales": {"StoreA": {"E1": {Name: "Emma Thomson", Named: true}}},
		},
	}
	frag := map[string]any{
		"Sales": map[string]any{
			"StoreA": map[string]any{
				"E1": map[string]any{"Name": "Unknown", "2025-07-09": map[string]any{"Payment": "$1.00"}},
				"E2": map[string]any{"Name": "John", "2025-07-09": map[string]any{"Payment": "$2.00"}},
			},
		},
	}

	updates, _, err := BuildUpdates(document.CollectionPayment, frag, existing)

	require.NoError(t, err)
	assert.NotContains(t, updates, "Sales/StoreA/E1/Name")
	assert.Contains(t, updates, "Sales/StoreA/E1/2025-07-09")
	assert.Equal(t, "John", updates["Sales/StoreA/E2/Name"])
}

func TestBuildUpdates_DropsShallowAndReservedPaths(t *testing.T) {
	frag := map[string]any{
		"Sales": map[string]any{
			"StoreA":  "not an object",
			"Store#B": map[string]any{"2025-07-02": map[string]any{"OT_Hours": 1.0}},
		},
	}

	updates, dropped, err := BuildUpdates(document.CollectionOvertime, frag, nil)

	require.NoError(t, err)
	assert.Empty(t, updates)
	assert.Equal(t, 2, dropped)
}

func TestBuildUpdates_UnknownCollection(t *testing.T) {
	_, _, err := BuildUpdates("Budget", map[string]any{}, nil)
	assert.ErrorIs(t, err, upload.ErrUnknownCollection)
}

func TestBuildUpdates_LocationMapUnion(t *testing.T) {
	existing := &document.Document{
		LocationMap: document.LocationMapCollection{"Sales": {"A", "B"}},
	}
	frag := map[string]any{"Sales": []any{"A", "C"}}

	updates, _, err := BuildUpdates(document.CollectionLocationMap, frag, existing)

	require.NoError(t, err)
	assert.Equal(t, map[string]any{"Sales": []any{"A", "B", "C"}}, updates)
}

func TestBuildUpdates_StarterMergeByEmployeeID(t *testing.T) {
	existing := &document.Document{
		StarterTermination: document.StarterTermination{
			Starters: document.HireLog{
				"2025-07-02": {"Production": {"Team_member": {{EmployeeID: "1", Name: "Old"}, {EmployeeID: "2", Name: "Bea"}}}},
			},
		},
	}
	frag := map[string]any{
		"starters": map[string]any{
			"2025-07-02": map[string]any{
				"Production": map[string]any{
					"Team_member": []any{
						map[string]any{"EmployeeID": "1", "Name": "Ann"},
						map[string]any{"EmployeeID": "3", "Name": "Cy"},
					},
				},
			},
		},
		"transfers": map[string]any{},
	}

	updates, _, err := BuildUpdates(document.CollectionStarterTermination, frag, existing)

	require.NoError(t, err)
	assert.Equal(t, []any{
		map[string]any{"EmployeeID": "1", "Name": "Ann"},
		map[string]any{"EmployeeID": "2", "Name": "Bea"},
		map[string]any{"EmployeeID": "3", "Name": "Cy"},
	}, updates["starters/2025-07-02/Production/Team_member"])
}

func TestBuildUpdates_Idempotent(t *testing.T) {
	rows := []upload.Row{
		{"Department": "Sales", "Location": "StoreA", "EmployeeID": "E1", "Name": "Emma", "Payment": "$1,200.00"},
		{"Department": "Sales", "Location": "StoreB", "EmployeeID": "E2", "Name": "John", "Payment": "$900.00"},
	}
	frag := Reshape(upload.TypePayment, "2025-07-02", rows).Fragment.(map[string]any)

	apply := func(tree map[string]any) map[string]any {
		updates, _, err := BuildUpdates(upload.TypePayment, frag, document.Decode(tree))
		require.NoError(t, err)
		return jsontree.Update(tree, upload.TypePayment, updates)
	}

	once := apply(nil)
	twice := apply(jsontree.CloneObject(once))
	assert.Equal(t, once, twice)
}
