package jsontree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitPath(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, SplitPath("/a//b/c/"))
	assert.Empty(t, SplitPath(""))
	assert.Empty(t, SplitPath("/"))
}

func TestGet(t *testing.T) {
	root := map[string]any{
		"Overtime": map[string]any{
			"Dealerships": map[string]any{"Geelong": "x"},
		},
	}

	v, ok := Get(root, "Overtime/Dealerships/Geelong")
	require.True(t, ok)
	assert.Equal(t, "x", v)

	_, ok = Get(root, "Overtime/Production")
	assert.False(t, ok)

	_, ok = Get(root, "Overtime/Dealerships/Geelong/deeper")
	assert.False(t, ok)
}

func TestSet_CreatesIntermediateObjects(t *testing.T) {
	root := Set(nil, "a/b/c", 1.0)
	v, ok := Get(root, "a/b/c")
	require.True(t, ok)
	assert.Equal(t, 1.0, v)
}

func TestSet_NilDeletesAndPrunes(t *testing.T) {
	root := map[string]any{
		"a": map[string]any{
			"b": map[string]any{"c": 1.0},
			"d": 2.0,
		},
	}

	root = Set(root, "a/b/c", nil)
	_, ok := Get(root, "a/b")
	assert.False(t, ok, "empty parent should be pruned")
	v, ok := Get(root, "a/d")
	require.True(t, ok)
	assert.Equal(t, 2.0, v)

	root = Set(root, "a/d", nil)
	assert.Nil(t, root)
}

func TestSet_ReplacesScalarWithObject(t *testing.T) {
	root := map[string]any{"a": "scalar"}
	root = Set(root, "a/b", true)
	v, ok := Get(root, "a/b")
	require.True(t, ok)
	assert.Equal(t, true, v)
}

func TestSet_EmptyPathReplacesRoot(t *testing.T) {
	root := map[string]any{"a": 1.0}
	root = Set(root, "", map[string]any{"b": 2.0})
	assert.Equal(t, map[string]any{"b": 2.0}, root)
}

func TestUpdate_LeavesSiblingsUntouched(t *testing.T) {
	root := map[string]any{
		"Overtime": map[string]any{
			"Dealerships": map[string]any{
				"Geelong Sales": map[string]any{
					"2025-07-02": map[string]any{"OT_Hours": 7.5},
				},
			},
		},
	}

	root = Update(root, "Overtime", map[string]any{
		"Dealerships/Geelong Sales/2025-07-09": map[string]any{"OT_Hours": 8.0},
	})

	_, ok := Get(root, "Overtime/Dealerships/Geelong Sales/2025-07-02")
	assert.True(t, ok)
	v, ok := Get(root, "Overtime/Dealerships/Geelong Sales/2025-07-09/OT_Hours")
	require.True(t, ok)
	assert.Equal(t, 8.0, v)
}

func TestUpdate_DoesNotAliasInput(t *testing.T) {
	value := map[string]any{"x": 1.0}
	root := Update(nil, "c", map[string]any{"k": value})
	value["x"] = 2.0

	v, _ := Get(root, "c/k/x")
	assert.Equal(t, 1.0, v)
}

func TestFlatten(t *testing.T) {
	frag := map[string]any{
		"Dealerships": map[string]any{
			"Geelong": map[string]any{
				"2025-07-02": map[string]any{"OT_Hours": 7.5},
			},
		},
		"Shallow": "leaf",
	}

	flat := Flatten(frag, 3)
	assert.Equal(t, map[string]any{
		"Dealerships/Geelong/2025-07-02": map[string]any{"OT_Hours": 7.5},
		"Shallow":                        "leaf",
	}, flat)
}

func TestClone(t *testing.T) {
	orig := map[string]any{"a": []any{map[string]any{"b": 1.0}}}
	cp := Clone(orig).(map[string]any)
	cp["a"].([]any)[0].(map[string]any)["b"] = 2.0

	v, _ := Get(orig, "a")
	assert.Equal(t, 1.0, v.([]any)[0].(map[string]any)["b"])
}

func TestAsObject(t *testing.T) {
	assert.Equal(t, map[string]any{"1": "a", "3": "b"}, AsObject([]any{nil, "a", nil, "b"}))
	assert.Equal(t, map[string]any{"k": 1.0}, AsObject(map[string]any{"k": 1.0}))
	assert.Nil(t, AsObject("scalar"))
	assert.Nil(t, AsObject(nil))
}

func TestGet_ThroughArray(t *testing.T) {
	root := map[string]any{
		"StoreA": []any{nil, map[string]any{"Name": "Emma"}},
	}

	v, ok := Get(root, "StoreA/1/Name")
	require.True(t, ok)
	assert.Equal(t, "Emma", v)

	_, ok = Get(root, "StoreA/0")
	assert.False(t, ok)
}

func TestSet_ArrayKeepsSiblings(t *testing.T) {
	root := map[string]any{
		"StoreA": []any{
			nil,
			map[string]any{"Name": "Emma", "2025-07-02": "$1.00"},
			map[string]any{"Name": "Liam", "2025-07-02": "$2.00"},
		},
	}

	root = Set(root, "StoreA/1/2025-07-09", "$5.00")

	assert.Equal(t, map[string]any{
		"StoreA": map[string]any{
			"1": map[string]any{"Name": "Emma", "2025-07-02": "$1.00", "2025-07-09": "$5.00"},
			"2": map[string]any{"Name": "Liam", "2025-07-02": "$2.00"},
		},
	}, root)

	root = Set(root, "StoreA/2", nil)
	_, ok := Get(root, "StoreA/2")
	assert.False(t, ok)
	v, ok := Get(root, "StoreA/1/Name")
	require.True(t, ok)
	assert.Equal(t, "Emma", v)
}

func TestSet_EmptyListIsDropped(t *testing.T) {
	root := map[string]any{"Sales": []any{"StoreA"}}

	root = Update(root, "", map[string]any{"HR": []any{}})
	_, ok := root["HR"]
	assert.False(t, ok)

	root = Set(root, "Sales", []any{})
	assert.Nil(t, root)
}
