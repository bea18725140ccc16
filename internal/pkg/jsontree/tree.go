// Package jsontree manipulates decoded JSON trees (map[string]any) using
// slash-separated paths, mirroring the update semantics of a hosted
// realtime document database: writing nil deletes a node, empty
// containers disappear and arrays are objects keyed by index.
package jsontree

import (
	"sort"
	"strconv"
	"strings"
)

// SplitPath splits "a/b/c" into its non-empty segments.
func SplitPath(path string) []string {
	raw := strings.Split(path, "/")
	parts := make([]string, 0, len(raw))
	for _, p := range raw {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// JoinPath joins segments with "/".
func JoinPath(parts ...string) string {
	return strings.Join(parts, "/")
}

// Clone deep-copies maps and slices of a decoded JSON value.
func Clone(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, child := range t {
			out[k] = Clone(child)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, child := range t {
			out[i] = Clone(child)
		}
		return out
	default:
		return v
	}
}

// CloneObject deep-copies an object, keeping nil as nil.
func CloneObject(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	return Clone(m).(map[string]any)
}

// AsObject reads v as an object. Arrays, which the hosted store produces
// for objects keyed 0..n, become index-keyed objects without their holes.
// Anything else is nil.
func AsObject(v any) map[string]any {
	switch t := v.(type) {
	case map[string]any:
		return t
	case []any:
		out := make(map[string]any, len(t))
		for i, item := range t {
			if item != nil {
				out[strconv.Itoa(i)] = item
			}
		}
		return out
	default:
		return nil
	}
}

// Get walks path from root.
func Get(root any, path string) (any, bool) {
	node := root
	for _, part := range SplitPath(path) {
		m := AsObject(node)
		if m == nil {
			return nil, false
		}
		var ok bool
		node, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return node, node != nil
}

// Set writes value at path and returns the (possibly new) root. A nil
// value removes the node and prunes parents left empty. Arrays along the
// path become index-keyed objects, other non-object nodes are replaced by
// objects. An empty path replaces the root.
func Set(root map[string]any, path string, value any) map[string]any {
	parts := SplitPath(path)
	if len(parts) == 0 {
		m, _ := value.(map[string]any)
		return m
	}
	if root == nil {
		if value == nil {
			return nil
		}
		root = make(map[string]any)
	}
	setParts(root, parts, value)
	if len(root) == 0 {
		return nil
	}
	return root
}

func setParts(node map[string]any, parts []string, value any) {
	key := parts[0]
	if len(parts) == 1 {
		if value == nil || isEmpty(value) {
			delete(node, key)
			return
		}
		node[key] = value
		return
	}

	child := AsObject(node[key])
	if child == nil {
		if value == nil {
			return
		}
		child = make(map[string]any)
	}
	node[key] = child
	setParts(child, parts[1:], value)
	if len(child) == 0 {
		delete(node, key)
	}
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case map[string]any:
		return len(t) == 0
	case []any:
		return len(t) == 0
	default:
		return false
	}
}

// Update applies a multi-path update beneath prefix. Each key of updates is
// a path relative to prefix; sibling keys not named are left untouched.
func Update(root map[string]any, prefix string, updates map[string]any) map[string]any {
	keys := make([]string, 0, len(updates))
	for k := range updates {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	base := SplitPath(prefix)
	for _, k := range keys {
		full := append(append([]string{}, base...), SplitPath(k)...)
		root = Set(root, JoinPath(full...), Clone(updates[k]))
	}
	return root
}

// Flatten turns a nested object into path → value pairs, stopping after
// depth levels. Branches shallower than depth are emitted where they end.
func Flatten(v any, depth int) map[string]any {
	out := make(map[string]any)
	flatten(out, nil, v, depth)
	return out
}

func flatten(out map[string]any, prefix []string, v any, depth int) {
	m, ok := v.(map[string]any)
	if depth == 0 || !ok {
		if len(prefix) > 0 {
			out[JoinPath(prefix...)] = v
		}
		return
	}
	for k, child := range m {
		next := append(append([]string{}, prefix...), k)
		flatten(out, next, child, depth-1)
	}
}
