package upload

import (
	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/document"
	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/upload"
	"github.com/cmlabs-hris/hr-analytics-go/internal/pkg/jsontree"
	"github.com/cmlabs-hris/hr-analytics-go/internal/pkg/validator"
)

// slotDepth is how deep a fragment is flattened before writing. Each
// path at that depth replaces one slot and leaves its siblings alone.
var slotDepth = map[string]int{
	document.CollectionLocationMap:        1,
	document.CollectionOvertime:           3,
	document.CollectionPayment:            4,
	document.CollectionAbsenteeism:        4,
	document.CollectionStarterTermination: 4,
}

// BuildUpdates turns a nested fragment into multi-path updates for the
// collection's root. existing is the current document and may be nil.
//
// Employee names are written only when the stored record has none,
// LocationMap lists are unioned with the stored list and hire records
// are merged by EmployeeID, so replaying an upload changes nothing.
// Paths that do not reach the slot depth or contain reserved characters
// are dropped and counted.
func BuildUpdates(collectionType string, fragment map[string]any, existing *document.Document) (map[string]any, int, error) {
	depth, ok := slotDepth[collectionType]
	if !ok {
		return nil, 0, upload.ErrUnknownCollection
	}
	if existing == nil {
		existing = &document.Document{}
	}

	updates := make(map[string]any)
	dropped := 0
	for path, value := range jsontree.Flatten(fragment, depth) {
		parts := jsontree.SplitPath(path)
		if len(parts) != depth || !validKeys(parts) || value == nil {
			dropped++
			continue
		}

		switch collectionType {
		case document.CollectionPayment:
			if parts[3] == document.FieldName && existing.Payment[parts[0]][parts[1]][parts[2]].Named {
				continue
			}
		case document.CollectionAbsenteeism:
			if parts[3] == document.FieldName && existing.Absenteeism[parts[0]][parts[1]][parts[2]].Named {
				continue
			}
		case document.CollectionLocationMap:
			value = unionLocations(existing.LocationMap[parts[0]], value)
		case document.CollectionStarterTermination:
			var log document.HireLog
			switch parts[0] {
			case document.FieldStarters:
				log = existing.StarterTermination.Starters
			case document.FieldTerminations:
				log = existing.StarterTermination.Terminations
			default:
				dropped++
				continue
			}
			value = mergeHires(log[parts[1]][parts[2]][parts[3]], value)
		}
		updates[path] = value
	}
	return updates, dropped, nil
}

func validKeys(parts []string) bool {
	for _, p := range parts {
		if !validator.IsValidKey(p) {
			return false
		}
	}
	return true
}

// unionLocations appends the new locations not already stored, keeping
// the stored order first.
func unionLocations(stored []string, incoming any) []any {
	out := make([]any, 0, len(stored))
	seen := make(map[string]struct{})
	for _, loc := range stored {
		if _, ok := seen[loc]; !ok {
			seen[loc] = struct{}{}
			out = append(out, loc)
		}
	}
	list, _ := incoming.([]any)
	for _, item := range list {
		loc, ok := item.(string)
		if !ok || loc == "" {
			continue
		}
		if _, ok := seen[loc]; !ok {
			seen[loc] = struct{}{}
			out = append(out, loc)
		}
	}
	return out
}

// mergeHires upserts incoming hire records into the stored list by
// EmployeeID. Records without an ID are appended unless an identical
// record is already present.
func mergeHires(stored []document.HireRecord, incoming any) []any {
	out := make([]any, 0, len(stored))
	index := make(map[document.HireRecord]int)
	byID := make(map[string]int)
	add := func(rec document.HireRecord) {
		if rec.EmployeeID != "" {
			if i, ok := byID[rec.EmployeeID]; ok {
				out[i] = hireValue(rec)
				return
			}
			byID[rec.EmployeeID] = len(out)
		} else if _, ok := index[rec]; ok {
			return
		}
		index[rec] = len(out)
		out = append(out, hireValue(rec))
	}

	for _, rec := range stored {
		add(rec)
	}
	list, _ := incoming.([]any)
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		id, _ := m[upload.ColumnEmployeeID].(string)
		name, _ := m[document.FieldName].(string)
		add(document.HireRecord{EmployeeID: id, Name: name})
	}
	return out
}

func hireValue(rec document.HireRecord) map[string]any {
	return map[string]any{
		upload.ColumnEmployeeID: rec.EmployeeID,
		document.FieldName:      rec.Name,
	}
}
