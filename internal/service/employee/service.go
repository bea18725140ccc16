package employee

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/analytics"
	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/document"
	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/employee"
	"github.com/cmlabs-hris/hr-analytics-go/internal/pkg/jsontree"
)

// Collections holding per-employee records.
var employeeCollections = []string{document.CollectionAbsenteeism, document.CollectionPayment}

// Refresher reloads the session snapshot after a write.
type Refresher interface {
	Refresh(ctx context.Context) error
}

type EmployeeServiceImpl struct {
	source    analytics.SnapshotSource
	store     document.Store
	refresher Refresher
}

func NewEmployeeService(source analytics.SnapshotSource, store document.Store, refresher Refresher) employee.EmployeeService {
	return &EmployeeServiceImpl{
		source:    source,
		store:     store,
		refresher: refresher,
	}
}

func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, req employee.ListEmployeesRequest) ([]employee.Employee, error) {
	doc := s.source.Snapshot()
	if doc == nil {
		return []employee.Employee{}, nil
	}

	byKey := make(map[string]*employee.Employee)
	add := func(collection, dept, loc, id, name string) {
		key := jsontree.JoinPath(dept, loc, id)
		e, ok := byKey[key]
		if !ok {
			e = &employee.Employee{ID: id, Name: name, Department: dept, Location: loc}
			byKey[key] = e
		}
		e.Collections = append(e.Collections, collection)
	}
	for dept, locs := range doc.Absenteeism {
		for loc, emps := range locs {
			for id, rec := range emps {
				if rec.Named {
					add(document.CollectionAbsenteeism, dept, loc, id, rec.Name)
				}
			}
		}
	}
	for dept, locs := range doc.Payment {
		for loc, emps := range locs {
			for id, rec := range emps {
				if rec.Named {
					add(document.CollectionPayment, dept, loc, id, rec.Name)
				}
			}
		}
	}

	search := strings.ToLower(strings.TrimSpace(req.Search))
	out := make([]employee.Employee, 0, len(byKey))
	for _, e := range byKey {
		if search != "" && !matches(*e, search) {
			continue
		}
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Department != b.Department {
			return a.Department < b.Department
		}
		if a.Location != b.Location {
			return a.Location < b.Location
		}
		return a.ID < b.ID
	})
	return out, nil
}

func matches(e employee.Employee, search string) bool {
	for _, field := range []string{e.ID, e.Name, e.Department, e.Location} {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}

// UpdateAssignment rewrites each collection with one multi-path patch:
// old paths are set to null and the target path gets the merged record.
// The two collections are patched separately, so a failure between them
// leaves the move half done; retrying completes it.
func (s *EmployeeServiceImpl) UpdateAssignment(ctx context.Context, req employee.UpdateAssignmentRequest) (employee.UpdateAssignmentResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.UpdateAssignmentResponse{}, err
	}

	tree, err := s.store.Fetch(ctx)
	if err != nil {
		return employee.UpdateAssignmentResponse{}, fmt.Errorf("failed to load current document: %w", err)
	}

	doc := document.Decode(tree)
	if doc != nil && len(doc.LocationMap) > 0 {
		if !contains(doc.LocationMap[req.Department], req.Location) {
			return employee.UpdateAssignmentResponse{}, fmt.Errorf("%w: %s/%s", employee.ErrUnknownLocation, req.Department, req.Location)
		}
	}

	resp := employee.UpdateAssignmentResponse{
		Employee: employee.Employee{ID: req.ID, Department: req.Department, Location: req.Location},
	}
	patches := make(map[string]map[string]any)
	target := jsontree.JoinPath(req.Department, req.Location, req.ID)

	for _, collection := range employeeCollections {
		depts := jsontree.AsObject(tree[collection])
		updates := make(map[string]any)
		var moved map[string]any
		found := false

		for _, dept := range sortedKeys(depts) {
			locs := jsontree.AsObject(depts[dept])
			for _, loc := range sortedKeys(locs) {
				rec := jsontree.AsObject(jsontree.AsObject(locs[loc])[req.ID])
				if rec == nil {
					continue
				}
				found = true
				if resp.Employee.Name == "" {
					resp.Employee.Name, _ = rec[document.FieldName].(string)
				}
				if dept == req.Department && loc == req.Location {
					continue
				}
				moved = mergeRecord(moved, rec)
				updates[jsontree.JoinPath(dept, loc, req.ID)] = nil
				resp.Moved++
			}
		}
		if !found {
			continue
		}
		resp.Employee.Collections = append(resp.Employee.Collections, collection)
		if moved == nil {
			continue
		}

		existing, _ := jsontree.Get(tree, jsontree.JoinPath(collection, target))
		current := jsontree.AsObject(existing)
		updates[target] = mergeRecord(jsontree.CloneObject(current), moved)
		patches[collection] = updates
	}

	if len(resp.Employee.Collections) == 0 {
		return employee.UpdateAssignmentResponse{}, fmt.Errorf("%w: %s", employee.ErrEmployeeNotFound, req.ID)
	}

	for _, collection := range employeeCollections {
		updates, ok := patches[collection]
		if !ok {
			continue
		}
		if err := s.store.Patch(ctx, collection, updates); err != nil {
			return employee.UpdateAssignmentResponse{}, fmt.Errorf("failed to update %s: %w", collection, err)
		}
	}

	if resp.Moved > 0 && s.refresher != nil {
		if err := s.refresher.Refresh(ctx); err != nil {
			slog.Warn("refresh after assignment failed", "employee_id", req.ID, "error", err)
		}
	}

	slog.Info("employee assignment updated",
		"employee_id", req.ID,
		"department", req.Department,
		"location", req.Location,
		"moved", resp.Moved,
	)
	return resp, nil
}

// mergeRecord copies src into dst. Dated entries from src win; a name
// already present in dst is kept.
func mergeRecord(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for k, v := range src {
		if k == document.FieldName {
			if name, _ := dst[k].(string); name != "" {
				continue
			}
		}
		dst[k] = jsontree.Clone(v)
	}
	return dst
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
