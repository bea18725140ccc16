package document

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/hr-analytics-go/internal/pkg/jsontree"
	"github.com/cmlabs-hris/hr-analytics-go/internal/pkg/utils"
)

// Decode resolves a raw JSON tree into a Document. Nodes of the wrong
// shape are dropped rather than reported, and date levels keep only keys
// shaped like YYYY-MM-DD. A nil tree decodes to nil.
func Decode(tree map[string]any) *Document {
	if tree == nil {
		return nil
	}
	return &Document{
		Overtime:           decodeOvertime(tree[CollectionOvertime]),
		Absenteeism:        decodeAbsenteeism(tree[CollectionAbsenteeism]),
		Payment:            decodePayment(tree[CollectionPayment]),
		Budget:             decodeBudget(tree[CollectionBudget]),
		LocationMap:        decodeLocationMap(tree[CollectionLocationMap]),
		StarterTermination: decodeStarterTermination(tree[CollectionStarterTermination]),
	}
}

func decodeOvertime(v any) OvertimeCollection {
	out := make(OvertimeCollection)
	for dept, deptNode := range jsontree.AsObject(v) {
		locs := make(map[string]map[string]OvertimeEntry)
		for loc, locNode := range jsontree.AsObject(deptNode) {
			dates := make(map[string]OvertimeEntry)
			for date, entryNode := range jsontree.AsObject(locNode) {
				if !utils.IsDateKey(date) {
					continue
				}
				entry, ok := entryNode.(map[string]any)
				if !ok {
					continue
				}
				hours, _ := asNumber(entry[FieldOTHours])
				dates[date] = OvertimeEntry{
					Hours:  hours,
					Amount: asString(entry[FieldOTAmount]),
				}
			}
			locs[loc] = dates
		}
		out[dept] = locs
	}
	return out
}

func decodeAbsenteeism(v any) AbsenteeismCollection {
	out := make(AbsenteeismCollection)
	for dept, deptNode := range jsontree.AsObject(v) {
		locs := make(map[string]map[string]AbsenteeismRecord)
		for loc, locNode := range jsontree.AsObject(deptNode) {
			employees := make(map[string]AbsenteeismRecord)
			for empID, empNode := range jsontree.AsObject(locNode) {
				emp, ok := empNode.(map[string]any)
				if !ok {
					continue
				}
				name, named := nameOf(emp)
				rec := AbsenteeismRecord{Name: name, Named: named, Days: make(map[string]float64)}
				for date, dayNode := range emp {
					if !utils.IsDateKey(date) {
						continue
					}
					day, ok := dayNode.(map[string]any)
					if !ok {
						continue
					}
					hours, _ := asNumber(day[FieldAbsenteeism])
					rec.Days[date] = hours
				}
				employees[empID] = rec
			}
			locs[loc] = employees
		}
		out[dept] = locs
	}
	return out
}

func decodePayment(v any) PaymentCollection {
	out := make(PaymentCollection)
	for dept, deptNode := range jsontree.AsObject(v) {
		locs := make(map[string]map[string]PaymentRecord)
		for loc, locNode := range jsontree.AsObject(deptNode) {
			employees := make(map[string]PaymentRecord)
			for empID, empNode := range jsontree.AsObject(locNode) {
				emp, ok := empNode.(map[string]any)
				if !ok {
					continue
				}
				name, named := nameOf(emp)
				rec := PaymentRecord{Name: name, Named: named, Payments: make(map[string]string)}
				for date, dayNode := range emp {
					if !utils.IsDateKey(date) {
						continue
					}
					day, ok := dayNode.(map[string]any)
					if !ok {
						continue
					}
					rec.Payments[date] = asString(day[FieldPayment])
				}
				employees[empID] = rec
			}
			locs[loc] = employees
		}
		out[dept] = locs
	}
	return out
}

func decodeBudget(v any) BudgetCollection {
	out := make(BudgetCollection)
	for dept, deptNode := range jsontree.AsObject(v) {
		months := make(map[string]string)
		for month, monthNode := range jsontree.AsObject(deptNode) {
			if !utils.IsMonthKey(month) {
				continue
			}
			switch m := monthNode.(type) {
			case map[string]any:
				months[month] = asString(m[FieldBudget])
			case string:
				months[month] = m
			}
		}
		out[dept] = months
	}
	return out
}

func decodeLocationMap(v any) LocationMapCollection {
	out := make(LocationMapCollection)
	for dept, deptNode := range jsontree.AsObject(v) {
		var locs []string
		for _, item := range asList(deptNode) {
			if s := strings.TrimSpace(asString(item)); s != "" {
				locs = append(locs, s)
			}
		}
		out[dept] = locs
	}
	return out
}

func decodeStarterTermination(v any) StarterTermination {
	root := jsontree.AsObject(v)
	return StarterTermination{
		Starters:     decodeHireLog(root[FieldStarters]),
		Terminations: decodeHireLog(root[FieldTerminations]),
	}
}

func decodeHireLog(v any) HireLog {
	out := make(HireLog)
	for date, dateNode := range jsontree.AsObject(v) {
		if !utils.IsDateKey(date) {
			continue
		}
		depts := make(map[string]map[string][]HireRecord)
		for dept, deptNode := range jsontree.AsObject(dateNode) {
			positions := make(map[string][]HireRecord)
			for position, posNode := range jsontree.AsObject(deptNode) {
				var records []HireRecord
				for _, item := range asList(posNode) {
					rec, ok := item.(map[string]any)
					if !ok {
						continue
					}
					records = append(records, HireRecord{
						EmployeeID: asString(rec["EmployeeID"]),
						Name:       asString(rec[FieldName]),
					})
				}
				positions[position] = records
			}
			depts[dept] = positions
		}
		out[date] = depts
	}
	return out
}

func nameOf(emp map[string]any) (string, bool) {
	name, ok := emp[FieldName].(string)
	if !ok || name == "" {
		return "", false
	}
	return name, true
}

// asList reads v as an ordered list. Objects are ordered by key, numeric
// keys first in numeric order.
func asList(v any) []any {
	switch t := v.(type) {
	case []any:
		out := make([]any, 0, len(t))
		for _, item := range t {
			if item != nil {
				out = append(out, item)
			}
		}
		return out
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			a, aErr := strconv.Atoi(keys[i])
			b, bErr := strconv.Atoi(keys[j])
			switch {
			case aErr == nil && bErr == nil:
				return a < b
			case aErr == nil:
				return true
			case bErr == nil:
				return false
			default:
				return keys[i] < keys[j]
			}
		})
		out := make([]any, 0, len(keys))
		for _, k := range keys {
			if t[k] != nil {
				out = append(out, t[k])
			}
		}
		return out
	default:
		return nil
	}
}

func asNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f := utils.ParseFloatOrZero(t)
		return f, f != 0
	default:
		return 0, false
	}
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case json.Number:
		return t.String()
	default:
		return ""
	}
}
