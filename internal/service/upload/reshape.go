package upload

import (
	"sort"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/document"
	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/upload"
	"github.com/cmlabs-hris/hr-analytics-go/internal/pkg/utils"
	"github.com/cmlabs-hris/hr-analytics-go/internal/pkg/validator"
)

// Reshape nests flat upload rows into the document layout of
// collectionType, keyed under effectiveDate. Rows missing a nesting key,
// or whose keys contain reserved characters, are skipped and counted.
// Unknown types return the rows unchanged.
func Reshape(collectionType, effectiveDate string, rows []upload.Row) upload.Reshaped {
	return reshape(collectionType, effectiveDate, rows, false)
}

func reshape(collectionType, effectiveDate string, rows []upload.Row, useRowDates bool) upload.Reshaped {
	dateOf := func(row upload.Row) string {
		if useRowDates && utils.IsDateKey(row[upload.ColumnDate]) {
			return row[upload.ColumnDate]
		}
		return effectiveDate
	}

	out := upload.Reshaped{Rows: len(rows)}
	frag := make(map[string]any)

	switch collectionType {
	case upload.TypeLocationMap:
		out.Skipped = reshapeLocationMap(frag, rows)
	case upload.TypeOvertime:
		out.Skipped = reshapeOvertime(frag, rows, dateOf)
	case upload.TypePayment:
		out.Skipped = reshapeEmployees(frag, rows, func(row upload.Row) (string, any) {
			return dateOf(row), map[string]any{document.FieldPayment: orDefault(row[upload.ColumnPayment], upload.DefaultAmount)}
		})
	case upload.TypeAbsenteeism:
		out.Skipped = reshapeEmployees(frag, rows, func(row upload.Row) (string, any) {
			return dateOf(row), map[string]any{document.FieldAbsenteeism: utils.ParseFloatOrZero(row[upload.ColumnAbsence])}
		})
	case upload.TypeStarterTermination:
		out.Skipped = reshapeStarterTermination(frag, rows, dateOf)
	default:
		out.Fragment = rows
		return out
	}

	out.Fragment = frag
	return out
}

func reshapeLocationMap(frag map[string]any, rows []upload.Row) int {
	skipped := 0
	for _, row := range rows {
		dept := row[upload.ColumnDepartment]
		if !validator.IsValidKey(dept) {
			skipped++
			continue
		}
		locs, _ := frag[dept].([]any)
		for _, col := range locationColumns(row) {
			loc := row[col]
			if loc == "" || containsValue(locs, loc) {
				continue
			}
			locs = append(locs, loc)
		}
		if locs == nil {
			locs = []any{}
		}
		frag[dept] = locs
	}
	return skipped
}

// locationColumns returns the LocationN headers of row ordered by N.
func locationColumns(row upload.Row) []string {
	type col struct {
		name string
		n    int
	}
	var cols []col
	for k := range row {
		suffix, ok := strings.CutPrefix(k, upload.ColumnLocation)
		if !ok {
			continue
		}
		n := 0
		if suffix != "" {
			v, err := strconv.Atoi(suffix)
			if err != nil {
				continue
			}
			n = v
		}
		cols = append(cols, col{name: k, n: n})
	}
	sort.Slice(cols, func(i, j int) bool { return cols[i].n < cols[j].n })

	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.name
	}
	return names
}

func reshapeOvertime(frag map[string]any, rows []upload.Row, dateOf func(upload.Row) string) int {
	skipped := 0
	for _, row := range rows {
		dept, loc := row[upload.ColumnDepartment], row[upload.ColumnLocation]
		if !validator.IsValidKey(dept) || !validator.IsValidKey(loc) {
			skipped++
			continue
		}
		dates := child(child(frag, dept), loc)
		dates[dateOf(row)] = map[string]any{
			document.FieldOTAmount: orDefault(row[upload.ColumnOTAmount], upload.DefaultAmount),
			document.FieldOTHours:  utils.ParseFloatOrZero(row[upload.ColumnOTHours]),
		}
	}
	return skipped
}

// reshapeEmployees nests rows as [dept][location][employeeID]. Name is
// set once per employee; entry supplies the date key and its value.
func reshapeEmployees(frag map[string]any, rows []upload.Row, entry func(upload.Row) (string, any)) int {
	skipped := 0
	for _, row := range rows {
		dept, loc, id := row[upload.ColumnDepartment], row[upload.ColumnLocation], row[upload.ColumnEmployeeID]
		if !validator.IsValidKey(dept) || !validator.IsValidKey(loc) || !validator.IsValidKey(id) {
			skipped++
			continue
		}
		emp := child(child(child(frag, dept), loc), id)
		if _, ok := emp[document.FieldName]; !ok {
			emp[document.FieldName] = orDefault(row[upload.ColumnName], upload.DefaultName)
		}
		date, value := entry(row)
		emp[date] = value
	}
	return skipped
}

func reshapeStarterTermination(frag map[string]any, rows []upload.Row, dateOf func(upload.Row) string) int {
	skipped := 0
	for _, row := range rows {
		var bucket string
		switch strings.ToLower(strings.TrimSpace(row[upload.ColumnType])) {
		case "starter", "starters":
			bucket = document.FieldStarters
		case "termination", "terminations":
			bucket = document.FieldTerminations
		default:
			skipped++
			continue
		}
		dept, position := row[upload.ColumnDepartment], row[upload.ColumnPosition]
		if !validator.IsValidKey(dept) || !validator.IsValidKey(position) {
			skipped++
			continue
		}

		positions := child(child(child(frag, bucket), dateOf(row)), dept)
		records, _ := positions[position].([]any)
		positions[position] = append(records, map[string]any{
			upload.ColumnEmployeeID: row[upload.ColumnEmployeeID],
			document.FieldName:      orDefault(row[upload.ColumnName], upload.DefaultName),
		})
	}
	return skipped
}

// child returns m[key] as an object, creating it when missing.
func child(m map[string]any, key string) map[string]any {
	c, ok := m[key].(map[string]any)
	if !ok {
		c = make(map[string]any)
		m[key] = c
	}
	return c
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func containsValue(list []any, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
