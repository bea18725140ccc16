package analytics

import (
	"sort"

	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/analytics"
	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/document"
	"github.com/cmlabs-hris/hr-analytics-go/internal/pkg/utils"
	"github.com/shopspring/decimal"
)

// reader is bound to one snapshot; doc is never nil.
type reader struct {
	doc         *document.Document
	budgetMonth string
}

func (r *reader) BudgetMonth() string { return r.budgetMonth }

// departments returns the departments of collection to fold: all of them
// when department is empty, otherwise just the one named.
func (r *reader) departments(collection, department string) []string {
	if department != "" {
		return []string{department}
	}
	return r.doc.Departments(collection)
}

func (r *reader) totals(department string, match dateMatcher) totals {
	var t totals
	for _, d := range r.departments(document.CollectionOvertime, department) {
		t.add(foldOvertime(r.doc.Overtime[d], match))
	}
	for _, d := range r.departments(document.CollectionAbsenteeism, department) {
		t.add(foldAbsenteeism(r.doc.Absenteeism[d], match))
	}
	for _, d := range r.departments(document.CollectionPayment, department) {
		t.add(foldPayment(r.doc.Payment[d], match))
	}
	return t
}

func (r *reader) GetMetricsSummary(period, department string) analytics.MetricSummary {
	p := analytics.ParsePeriod(period)
	return r.totals(department, p.Matches).summary()
}

func (r *reader) GetDepartmentSummary(period, department string) []analytics.DepartmentSummary {
	p := analytics.ParsePeriod(period)

	set := make(map[string]struct{})
	for _, c := range []string{
		document.CollectionOvertime,
		document.CollectionAbsenteeism,
		document.CollectionPayment,
		document.CollectionBudget,
	} {
		for _, d := range r.doc.Departments(c) {
			set[d] = struct{}{}
		}
	}
	if department != "" {
		if _, ok := set[department]; !ok {
			return []analytics.DepartmentSummary{}
		}
		set = map[string]struct{}{department: {}}
	}

	result := make([]analytics.DepartmentSummary, 0, len(set))
	for _, d := range sortedKeys(set) {
		t := r.totals(d, p.Matches)
		budget := utils.ParseAmountDecimal(r.doc.Budget[d][r.budgetMonth])
		result = append(result, analytics.DepartmentSummary{
			Department:        d,
			MetricSummary:     t.summary(),
			Budget:            budget.InexactFloat64(),
			BudgetUtilization: percentOf(t.paymentAmount, budget),
			BudgetMonth:       r.budgetMonth,
			EmployeeCount:     r.GetEmployeeCount(d),
			Locations:         r.locationsOf(d),
		})
	}
	return result
}

// locationsOf prefers the configured LocationMap order and falls back to
// the locations seen in the data.
func (r *reader) locationsOf(department string) []string {
	if locs := r.doc.LocationMap[department]; len(locs) > 0 {
		return append([]string(nil), locs...)
	}
	set := make(map[string]struct{})
	for loc := range r.doc.Overtime[department] {
		set[loc] = struct{}{}
	}
	for loc := range r.doc.Absenteeism[department] {
		set[loc] = struct{}{}
	}
	for loc := range r.doc.Payment[department] {
		set[loc] = struct{}{}
	}
	return sortedKeys(set)
}

func (r *reader) GetTrendData(department string, dates []string) []analytics.TrendPoint {
	if len(dates) == 0 {
		dates = r.allDates()
	}
	points := make([]analytics.TrendPoint, 0, len(dates))
	for _, date := range dates {
		t := r.totals(department, exactDate(date))
		s := t.summary()
		points = append(points, analytics.TrendPoint{
			Date:           date,
			Overtime:       s.TotalOvertime,
			OvertimeAmount: s.TotalOvertimeAmount,
			Absenteeism:    s.TotalAbsenteeism,
			Payments:       s.TotalPayments,
			PaymentAmount:  s.TotalPaymentAmount,
		})
	}
	return points
}

func (r *reader) GetMonthlyTrend(department string) []analytics.MonthlyTrendPoint {
	months := r.GetAvailableDates().Months
	points := make([]analytics.MonthlyTrendPoint, 0, len(months))
	for _, month := range months {
		s := r.totals(department, inMonth(month)).summary()
		points = append(points, analytics.MonthlyTrendPoint{
			Month:          month,
			Overtime:       s.TotalOvertime,
			OvertimeAmount: s.TotalOvertimeAmount,
			Absenteeism:    s.TotalAbsenteeism,
			Payments:       s.TotalPayments,
			PaymentAmount:  s.TotalPaymentAmount,
		})
	}
	return points
}

func (r *reader) dateSet() map[string]struct{} {
	set := make(map[string]struct{})
	for _, locs := range r.doc.Overtime {
		for _, dates := range locs {
			for date := range dates {
				set[date] = struct{}{}
			}
		}
	}
	for _, locs := range r.doc.Payment {
		for _, employees := range locs {
			for _, emp := range employees {
				for date := range emp.Payments {
					set[date] = struct{}{}
				}
			}
		}
	}
	for _, locs := range r.doc.Absenteeism {
		for _, employees := range locs {
			for _, emp := range employees {
				for date := range emp.Days {
					set[date] = struct{}{}
				}
			}
		}
	}
	return set
}

func (r *reader) allDates() []string {
	return sortedKeys(r.dateSet())
}

func (r *reader) GetAvailableDates() analytics.AvailableDates {
	out := analytics.AvailableDates{
		Months:       []string{},
		DatesByMonth: make(map[string][]string),
	}
	for _, date := range r.allDates() {
		month := utils.MonthOf(date)
		if _, ok := out.DatesByMonth[month]; !ok {
			out.Months = append(out.Months, month)
		}
		out.DatesByMonth[month] = append(out.DatesByMonth[month], date)
	}
	return out
}

func (r *reader) GetEmployeeCount(department string) int {
	count := 0
	for _, d := range r.departments(document.CollectionPayment, department) {
		ids := make(map[string]struct{})
		for _, employees := range r.doc.Payment[d] {
			for id, emp := range employees {
				if emp.Named {
					ids[id] = struct{}{}
				}
			}
		}
		count += len(ids)
	}
	return count
}

func (r *reader) GetStarterTerminationCounts(period string) analytics.StarterTerminationCounts {
	p := analytics.ParsePeriod(period)
	st := r.doc.StarterTermination

	var date string
	switch {
	case p.IsDay():
		date = p.String()
	case p.IsMonth(), p.IsOverall():
		for _, hires := range []document.HireLog{st.Starters, st.Terminations} {
			for d := range hires {
				if p.Matches(d) && d > date {
					date = d
				}
			}
		}
	}
	if date == "" {
		return analytics.StarterTerminationCounts{}
	}

	return analytics.StarterTerminationCounts{
		Date:         date,
		Starters:     countHires(st.Starters[date]),
		Terminations: countHires(st.Terminations[date]),
	}
}

func countHires(depts map[string]map[string][]document.HireRecord) int {
	n := 0
	for _, positions := range depts {
		for _, records := range positions {
			n += len(records)
		}
	}
	return n
}

func (r *reader) GetLocationAnalysis(period string) []analytics.LocationAnalysis {
	p := analytics.ParsePeriod(period)

	type row struct {
		analytics.LocationAnalysis
		payment, overtime decimal.Decimal
	}
	var rows []row
	totalPayment, totalOvertime := decimal.Zero, decimal.Zero

	for _, dept := range sortedKeys(r.doc.Payment) {
		for _, loc := range sortedKeys(r.doc.Payment[dept]) {
			employees := 0
			payment := decimal.Zero
			for _, emp := range r.doc.Payment[dept][loc] {
				if !emp.Named {
					continue
				}
				employees++
				_, amount := paid(emp, p.Matches)
				payment = payment.Add(amount)
			}
			if employees == 0 {
				continue
			}
			overtime := foldOvertime(map[string]map[string]document.OvertimeEntry{
				loc: r.doc.Overtime[dept][loc],
			}, p.Matches).overtimeAmount

			totalPayment = totalPayment.Add(payment)
			totalOvertime = totalOvertime.Add(overtime)
			rows = append(rows, row{
				LocationAnalysis: analytics.LocationAnalysis{
					Department:     dept,
					Location:       loc,
					EmployeeCount:  employees,
					PaymentAmount:  payment.InexactFloat64(),
					OvertimeAmount: overtime.InexactFloat64(),
				},
				payment:  payment,
				overtime: overtime,
			})
		}
	}

	result := make([]analytics.LocationAnalysis, 0, len(rows))
	for _, rw := range rows {
		la := rw.LocationAnalysis
		la.PaymentPercentage = percentOf(rw.payment, totalPayment)
		la.OvertimePercentage = percentOf(rw.overtime, totalOvertime)
		result = append(result, la)
	}
	return result
}

func (r *reader) GetDepartmentTree(period string) []analytics.DepartmentNode {
	p := analytics.ParsePeriod(period)

	tree := make([]analytics.DepartmentNode, 0, len(r.doc.Payment))
	for _, dept := range sortedKeys(r.doc.Payment) {
		node := analytics.DepartmentNode{Department: dept, Locations: []analytics.LocationNode{}}
		var deptPayment, deptOvertimeAmount decimal.Decimal

		for _, loc := range sortedKeys(r.doc.Payment[dept]) {
			locNode := analytics.LocationNode{Location: loc, Employees: []analytics.EmployeeNode{}}
			var locPayment decimal.Decimal

			employees := r.doc.Payment[dept][loc]
			for _, id := range sortedKeys(employees) {
				emp := employees[id]
				if !emp.Named {
					continue
				}
				_, amount := paid(emp, p.Matches)
				locPayment = locPayment.Add(amount)
				locNode.Employees = append(locNode.Employees, analytics.EmployeeNode{
					ID:          id,
					Name:        emp.Name,
					Payment:     amount.InexactFloat64(),
					Absenteeism: absentHours(r.doc.Absenteeism[dept][loc][id], p.Matches),
				})
			}

			ot := foldOvertime(map[string]map[string]document.OvertimeEntry{
				loc: r.doc.Overtime[dept][loc],
			}, p.Matches)
			abs := foldAbsenteeism(map[string]map[string]document.AbsenteeismRecord{
				loc: r.doc.Absenteeism[dept][loc],
			}, p.Matches)

			locNode.Stats = analytics.NodeStats{
				EmployeeCount:       len(locNode.Employees),
				TotalPayment:        locPayment.InexactFloat64(),
				TotalOvertime:       ot.overtime,
				TotalOvertimeAmount: ot.overtimeAmount.InexactFloat64(),
				TotalAbsenteeism:    abs.absenteeism,
			}

			deptPayment = deptPayment.Add(locPayment)
			deptOvertimeAmount = deptOvertimeAmount.Add(ot.overtimeAmount)
			node.Stats.EmployeeCount += locNode.Stats.EmployeeCount
			node.Stats.TotalOvertime += locNode.Stats.TotalOvertime
			node.Stats.TotalAbsenteeism += locNode.Stats.TotalAbsenteeism
			node.Locations = append(node.Locations, locNode)
		}

		node.Stats.TotalPayment = deptPayment.InexactFloat64()
		node.Stats.TotalOvertimeAmount = deptOvertimeAmount.InexactFloat64()
		tree = append(tree, node)
	}
	return tree
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
