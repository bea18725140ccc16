package analytics

import (
	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/analytics"
	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/document"
	"github.com/cmlabs-hris/hr-analytics-go/internal/pkg/utils"
	"github.com/shopspring/decimal"
)

// totals accumulates metrics; currency is summed as decimals.
type totals struct {
	overtime       float64
	overtimeAmount decimal.Decimal
	absenteeism    float64
	payments       int
	paymentAmount  decimal.Decimal
}

func (t *totals) add(o totals) {
	t.overtime += o.overtime
	t.overtimeAmount = t.overtimeAmount.Add(o.overtimeAmount)
	t.absenteeism += o.absenteeism
	t.payments += o.payments
	t.paymentAmount = t.paymentAmount.Add(o.paymentAmount)
}

func (t totals) summary() analytics.MetricSummary {
	return analytics.MetricSummary{
		TotalOvertime:       t.overtime,
		TotalOvertimeAmount: t.overtimeAmount.InexactFloat64(),
		TotalAbsenteeism:    t.absenteeism,
		TotalPayments:       t.payments,
		TotalPaymentAmount:  t.paymentAmount.InexactFloat64(),
	}
}

type dateMatcher func(dateKey string) bool

func exactDate(date string) dateMatcher {
	return func(d string) bool { return d == date }
}

func inMonth(month string) dateMatcher {
	return func(d string) bool { return utils.MonthOf(d) == month }
}

func foldOvertime(locs map[string]map[string]document.OvertimeEntry, match dateMatcher) totals {
	var t totals
	for _, dates := range locs {
		for date, entry := range dates {
			if !match(date) {
				continue
			}
			t.overtime += entry.Hours
			t.overtimeAmount = t.overtimeAmount.Add(utils.ParseAmountDecimal(entry.Amount))
		}
	}
	return t
}

func foldAbsenteeism(locs map[string]map[string]document.AbsenteeismRecord, match dateMatcher) totals {
	var t totals
	for _, employees := range locs {
		for _, emp := range employees {
			t.absenteeism += absentHours(emp, match)
		}
	}
	return t
}

func foldPayment(locs map[string]map[string]document.PaymentRecord, match dateMatcher) totals {
	var t totals
	for _, employees := range locs {
		for _, emp := range employees {
			count, amount := paid(emp, match)
			t.payments += count
			t.paymentAmount = t.paymentAmount.Add(amount)
		}
	}
	return t
}

func absentHours(emp document.AbsenteeismRecord, match dateMatcher) float64 {
	var hours float64
	for date, h := range emp.Days {
		if match(date) {
			hours += h
		}
	}
	return hours
}

func paid(emp document.PaymentRecord, match dateMatcher) (int, decimal.Decimal) {
	count := 0
	amount := decimal.Zero
	for date, p := range emp.Payments {
		if match(date) {
			count++
			amount = amount.Add(utils.ParseAmountDecimal(p))
		}
	}
	return count, amount
}

// percentOf returns part/whole*100, or 0 when whole is not positive.
func percentOf(part, whole decimal.Decimal) float64 {
	if !whole.IsPositive() {
		return 0
	}
	return part.Div(whole).Mul(decimal.NewFromInt(100)).InexactFloat64()
}
