package dashboard

import (
	"context"

	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/analytics"
	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/dashboard"
	"golang.org/x/sync/errgroup"
)

type DashboardServiceImpl struct {
	analytics analytics.Service
}

func NewDashboardService(analyticsService analytics.Service) dashboard.DashboardService {
	return &DashboardServiceImpl{
		analytics: analyticsService,
	}
}

// GetDashboard fans the independent folds out over one snapshot so every
// section reflects the same document version.
func (s *DashboardServiceImpl) GetDashboard(ctx context.Context, req dashboard.DashboardRequest) (*dashboard.DashboardResponse, error) {
	reader := s.analytics.Current()
	period := analytics.ParsePeriod(req.Period)

	resp := &dashboard.DashboardResponse{
		Period:      period.String(),
		Department:  req.Department,
		BudgetMonth: reader.BudgetMonth(),
	}

	g, gCtx := errgroup.WithContext(ctx)
	run := func(fn func()) {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			fn()
			return nil
		})
	}

	run(func() {
		resp.Metrics = reader.GetMetricsSummary(period.String(), req.Department)
		if resp.Metrics.TotalPaymentAmount > 0 {
			resp.OvertimeToPaymentRatio = resp.Metrics.TotalOvertimeAmount / resp.Metrics.TotalPaymentAmount * 100
		}
	})
	run(func() { resp.EmployeeCount = reader.GetEmployeeCount(req.Department) })
	run(func() { resp.Departments = reader.GetDepartmentSummary(period.String(), req.Department) })
	run(func() { resp.Trend = reader.GetTrendData(req.Department, nil) })
	run(func() { resp.MonthlyTrend = reader.GetMonthlyTrend(req.Department) })
	run(func() { resp.StarterTermination = reader.GetStarterTerminationCounts(period.String()) })
	run(func() { resp.Locations = reader.GetLocationAnalysis(period.String()) })
	run(func() { resp.AvailableDates = reader.GetAvailableDates() })

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return resp, nil
}
