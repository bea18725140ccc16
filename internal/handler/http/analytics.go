package http

import (
	"net/http"
	"strings"

	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/analytics"
	"github.com/cmlabs-hris/hr-analytics-go/internal/handler/http/response"
)

type AnalyticsHandler interface {
	Metrics(w http.ResponseWriter, r *http.Request)
	Departments(w http.ResponseWriter, r *http.Request)
	Trend(w http.ResponseWriter, r *http.Request)
	MonthlyTrend(w http.ResponseWriter, r *http.Request)
	Dates(w http.ResponseWriter, r *http.Request)
	EmployeeCount(w http.ResponseWriter, r *http.Request)
	StarterTermination(w http.ResponseWriter, r *http.Request)
	Locations(w http.ResponseWriter, r *http.Request)
	Tree(w http.ResponseWriter, r *http.Request)
}

type analyticsHandlerImpl struct {
	analyticsService analytics.Service
}

func NewAnalyticsHandler(analyticsService analytics.Service) AnalyticsHandler {
	return &analyticsHandlerImpl{analyticsService: analyticsService}
}

// period defaults to overall when the query omits it.
func period(r *http.Request) string {
	if p := strings.TrimSpace(r.URL.Query().Get("period")); p != "" {
		return p
	}
	return analytics.PeriodOverall
}

func department(r *http.Request) string {
	return strings.TrimSpace(r.URL.Query().Get("department"))
}

// dates splits a comma separated list, dropping blanks.
func dates(r *http.Request) []string {
	raw := r.URL.Query().Get("dates")
	if raw == "" {
		return nil
	}
	var out []string
	for _, d := range strings.Split(raw, ",") {
		if d = strings.TrimSpace(d); d != "" {
			out = append(out, d)
		}
	}
	return out
}

// Metrics implements AnalyticsHandler.
func (h *analyticsHandlerImpl) Metrics(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.analyticsService.Current().GetMetricsSummary(period(r), department(r)))
}

// Departments implements AnalyticsHandler.
func (h *analyticsHandlerImpl) Departments(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.analyticsService.Current().GetDepartmentSummary(period(r), department(r)))
}

// Trend implements AnalyticsHandler.
func (h *analyticsHandlerImpl) Trend(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.analyticsService.Current().GetTrendData(department(r), dates(r)))
}

// MonthlyTrend implements AnalyticsHandler.
func (h *analyticsHandlerImpl) MonthlyTrend(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.analyticsService.Current().GetMonthlyTrend(department(r)))
}

// Dates implements AnalyticsHandler.
func (h *analyticsHandlerImpl) Dates(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.analyticsService.Current().GetAvailableDates())
}

// EmployeeCount implements AnalyticsHandler.
func (h *analyticsHandlerImpl) EmployeeCount(w http.ResponseWriter, r *http.Request) {
	dept := department(r)
	response.Success(w, map[string]any{
		"department": dept,
		"count":      h.analyticsService.Current().GetEmployeeCount(dept),
	})
}

// StarterTermination implements AnalyticsHandler.
func (h *analyticsHandlerImpl) StarterTermination(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.analyticsService.Current().GetStarterTerminationCounts(period(r)))
}

// Locations implements AnalyticsHandler.
func (h *analyticsHandlerImpl) Locations(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.analyticsService.Current().GetLocationAnalysis(period(r)))
}

// Tree implements AnalyticsHandler.
func (h *analyticsHandlerImpl) Tree(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.analyticsService.Current().GetDepartmentTree(period(r)))
}
