package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/hr-analytics-go/internal/handler/http/response"
)

type DashboardHandler interface {
	GetDashboard(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	dashboardService dashboard.DashboardService
}

func NewDashboardHandler(dashboardService dashboard.DashboardService) DashboardHandler {
	return &dashboardHandlerImpl{dashboardService: dashboardService}
}

// GetDashboard implements DashboardHandler.
func (h *dashboardHandlerImpl) GetDashboard(w http.ResponseWriter, r *http.Request) {
	req := dashboard.DashboardRequest{
		Period:     period(r),
		Department: department(r),
	}

	resp, err := h.dashboardService.GetDashboard(r.Context(), req)
	if err != nil {
		slog.Error("GetDashboard service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}
