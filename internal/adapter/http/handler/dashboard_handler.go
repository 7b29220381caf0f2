package handler

import (
	"context"
	"net/http"

	"github.com/relaypoint/relaypoint/internal/infrastructure/metrics"
	"github.com/relaypoint/relaypoint/internal/usecase"
)

// ReportService defines the behavior needed by DashboardHandler.
type ReportService interface {
	Dashboard(ctx context.Context, query usecase.DashboardQuery) (*usecase.DashboardReport, bool, error)
}

// DashboardHandler serves the admin statistics dashboard.
type DashboardHandler struct {
	reports ReportService
	metrics *metrics.Metrics
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(reports ReportService, m *metrics.Metrics) *DashboardHandler {
	return &DashboardHandler{reports: reports, metrics: m}
}

// Dashboard computes the report for the requested window. Zero year or
// month fall back to the current date.
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	query := usecase.DashboardQuery{
		Year:  parseIntQuery(r, "year", 0),
		Month: parseIntQuery(r, "month", 0),
		View:  r.URL.Query().Get("view"),
	}

	report, cached, err := h.reports.Dashboard(r.Context(), query)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to build dashboard", err.Error())
		return
	}

	if h.metrics != nil {
		cache := "miss"
		if cached {
			cache = "hit"
		}
		h.metrics.DashboardQueries.WithLabelValues(report.View, cache).Inc()
	}

	writeJSON(w, http.StatusOK, report)
}
