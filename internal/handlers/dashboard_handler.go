package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/senyabanana/bid-dashboard/internal/services"
	"github.com/senyabanana/bid-dashboard/internal/utils"
)

// DashboardHandler отдаёт дашборд и список активных заявок.
type DashboardHandler struct {
	Dashboard *services.DashboardService
	Requests  *services.RequestService
	Logger    *slog.Logger
	Timeout   time.Duration
}

// NewDashboardHandler создает новый экземпляр DashboardHandler.
func NewDashboardHandler(dashboard *services.DashboardService, requests *services.RequestService, logger *slog.Logger, timeout time.Duration) *DashboardHandler {
	return &DashboardHandler{
		Dashboard: dashboard,
		Requests:  requests,
		Logger:    logger,
		Timeout:   timeout,
	}
}

// GetDashboard обрабатывает запросы дашборда. refresh=true начинает новый показ.
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	refresh, err := utils.ParseBool(r.URL.Query().Get("refresh"))
	if err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	dashboard, err := h.Dashboard.Load(ctx, r.URL.Query().Get("search"), refresh)
	if err != nil {
		utils.HandleServiceError(w, h.Logger, err, "failed to load dashboard")
		return
	}
	utils.SendJSON(w, http.StatusOK, dashboard)
}

// GetRequests обрабатывает запросы списка активных заявок.
func (h *DashboardHandler) GetRequests(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := utils.ParseLimitOffset(r.URL.Query().Get("limit"), r.URL.Query().Get("offset"))
	if err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	requests, err := h.Requests.ActiveRequests(ctx, r.URL.Query().Get("search"))
	if err != nil {
		utils.HandleServiceError(w, h.Logger, err, "failed to load requests")
		return
	}
	utils.SendJSON(w, http.StatusOK, utils.Paginate(requests, limit, offset))
}
