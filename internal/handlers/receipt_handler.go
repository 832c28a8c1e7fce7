package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/senyabanana/bid-dashboard/internal/models"
	"github.com/senyabanana/bid-dashboard/internal/services"
	"github.com/senyabanana/bid-dashboard/internal/utils"
)

// ReceiptHandler - обработчик запросов по чекам.
type ReceiptHandler struct {
	Service *services.ReceiptService
	Logger  *slog.Logger
	Timeout time.Duration
}

// NewReceiptHandler создает новый экземпляр ReceiptHandler.
func NewReceiptHandler(service *services.ReceiptService, logger *slog.Logger, timeout time.Duration) *ReceiptHandler {
	return &ReceiptHandler{
		Service: service,
		Logger:  logger,
		Timeout: timeout,
	}
}

// GetReceipts обрабатывает запросы списка чеков стороны.
func (h *ReceiptHandler) GetReceipts(w http.ResponseWriter, r *http.Request) {
	unviewed, err := utils.ParseBool(r.URL.Query().Get("unviewed"))
	if err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	receipts, err := h.Service.List(ctx, models.ReceiptRole(r.PathValue("role")), unviewed)
	if err != nil {
		utils.HandleServiceError(w, h.Logger, err, "failed to load receipts")
		return
	}
	utils.SendJSON(w, http.StatusOK, receipts)
}

// GetSummary обрабатывает запросы сводки по чекам.
func (h *ReceiptHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	summary, err := h.Service.Summary(ctx)
	if summary == nil {
		utils.HandleServiceError(w, h.Logger, err, "failed to load receipt summary")
		return
	}
	if err != nil {
		h.Logger.Warn("receipt summary is partial", "error", err)
	}
	utils.SendJSON(w, http.StatusOK, summary)
}

// MarkViewed обрабатывает отметку одного чека просмотренным.
func (h *ReceiptHandler) MarkViewed(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	role := models.ReceiptRole(r.PathValue("role"))
	if err := h.Service.MarkViewed(ctx, role, r.PathValue("receiptId")); err != nil {
		utils.HandleServiceError(w, h.Logger, err, "failed to mark receipt as viewed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MarkAllViewed обрабатывает отметку всех чеков стороны просмотренными.
func (h *ReceiptHandler) MarkAllViewed(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	remaining, err := h.Service.MarkAllViewed(ctx, models.ReceiptRole(r.PathValue("role")))
	if err != nil {
		utils.HandleServiceError(w, h.Logger, err, "failed to mark receipts as viewed")
		return
	}
	utils.SendJSON(w, http.StatusOK, map[string]int{"remainingUnviewed": remaining})
}

// RateReceipt обрабатывает выставление оценки по чеку.
func (h *ReceiptHandler) RateReceipt(w http.ResponseWriter, r *http.Request) {
	var input models.RatingInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	if err := h.Service.Rate(ctx, r.PathValue("receiptId"), input); err != nil {
		utils.HandleServiceError(w, h.Logger, err, "failed to submit rating")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
