package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/senyabanana/bid-dashboard/internal/services"
	"github.com/senyabanana/bid-dashboard/internal/utils"
)

// BidHandler - структура для обработки HTTP-запросов.
type BidHandler struct {
	Service *services.BidService
	Logger  *slog.Logger
	Timeout time.Duration
}

// NewBidHandler создает новый экземпляр BidHandler.
func NewBidHandler(service *services.BidService, logger *slog.Logger, timeout time.Duration) *BidHandler {
	return &BidHandler{
		Service: service,
		Logger:  logger,
		Timeout: timeout,
	}
}

// GetOffers обрабатывает запросы сводки предложений по заявке.
func (h *BidHandler) GetOffers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	summary, err := h.Service.OfferSummary(ctx, r.PathValue("requestId"))
	if err != nil {
		utils.HandleServiceError(w, h.Logger, err, "failed to load offers")
		return
	}
	utils.SendJSON(w, http.StatusOK, summary)
}

// RetryOffers обрабатывает повтор загрузки предложений по одной заявке.
func (h *BidHandler) RetryOffers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	summary, err := h.Service.RetryOffers(ctx, r.PathValue("requestId"))
	if err != nil {
		utils.HandleServiceError(w, h.Logger, err, "failed to retry offers")
		return
	}
	utils.SendJSON(w, http.StatusOK, summary)
}

// GetRequestBids обрабатывает запросы списка предложений по заявке.
func (h *BidHandler) GetRequestBids(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	limit, offset, err := utils.ParseLimitOffset(r.URL.Query().Get("limit"), r.URL.Query().Get("offset"))
	if err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	bids, err := h.Service.GetRequestBids(ctx, r.PathValue("requestId"))
	if err != nil {
		utils.HandleServiceError(w, h.Logger, err, "failed to load bids")
		return
	}
	utils.SendJSON(w, http.StatusOK, utils.Paginate(bids, limit, offset))
}

// GetMyBid обрабатывает запросы предложения текущего пользователя по заявке.
func (h *BidHandler) GetMyBid(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	bid, err := h.Service.MyBid(ctx, r.PathValue("requestId"))
	if err != nil {
		utils.HandleServiceError(w, h.Logger, err, "failed to load bid")
		return
	}
	utils.SendJSON(w, http.StatusOK, bid)
}

// AcceptBid обрабатывает принятие предложения.
func (h *BidHandler) AcceptBid(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	requestID := r.URL.Query().Get("requestId")
	if err := h.Service.AcceptBid(ctx, r.PathValue("bidId"), requestID); err != nil {
		utils.HandleServiceError(w, h.Logger, err, "failed to accept bid")
		return
	}
	h.Logger.Info("bid accepted", "bid_id", r.PathValue("bidId"), "request_id", requestID)
	utils.SendJSON(w, http.StatusOK, map[string]string{"status": "accepted"})
}
