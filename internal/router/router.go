package router

import (
	"net/http"

	"github.com/senyabanana/bid-dashboard/internal/handlers"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// InitRoutes регистрирует маршруты локального API дашборда.
// configErr != nil закрывает маршруты, которым нужен бэкенд.
func InitRoutes(configErr error, sessionHandler *handlers.SessionHandler, dashboardHandler *handlers.DashboardHandler,
	bidHandler *handlers.BidHandler, receiptHandler *handlers.ReceiptHandler) http.Handler {
	mux := http.NewServeMux()
	guard := RequireConfig(configErr)

	mux.HandleFunc("GET /api/ping", handlers.PingHandler)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /api/session/login", guard(sessionHandler.Login))
	mux.HandleFunc("POST /api/session/logout", sessionHandler.Logout)
	mux.HandleFunc("GET /api/session", sessionHandler.GetSession)
	mux.HandleFunc("GET /api/profile", guard(sessionHandler.GetProfile))

	mux.HandleFunc("GET /api/dashboard", guard(dashboardHandler.GetDashboard))
	mux.HandleFunc("GET /api/requests", guard(dashboardHandler.GetRequests))

	mux.HandleFunc("GET /api/requests/{requestId}/offers", guard(bidHandler.GetOffers))
	mux.HandleFunc("POST /api/requests/{requestId}/offers/retry", guard(bidHandler.RetryOffers))
	mux.HandleFunc("GET /api/requests/{requestId}/bids", guard(bidHandler.GetRequestBids))
	mux.HandleFunc("GET /api/requests/{requestId}/my-bid", guard(bidHandler.GetMyBid))
	mux.HandleFunc("PUT /api/bids/{bidId}/accept", guard(bidHandler.AcceptBid))

	mux.HandleFunc("GET /api/receipts/summary", guard(receiptHandler.GetSummary))
	mux.HandleFunc("GET /api/receipts/{role}", guard(receiptHandler.GetReceipts))
	mux.HandleFunc("PUT /api/receipts/{role}/viewed", guard(receiptHandler.MarkAllViewed))
	mux.HandleFunc("PUT /api/receipts/{role}/{receiptId}/viewed", guard(receiptHandler.MarkViewed))
	mux.HandleFunc("POST /api/receipts/{receiptId}/rating", guard(receiptHandler.RateReceipt))

	return Metrics(mux)
}
