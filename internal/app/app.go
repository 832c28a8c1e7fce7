// Package app wires storage, identity, the backend client, services and handlers together.
package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/senyabanana/bid-dashboard/internal/apiclient"
	"github.com/senyabanana/bid-dashboard/internal/handlers"
	"github.com/senyabanana/bid-dashboard/internal/identity"
	"github.com/senyabanana/bid-dashboard/internal/repository"
	"github.com/senyabanana/bid-dashboard/internal/router"
	"github.com/senyabanana/bid-dashboard/internal/router/config"
	"github.com/senyabanana/bid-dashboard/internal/services"
	"github.com/senyabanana/bid-dashboard/internal/storage"

	"github.com/go-playground/validator/v10"
)

// App - собранное приложение.
type App struct {
	Config    config.Config
	ConfigErr error
	Logger    *slog.Logger
	Store     storage.Storage
	Identity  *identity.Context
	Client    *apiclient.Client

	Sessions  *services.SessionService
	Users     *services.UserService
	Requests  *services.RequestService
	Offers    *services.OfferService
	Bids      *services.BidService
	Receipts  *services.ReceiptService
	Dashboard *services.DashboardService
}

// New открывает клиентское хранилище и собирает приложение.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	store, err := storage.New(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return NewWithStorage(cfg, store, logger), nil
}

// NewWithStorage собирает приложение поверх готового хранилища.
// Ошибка адреса бэкенда не мешает сборке: она хранится в ConfigErr и показывается пользователю.
func NewWithStorage(cfg config.Config, store storage.Storage, logger *slog.Logger) *App {
	baseURL, configErr := cfg.ResolveBaseURL()
	if configErr != nil {
		logger.Error("backend is not configured", "error", configErr)
	}

	id := identity.New(store)
	client := apiclient.NewClient(baseURL, id, logger).WithRateLimit(cfg.OutboundRPS)
	validate := validator.New()

	requestRepo := repository.NewHTTPRequestRepository(client)
	bidRepo := repository.NewHTTPBidRepository(client, cfg.BidsCandidates())
	receiptRepo := repository.NewHTTPReceiptRepository(client)
	userRepo := repository.NewHTTPUserRepository(client)

	requests := services.NewRequestService(requestRepo, id)
	offers := services.NewOfferService(bidRepo, cfg.OffersConcurrency, logger)
	receipts := services.NewReceiptService(receiptRepo, validate)

	return &App{
		Config:    cfg,
		ConfigErr: configErr,
		Logger:    logger,
		Store:     store,
		Identity:  id,
		Client:    client,
		Sessions:  services.NewSessionService(userRepo, id, validate, cfg.AuthTimeout),
		Users:     services.NewUserService(userRepo, id),
		Requests:  requests,
		Offers:    offers,
		Bids:      services.NewBidService(bidRepo, offers, id),
		Receipts:  receipts,
		Dashboard: services.NewDashboardService(requests, offers, receipts, id, logger),
	}
}

// Handler возвращает HTTP-обработчик локального API.
func (a *App) Handler() http.Handler {
	timeout := a.Config.RequestTimeout
	return router.InitRoutes(
		a.ConfigErr,
		handlers.NewSessionHandler(a.Sessions, a.Users, a.Logger, a.Config.AuthTimeout+timeout),
		handlers.NewDashboardHandler(a.Dashboard, a.Requests, a.Logger, timeout),
		handlers.NewBidHandler(a.Bids, a.Logger, timeout),
		handlers.NewReceiptHandler(a.Receipts, a.Logger, timeout),
	)
}

// Close освобождает хранилище.
func (a *App) Close() error {
	return a.Store.Close()
}

// NewLogger создает slog-логгер по уровню и формату из конфигурации.
func NewLogger(level, format string, w io.Writer) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}
	if strings.EqualFold(strings.TrimSpace(format), "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
