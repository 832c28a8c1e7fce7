package services

import (
	"context"
	"log/slog"

	"github.com/senyabanana/bid-dashboard/internal/apiclient"
	"github.com/senyabanana/bid-dashboard/internal/models"

	"github.com/sourcegraph/conc"
)

// DashboardService собирает дашборд из независимых секций.
type DashboardService struct {
	Requests *RequestService
	Offers   *OfferService
	Receipts *ReceiptService
	Identity Identity
	logger   *slog.Logger
}

// NewDashboardService создает новый экземпляр DashboardService.
func NewDashboardService(requests *RequestService, offers *OfferService, receipts *ReceiptService, identity Identity, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{
		Requests: requests,
		Offers:   offers,
		Receipts: receipts,
		Identity: identity,
		logger:   logger,
	}
}

// Load строит дашборд. refresh начинает новое поколение загрузок предложений.
// Ошибка секции попадает в модель; наружу возвращается только отсутствие авторизации.
func (s *DashboardService) Load(ctx context.Context, search string, refresh bool) (*models.Dashboard, error) {
	userID, err := s.Identity.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	if refresh {
		s.Offers.NewGeneration()
	}

	dashboard := &models.Dashboard{
		UserID:   userID,
		Requests: []models.Request{},
		Offers:   map[string]models.OffersSummary{},
	}

	var wg conc.WaitGroup
	var requestsErr error
	wg.Go(func() {
		requests, err := s.Requests.LoadActiveRequests(ctx, userID)
		if err != nil {
			requestsErr = err
			return
		}
		dashboard.Requests = Search(requests, search)
		ids := make([]string, 0, len(dashboard.Requests))
		for _, req := range dashboard.Requests {
			ids = append(ids, req.ID)
		}
		dashboard.Offers = s.Offers.LoadAll(ctx, ids)
	})
	wg.Go(func() {
		summary, err := s.Receipts.Summary(ctx)
		dashboard.Receipts = summary
		if err != nil {
			s.logger.Warn("failed to load receipts", "user_id", userID, "error", err)
			dashboard.ReceiptsError = err.Error()
		}
	})
	wg.Wait()

	if requestsErr != nil {
		if apiclient.IsAuthError(requestsErr) {
			return nil, requestsErr
		}
		s.logger.Warn("failed to load requests", "user_id", userID, "error", requestsErr)
		dashboard.RequestsError = requestsErr.Error()
	}
	return dashboard, nil
}
