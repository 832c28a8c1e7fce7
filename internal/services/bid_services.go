package services

import (
	"context"
	"net/http"

	"github.com/senyabanana/bid-dashboard/internal/models"
	"github.com/senyabanana/bid-dashboard/internal/repository"
)

// BidService работает с предложениями по заявкам.
type BidService struct {
	Repo     repository.BidRepository
	Offers   *OfferService
	Identity Identity
}

// NewBidService создает новый экземпляр BidService.
func NewBidService(repo repository.BidRepository, offers *OfferService, identity Identity) *BidService {
	return &BidService{Repo: repo, Offers: offers, Identity: identity}
}

// AcceptBid принимает предложение и сбрасывает сводку предложений по заявке.
func (s *BidService) AcceptBid(ctx context.Context, bidID, requestID string) error {
	if bidID == "" {
		return models.NewErrorResponse(http.StatusBadRequest, "bid id is required")
	}
	if _, err := s.Identity.RequireUser(ctx); err != nil {
		return err
	}
	if err := s.Repo.AcceptBid(ctx, bidID); err != nil {
		return err
	}
	if requestID != "" {
		s.Offers.Invalidate(requestID)
	}
	return nil
}

// GetRequestBids возвращает все предложения по заявке.
func (s *BidService) GetRequestBids(ctx context.Context, requestID string) ([]models.Bid, error) {
	if requestID == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "request id is required")
	}
	if _, err := s.Identity.RequireUser(ctx); err != nil {
		return nil, err
	}
	return s.Repo.GetRequestBids(ctx, requestID)
}

// MyBid возвращает предложение текущего пользователя по заявке.
// Если предложений несколько, побеждает последнее.
func (s *BidService) MyBid(ctx context.Context, requestID string) (*models.Bid, error) {
	if requestID == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "request id is required")
	}
	userID, err := s.Identity.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	bids, err := s.Repo.GetRequestBids(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if bid := LastBidBy(bids, userID); bid != nil {
		return bid, nil
	}
	return nil, models.NewErrorResponse(http.StatusNotFound, "bid not found")
}

// LastBidBy возвращает последнее предложение продавца из списка.
func LastBidBy(bids []models.Bid, sellerID string) *models.Bid {
	for i := len(bids) - 1; i >= 0; i-- {
		if bids[i].SellerID == sellerID {
			bid := bids[i]
			return &bid
		}
	}
	return nil
}

// OfferSummary возвращает сводку предложений по заявке, загружая её при необходимости.
func (s *BidService) OfferSummary(ctx context.Context, requestID string) (models.OffersSummary, error) {
	if _, err := s.Identity.RequireUser(ctx); err != nil {
		return models.OffersSummary{}, err
	}
	return s.Offers.Load(ctx, requestID), nil
}

// RetryOffers повторяет загрузку предложений только по этой заявке.
func (s *BidService) RetryOffers(ctx context.Context, requestID string) (models.OffersSummary, error) {
	if _, err := s.Identity.RequireUser(ctx); err != nil {
		return models.OffersSummary{}, err
	}
	return s.Offers.Retry(ctx, requestID), nil
}
