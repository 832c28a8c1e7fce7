package repository

import (
	"context"
	"net/url"

	"github.com/senyabanana/bid-dashboard/internal/models"
	"github.com/senyabanana/bid-dashboard/internal/normalize"
)

// RequestRepository - интерфейс для работы с заявками.
type RequestRepository interface {
	GetBuyerRequests(ctx context.Context, buyerID string) ([]models.Request, error)
}

// HTTPRequestRepository - реализация RequestRepository поверх API площадки.
type HTTPRequestRepository struct {
	API Backend
}

// NewHTTPRequestRepository создает новый экземпляр HTTPRequestRepository.
func NewHTTPRequestRepository(api Backend) *HTTPRequestRepository {
	return &HTTPRequestRepository{API: api}
}

// GetBuyerRequests возвращает все заявки покупателя.
func (r *HTTPRequestRepository) GetBuyerRequests(ctx context.Context, buyerID string) ([]models.Request, error) {
	payload, err := r.API.Get(ctx, "/api/requests/buyer/"+url.PathEscape(buyerID))
	if err != nil {
		return nil, err
	}
	return normalize.Requests(payload), nil
}
