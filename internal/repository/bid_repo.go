package repository

import (
	"context"
	"net/url"
	"strings"

	"github.com/senyabanana/bid-dashboard/internal/models"
	"github.com/senyabanana/bid-dashboard/internal/normalize"
)

// requestIDPlaceholder подставляется в шаблоны маршрутов предложений.
const requestIDPlaceholder = "{requestId}"

// BidRepository - интерфейс для работы с предложениями.
type BidRepository interface {
	GetRequestBids(ctx context.Context, requestID string) ([]models.Bid, error)
	AcceptBid(ctx context.Context, bidID string) error
}

// HTTPBidRepository - реализация BidRepository поверх API площадки.
type HTTPBidRepository struct {
	API        Backend
	Candidates []string
}

// NewHTTPBidRepository создает новый экземпляр HTTPBidRepository.
// candidates - шаблоны маршрутов с плейсхолдером {requestId}, перебираемые по порядку.
func NewHTTPBidRepository(api Backend, candidates []string) *HTTPBidRepository {
	return &HTTPBidRepository{API: api, Candidates: candidates}
}

// GetRequestBids возвращает предложения по заявке с первого ответившего маршрута.
func (r *HTTPBidRepository) GetRequestBids(ctx context.Context, requestID string) ([]models.Bid, error) {
	payload, err := r.API.GetWithFallback(ctx, r.paths(requestID))
	if err != nil {
		return nil, err
	}
	return normalize.Bids(payload), nil
}

// AcceptBid принимает предложение.
func (r *HTTPBidRepository) AcceptBid(ctx context.Context, bidID string) error {
	_, err := r.API.Put(ctx, "/api/bids/"+url.PathEscape(bidID)+"/accept", nil)
	return err
}

func (r *HTTPBidRepository) paths(requestID string) []string {
	escaped := url.PathEscape(requestID)
	paths := make([]string, 0, len(r.Candidates))
	for _, candidate := range r.Candidates {
		paths = append(paths, strings.ReplaceAll(candidate, requestIDPlaceholder, escaped))
	}
	return paths
}
