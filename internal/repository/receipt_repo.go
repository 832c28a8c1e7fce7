package repository

import (
	"context"
	"net/url"

	"github.com/senyabanana/bid-dashboard/internal/models"
	"github.com/senyabanana/bid-dashboard/internal/normalize"
)

// ReceiptRepository - интерфейс для работы с чеками.
type ReceiptRepository interface {
	GetReceipts(ctx context.Context, role models.ReceiptRole, unviewedOnly bool) ([]models.Receipt, error)
	MarkViewed(ctx context.Context, role models.ReceiptRole, receiptID string) error
	MarkAllViewed(ctx context.Context, role models.ReceiptRole) error
	Rate(ctx context.Context, receiptID string, rating models.RatingInput) error
}

// HTTPReceiptRepository - реализация ReceiptRepository поверх API площадки.
type HTTPReceiptRepository struct {
	API Backend
}

// NewHTTPReceiptRepository создает новый экземпляр HTTPReceiptRepository.
func NewHTTPReceiptRepository(api Backend) *HTTPReceiptRepository {
	return &HTTPReceiptRepository{API: api}
}

// GetReceipts возвращает чеки покупателя или продавца.
func (r *HTTPReceiptRepository) GetReceipts(ctx context.Context, role models.ReceiptRole, unviewedOnly bool) ([]models.Receipt, error) {
	path := "/api/receipts/" + string(role)
	if unviewedOnly {
		path += "?unviewed=true"
	}
	payload, err := r.API.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	return normalize.Receipts(payload), nil
}

// MarkViewed отмечает чек просмотренным указанной стороной.
func (r *HTTPReceiptRepository) MarkViewed(ctx context.Context, role models.ReceiptRole, receiptID string) error {
	path := "/api/receipts/" + url.PathEscape(receiptID) + "/viewed?role=" + url.QueryEscape(string(role))
	_, err := r.API.Put(ctx, path, nil)
	return err
}

// MarkAllViewed отмечает все чеки стороны просмотренными.
func (r *HTTPReceiptRepository) MarkAllViewed(ctx context.Context, role models.ReceiptRole) error {
	_, err := r.API.Put(ctx, "/api/receipts/"+string(role)+"/mark-all-read", nil)
	return err
}

// Rate отправляет оценку по чеку.
func (r *HTTPReceiptRepository) Rate(ctx context.Context, receiptID string, rating models.RatingInput) error {
	_, err := r.API.Post(ctx, "/api/receipts/"+url.PathEscape(receiptID)+"/rating", rating)
	return err
}
