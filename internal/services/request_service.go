package services

import (
	"context"
	"strings"

	"github.com/senyabanana/bid-dashboard/internal/models"
	"github.com/senyabanana/bid-dashboard/internal/repository"
)

// excludedStatusFragments ищутся в статусе заявки как подстроки без учёта регистра.
var excludedStatusFragments = []string{"paid", "awarded", "closed", "completed", "expired", "canceled", "cancelled"}

// RequestService отдаёт активные заявки покупателя.
type RequestService struct {
	Repo     repository.RequestRepository
	Identity Identity
}

// NewRequestService создает новый экземпляр RequestService.
func NewRequestService(repo repository.RequestRepository, identity Identity) *RequestService {
	return &RequestService{Repo: repo, Identity: identity}
}

// IsExcluded сообщает, что заявка оплачена, закрыта или отменена и не показывается среди активных.
func IsExcluded(req models.Request) bool {
	if req.IsPaid || req.Paid || req.ReceiptID != "" {
		return true
	}
	if strings.EqualFold(strings.TrimSpace(req.PaymentStatus), "paid") {
		return true
	}
	status := strings.ToLower(req.Status)
	for _, fragment := range excludedStatusFragments {
		if strings.Contains(status, fragment) {
			return true
		}
	}
	return false
}

// FilterActive оставляет только активные заявки, сохраняя порядок.
func FilterActive(requests []models.Request) []models.Request {
	active := make([]models.Request, 0, len(requests))
	for _, req := range requests {
		if !IsExcluded(req) {
			active = append(active, req)
		}
	}
	return active
}

// Search фильтрует заявки по суффиксу идентификатора, названию и категории.
func Search(requests []models.Request, query string) []models.Request {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return requests
	}
	found := make([]models.Request, 0, len(requests))
	for _, req := range requests {
		if strings.Contains(strings.ToLower(req.ShortID()), query) ||
			strings.Contains(strings.ToLower(req.ProductName), query) ||
			strings.Contains(strings.ToLower(req.Category), query) {
			found = append(found, req)
		}
	}
	return found
}

// LoadActiveRequests загружает заявки покупателя и отбрасывает неактивные.
// При ошибке возвращается пустой список вместе с ошибкой.
func (s *RequestService) LoadActiveRequests(ctx context.Context, buyerID string) ([]models.Request, error) {
	requests, err := s.Repo.GetBuyerRequests(ctx, buyerID)
	if err != nil {
		return []models.Request{}, err
	}
	return FilterActive(requests), nil
}

// ActiveRequests возвращает активные заявки текущего пользователя с учётом поиска.
func (s *RequestService) ActiveRequests(ctx context.Context, search string) ([]models.Request, error) {
	buyerID, err := s.Identity.RequireUser(ctx)
	if err != nil {
		return []models.Request{}, err
	}
	requests, err := s.LoadActiveRequests(ctx, buyerID)
	if err != nil {
		return requests, err
	}
	return Search(requests, search), nil
}
