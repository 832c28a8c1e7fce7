package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"

	"github.com/senyabanana/bid-dashboard/internal/models"
	"github.com/senyabanana/bid-dashboard/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/sourcegraph/conc"
)

// Допустимый диапазон оценки продавца.
const (
	MinRating = 1.0
	MaxRating = 10.0
)

// ReceiptService работает с чеками и сводкой оценок.
type ReceiptService struct {
	Repo     repository.ReceiptRepository
	validate *validator.Validate
}

// NewReceiptService создает новый экземпляр ReceiptService.
func NewReceiptService(repo repository.ReceiptRepository, validate *validator.Validate) *ReceiptService {
	return &ReceiptService{Repo: repo, validate: validate}
}

// SortByTimestamp упорядочивает чеки от новых к старым.
func SortByTimestamp(receipts []models.Receipt) []models.Receipt {
	sorted := append([]models.Receipt(nil), receipts...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})
	return sorted
}

// AverageRating - среднее по оценкам в диапазоне [1, 10]. Без оценок результат 0.
func AverageRating(receipts []models.Receipt) (float64, int) {
	var sum float64
	var count int
	for _, receipt := range receipts {
		if receipt.Rating == nil {
			continue
		}
		value := receipt.Rating.Value
		if value < MinRating || value > MaxRating {
			continue
		}
		sum += value
		count++
	}
	if count == 0 {
		return 0, 0
	}
	return sum / float64(count), count
}

// Summarize собирает последнюю покупку, последнюю продажу и среднюю оценку продавца.
// Средняя считается по чекам продаж: это оценки, полученные пользователем.
func Summarize(buys, sells []models.Receipt) models.ReceiptSummary {
	var summary models.ReceiptSummary
	if sorted := SortByTimestamp(buys); len(sorted) > 0 {
		summary.LastBuy = &sorted[0]
	}
	if sorted := SortByTimestamp(sells); len(sorted) > 0 {
		summary.LastSell = &sorted[0]
	}
	summary.AverageRating, summary.RatedCount = AverageRating(sells)
	return summary
}

// List возвращает чеки стороны, от новых к старым.
func (s *ReceiptService) List(ctx context.Context, role models.ReceiptRole, unviewedOnly bool) ([]models.Receipt, error) {
	if !role.Valid() {
		return nil, invalidRole(role)
	}
	receipts, err := s.Repo.GetReceipts(ctx, role, unviewedOnly)
	if err != nil {
		return nil, err
	}
	return SortByTimestamp(receipts), nil
}

// MarkViewed отмечает один чек просмотренным.
func (s *ReceiptService) MarkViewed(ctx context.Context, role models.ReceiptRole, receiptID string) error {
	if !role.Valid() {
		return invalidRole(role)
	}
	if receiptID == "" {
		return models.NewErrorResponse(http.StatusBadRequest, "receipt id is required")
	}
	return s.Repo.MarkViewed(ctx, role, receiptID)
}

// MarkAllViewed отмечает все чеки стороны просмотренными и возвращает число оставшихся непросмотренных.
// Повторный вызов безопасен.
func (s *ReceiptService) MarkAllViewed(ctx context.Context, role models.ReceiptRole) (int, error) {
	if !role.Valid() {
		return 0, invalidRole(role)
	}
	if err := s.Repo.MarkAllViewed(ctx, role); err != nil {
		return 0, err
	}
	receipts, err := s.Repo.GetReceipts(ctx, role, true)
	if err != nil {
		return 0, err
	}
	remaining := 0
	for _, receipt := range receipts {
		if !receipt.ViewedBy(role) {
			remaining++
		}
	}
	return remaining, nil
}

// Rate проверяет и отправляет оценку по чеку.
func (s *ReceiptService) Rate(ctx context.Context, receiptID string, input models.RatingInput) error {
	if receiptID == "" {
		return models.NewErrorResponse(http.StatusBadRequest, "receipt id is required")
	}
	if err := s.validate.Struct(input); err != nil {
		return models.NewErrorResponse(http.StatusBadRequest, validationMessage(err)).WithCode("invalid_rating")
	}
	return s.Repo.Rate(ctx, receiptID, input)
}

// Summary загружает чеки покупок и продаж параллельно.
// Если упала одна сторона, сводка строится по второй и возвращается вместе с ошибкой.
func (s *ReceiptService) Summary(ctx context.Context) (*models.ReceiptSummary, error) {
	var (
		buys, sells       []models.Receipt
		buysErr, sellsErr error
		wg                conc.WaitGroup
	)
	wg.Go(func() {
		buys, buysErr = s.Repo.GetReceipts(ctx, models.BuyerRole, false)
	})
	wg.Go(func() {
		sells, sellsErr = s.Repo.GetReceipts(ctx, models.SellerRole, false)
	})
	wg.Wait()

	if buysErr != nil && sellsErr != nil {
		return nil, errors.Join(
			fmt.Errorf("buyer receipts: %w", buysErr),
			fmt.Errorf("seller receipts: %w", sellsErr),
		)
	}
	summary := Summarize(buys, sells)
	switch {
	case buysErr != nil:
		return &summary, fmt.Errorf("buyer receipts: %w", buysErr)
	case sellsErr != nil:
		return &summary, fmt.Errorf("seller receipts: %w", sellsErr)
	}
	return &summary, nil
}

func invalidRole(role models.ReceiptRole) *models.ErrorResponse {
	return models.NewErrorResponse(http.StatusBadRequest,
		fmt.Sprintf("invalid role %q. Must be 'buyer' or 'seller'", role))
}

func validationMessage(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return "invalid request body"
	}
	fe := validationErrors[0]
	return fmt.Sprintf("invalid field %s: failed on '%s'", fe.Field(), fe.Tag())
}
