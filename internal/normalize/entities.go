package normalize

import (
	"strings"

	"github.com/senyabanana/bid-dashboard/internal/models"

	"github.com/shopspring/decimal"
)

// PriceFields - порядок полей, из которых берётся цена предложения.
var PriceFields = []string{"totalPrice", "totalprice", "amount", "price", "offer", "bidAmount", "offerAmount"}

// Поля суммы чека: сначала в центах, затем в десятичном виде.
var (
	CentsAmountFields   = []string{"amountCents", "totalCents", "amount_cents", "priceCents"}
	DecimalAmountFields = []string{"amount", "totalAmount", "totalPrice", "totalprice", "total", "price", "paidAmount"}
)

const defaultDeliveryTime = "TBD"

// Request нормализует заявку покупателя.
func Request(obj Object) models.Request {
	req := models.Request{
		ID:            FirstID(obj, "_id", "id"),
		BuyerID:       FirstID(obj, "buyerId", "buyer", "userId", "user"),
		ProductName:   FirstString(obj, "productName", "title", "name", "product"),
		Category:      category(obj["category"]),
		Status:        FirstString(obj, "status"),
		PaymentStatus: FirstString(obj, "paymentStatus"),
		IsPaid:        Bool(obj["isPaid"]),
		Paid:          Bool(obj["paid"]),
		ReceiptID:     FirstID(obj, "receiptId", "receipt"),
	}
	if qty, ok := FirstNumber(obj, "quantity", "qty"); ok {
		req.Quantity = qty
	}
	if t, ok := Time(obj["createdAt"]); ok {
		req.CreatedAt = t
	}
	return req
}

// Requests разворачивает список заявок.
func Requests(payload any) []models.Request {
	objects := List(payload, "requests", "data")
	requests := make([]models.Request, 0, len(objects))
	for _, obj := range objects {
		requests = append(requests, Request(obj))
	}
	return requests
}

// Bid нормализует предложение продавца. Продавец может прийти строкой или объектом.
func Bid(obj Object) models.Bid {
	bid := models.Bid{
		ID:           FirstID(obj, "_id", "id"),
		RequestID:    FirstID(obj, "requestId", "request"),
		DeliveryTime: FirstString(obj, "deliveryTime", "delivery", "deliveryDate"),
		Accepted: Bool(obj["accepted"]) || Bool(obj["isAccepted"]) ||
			strings.EqualFold(FirstString(obj, "status"), "accepted"),
		SellerName: FirstString(obj, "sellerName"),
	}
	if bid.DeliveryTime == "" {
		bid.DeliveryTime = defaultDeliveryTime
	}

	for _, key := range []string{"seller", "sellerId", "sellerID"} {
		switch seller := obj[key].(type) {
		case map[string]any:
			bid.SellerID = FirstID(seller, "_id", "id")
			if bid.SellerName == "" {
				bid.SellerName = FirstString(seller, "name", "username", "companyName")
			}
			if rating, ok := FirstNumber(seller, "rating", "averageRating"); ok {
				bid.SellerRating = &rating
			}
		default:
			bid.SellerID = ID(seller)
		}
		if bid.SellerID != "" {
			break
		}
	}
	if rating, ok := Number(obj["sellerRating"]); ok {
		bid.SellerRating = &rating
	}

	if unit, ok := FirstNumber(obj, "unitPrice", "pricePerUnit"); ok {
		bid.UnitPrice = &unit
	}
	if price, ok := FirstNumber(obj, PriceFields...); ok {
		bid.Price = &price
	}
	return bid
}

// Bids разворачивает список предложений из массива или контейнера bids/offers/data.
func Bids(payload any) []models.Bid {
	objects := List(payload, "bids", "offers", "data")
	bids := make([]models.Bid, 0, len(objects))
	for _, obj := range objects {
		bids = append(bids, Bid(obj))
	}
	return bids
}

// Receipt нормализует чек, приводя сумму к одному десятичному значению.
func Receipt(obj Object) models.Receipt {
	receipt := models.Receipt{
		ID:           FirstID(obj, "_id", "id"),
		RequestID:    FirstID(obj, "requestId", "request"),
		BidID:        FirstID(obj, "bidId", "bid"),
		BuyerID:      FirstID(obj, "buyerId", "buyer"),
		SellerID:     FirstID(obj, "sellerId", "seller"),
		Currency:     FirstString(obj, "currency"),
		Status:       FirstString(obj, "status"),
		BuyerViewed:  Bool(obj["buyerViewed"]) || Bool(obj["viewedByBuyer"]),
		SellerViewed: Bool(obj["sellerViewed"]) || Bool(obj["viewedBySeller"]),
		Rating:       rating(obj["rating"]),
		Timestamp:    FirstTime(obj, "createdAt", "date", "updatedAt"),
	}
	if amount, ok := ResolveAmount(obj); ok {
		receipt.Amount = decimal.NewNullDecimal(amount)
	}
	receipt.DisplayAmount = FormatAmount(receipt.Amount)
	return receipt
}

// Receipts разворачивает список чеков.
func Receipts(payload any) []models.Receipt {
	objects := List(payload, "receipts", "data")
	receipts := make([]models.Receipt, 0, len(objects))
	for _, obj := range objects {
		receipts = append(receipts, Receipt(obj))
	}
	return receipts
}

// ResolveAmount берёт сумму в центах (делённую на 100), иначе первое десятичное поле.
func ResolveAmount(obj Object) (decimal.Decimal, bool) {
	if cents, ok := FirstNumber(obj, CentsAmountFields...); ok {
		return decimal.NewFromFloat(cents).Div(decimal.NewFromInt(100)), true
	}
	if amount, ok := FirstNumber(obj, DecimalAmountFields...); ok {
		return decimal.NewFromFloat(amount), true
	}
	return decimal.Decimal{}, false
}

// FormatAmount форматирует сумму с двумя знаками или возвращает "N/A".
func FormatAmount(amount decimal.NullDecimal) string {
	if !amount.Valid {
		return models.NotAvailable
	}
	return amount.Decimal.StringFixed(2)
}

// User нормализует профиль; ответ может быть обёрнут в {"user": {...}}.
func User(payload any) models.User {
	obj, _ := payload.(map[string]any)
	if inner, ok := obj["user"].(map[string]any); ok {
		obj = inner
	}
	user := models.User{
		ID:    FirstID(obj, "_id", "id"),
		Name:  FirstString(obj, "name", "username", "fullName"),
		Email: FirstString(obj, "email"),
		Role:  FirstString(obj, "role", "userType"),
	}
	if user.Name == "" {
		user.Name = strings.TrimSpace(FirstString(obj, "firstName") + " " + FirstString(obj, "lastName"))
	}
	if r, ok := FirstNumber(obj, "rating", "averageRating"); ok {
		user.Rating = &r
	}
	return user
}

func category(v any) string {
	if obj, ok := v.(map[string]any); ok {
		return FirstString(obj, "name", "title")
	}
	return String(v)
}

func rating(v any) *models.Rating {
	switch r := v.(type) {
	case map[string]any:
		value, ok := Number(r["value"])
		if !ok {
			return nil
		}
		out := &models.Rating{Value: value, Comment: FirstString(r, "comment")}
		if reasons, ok := r["reasons"].([]any); ok {
			for _, reason := range reasons {
				if s := String(reason); s != "" {
					out.Reasons = append(out.Reasons, s)
				}
			}
		}
		return out
	default:
		if value, ok := Number(v); ok {
			return &models.Rating{Value: value}
		}
		return nil
	}
}
