package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// NotAvailable показывается вместо суммы, которую не удалось определить.
const NotAvailable = "N/A"

// ReceiptRole - сторона сделки, с которой запрашиваются чеки.
type ReceiptRole string

const (
	BuyerRole  ReceiptRole = "buyer"
	SellerRole ReceiptRole = "seller"
)

// Valid проверяет, что роль известна.
func (r ReceiptRole) Valid() bool {
	return r == BuyerRole || r == SellerRole
}

// Rating - оценка, оставленная покупателем по сделке.
type Rating struct {
	Value   float64  `json:"value"`
	Reasons []string `json:"reasons,omitempty"`
	Comment string   `json:"comment,omitempty"`
}

// RatingInput - тело запроса на выставление оценки.
type RatingInput struct {
	Value   float64  `json:"value" validate:"required,gte=1,lte=10"`
	Reasons []string `json:"reasons" validate:"max=10,dive,required,max=200"`
	Comment string   `json:"comment" validate:"max=1000"`
}

// Receipt представляет запись об оплаченной сделке.
type Receipt struct {
	ID            string              `json:"id"`
	RequestID     string              `json:"requestId,omitempty"`
	BidID         string              `json:"bidId,omitempty"`
	BuyerID       string              `json:"buyerId"`
	SellerID      string              `json:"sellerId"`
	Amount        decimal.NullDecimal `json:"amount"`
	DisplayAmount string              `json:"displayAmount"`
	Currency      string              `json:"currency,omitempty"`
	Status        string              `json:"status,omitempty"`
	BuyerViewed   bool                `json:"buyerViewed"`
	SellerViewed  bool                `json:"sellerViewed"`
	Rating        *Rating             `json:"rating,omitempty"`
	Timestamp     time.Time           `json:"timestamp"`
}

// ViewedBy сообщает, просмотрен ли чек указанной стороной.
func (r Receipt) ViewedBy(role ReceiptRole) bool {
	if role == SellerRole {
		return r.SellerViewed
	}
	return r.BuyerViewed
}

// ReceiptSummary - сводка последних сделок и средней оценки продавца.
type ReceiptSummary struct {
	LastBuy       *Receipt `json:"lastBuy"`
	LastSell      *Receipt `json:"lastSell"`
	AverageRating float64  `json:"averageRating"`
	RatedCount    int      `json:"ratedCount"`
}
