package models

import "time"

// Request представляет заявку покупателя, открытую для предложений продавцов.
type Request struct {
	ID            string    `json:"id"`
	BuyerID       string    `json:"buyerId"`
	ProductName   string    `json:"productName"`
	Category      string    `json:"category"`
	Quantity      float64   `json:"quantity"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"paymentStatus,omitempty"`
	IsPaid        bool      `json:"isPaid"`
	Paid          bool      `json:"paid"`
	ReceiptID     string    `json:"receiptId,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ShortID возвращает суффикс идентификатора, который показывается в карточке заявки.
func (r Request) ShortID() string {
	const suffixLen = 6
	if len(r.ID) <= suffixLen {
		return r.ID
	}
	return r.ID[len(r.ID)-suffixLen:]
}
