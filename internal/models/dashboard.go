package models

// Dashboard - модель представления дашборда покупателя.
// Ошибки секций независимы: падение одной секции не мешает остальным.
type Dashboard struct {
	UserID        string                   `json:"userId"`
	Requests      []Request                `json:"requests"`
	RequestsError string                   `json:"requestsError,omitempty"`
	Offers        map[string]OffersSummary `json:"offers"`
	Receipts      *ReceiptSummary          `json:"receipts"`
	ReceiptsError string                   `json:"receiptsError,omitempty"`
}
