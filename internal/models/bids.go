package models

// Bid представляет предложение продавца по заявке.
type Bid struct {
	ID           string   `json:"id"`
	RequestID    string   `json:"requestId"`
	SellerID     string   `json:"sellerId"`
	SellerName   string   `json:"sellerName,omitempty"`
	UnitPrice    *float64 `json:"unitPrice"`
	Price        *float64 `json:"price"`
	DeliveryTime string   `json:"deliveryTime"`
	Accepted     bool     `json:"accepted"`
	SellerRating *float64 `json:"sellerRating,omitempty"`
}

// OfferState - состояние загрузки предложений по одной заявке.
type OfferState string

const (
	OfferIdle    OfferState = "idle"    // Загрузка не начиналась
	OfferLoading OfferState = "loading" // Запрос в полёте
	OfferOK      OfferState = "ok"      // Предложения загружены
	OfferErr     OfferState = "err"     // Загрузка завершилась ошибкой
)

// OffersSummary - сводка предложений по заявке для карточки на дашборде.
type OffersSummary struct {
	RequestID   string     `json:"requestId"`
	Status      OfferState `json:"status"`
	OffersCount int        `json:"offersCount"`
	LowestOffer *float64   `json:"lowestOffer"`
	Error       string     `json:"error,omitempty"`
}
