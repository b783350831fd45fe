package purchases

import "boxoffice/internal/payments"

type PurchaseResponse struct {
	AccountID int64          `json:"account_id"`
	SeatIDs   []string       `json:"seat_ids"`
	SeatCount int            `json:"seat_count"`
	TotalCost float64        `json:"total_cost"`
	Currency  string         `json:"currency"`
	Tickets   map[string]int `json:"tickets"`
}

type PriceListResponse struct {
	Prices     map[string]float64 `json:"prices"`
	Currency   string             `json:"currency"`
	MaxTickets int                `json:"max_tickets"`
}

type AccountSeatsResponse struct {
	AccountID int64    `json:"account_id"`
	SeatIDs   []string `json:"seat_ids"`
}

type ChargeListResponse struct {
	AccountID int64                 `json:"account_id"`
	Charges   []payments.ChargeInfo `json:"charges"`
	Total     int64                 `json:"total"`
	Limit     int                   `json:"limit"`
	Offset    int                   `json:"offset"`
}
