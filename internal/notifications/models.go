package notifications

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventTypePurchaseCompleted EventType = "PURCHASE_COMPLETED"
)

// PurchaseEvent is published once seats are assigned and the account charged
type PurchaseEvent struct {
	ID        uuid.UUID      `json:"id"`
	Type      EventType      `json:"type"`
	AccountID int64          `json:"account_id"`
	SeatIDs   []string       `json:"seat_ids"`
	Tickets   map[string]int `json:"tickets"`
	TotalCost float64        `json:"total_cost"`
	CreatedAt time.Time      `json:"created_at"`
}

// NewPurchaseEvent creates a purchase completed event
func NewPurchaseEvent(accountID int64, seatIDs []string, tickets map[string]int, totalCost float64) *PurchaseEvent {
	return &PurchaseEvent{
		ID:        uuid.New(),
		Type:      EventTypePurchaseCompleted,
		AccountID: accountID,
		SeatIDs:   seatIDs,
		Tickets:   tickets,
		TotalCost: totalCost,
		CreatedAt: time.Now().UTC(),
	}
}

// ToJSON serializes the event for the wire
func (e *PurchaseEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// GetPartitionKey keeps every event for one account on the same partition
func (e *PurchaseEvent) GetPartitionKey() string {
	return strconv.FormatInt(e.AccountID, 10)
}
