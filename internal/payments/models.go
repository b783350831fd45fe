package payments

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Status string

// StatusCompleted marks a charge that was taken from the account
const StatusCompleted Status = "COMPLETED"

// Charge records money taken from an account for a ticket purchase
type Charge struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	AccountID     int64      `gorm:"index;not null" json:"account_id"`
	Amount        float64    `gorm:"not null" json:"amount"`
	Currency      string     `gorm:"type:varchar(3);default:'GBP'" json:"currency"`
	Status        Status     `gorm:"type:varchar(20);default:'COMPLETED'" json:"status"`
	TransactionID string     `gorm:"uniqueIndex;not null" json:"transaction_id"`
	ProcessedAt   *time.Time `json:"processed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TableName sets the table name for Charge
func (Charge) TableName() string {
	return "charges"
}

// BeforeCreate assigns the primary key so the model works on any dialect
func (c *Charge) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// ChargeInfo represents charge information in responses
type ChargeInfo struct {
	ID            string     `json:"id"`
	Amount        float64    `json:"amount"`
	Currency      string     `json:"currency"`
	Status        string     `json:"status"`
	TransactionID string     `json:"transaction_id"`
	ProcessedAt   *time.Time `json:"processed_at,omitempty"`
}

// ToChargeInfo converts a Charge for API responses
func (c *Charge) ToChargeInfo() ChargeInfo {
	return ChargeInfo{
		ID:            c.ID.String(),
		Amount:        c.Amount,
		Currency:      c.Currency,
		Status:        string(c.Status),
		TransactionID: c.TransactionID,
		ProcessedAt:   c.ProcessedAt,
	}
}
