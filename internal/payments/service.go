package payments

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidAmount = errors.New("charge amount must be a non-negative number")

// Service charges accounts and keeps a ledger of what was taken
type Service interface {
	ChargeAccount(ctx context.Context, accountID int64, amount float64) error
	ChargesForAccount(ctx context.Context, accountID int64, limit, offset int) ([]Charge, int64, error)
}

type service struct {
	repo     Repository
	currency string
	now      func() time.Time
}

// NewService creates a ledger-backed payment service
func NewService(repo Repository, currency string) Service {
	if currency == "" {
		currency = "GBP"
	}
	return &service{
		repo:     repo,
		currency: strings.ToUpper(currency),
		now:      time.Now,
	}
}

// ChargeAccount records a completed charge. Zero amounts are recorded too,
// which happens when an adult ticket is free.
func (s *service) ChargeAccount(ctx context.Context, accountID int64, amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		return ErrInvalidAmount
	}
	if accountID <= 0 {
		return fmt.Errorf("invalid account ID: %d", accountID)
	}

	processedAt := s.now()
	charge := &Charge{
		AccountID:     accountID,
		Amount:        roundAmount(amount),
		Currency:      s.currency,
		Status:        StatusCompleted,
		TransactionID: s.generateTransactionID(processedAt),
		ProcessedAt:   &processedAt,
	}

	if err := s.repo.CreateCharge(ctx, charge); err != nil {
		return fmt.Errorf("failed to record charge: %w", err)
	}
	return nil
}

func (s *service) ChargesForAccount(ctx context.Context, accountID int64, limit, offset int) ([]Charge, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	charges, total, err := s.repo.GetChargesByAccountID(ctx, accountID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get charges: %w", err)
	}
	return charges, total, nil
}

// generateTransactionID generates a ledger transaction ID
func (s *service) generateTransactionID(at time.Time) string {
	shortUUID := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("TXN_%d_%s", at.Unix(), strings.ToUpper(shortUUID))
}

// roundAmount keeps amounts to whole pennies
func roundAmount(amount float64) float64 {
	return math.Round(amount*100) / 100
}
