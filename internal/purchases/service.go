package purchases

import (
	"context"
	"fmt"

	"boxoffice/internal/notifications"
	"boxoffice/internal/payments"
	"boxoffice/internal/seating"
	"boxoffice/internal/tickets"
	"boxoffice/pkg/logger"
)

// TicketPurchaser is the purchase rule engine
type TicketPurchaser interface {
	PurchaseTickets(ctx context.Context, accountID any, requests ...tickets.TicketTypeRequest) (*tickets.Purchase, error)
	Prices() tickets.PriceTable
	MaxTickets() int
}

// SeatLookup reads the seat pool
type SeatLookup interface {
	AccountSeats(ctx context.Context, accountID int64) ([]string, error)
	Availability(ctx context.Context) (*seating.Availability, error)
}

// ChargeLookup reads an account's charge history
type ChargeLookup interface {
	ChargesForAccount(ctx context.Context, accountID int64, limit, offset int) ([]payments.Charge, int64, error)
}

type Service interface {
	Purchase(ctx context.Context, req PurchaseRequest) (*PurchaseResponse, error)
	PriceList() *PriceListResponse
	AccountSeats(ctx context.Context, accountID int64) (*AccountSeatsResponse, error)
	SeatAvailability(ctx context.Context) (*seating.Availability, error)
	AccountCharges(ctx context.Context, accountID int64, query ChargeListQuery) (*ChargeListResponse, error)
}

type service struct {
	purchaser TicketPurchaser
	seats     SeatLookup
	charges   ChargeLookup
	producer  notifications.PurchaseProducer
	currency  string
	logger    *logger.Logger
}

func NewService(purchaser TicketPurchaser, seats SeatLookup, charges ChargeLookup, producer notifications.PurchaseProducer, currency string, l *logger.Logger) Service {
	if producer == nil {
		producer = notifications.NoopProducer{}
	}
	if l == nil {
		l = logger.GetDefault()
	}
	return &service{
		purchaser: purchaser,
		seats:     seats,
		charges:   charges,
		producer:  producer,
		currency:  currency,
		logger:    l,
	}
}

func (s *service) Purchase(ctx context.Context, req PurchaseRequest) (*PurchaseResponse, error) {
	requests := make([]tickets.TicketTypeRequest, 0, len(req.Tickets))
	for _, t := range req.Tickets {
		ticketType, _ := tickets.ParseTicketType(t.Type)
		ticketRequest, err := tickets.NewTicketTypeRequest(ticketType, t.Quantity)
		if err != nil {
			return nil, err
		}
		requests = append(requests, ticketRequest)
	}

	purchase, err := s.purchaser.PurchaseTickets(ctx, req.AccountID, requests...)
	if err != nil {
		return nil, err
	}

	ticketCounts := make(map[string]int, len(purchase.Tickets))
	for ticketType, quantity := range purchase.Tickets {
		ticketCounts[ticketType.String()] = quantity
	}

	// The purchase is final once charged; a lost event must not undo it
	event := notifications.NewPurchaseEvent(purchase.AccountID, purchase.SeatIDs, ticketCounts, purchase.TotalCost)
	if err := s.producer.PublishPurchaseCompleted(ctx, event); err != nil {
		s.logger.ErrorWithContext(ctx, "Failed to publish purchase event", err, map[string]interface{}{
			"account_id": purchase.AccountID,
			"event_id":   event.ID.String(),
		})
	}

	return &PurchaseResponse{
		AccountID: purchase.AccountID,
		SeatIDs:   purchase.SeatIDs,
		SeatCount: purchase.SeatCount,
		TotalCost: purchase.TotalCost,
		Currency:  s.currency,
		Tickets:   ticketCounts,
	}, nil
}

func (s *service) PriceList() *PriceListResponse {
	prices := make(map[string]float64)
	for ticketType, price := range s.purchaser.Prices() {
		prices[ticketType.String()] = price
	}
	return &PriceListResponse{
		Prices:     prices,
		Currency:   s.currency,
		MaxTickets: s.purchaser.MaxTickets(),
	}
}

func (s *service) AccountSeats(ctx context.Context, accountID int64) (*AccountSeatsResponse, error) {
	seatIDs, err := s.seats.AccountSeats(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get seats for account: %w", err)
	}
	return &AccountSeatsResponse{AccountID: accountID, SeatIDs: seatIDs}, nil
}

func (s *service) SeatAvailability(ctx context.Context) (*seating.Availability, error) {
	return s.seats.Availability(ctx)
}

func (s *service) AccountCharges(ctx context.Context, accountID int64, query ChargeListQuery) (*ChargeListResponse, error) {
	charges, total, err := s.charges.ChargesForAccount(ctx, accountID, query.Limit, query.Offset)
	if err != nil {
		return nil, err
	}

	infos := make([]payments.ChargeInfo, 0, len(charges))
	for i := range charges {
		infos = append(infos, charges[i].ToChargeInfo())
	}

	return &ChargeListResponse{
		AccountID: accountID,
		Charges:   infos,
		Total:     total,
		Limit:     query.Limit,
		Offset:    query.Offset,
	}, nil
}
