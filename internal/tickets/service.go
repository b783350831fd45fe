package tickets

import (
	"context"
	"errors"
	"log/slog"
	"math"

	"boxoffice/pkg/logger"
)

// SeatingService reserves seats and assigns them to accounts
type SeatingService interface {
	ReserveSeats(ctx context.Context, count int) ([]string, error)
	AssignSeatsToAccount(ctx context.Context, accountID int64, seatIDs []string) error
}

// PaymentService charges accounts
type PaymentService interface {
	ChargeAccount(ctx context.Context, accountID int64, amount float64) error
}

// SeatReleaser is implemented by seating services that can hand seats back.
// When the seating service supports it, seats reserved for a purchase that
// later fails are released again.
type SeatReleaser interface {
	ReleaseSeats(ctx context.Context, accountID int64, seatIDs []string) error
}

// Purchase summarises a completed purchase
type Purchase struct {
	AccountID int64
	SeatIDs   []string
	SeatCount int
	TotalCost float64
	Tickets   map[TicketType]int
}

// Option configures a Service
type Option func(*Service)

// WithLogger sets the logger used for purchase outcomes
func WithLogger(l *logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// Service validates ticket purchases and hands them to the seating and
// payment services. It holds no per-call state and is safe to share.
type Service struct {
	payment    PaymentService
	seating    SeatingService
	prices     PriceTable
	maxTickets int
	logger     *logger.Logger
}

// NewService validates the configuration and returns a ready service
func NewService(payment PaymentService, seating SeatingService, prices PriceTable, maxTickets int, opts ...Option) (*Service, error) {
	if payment == nil {
		return nil, &ConfigurationError{Reason: ErrMissingCollaborator.Reason, Detail: "payment service"}
	}
	if seating == nil {
		return nil, &ConfigurationError{Reason: ErrMissingCollaborator.Reason, Detail: "seating service"}
	}
	if err := prices.Validate(); err != nil {
		return nil, err
	}
	if maxTickets < 1 {
		return nil, ErrInvalidMaxTickets
	}

	s := &Service{
		payment:    payment,
		seating:    seating,
		prices:     prices.Clone(),
		maxTickets: maxTickets,
		logger:     logger.GetDefault(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Prices returns a copy of the configured price table
func (s *Service) Prices() PriceTable {
	return s.prices.Clone()
}

// MaxTickets returns the per-purchase ticket limit
func (s *Service) MaxTickets() int {
	return s.maxTickets
}

// PurchaseTickets validates the requests, reserves and assigns seats, then
// charges the account. Business rule violations are reported as
// *InvalidPurchaseError before any collaborator is called. Collaborator
// errors are returned unmodified.
func (s *Service) PurchaseTickets(ctx context.Context, accountID any, requests ...TicketTypeRequest) (*Purchase, error) {
	totalTickets := countTickets(requests)
	if totalTickets > s.maxTickets {
		return nil, s.reject(ctx, ErrTooManyTickets, totalTickets)
	}

	if err := s.validateTicketTypes(requests); err != nil {
		return nil, s.reject(ctx, err, totalTickets)
	}

	if !hasAdultTicket(requests) {
		return nil, s.reject(ctx, ErrNoAdultTickets, totalTickets)
	}

	id, err := NormalizeAccountID(accountID)
	if err != nil {
		return nil, s.reject(ctx, err, totalTickets)
	}

	seatCount := s.calculateSeats(requests)
	seatIDs, err := s.seating.ReserveSeats(ctx, seatCount)
	if err != nil {
		return nil, err
	}
	if err := s.seating.AssignSeatsToAccount(ctx, id, seatIDs); err != nil {
		s.releaseSeats(ctx, id, seatIDs)
		return nil, err
	}

	totalCost := s.calculateCost(requests)
	if err := s.payment.ChargeAccount(ctx, id, totalCost); err != nil {
		s.releaseSeats(ctx, id, seatIDs)
		return nil, err
	}

	s.logger.LogPurchaseCompleted(ctx, id, seatCount, totalCost)

	return &Purchase{
		AccountID: id,
		SeatIDs:   seatIDs,
		SeatCount: seatCount,
		TotalCost: totalCost,
		Tickets:   tally(requests),
	}, nil
}

func (s *Service) reject(ctx context.Context, err error, totalTickets int) error {
	reason := err.Error()
	var invalid *InvalidPurchaseError
	if errors.As(err, &invalid) {
		reason = invalid.Reason
	}
	s.logger.LogPurchaseRejected(ctx, reason, totalTickets)
	return err
}

func (s *Service) validateTicketTypes(requests []TicketTypeRequest) *InvalidPurchaseError {
	for _, req := range requests {
		if !s.prices.Has(req.TicketType()) {
			return ErrInvalidTicketType
		}
		if req.NoOfTickets() < 1 {
			return ErrInvalidTicketQuantity
		}
	}
	return nil
}

// calculateSeats counts the seats needed, leaving infants out
func (s *Service) calculateSeats(requests []TicketTypeRequest) int {
	seats := 0
	for _, req := range requests {
		if req.TicketType().OccupiesSeat() {
			seats += req.NoOfTickets()
		}
	}
	return seats
}

// calculateCost totals the chargeable tickets, leaving infants out
func (s *Service) calculateCost(requests []TicketTypeRequest) float64 {
	var total float64
	for _, req := range requests {
		if req.TicketType().IsChargeable() {
			total += s.prices[req.TicketType()] * float64(req.NoOfTickets())
		}
	}
	return total
}

// releaseSeats hands seats back when the seating service supports it.
// Failures are logged only so the caller sees the original error.
func (s *Service) releaseSeats(ctx context.Context, accountID int64, seatIDs []string) {
	releaser, ok := s.seating.(SeatReleaser)
	if !ok || len(seatIDs) == 0 {
		return
	}
	if err := releaser.ReleaseSeats(ctx, accountID, seatIDs); err != nil {
		s.logger.WithAccountID(accountID).WithError(err).
			ErrorContext(ctx, "Failed to release seats", slog.Any("seat_ids", seatIDs))
		return
	}
	s.logger.LogSeatsReleased(ctx, accountID, seatIDs)
}

// countTickets sums the quantities, saturating at math.MaxInt so a huge
// request can never wrap below the limit
func countTickets(requests []TicketTypeRequest) int {
	total := 0
	for _, req := range requests {
		if req.NoOfTickets() > math.MaxInt-total {
			return math.MaxInt
		}
		total += req.NoOfTickets()
	}
	return total
}

func hasAdultTicket(requests []TicketTypeRequest) bool {
	for _, req := range requests {
		if req.TicketType() == TicketTypeAdult && req.NoOfTickets() >= 1 {
			return true
		}
	}
	return false
}

func tally(requests []TicketTypeRequest) map[TicketType]int {
	counts := make(map[TicketType]int, len(requests))
	for _, req := range requests {
		counts[req.TicketType()] += req.NoOfTickets()
	}
	return counts
}
