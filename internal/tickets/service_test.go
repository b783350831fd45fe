package tickets

import (
	"bytes"
	"context"
	"errors"
	"math"
	"testing"

	"boxoffice/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSeatingService struct {
	mock.Mock
}

func (m *mockSeatingService) ReserveSeats(ctx context.Context, count int) ([]string, error) {
	args := m.Called(ctx, count)
	seats, _ := args.Get(0).([]string)
	return seats, args.Error(1)
}

func (m *mockSeatingService) AssignSeatsToAccount(ctx context.Context, accountID int64, seatIDs []string) error {
	args := m.Called(ctx, accountID, seatIDs)
	return args.Error(0)
}

// mockReleasingSeatingService also supports handing seats back
type mockReleasingSeatingService struct {
	mockSeatingService
}

func (m *mockReleasingSeatingService) ReleaseSeats(ctx context.Context, accountID int64, seatIDs []string) error {
	args := m.Called(ctx, accountID, seatIDs)
	return args.Error(0)
}

type mockPaymentService struct {
	mock.Mock
}

func (m *mockPaymentService) ChargeAccount(ctx context.Context, accountID int64, amount float64) error {
	args := m.Called(ctx, accountID, amount)
	return args.Error(0)
}

func defaultPrices() PriceTable {
	return PriceTable{
		TicketTypeAdult:  20,
		TicketTypeChild:  10,
		TicketTypeInfant: 0,
	}
}

func newTestService(t *testing.T, payment PaymentService, seating SeatingService, maxTickets int) *Service {
	t.Helper()
	svc, err := NewService(payment, seating, defaultPrices(), maxTickets, WithLogger(logger.Discard()))
	require.NoError(t, err)
	return svc
}

func TestNewService(t *testing.T) {
	payment := &mockPaymentService{}
	seating := &mockSeatingService{}

	t.Run("valid configuration", func(t *testing.T) {
		svc, err := NewService(payment, seating, defaultPrices(), 20)
		require.NoError(t, err)
		assert.Equal(t, 20, svc.MaxTickets())
		assert.Equal(t, defaultPrices(), svc.Prices())
	})

	tests := []struct {
		name       string
		payment    PaymentService
		seating    SeatingService
		prices     PriceTable
		maxTickets int
		wantErr    error
	}{
		{"empty price table", payment, seating, PriceTable{}, 20, ErrEmptyPriceTable},
		{"nil price table", payment, seating, nil, 20, ErrEmptyPriceTable},
		{"negative price", payment, seating, PriceTable{TicketTypeAdult: -1}, 20, ErrInvalidTicketPrice},
		{"unknown category", payment, seating, PriceTable{"SENIOR": 5}, 20, ErrUnknownTicketCategory},
		{"zero max tickets", payment, seating, defaultPrices(), 0, ErrInvalidMaxTickets},
		{"missing payment", nil, seating, defaultPrices(), 20, ErrMissingCollaborator},
		{"missing seating", payment, nil, defaultPrices(), 20, ErrMissingCollaborator},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := NewService(tt.payment, tt.seating, tt.prices, tt.maxTickets)
			assert.Nil(t, svc)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var cfgErr *ConfigurationError
			assert.ErrorAs(t, err, &cfgErr)
		})
	}
}

func TestNewService_CopiesPriceTable(t *testing.T) {
	prices := defaultPrices()
	svc, err := NewService(&mockPaymentService{}, &mockSeatingService{}, prices, 20)
	require.NoError(t, err)

	prices[TicketTypeAdult] = 1000
	assert.Equal(t, float64(20), svc.Prices()[TicketTypeAdult])
}

func TestPurchaseTickets_Success(t *testing.T) {
	ctx := context.Background()
	payment := &mockPaymentService{}
	seating := &mockSeatingService{}
	svc := newTestService(t, payment, seating, 20)

	seats := []string{"A1", "A2", "A3"}
	seating.On("ReserveSeats", ctx, 3).Return(seats, nil).Once()
	seating.On("AssignSeatsToAccount", ctx, int64(7), seats).Return(nil).Once()
	payment.On("ChargeAccount", ctx, int64(7), float64(50)).Return(nil).Once()

	purchase, err := svc.PurchaseTickets(ctx, 7,
		MustTicketTypeRequest(TicketTypeAdult, 2),
		MustTicketTypeRequest(TicketTypeChild, 1),
		MustTicketTypeRequest(TicketTypeInfant, 1),
	)

	require.NoError(t, err)
	assert.Equal(t, int64(7), purchase.AccountID)
	assert.Equal(t, seats, purchase.SeatIDs)
	assert.Equal(t, 3, purchase.SeatCount)
	assert.Equal(t, float64(50), purchase.TotalCost)
	assert.Equal(t, map[TicketType]int{
		TicketTypeAdult:  2,
		TicketTypeChild:  1,
		TicketTypeInfant: 1,
	}, purchase.Tickets)

	seating.AssertExpectations(t)
	payment.AssertExpectations(t)
}

func TestPurchaseTickets_StringAccountIDIsNormalized(t *testing.T) {
	ctx := context.Background()
	payment := &mockPaymentService{}
	seating := &mockSeatingService{}
	svc := newTestService(t, payment, seating, 20)

	seating.On("ReserveSeats", ctx, 1).Return([]string{"B4"}, nil)
	seating.On("AssignSeatsToAccount", ctx, int64(42), []string{"B4"}).Return(nil)
	payment.On("ChargeAccount", ctx, int64(42), float64(20)).Return(nil)

	purchase, err := svc.PurchaseTickets(ctx, "42", MustTicketTypeRequest(TicketTypeAdult, 1))

	require.NoError(t, err)
	assert.Equal(t, int64(42), purchase.AccountID)
	seating.AssertExpectations(t)
	payment.AssertExpectations(t)
}

func TestPurchaseTickets_InfantsNeitherSeatedNorCharged(t *testing.T) {
	ctx := context.Background()
	payment := &mockPaymentService{}
	seating := &mockSeatingService{}
	svc := newTestService(t, payment, seating, 20)

	seating.On("ReserveSeats", ctx, 1).Return([]string{"C1"}, nil)
	seating.On("AssignSeatsToAccount", ctx, int64(1), []string{"C1"}).Return(nil)
	payment.On("ChargeAccount", ctx, int64(1), float64(20)).Return(nil)

	_, err := svc.PurchaseTickets(ctx, 1,
		MustTicketTypeRequest(TicketTypeAdult, 1),
		MustTicketTypeRequest(TicketTypeInfant, 5),
	)

	require.NoError(t, err)
	seating.AssertExpectations(t)
	payment.AssertExpectations(t)
}

func TestPurchaseTickets_Rejected(t *testing.T) {
	tests := []struct {
		name       string
		maxTickets int
		prices     PriceTable
		accountID  any
		requests   []TicketTypeRequest
		wantErr    error
	}{
		{
			name:       "too many tickets",
			maxTickets: 5,
			accountID:  1,
			requests: []TicketTypeRequest{
				MustTicketTypeRequest(TicketTypeAdult, 3),
				MustTicketTypeRequest(TicketTypeChild, 3),
			},
			wantErr: ErrTooManyTickets,
		},
		{
			name:       "quantities that would overflow the total",
			maxTickets: 20,
			accountID:  1,
			requests: []TicketTypeRequest{
				MustTicketTypeRequest(TicketTypeAdult, math.MaxInt),
				MustTicketTypeRequest(TicketTypeChild, 1),
			},
			wantErr: ErrTooManyTickets,
		},
		{
			name:       "infants count towards the limit",
			maxTickets: 3,
			accountID:  1,
			requests: []TicketTypeRequest{
				MustTicketTypeRequest(TicketTypeAdult, 1),
				MustTicketTypeRequest(TicketTypeInfant, 3),
			},
			wantErr: ErrTooManyTickets,
		},
		{
			name:       "no adult tickets",
			maxTickets: 20,
			accountID:  1,
			requests:   []TicketTypeRequest{MustTicketTypeRequest(TicketTypeChild, 1)},
			wantErr:    ErrNoAdultTickets,
		},
		{
			name:       "no requests at all",
			maxTickets: 20,
			accountID:  1,
			wantErr:    ErrNoAdultTickets,
		},
		{
			name:       "unknown ticket type",
			maxTickets: 20,
			accountID:  1,
			requests: []TicketTypeRequest{
				MustTicketTypeRequest(TicketTypeAdult, 1),
				MustTicketTypeRequest("SENIOR", 1),
			},
			wantErr: ErrInvalidTicketType,
		},
		{
			name:       "category missing from price table",
			maxTickets: 20,
			prices:     PriceTable{TicketTypeAdult: 20},
			accountID:  1,
			requests: []TicketTypeRequest{
				MustTicketTypeRequest(TicketTypeAdult, 1),
				MustTicketTypeRequest(TicketTypeChild, 1),
			},
			wantErr: ErrInvalidTicketType,
		},
		{
			name:       "zero value request",
			maxTickets: 20,
			accountID:  1,
			requests: []TicketTypeRequest{
				MustTicketTypeRequest(TicketTypeAdult, 1),
				{ticketType: TicketTypeChild},
			},
			wantErr: ErrInvalidTicketQuantity,
		},
		{
			name:       "non numeric account id",
			maxTickets: 20,
			accountID:  "abc",
			requests:   []TicketTypeRequest{MustTicketTypeRequest(TicketTypeAdult, 1)},
			wantErr:    ErrInvalidAccountID,
		},
		{
			name:       "limit is checked before ticket types",
			maxTickets: 2,
			accountID:  1,
			requests:   []TicketTypeRequest{MustTicketTypeRequest("SENIOR", 3)},
			wantErr:    ErrTooManyTickets,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payment := &mockPaymentService{}
			seating := &mockSeatingService{}
			prices := tt.prices
			if prices == nil {
				prices = defaultPrices()
			}
			svc, err := NewService(payment, seating, prices, tt.maxTickets, WithLogger(logger.Discard()))
			require.NoError(t, err)

			purchase, err := svc.PurchaseTickets(context.Background(), tt.accountID, tt.requests...)

			assert.Nil(t, purchase)
			assert.ErrorIs(t, err, tt.wantErr)
			var invalid *InvalidPurchaseError
			assert.ErrorAs(t, err, &invalid)

			seating.AssertNotCalled(t, "ReserveSeats", mock.Anything, mock.Anything)
			seating.AssertNotCalled(t, "AssignSeatsToAccount", mock.Anything, mock.Anything, mock.Anything)
			payment.AssertNotCalled(t, "ChargeAccount", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestPurchaseTickets_CollaboratorErrorsPropagate(t *testing.T) {
	ctx := context.Background()
	seatingErr := errors.New("seating unavailable")
	paymentErr := errors.New("card declined")

	t.Run("reserve fails", func(t *testing.T) {
		payment := &mockPaymentService{}
		seating := &mockSeatingService{}
		svc := newTestService(t, payment, seating, 20)
		seating.On("ReserveSeats", ctx, 1).Return(nil, seatingErr)

		_, err := svc.PurchaseTickets(ctx, 1, MustTicketTypeRequest(TicketTypeAdult, 1))

		assert.Same(t, seatingErr, err)
		payment.AssertNotCalled(t, "ChargeAccount", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("charge fails without releaser", func(t *testing.T) {
		payment := &mockPaymentService{}
		seating := &mockSeatingService{}
		svc := newTestService(t, payment, seating, 20)
		seating.On("ReserveSeats", ctx, 1).Return([]string{"A1"}, nil)
		seating.On("AssignSeatsToAccount", ctx, int64(1), []string{"A1"}).Return(nil)
		payment.On("ChargeAccount", ctx, int64(1), float64(20)).Return(paymentErr)

		_, err := svc.PurchaseTickets(ctx, 1, MustTicketTypeRequest(TicketTypeAdult, 1))

		assert.Same(t, paymentErr, err)
		seating.AssertExpectations(t)
	})
}

func TestPurchaseTickets_ReleasesSeatsWhenChargeFails(t *testing.T) {
	ctx := context.Background()
	paymentErr := errors.New("card declined")
	payment := &mockPaymentService{}
	seating := &mockReleasingSeatingService{}
	svc := newTestService(t, payment, seating, 20)

	seats := []string{"A1", "A2"}
	seating.On("ReserveSeats", ctx, 2).Return(seats, nil)
	seating.On("AssignSeatsToAccount", ctx, int64(9), seats).Return(nil)
	seating.On("ReleaseSeats", ctx, int64(9), seats).Return(nil).Once()
	payment.On("ChargeAccount", ctx, int64(9), float64(30)).Return(paymentErr)

	_, err := svc.PurchaseTickets(ctx, 9,
		MustTicketTypeRequest(TicketTypeAdult, 1),
		MustTicketTypeRequest(TicketTypeChild, 1),
	)

	assert.Same(t, paymentErr, err)
	seating.AssertExpectations(t)
}

func TestPurchaseTickets_ReleaseFailureKeepsOriginalError(t *testing.T) {
	ctx := context.Background()
	assignErr := errors.New("assign failed")
	payment := &mockPaymentService{}
	seating := &mockReleasingSeatingService{}
	var logs bytes.Buffer
	svc, err := NewService(payment, seating, defaultPrices(), 20, WithLogger(logger.NewWithWriter(&logs, "info")))
	require.NoError(t, err)

	seating.On("ReserveSeats", ctx, 1).Return([]string{"A1"}, nil)
	seating.On("AssignSeatsToAccount", ctx, int64(3), []string{"A1"}).Return(assignErr)
	seating.On("ReleaseSeats", ctx, int64(3), []string{"A1"}).Return(errors.New("redis down"))

	_, err = svc.PurchaseTickets(ctx, 3, MustTicketTypeRequest(TicketTypeAdult, 1))

	assert.Same(t, assignErr, err)
	assert.Contains(t, logs.String(), "Failed to release seats")
	assert.Contains(t, logs.String(), "account_id")
	assert.Contains(t, logs.String(), "redis down")
	payment.AssertNotCalled(t, "ChargeAccount", mock.Anything, mock.Anything, mock.Anything)
	seating.AssertExpectations(t)
}

func TestCountTickets_Saturates(t *testing.T) {
	assert.Equal(t, 3, countTickets([]TicketTypeRequest{
		MustTicketTypeRequest(TicketTypeAdult, 1),
		MustTicketTypeRequest(TicketTypeChild, 2),
	}))
	assert.Equal(t, math.MaxInt, countTickets([]TicketTypeRequest{
		MustTicketTypeRequest(TicketTypeAdult, math.MaxInt),
		MustTicketTypeRequest(TicketTypeAdult, math.MaxInt),
		MustTicketTypeRequest(TicketTypeChild, 1),
	}))
}
