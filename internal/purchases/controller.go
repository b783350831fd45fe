package purchases

import (
	"errors"
	"net/http"

	"boxoffice/internal/seating"
	"boxoffice/internal/shared/middleware"
	"boxoffice/internal/shared/utils/response"
	"boxoffice/internal/tickets"
	"boxoffice/pkg/logger"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
	logger  *logger.Logger
}

func NewController(service Service, l *logger.Logger) *Controller {
	if l == nil {
		l = logger.GetDefault()
	}
	return &Controller{service: service, logger: l}
}

// PurchaseTickets handles POST /api/v1/purchases
func (c *Controller) PurchaseTickets(ctx *gin.Context) {
	var req PurchaseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	result, err := c.service.Purchase(ctx.Request.Context(), req)
	if err != nil {
		c.respondPurchaseError(ctx, err)
		return
	}

	response.Success(ctx, http.StatusCreated, "Tickets purchased successfully", result)
}

// respondPurchaseError maps a failed purchase onto an HTTP status.
// Rule violations are the caller's fault; everything else came from a collaborator.
func (c *Controller) respondPurchaseError(ctx *gin.Context, err error) {
	var invalid *tickets.InvalidPurchaseError
	switch {
	case errors.As(err, &invalid):
		response.Error(ctx, http.StatusBadRequest, "Invalid purchase", invalid.Reason)
	case errors.Is(err, seating.ErrInsufficientSeats):
		c.logError(ctx, err, http.StatusConflict)
		response.Error(ctx, http.StatusConflict, "Not enough seats available", err.Error())
	default:
		c.logError(ctx, err, http.StatusBadGateway)
		response.Error(ctx, http.StatusBadGateway, "Purchase could not be completed", err.Error())
	}
}

// logError logs a failed request tagged with its request ID
func (c *Controller) logError(ctx *gin.Context, err error, status int) {
	c.logger.WithRequestID(ctx.GetString(middleware.ContextRequestID)).LogHTTPError(ctx, err, status)
}

// GetPrices handles GET /api/v1/prices
func (c *Controller) GetPrices(ctx *gin.Context) {
	response.Success(ctx, http.StatusOK, "Prices retrieved successfully", c.service.PriceList())
}

// GetSeatAvailability handles GET /api/v1/seats/availability
func (c *Controller) GetSeatAvailability(ctx *gin.Context) {
	availability, err := c.service.SeatAvailability(ctx.Request.Context())
	if err != nil {
		c.logError(ctx, err, http.StatusInternalServerError)
		response.Error(ctx, http.StatusInternalServerError, "Failed to get seat availability", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Seat availability retrieved successfully", availability)
}

// GetAccountSeats handles GET /api/v1/accounts/:id/seats
func (c *Controller) GetAccountSeats(ctx *gin.Context) {
	accountID, ok := middleware.AccountID(ctx)
	if !ok {
		response.Error(ctx, http.StatusBadRequest, "Invalid account ID", nil)
		return
	}

	result, err := c.service.AccountSeats(ctx.Request.Context(), accountID)
	if err != nil {
		c.logError(ctx, err, http.StatusInternalServerError)
		response.Error(ctx, http.StatusInternalServerError, "Failed to get account seats", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Seats retrieved successfully", result)
}

// GetAccountCharges handles GET /api/v1/accounts/:id/charges?limit=20&offset=0
func (c *Controller) GetAccountCharges(ctx *gin.Context) {
	accountID, ok := middleware.AccountID(ctx)
	if !ok {
		response.Error(ctx, http.StatusBadRequest, "Invalid account ID", nil)
		return
	}

	var query ChargeListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return
	}

	result, err := c.service.AccountCharges(ctx.Request.Context(), accountID, query)
	if err != nil {
		c.logError(ctx, err, http.StatusInternalServerError)
		response.Error(ctx, http.StatusInternalServerError, "Failed to get account charges", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Charges retrieved successfully", result)
}
