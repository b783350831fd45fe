package purchases

import (
	"boxoffice/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupPurchaseRoutes configures all purchase-related routes
func SetupPurchaseRoutes(rg *gin.RouterGroup, controller *Controller) {
	rg.POST("/purchases", controller.PurchaseTickets) // POST /api/v1/purchases
	rg.GET("/prices", controller.GetPrices)           // GET /api/v1/prices
	rg.GET("/seats/availability", controller.GetSeatAvailability)

	accounts := rg.Group("/accounts/:id")
	accounts.Use(middleware.RequireAccountID())
	{
		accounts.GET("/seats", controller.GetAccountSeats)     // GET /api/v1/accounts/:id/seats
		accounts.GET("/charges", controller.GetAccountCharges) // GET /api/v1/accounts/:id/charges
	}
}

// Route definitions for reference:
//
// PURCHASE
// POST   /api/v1/purchases
// Request body: { "account_id": 42, "tickets": [{ "type": "ADULT", "quantity": 2 }] }
//
// PRICES
// GET    /api/v1/prices
// GET    /api/v1/seats/availability
//
// ACCOUNT HISTORY
// GET    /api/v1/accounts/:id/seats
// GET    /api/v1/accounts/:id/charges?limit=20&offset=0
