// api/routes/router.go
package routes

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"boxoffice/internal/notifications"
	"boxoffice/internal/payments"
	"boxoffice/internal/purchases"
	"boxoffice/internal/seating"
	"boxoffice/internal/shared/config"
	"boxoffice/internal/shared/database"
	"boxoffice/internal/tickets"
	"boxoffice/pkg/logger"

	"github.com/gin-gonic/gin"
)

// HealthChecker reports whether the backing stores are reachable
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Router holds all route dependencies
type Router struct {
	config   *config.Config
	db       *database.DB
	health   HealthChecker
	producer notifications.PurchaseProducer
	logger   *logger.Logger
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, producer notifications.PurchaseProducer, l *logger.Logger) *Router {
	if l == nil {
		l = logger.GetDefault()
	}
	return &Router{
		config:   cfg,
		db:       db,
		health:   db,
		producer: producer,
		logger:   l,
	}
}

// SetupRoutes configures all application routes. It fails when the
// ticket configuration cannot back a purchase service.
func (r *Router) SetupRoutes(engine *gin.Engine) error {
	r.setupHealthRoutes(engine)

	api := engine.Group(r.config.GetAPIBasePath())
	return r.setupPurchaseRoutes(api)
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.health.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "boxoffice",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "boxoffice",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		})
	})
}

// setupPurchaseRoutes wires the seat pool, the charge ledger and the
// purchase rules behind the purchase endpoints
func (r *Router) setupPurchaseRoutes(rg *gin.RouterGroup) error {
	prices, err := tickets.ParsePriceTable(r.config.Tickets.Prices)
	if err != nil {
		return fmt.Errorf("failed to parse ticket prices: %w", err)
	}

	seatService := seating.NewService(r.db.GetRedisClient())
	paymentRepo := payments.NewRepository(r.db.GetPostgreSQL())
	paymentService := payments.NewService(paymentRepo, r.config.Tickets.Currency)

	ticketService, err := tickets.NewService(paymentService, seatService, prices, r.config.Tickets.MaxTickets,
		tickets.WithLogger(r.logger))
	if err != nil {
		return fmt.Errorf("failed to create ticket service: %w", err)
	}

	if err := purchases.ConfigureBinding(); err != nil {
		return fmt.Errorf("failed to configure request binding: %w", err)
	}

	purchaseService := purchases.NewService(ticketService, seatService, paymentService, r.producer, r.config.Tickets.Currency, r.logger)
	purchaseController := purchases.NewController(purchaseService, r.logger)

	purchases.SetupPurchaseRoutes(rg, purchaseController)
	return nil
}
