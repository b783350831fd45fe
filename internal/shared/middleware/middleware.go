package middleware

import (
	"net/http"
	"time"

	"boxoffice/internal/shared/utils/response"
	"boxoffice/internal/tickets"
	"boxoffice/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIDHeader = "X-Request-ID"

	// Context keys
	ContextRequestID = "request_id"
	ContextAccountID = "account_id"
)

// RequestID tags every request with an ID, reusing the caller's if given
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(ContextRequestID, requestID)
		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}

// RequestLogger logs every request once it has been served
func RequestLogger(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		l.LogHTTPRequest(c, time.Since(start))
	}
}

// RequireAccountID parses the :id path parameter as an account identifier
// and stores it in the context under ContextAccountID.
func RequireAccountID() gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID, err := tickets.NormalizeAccountID(c.Param("id"))
		if err != nil {
			response.Error(c, http.StatusBadRequest, "Invalid account ID", err.Error())
			c.Abort()
			return
		}
		c.Set(ContextAccountID, accountID)
		c.Next()
	}
}

// AccountID returns the account stored by RequireAccountID
func AccountID(c *gin.Context) (int64, bool) {
	value, exists := c.Get(ContextAccountID)
	if !exists {
		return 0, false
	}
	accountID, ok := value.(int64)
	return accountID, ok
}
