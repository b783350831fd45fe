package ratelimit

import (
	"net/http"
	"strconv"
	"strings"

	"boxoffice/internal/shared/utils/response"
	"boxoffice/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Middleware rejects requests over their budget with 429. The client is
// identified by gin's ClientIP, which honours X-Forwarded-For and X-Real-IP
// from trusted proxies.
func Middleware(rateLimiter *RateLimiter, l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		route := c.FullPath()

		result, err := rateLimiter.IsAllowed(c.Request.Context(), clientIP, getRateLimitType(route))
		if err != nil {
			l.LogHTTPError(c, err, http.StatusInternalServerError)
			response.Error(c, http.StatusInternalServerError, "Rate limit check failed", nil)
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetTime, 10))

		if !result.Allowed {
			l.LogRateLimitExceeded(c.Request.Context(), clientIP, route)
			response.Error(c, http.StatusTooManyRequests, "Rate limit exceeded", gin.H{
				"limit":      result.Limit,
				"reset_time": result.ResetTime,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// getRateLimitType picks the budget for a route
func getRateLimitType(route string) RateLimitType {
	switch {
	case route == "/health", route == "/ping", route == "/status":
		return RateLimitTypeHealth
	case strings.HasSuffix(route, "/purchases"):
		return RateLimitTypePurchase
	default:
		return RateLimitTypeDefault
	}
}
