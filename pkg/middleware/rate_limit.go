package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mdpad/mdpad/internal/ratelimit"
	"github.com/mdpad/mdpad/pkg/logger"
	"github.com/mdpad/mdpad/pkg/metrics"
)

// KeyFunc composes the limiter key for one request.
type KeyFunc func(*gin.Context) string

// ByClient keys the budget on the client identity alone (used for document
// creation: one budget per client across all documents).
func ByClient(c *gin.Context) string {
	return ClientIdentifier(c)
}

// ByClientAndParam keys the budget on client plus a path parameter (used
// for updates: one budget per client per document).
func ByClientAndParam(param string) KeyFunc {
	return func(c *gin.Context) string {
		return ClientIdentifier(c) + ":" + c.Param(param)
	}
}

// RateLimit enforces a fixed-window budget per composed key. The admission
// check runs before the handler touches the payload or storage, so abusive
// traffic is rejected at minimal cost.
func RateLimit(lim ratelimit.Limiter, limit int, window time.Duration, key KeyFunc) gin.HandlerFunc {
	label := limiterLabel(lim)
	return func(c *gin.Context) {
		limited, err := lim.Check(c.Request.Context(), key(c), limit, window)
		if err != nil {
			logger.Errorf("rate limit check: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Rate limit check failed"})
			return
		}
		if limited {
			c.Header("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
			metrics.RateLimitRejected.WithLabelValues(label).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded. Please try again later."})
			return
		}
		metrics.RateLimitAllowed.WithLabelValues(label).Inc()
		c.Next()
	}
}

func limiterLabel(lim ratelimit.Limiter) string {
	switch lim.(type) {
	case *ratelimit.Memory:
		return "memory"
	case *ratelimit.Redis:
		return "redis"
	default:
		return "custom"
	}
}
