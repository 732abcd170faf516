package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/mdpad/mdpad/pkg/metrics"
)

// Throttle is an optional coarse transport guard applied to every route: a
// token-bucket per client on top of the per-endpoint fixed-window budgets.
// It smooths sustained floods that the wider endpoint windows would admit
// in one burst.
func Throttle(rps float64, burst int) gin.HandlerFunc {
	var (
		mu      sync.Mutex
		buckets = make(map[string]*rate.Limiter)
	)
	get := func(key string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		if l, ok := buckets[key]; ok {
			return l
		}
		l := rate.NewLimiter(rate.Limit(rps), burst)
		buckets[key] = l
		return l
	}
	return func(c *gin.Context) {
		if !get(ClientIdentifier(c)).Allow() {
			c.Header("Retry-After", "1")
			metrics.RateLimitRejected.WithLabelValues("throttle").Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded. Please try again later."})
			return
		}
		c.Next()
	}
}
