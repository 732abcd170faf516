package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mdpad/mdpad/internal/ratelimit"
)

// ClientIdentifier derives the rate-limit identity of a request from proxy
// forwarding headers: first X-Forwarded-For entry, else X-Real-IP, else the
// shared "unknown" sentinel. Falling back to one shared bucket is a
// fail-safe: clients we cannot tell apart compete for a single budget
// instead of each minting a fresh one.
func ClientIdentifier(c *gin.Context) string {
	if fwd := c.GetHeader("X-Forwarded-For"); fwd != "" {
		if first, _, ok := strings.Cut(fwd, ","); ok {
			return strings.TrimSpace(first)
		}
		return strings.TrimSpace(fwd)
	}
	if real := c.GetHeader("X-Real-IP"); real != "" {
		return real
	}
	return ratelimit.UnknownClient
}
