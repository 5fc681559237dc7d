package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/PratikDhanave/backoffice-gateway/internal/apierr"
	"github.com/PratikDhanave/backoffice-gateway/internal/logger"
	"github.com/PratikDhanave/backoffice-gateway/internal/metrics"
	"github.com/PratikDhanave/backoffice-gateway/internal/ratelimit"
)

// RateLimit admits requests through l. Rejected requests get 429 and never
// reach later handlers. When the limiter itself fails the request is let
// through and the failure logged.
func RateLimit(l ratelimit.Limiter, log *logger.Logger, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		d, err := l.Allow(c.Request.Context())
		if err != nil {
			if log != nil {
				log.Warn("rate limiter unavailable, admitting request",
					"error", err,
					"request_id", RequestIDFrom(c),
				)
			}
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(d.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(d.ResetAt.Unix(), 10))

		if !d.Allowed {
			m.RateLimited()
			c.AbortWithStatusJSON(apierr.Envelope(apierr.RateLimited("Demasiadas peticiones, intente más tarde"), ""))
			return
		}
		c.Next()
	}
}
