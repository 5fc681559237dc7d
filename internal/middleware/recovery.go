package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/PratikDhanave/backoffice-gateway/internal/apierr"
	"github.com/PratikDhanave/backoffice-gateway/internal/logger"
)

// Recovery turns a panic into the generic 500 envelope and logs it.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered interface{}) {
		if log != nil {
			log.Error("panic recovered",
				"panic", recovered,
				"path", c.Request.URL.Path,
				"request_id", RequestIDFrom(c),
			)
		}
		c.AbortWithStatusJSON(apierr.Envelope(fmt.Errorf("panic: %v", recovered), "Error interno del servidor"))
	})
}
