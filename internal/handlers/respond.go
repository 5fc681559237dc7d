package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/PratikDhanave/backoffice-gateway/internal/apierr"
	"github.com/PratikDhanave/backoffice-gateway/internal/logger"
	"github.com/PratikDhanave/backoffice-gateway/internal/middleware"
)

// Abort writes err as the uniform error envelope and stops the chain.
func Abort(c *gin.Context, err error) {
	status, body := apierr.Envelope(err, "Error interno del servidor")
	c.AbortWithStatusJSON(status, body)
}

// FailErr writes err with its API status and caller-safe message. Server
// side failures are logged with their cause.
func FailErr(c *gin.Context, log *logger.Logger, err error) {
	if apierr.StatusOf(err) >= http.StatusInternalServerError && log != nil {
		cause := err
		var apiErr *apierr.Error
		if errors.As(err, &apiErr) && apiErr.Err != nil {
			cause = apiErr.Err
		}
		log.Error(apierr.MessageOf(err, "Error interno del servidor"),
			"error", cause,
			"path", c.Request.URL.Path,
			"request_id", middleware.RequestIDFrom(c),
		)
	}
	Abort(c, err)
}

// NotFound is the catch-all for unknown paths.
func NotFound(c *gin.Context) {
	status, body := apierr.Envelope(apierr.NotFound("Ruta no encontrada"), "")
	body["path"] = c.Request.URL.Path
	c.AbortWithStatusJSON(status, body)
}

// Health answers liveness checks with message.
func Health(message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"message":   message,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}
