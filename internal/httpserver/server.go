package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/PratikDhanave/backoffice-gateway/internal/auth"
	"github.com/PratikDhanave/backoffice-gateway/internal/handlers"
	"github.com/PratikDhanave/backoffice-gateway/internal/logger"
	"github.com/PratikDhanave/backoffice-gateway/internal/metrics"
	"github.com/PratikDhanave/backoffice-gateway/internal/middleware"
	"github.com/PratikDhanave/backoffice-gateway/internal/proxy"
	"github.com/PratikDhanave/backoffice-gateway/internal/ratelimit"
	"github.com/PratikDhanave/backoffice-gateway/internal/render"
	"github.com/PratikDhanave/backoffice-gateway/internal/report"
	"github.com/PratikDhanave/backoffice-gateway/internal/routing"
)

// Pinger is a dependency checked by the readiness endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// GatewayDeps are the collaborators of the gateway router. A nil Validator
// means bearer presence is checked but not verified.
type GatewayDeps struct {
	Table      *routing.Table
	Limiter    ratelimit.Limiter
	Validator  auth.Validator
	Dispatcher *proxy.Dispatcher
	Log        *logger.Logger
	Metrics    *metrics.Metrics
	CORSOrigin string
}

// NewGatewayRouter wires the edge gateway.
// Public: /health, /metrics
// Rate limited: /api/* (bearer checked per route)
func NewGatewayRouter(d GatewayDeps) *gin.Engine {
	r := newEngine(d.Log, d.Metrics, d.CORSOrigin)

	r.GET("/health", handlers.Health("API Gateway funcionando"))
	r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	validator := d.Validator
	if validator == nil {
		validator = auth.PassThrough{}
	}
	fwd := &handlers.Forwarder{
		Table:      d.Table,
		Validator:  validator,
		Dispatcher: d.Dispatcher,
		Log:        d.Log,
		Metrics:    d.Metrics,
	}
	r.Any("/api/*path", middleware.RateLimit(d.Limiter, d.Log, d.Metrics), fwd.Handle)

	return r
}

// ReportsDeps are the collaborators of the reporting service router. Ready
// lists the stores pinged by /api/ready.
type ReportsDeps struct {
	Engine     *report.Engine
	Renderer   *render.Renderer
	Validator  auth.Validator
	Ready      []Pinger
	Log        *logger.Logger
	Metrics    *metrics.Metrics
	CORSOrigin string
	Now        func() time.Time
}

// NewReportsRouter wires the reporting service.
// Public: /api/health, /api/ready, /metrics
// Authenticated: /api/reports/*
func NewReportsRouter(d ReportsDeps) *gin.Engine {
	r := newEngine(d.Log, d.Metrics, d.CORSOrigin)

	r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	api := r.Group("/api")
	api.GET("/health", handlers.Health("Microservicio de Reportes funcionando"))

	// Readiness: confirms the record stores are reachable.
	api.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		for _, p := range d.Ready {
			if err := p.Ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "status": "not_ready", "message": "Dependencia no disponible"})
				if d.Log != nil {
					d.Log.Warn("readiness check failed", "error", err)
				}
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "status": "ready"})
	})
	api.POST("/login", handlers.RefuseLogin)

	protected := api.Group("/")
	protected.Use(auth.RequireBearer(d.Validator))
	handlers.RegisterReportRoutes(protected, &handlers.ReportHandler{
		Engine:   d.Engine,
		Renderer: d.Renderer,
		Log:      d.Log,
		Metrics:  d.Metrics,
		Now:      d.Now,
	})

	return r
}

func newEngine(log *logger.Logger, m *metrics.Metrics, corsOrigin string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Recovery(log),
		middleware.RequestLogger(log),
		middleware.Metrics(m),
		middleware.SecurityHeaders(),
		middleware.CORS(corsOrigin),
	)
	r.NoRoute(handlers.NotFound)
	r.NoMethod(handlers.NotFound)
	return r
}
