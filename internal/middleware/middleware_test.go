package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PratikDhanave/backoffice-gateway/internal/logger"
	"github.com/PratikDhanave/backoffice-gateway/internal/metrics"
	"github.com/PratikDhanave/backoffice-gateway/internal/ratelimit"
)

type brokenLimiter struct{}

func (brokenLimiter) Allow(context.Context) (ratelimit.Decision, error) {
	return ratelimit.Decision{}, errors.New("redis down")
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, RequestIDFrom(c)) })
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	return r
}

func get(r http.Handler, path string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRequestIDGeneratedAndKept(t *testing.T) {
	r := newEngine(RequestID())

	rec := get(r, "/ok")
	id := rec.Header().Get(RequestIDHeader)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, rec.Body.String())

	rec = get(r, "/ok", RequestIDHeader, "abc-123")
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestRecoveryEnvelope(t *testing.T) {
	rec := get(newEngine(RequestID(), Recovery(logger.Nop())), "/panic")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"Error interno del servidor"}`, rec.Body.String())
}

func TestRateLimitRejectsAfterBudget(t *testing.T) {
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	l := ratelimit.NewFixedWindow(2, 15*time.Minute, ratelimit.ClockFunc(func() time.Time { return now }))
	m := metrics.New("test")
	r := newEngine(RateLimit(l, logger.Nop(), m))

	assert.Equal(t, http.StatusOK, get(r, "/ok").Code)
	rec := get(r, "/ok")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	rec = get(r, "/ok")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"Demasiadas peticiones, intente más tarde"}`, rec.Body.String())
	assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
}

func TestRateLimitFailsOpen(t *testing.T) {
	r := newEngine(RateLimit(brokenLimiter{}, logger.Nop(), nil))
	assert.Equal(t, http.StatusOK, get(r, "/ok").Code)
}

func TestMetricsMiddlewareRecordsRoute(t *testing.T) {
	m := metrics.New("test")
	r := newEngine(Metrics(m))
	r.GET("/metrics", gin.WrapH(m.Handler()))

	get(r, "/ok")
	rec := get(r, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `test_http_requests_total{method="GET",route="/ok",status="200"} 1`))
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	r := newEngine(CORS("http://localhost:5173"))
	rec := get(r, "/ok", "Origin", "http://localhost:5173")
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = get(newEngine(CORS("*")), "/ok", "Origin", "http://anything.example")
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestSecurityHeaders(t *testing.T) {
	r := newEngine(SecurityHeaders())

	rec := get(r, "/ok")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-referrer", rec.Header().Get("Referrer-Policy"))
	assert.Equal(t, "noopen", rec.Header().Get("X-Download-Options"))
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "frame-ancestors 'none'")
}
