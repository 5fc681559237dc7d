package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/PratikDhanave/backoffice-gateway/internal/apierr"
	"github.com/PratikDhanave/backoffice-gateway/internal/auth"
	"github.com/PratikDhanave/backoffice-gateway/internal/logger"
	"github.com/PratikDhanave/backoffice-gateway/internal/metrics"
	"github.com/PratikDhanave/backoffice-gateway/internal/middleware"
	"github.com/PratikDhanave/backoffice-gateway/internal/proxy"
	"github.com/PratikDhanave/backoffice-gateway/internal/render"
	"github.com/PratikDhanave/backoffice-gateway/internal/routing"
)

const maxRequestBody = 8 << 20

// Forwarder serves every /api request of the gateway: route lookup, bearer
// gate for protected routes, one downstream call, error translation.
type Forwarder struct {
	Table      *routing.Table
	Validator  auth.Validator
	Dispatcher *proxy.Dispatcher
	Log        *logger.Logger
	Metrics    *metrics.Metrics
	Now        func() time.Time
}

// Handle resolves the request against the route table and relays it to the
// matched downstream service. The path is matched in its escaped form so an
// encoded "?" or "#" inside an id stays part of that id downstream.
func (f *Forwarder) Handle(c *gin.Context) {
	m, ok := f.Table.Lookup(c.Request.Method, c.Request.URL.EscapedPath())
	if !ok {
		NotFound(c)
		return
	}
	c.Set(middleware.RouteKey, m.Route.Name)

	ctx := c.Request.Context()
	authz := c.GetHeader("Authorization")
	if m.Route.AuthRequired {
		claims, err := auth.Check(ctx, f.Validator, authz)
		if err != nil {
			Abort(c, apierr.Unauthorized(err.Error()))
			return
		}
		ctx = auth.WithClaims(ctx, claims)
	}

	body, err := requestBody(c, m)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			Abort(c, apierr.PayloadTooLarge("Cuerpo de la petición demasiado grande"))
			return
		}
		Abort(c, apierr.BadRequest("Cuerpo de la petición inválido", err))
		return
	}

	call := proxy.Call{
		Method:        c.Request.Method,
		URL:           m.UpstreamURL(),
		RawQuery:      c.Request.URL.RawQuery,
		Body:          body,
		ContentType:   c.GetHeader("Content-Type"),
		Authorization: authz,
		RequestID:     middleware.RequestIDFrom(c),
		Timeout:       m.Timeout(),
		Binary:        m.Binary(),
	}

	res, err := f.Dispatcher.Forward(ctx, call)
	if failure := proxy.Translate(res, err, m.Fallback()); failure != nil {
		outcome := "error"
		if failure.Timeout() {
			outcome = "timeout"
		}
		f.Metrics.ObserveUpstream(m.Route.Name, outcome)
		if failure.Cause != nil && f.Log != nil {
			fields := []interface{}{
				"error", failure.Cause,
				"route", m.Route.Name,
				"upstream", call.URL,
				"timeout", failure.Timeout(),
				"request_id", call.RequestID,
			}
			if claims := auth.ClaimsFrom(ctx); claims != nil {
				fields = append(fields, "subject", claims.Subject)
			}
			f.Log.Error(failure.Message, fields...)
		}
		Abort(c, failure.Err())
		return
	}
	f.Metrics.ObserveUpstream(m.Route.Name, "ok")

	if m.Binary() {
		f.writeDocument(c, m, res)
		return
	}
	ct := res.Header.Get("Content-Type")
	if ct == "" {
		ct = "application/json; charset=utf-8"
	}
	c.Data(res.Status, ct, res.Body)
}

// writeDocument relays a report download. Missing headers are filled in
// from the requested formato.
func (f *Forwarder) writeDocument(c *gin.Context, m routing.Match, res *proxy.Result) {
	format := render.ParseFormat(c.Query("formato"))

	ct := res.Header.Get("Content-Type")
	if ct == "" {
		ct = format.ContentType()
	}
	disposition := res.Header.Get("Content-Disposition")
	if disposition == "" {
		now := time.Now
		if f.Now != nil {
			now = f.Now
		}
		disposition = render.ContentDisposition(render.Filename(m.Endpoint.Download, format, now()))
	}
	c.Header("Content-Disposition", disposition)
	c.Data(res.Status, ct, res.Body)
}

func requestBody(c *gin.Context, m routing.Match) ([]byte, error) {
	if m.Endpoint != nil && m.Endpoint.EmptyBody {
		return []byte("{}"), nil
	}
	switch c.Request.Method {
	case http.MethodGet, http.MethodDelete, http.MethodHead:
		return nil, nil
	}
	if c.Request.Body == nil {
		return nil, nil
	}
	return io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxRequestBody))
}
