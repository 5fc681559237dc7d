package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/PratikDhanave/backoffice-gateway/internal/apierr"
	"github.com/PratikDhanave/backoffice-gateway/internal/logger"
	"github.com/PratikDhanave/backoffice-gateway/internal/metrics"
	"github.com/PratikDhanave/backoffice-gateway/internal/render"
	"github.com/PratikDhanave/backoffice-gateway/internal/report"
)

// ReportHandler serves the report downloads of the reporting service.
type ReportHandler struct {
	Engine   *report.Engine
	Renderer *render.Renderer
	Log      *logger.Logger
	Metrics  *metrics.Metrics
	Now      func() time.Time
}

// RegisterReportRoutes registers the download endpoints.
//
// GET /reports/ventas?formato=&fecha_inicio=&fecha_fin=
// GET /reports/ordenes?formato=
// GET /reports/dashboard?formato=
// - formato=excel returns a workbook, anything else a PDF
// - fecha_inicio / fecha_fin are YYYY-MM-DD; malformed dates are a 422
func RegisterReportRoutes(r gin.IRoutes, h *ReportHandler) {
	r.GET("/reports/ventas", h.Sales)
	r.GET("/reports/ordenes", h.WorkOrders)
	r.GET("/reports/dashboard", h.Dashboard)
}

func (h *ReportHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// Sales serves the sales report for the fecha_inicio/fecha_fin window,
// which defaults to the current month.
func (h *ReportHandler) Sales(c *gin.Context) {
	now := h.now()
	w, err := report.ParseWindow(c.Query("fecha_inicio"), c.Query("fecha_fin"), now)
	if err != nil {
		FailErr(c, h.Log, err)
		return
	}
	s, err := h.Engine.Sales(c.Request.Context(), w)
	if err != nil {
		FailErr(c, h.Log, err)
		return
	}
	h.send(c, "ventas", render.SalesDocument(s, now))
}

// WorkOrders serves the work order report over the most recent orders.
func (h *ReportHandler) WorkOrders(c *gin.Context) {
	s, err := h.Engine.WorkOrders(c.Request.Context())
	if err != nil {
		FailErr(c, h.Log, err)
		return
	}
	h.send(c, "ordenes", render.WorkOrdersDocument(s, h.now()))
}

// Dashboard serves the cross-store totals report.
func (h *ReportHandler) Dashboard(c *gin.Context) {
	s, err := h.Engine.Dashboard(c.Request.Context())
	if err != nil {
		FailErr(c, h.Log, err)
		return
	}
	h.send(c, "dashboard", render.DashboardDocument(s))
}

func (h *ReportHandler) send(c *gin.Context, kind string, doc render.Document) {
	format := render.ParseFormat(c.Query("formato"))
	a, err := h.Renderer.Render(doc, format)
	if err != nil {
		if h.Log != nil {
			h.Log.Error("render failed", "error", err, "report", kind, "format", string(format))
		}
		Abort(c, apierr.New(apierr.KindInternal, "Error al generar reporte", err))
		return
	}
	h.Metrics.ReportGenerated(kind, string(format))

	c.Header("Content-Disposition", render.ContentDisposition(a.Filename))
	c.Header("Content-Length", strconv.Itoa(len(a.Body)))
	c.Data(http.StatusOK, a.ContentType, a.Body)
}

// RefuseLogin points callers at the auth service; this service issues no tokens.
func RefuseLogin(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{"error": "Use auth service"})
}
