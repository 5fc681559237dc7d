package report

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/PratikDhanave/backoffice-gateway/internal/apierr"
	"github.com/PratikDhanave/backoffice-gateway/internal/models"
)

// DefaultPageSize bounds how many records a single report reads.
const DefaultPageSize = 50

const (
	NoData     = "N/A"
	NoClient   = "Sin cliente"
	Unassigned = "Sin asignar"
)

// InvoiceSource reads invoices from the billing store.
type InvoiceSource interface {
	// FindInWindow returns at most limit invoices created inside w.
	FindInWindow(ctx context.Context, w Window, limit int) ([]models.Invoice, error)
	// SumTotals adds up the total of every stored invoice.
	SumTotals(ctx context.Context) (float64, error)
}

// WorkOrderSource reads work orders from the orders store.
type WorkOrderSource interface {
	FindPage(ctx context.Context, limit int) ([]models.WorkOrder, error)
	Count(ctx context.Context) (int64, error)
}

// UserCounter counts the accounts of the user directory.
type UserCounter interface {
	CountUsers(ctx context.Context) (int64, error)
}

// SalesSummary is the sales report over one date window.
type SalesSummary struct {
	Window          Window           `json:"-"`
	TotalIngresos   float64          `json:"total_ingresos"`
	TotalFacturas   int              `json:"total_facturas"`
	PromedioFactura float64          `json:"promedio_factura"`
	ClienteTop      string           `json:"cliente_top"`
	Facturas        []models.Invoice `json:"facturas"`
}

// WorkOrderSummary counts the latest work orders by estado.
type WorkOrderSummary struct {
	Total       int                `json:"total_ordenes"`
	Completadas int                `json:"completadas"`
	Pendientes  int                `json:"pendientes"`
	EnProgreso  int                `json:"en_progreso"`
	Canceladas  int                `json:"canceladas"`
	TecnicoTop  string             `json:"tecnico_top"`
	Ordenes     []models.WorkOrder `json:"ordenes"`
}

// DashboardSummary holds store-wide totals.
type DashboardSummary struct {
	TotalVentas   float64   `json:"total_ventas"`
	TotalOrdenes  int64     `json:"total_ordenes"`
	TotalUsuarios int64     `json:"total_usuarios"`
	GeneratedAt   time.Time `json:"fecha"`
}

// Engine computes report summaries over the record stores. It holds no
// mutable state and is safe for concurrent use.
type Engine struct {
	invoices InvoiceSource
	orders   WorkOrderSource
	users    UserCounter
	pageSize int
	now      func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithPageSize overrides DefaultPageSize. Non-positive values are ignored.
func WithPageSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.pageSize = n
		}
	}
}

// WithClock replaces time.Now for the dashboard timestamp.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine builds an engine over the three record sources.
func NewEngine(invoices InvoiceSource, orders WorkOrderSource, users UserCounter, opts ...Option) *Engine {
	e := &Engine{
		invoices: invoices,
		orders:   orders,
		users:    users,
		pageSize: DefaultPageSize,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Sales summarizes the invoices created inside w.
//
// The top client is the one with the largest cumulative total; on a tie the
// client seen first in the fetched page wins, so the result depends on the
// store's return order.
func (e *Engine) Sales(ctx context.Context, w Window) (*SalesSummary, error) {
	s := &SalesSummary{Window: w, ClienteTop: NoData, Facturas: []models.Invoice{}}
	if w.Empty() {
		return s, nil
	}

	invoices, err := e.invoices.FindInWindow(ctx, w, e.pageSize)
	if err != nil {
		return nil, apierr.Aggregation("Error al generar reporte", err)
	}

	byClient := make(map[string]float64)
	var order []string
	for _, inv := range invoices {
		total := models.Num(inv.Total)
		s.TotalIngresos += total
		s.TotalFacturas++

		client := models.Str(inv.ClienteNombre, NoClient)
		if _, ok := byClient[client]; !ok {
			order = append(order, client)
		}
		byClient[client] += total
	}
	s.Facturas = invoices
	if s.TotalFacturas > 0 {
		s.PromedioFactura = s.TotalIngresos / float64(s.TotalFacturas)
	}
	if top, ok := firstMax(order, func(k string) float64 { return byClient[k] }); ok {
		s.ClienteTop = top
	}
	return s, nil
}

// WorkOrders summarizes the first page of work orders. Orders without a
// state count as pending, and so do states outside the known set.
func (e *Engine) WorkOrders(ctx context.Context) (*WorkOrderSummary, error) {
	orders, err := e.orders.FindPage(ctx, e.pageSize)
	if err != nil {
		return nil, apierr.Aggregation("Error al generar reporte", err)
	}

	s := &WorkOrderSummary{Total: len(orders), TecnicoTop: NoData, Ordenes: orders}
	if s.Ordenes == nil {
		s.Ordenes = []models.WorkOrder{}
	}

	byTech := make(map[string]int)
	var order []string
	for _, o := range orders {
		switch models.Str(o.Estado, models.EstadoPendiente) {
		case models.EstadoCompletada:
			s.Completadas++
		case models.EstadoEnProgreso:
			s.EnProgreso++
		case models.EstadoCancelada:
			s.Canceladas++
		default:
			s.Pendientes++
		}

		tech := models.Str(o.TecnicoAsignado, Unassigned)
		if _, ok := byTech[tech]; !ok {
			order = append(order, tech)
		}
		byTech[tech]++
	}
	if top, ok := firstMax(order, func(k string) float64 { return float64(byTech[k]) }); ok {
		s.TecnicoTop = top
	}
	return s, nil
}

// Dashboard runs the three store-wide counts concurrently. Each reflects its
// own read time; a failure in any of them fails the whole summary.
func (e *Engine) Dashboard(ctx context.Context) (*DashboardSummary, error) {
	s := &DashboardSummary{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		total, err := e.invoices.SumTotals(gctx)
		if err != nil {
			return err
		}
		s.TotalVentas = total
		return nil
	})
	g.Go(func() error {
		n, err := e.orders.Count(gctx)
		if err != nil {
			return err
		}
		s.TotalOrdenes = n
		return nil
	})
	g.Go(func() error {
		n, err := e.users.CountUsers(gctx)
		if err != nil {
			return err
		}
		s.TotalUsuarios = n
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, apierr.Aggregation("Error al generar dashboard", err)
	}
	s.GeneratedAt = e.now()
	return s, nil
}

// firstMax returns the key with the largest value, keeping the earliest key on ties.
func firstMax(keys []string, value func(string) float64) (string, bool) {
	if len(keys) == 0 {
		return "", false
	}
	best := keys[0]
	for _, k := range keys[1:] {
		if value(k) > value(best) {
			best = k
		}
	}
	return best, true
}
