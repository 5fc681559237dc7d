package render

import (
	"strconv"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/PratikDhanave/backoffice-gateway/internal/models"
	"github.com/PratikDhanave/backoffice-gateway/internal/report"
)

// Field is one label/value line of a document's summary block.
type Field struct {
	Label    string
	Value    string
	Emphasis bool
}

// Table is the record listing of a document. Empty is shown as a single row
// when there are no records.
type Table struct {
	Headers []string
	Rows    [][]string
	Empty   string
}

// Document is the format-neutral content of a report. Both renderers draw
// from the same Document, so the two formats carry the same information.
type Document struct {
	Title        string
	SheetName    string
	FilePrefix   string
	ColumnWidths []float64
	Summary      []Field
	Table        *Table
	GeneratedAt  time.Time
}

var numbers = message.NewPrinter(language.English)

func money(v float64) string { return "$" + numbers.Sprintf("%.2f", v) }

func moneyOr(p *float64) string {
	if p == nil {
		return report.NoData
	}
	return money(*p)
}

func quantityOr(p *float64) string {
	if p == nil {
		return report.NoData
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}

// SalesDocument lays out the sales report generated at at.
func SalesDocument(s *report.SalesSummary, at time.Time) Document {
	rows := make([][]string, 0, len(s.Facturas))
	for _, f := range s.Facturas {
		rows = append(rows, []string{
			models.Str(f.NumeroFactura, report.NoData),
			models.Str(f.ClienteNombre, report.NoData),
			moneyOr(f.Total),
			models.Str(f.Estado, report.NoData),
		})
	}
	return Document{
		Title:        "REPORTE DE VENTAS",
		SheetName:    "Reporte Ventas",
		FilePrefix:   "Reporte_Ventas",
		ColumnWidths: []float64{15, 25, 15, 15},
		Summary: []Field{
			{Label: "Período:", Value: s.Window.StartDate() + " al " + s.Window.EndDate()},
			{Label: "Total Ingresos:", Value: money(s.TotalIngresos), Emphasis: true},
			{Label: "Total Facturas:", Value: strconv.Itoa(s.TotalFacturas)},
			{Label: "Cliente Top:", Value: s.ClienteTop},
			{Label: "Promedio Factura:", Value: money(s.PromedioFactura)},
		},
		Table: &Table{
			Headers: []string{"Número", "Cliente", "Total", "Estado"},
			Rows:    rows,
			Empty:   "Sin facturas",
		},
		GeneratedAt: at,
	}
}

// WorkOrdersDocument lays out the work order report generated at at.
func WorkOrdersDocument(s *report.WorkOrderSummary, at time.Time) Document {
	rows := make([][]string, 0, len(s.Ordenes))
	for _, o := range s.Ordenes {
		rows = append(rows, []string{
			models.Str(o.NumeroOrden, report.NoData),
			models.Str(o.ClienteNombre, report.NoData),
			models.Str(o.TecnicoAsignado, report.Unassigned),
			models.Str(o.Estado, report.NoData),
			quantityOr(o.HorasTrabajadas),
			models.Str(o.Prioridad, "media"),
		})
	}
	return Document{
		Title:        "REPORTE DE ÓRDENES DE TRABAJO",
		SheetName:    "Reporte Órdenes",
		FilePrefix:   "Reporte_Ordenes",
		ColumnWidths: []float64{18, 18, 18, 18, 18, 18},
		Summary: []Field{
			{Label: "Total Órdenes:", Value: strconv.Itoa(s.Total)},
			{Label: "Completadas:", Value: strconv.Itoa(s.Completadas)},
			{Label: "Pendientes:", Value: strconv.Itoa(s.Pendientes)},
			{Label: "En Progreso:", Value: strconv.Itoa(s.EnProgreso)},
			{Label: "Canceladas:", Value: strconv.Itoa(s.Canceladas)},
			{Label: "Técnico Top:", Value: s.TecnicoTop},
		},
		Table: &Table{
			Headers: []string{"Número", "Cliente", "Técnico", "Estado", "Horas", "Prioridad"},
			Rows:    rows,
			Empty:   "Sin órdenes",
		},
		GeneratedAt: at,
	}
}

// DashboardDocument lays out the dashboard, stamped with its generation time.
func DashboardDocument(s *report.DashboardSummary) Document {
	return Document{
		Title:        "DASHBOARD EJECUTIVO",
		SheetName:    "Dashboard",
		FilePrefix:   "Dashboard",
		ColumnWidths: []float64{20, 20},
		Summary: []Field{
			{Label: "Total Ventas:", Value: money(s.TotalVentas), Emphasis: true},
			{Label: "Total Órdenes:", Value: strconv.FormatInt(s.TotalOrdenes, 10)},
			{Label: "Total Usuarios:", Value: strconv.FormatInt(s.TotalUsuarios, 10)},
			{Label: "Generado:", Value: s.GeneratedAt.Format("02/01/2006 15:04")},
		},
		GeneratedAt: s.GeneratedAt,
	}
}
