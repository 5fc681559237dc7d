package render

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/PratikDhanave/backoffice-gateway/internal/models"
	"github.com/PratikDhanave/backoffice-gateway/internal/report"
)

var generatedAt = time.Date(2024, 5, 1, 9, 15, 0, 0, time.UTC)

func str(s string) *string   { return &s }
func num(f float64) *float64 { return &f }

func salesFixture() *report.SalesSummary {
	w, _ := report.ParseWindow("2024-01-01", "2024-04-30", generatedAt)
	return &report.SalesSummary{
		Window:          w,
		TotalIngresos:   1600,
		TotalFacturas:   2,
		PromedioFactura: 800,
		ClienteTop:      "Acme",
		Facturas: []models.Invoice{
			{NumeroFactura: str("F-001"), ClienteNombre: str("Acme"), Total: num(1500), Estado: str("pagada")},
			{NumeroFactura: str("F-002"), Total: num(100)},
		},
	}
}

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatExcel, ParseFormat("excel"))
	assert.Equal(t, FormatExcel, ParseFormat("EXCEL"))
	assert.Equal(t, FormatPDF, ParseFormat("pdf"))
	assert.Equal(t, FormatPDF, ParseFormat(""))
	assert.Equal(t, FormatPDF, ParseFormat("csv"))
}

func TestSalesDocumentPlaceholders(t *testing.T) {
	doc := SalesDocument(salesFixture(), generatedAt)

	require.Len(t, doc.Table.Rows, 2)
	assert.Equal(t, []string{"F-001", "Acme", "$1,500.00", "pagada"}, doc.Table.Rows[0])
	assert.Equal(t, []string{"F-002", "N/A", "$100.00", "N/A"}, doc.Table.Rows[1])
	assert.Equal(t, "2024-01-01 al 2024-04-30", doc.Summary[0].Value)
	assert.Equal(t, "$1,600.00", doc.Summary[1].Value)
}

func TestWorkOrdersDocumentPlaceholders(t *testing.T) {
	s := &report.WorkOrderSummary{
		Total:      1,
		Pendientes: 1,
		TecnicoTop: report.Unassigned,
		Ordenes:    []models.WorkOrder{{NumeroOrden: str("OT-9")}},
	}
	doc := WorkOrdersDocument(s, generatedAt)
	require.Len(t, doc.Table.Rows, 1)
	assert.Equal(t, []string{"OT-9", "N/A", "Sin asignar", "N/A", "N/A", "media"}, doc.Table.Rows[0])
	for _, v := range doc.Table.Rows[0] {
		assert.NotEmpty(t, v)
	}
}

func TestRenderWorkbookMatchesDocument(t *testing.T) {
	doc := SalesDocument(salesFixture(), generatedAt)
	a, err := NewRenderer().Render(doc, FormatExcel)
	require.NoError(t, err)
	assert.Equal(t, "Reporte_Ventas_2024-05-01.xlsx", a.Filename)
	assert.Equal(t, FormatExcel.ContentType(), a.ContentType)

	f, err := excelize.OpenReader(bytes.NewReader(a.Body))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Reporte Ventas")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 11)

	assert.Equal(t, "REPORTE DE VENTAS", rows[0][0])
	assert.Equal(t, []string{"Total Ingresos:", "$1,600.00"}, rows[3])
	assert.Equal(t, doc.Table.Headers, rows[8])
	assert.Equal(t, doc.Table.Rows[0], rows[9])
	assert.Equal(t, doc.Table.Rows[1], rows[10])

	width, err := f.GetColWidth("Reporte Ventas", "B")
	require.NoError(t, err)
	assert.Equal(t, 25.0, width)
}

func TestRenderWorkbookEmptyTable(t *testing.T) {
	s := salesFixture()
	s.Facturas = nil
	a, err := NewRenderer().Render(SalesDocument(s, generatedAt), FormatExcel)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(a.Body))
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue("Reporte Ventas", "A10")
	require.NoError(t, err)
	assert.Equal(t, "Sin facturas", v)
}

func TestRenderPDFIsDeterministic(t *testing.T) {
	doc := SalesDocument(salesFixture(), generatedAt)
	r := NewRenderer()

	a1, err := r.Render(doc, FormatPDF)
	require.NoError(t, err)
	a2, err := r.Render(doc, FormatPDF)
	require.NoError(t, err)

	assert.Equal(t, "Reporte_Ventas_2024-05-01.pdf", a1.Filename)
	assert.Equal(t, "application/pdf", a1.ContentType)
	assert.True(t, bytes.HasPrefix(a1.Body, []byte("%PDF-")))
	assert.Equal(t, a1.Body, a2.Body)
}

func TestRenderPDFCarriesTableCells(t *testing.T) {
	doc := SalesDocument(salesFixture(), generatedAt)
	a, err := NewRenderer().Render(doc, FormatPDF)
	require.NoError(t, err)

	rd, err := pdf.NewReader(bytes.NewReader(a.Body), int64(len(a.Body)))
	require.NoError(t, err)
	plain, err := rd.GetPlainText()
	require.NoError(t, err)
	text, err := io.ReadAll(plain)
	require.NoError(t, err)

	for _, want := range []string{"REPORTE DE VENTAS", "F-001", "Acme", "$1,500.00", "F-002", "N/A"} {
		assert.Contains(t, string(text), want)
	}
}

func TestRenderDashboard(t *testing.T) {
	doc := DashboardDocument(&report.DashboardSummary{TotalVentas: 99.5, TotalOrdenes: 4, TotalUsuarios: 2, GeneratedAt: generatedAt})
	assert.Nil(t, doc.Table)
	assert.Equal(t, "01/05/2024 09:15", doc.Summary[3].Value)

	for _, f := range []Format{FormatPDF, FormatExcel} {
		a, err := NewRenderer().Render(doc, f)
		require.NoError(t, err)
		assert.Equal(t, "Dashboard_2024-05-01."+f.Extension(), a.Filename)
		assert.NotEmpty(t, a.Body)
	}
}
