package render

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/go-pdf/fpdf"
)

const (
	pageWidth  = 190.0 // A4 minus 10mm margins
	lineHeight = 7.0
)

var footerTmpl = template.Must(template.New("footer").Parse(
	`Generado: {{.Generated}} - Página {{.Page}} de {{.Pages}}`))

type footerData struct {
	Generated string
	Page      int
	Pages     string
}

func renderPDF(doc Document) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.SetCreationDate(doc.GeneratedAt)
	pdf.SetModificationDate(doc.GeneratedAt)
	pdf.SetCatalogSort(true)
	pdf.AliasNbPages("{nb}")

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(doc.Title, true)
	pdf.SetCreator("backoffice-reports", true)

	generated := doc.GeneratedAt.Format("02/01/2006 15:04")
	var footerErr error
	pdf.SetFooterFunc(func() {
		var b strings.Builder
		if err := footerTmpl.Execute(&b, footerData{Generated: generated, Page: pdf.PageNo(), Pages: "{nb}"}); err != nil {
			footerErr = err
			return
		}
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(0x66, 0x66, 0x66)
		pdf.CellFormat(0, 10, tr(b.String()), "", 0, "R", false, 0, "")
	})

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 12, tr(doc.Title), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	for _, field := range doc.Summary {
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(50, lineHeight, tr(field.Label), "", 0, "L", false, 0, "")
		style := ""
		if field.Emphasis {
			style = "B"
		}
		pdf.SetFont("Arial", style, 11)
		pdf.CellFormat(0, lineHeight, tr(field.Value), "", 1, "L", false, 0, "")
	}

	if doc.Table != nil {
		pdf.Ln(6)
		widths := scaleWidths(doc.ColumnWidths, len(doc.Table.Headers))

		pdf.SetFont("Arial", "B", 10)
		pdf.SetFillColor(0x4C, 0xAF, 0x50)
		pdf.SetTextColor(0xFF, 0xFF, 0xFF)
		pdf.SetDrawColor(0xDD, 0xDD, 0xDD)
		for i, h := range doc.Table.Headers {
			pdf.CellFormat(widths[i], 8, tr(h), "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Arial", "", 9)
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFillColor(0xF5, 0xF5, 0xF5)
		for n, r := range doc.Table.Rows {
			fill := n%2 == 1
			for i := range doc.Table.Headers {
				v := ""
				if i < len(r) {
					v = r[i]
				}
				pdf.CellFormat(widths[i], lineHeight, tr(v), "1", 0, "L", fill, 0, "")
			}
			pdf.Ln(-1)
		}
		if len(doc.Table.Rows) == 0 && doc.Table.Empty != "" {
			pdf.CellFormat(sum(widths), lineHeight, tr(doc.Table.Empty), "1", 1, "L", false, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}
	if footerErr != nil {
		return nil, fmt.Errorf("failed to render footer: %w", footerErr)
	}
	return buf.Bytes(), nil
}

// scaleWidths stretches the workbook column widths over the printable page width.
func scaleWidths(widths []float64, n int) []float64 {
	out := make([]float64, n)
	if n == 0 {
		return out
	}
	total := 0.0
	for i := 0; i < n; i++ {
		if i < len(widths) {
			total += widths[i]
		}
	}
	for i := range out {
		if total == 0 || i >= len(widths) {
			out[i] = pageWidth / float64(n)
			continue
		}
		out[i] = widths[i] / total * pageWidth
	}
	return out
}

func sum(v []float64) float64 {
	t := 0.0
	for _, x := range v {
		t += x
	}
	return t
}
