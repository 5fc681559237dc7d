package render

import (
	"strings"
	"time"
)

// Format is the output document type of a report.
type Format string

const (
	FormatPDF   Format = "pdf"
	FormatExcel Format = "excel"
)

// ParseFormat maps the formato query value. Only "excel" selects the
// workbook; anything else, including "", selects PDF.
func ParseFormat(s string) Format {
	if strings.EqualFold(strings.TrimSpace(s), string(FormatExcel)) {
		return FormatExcel
	}
	return FormatPDF
}

func (f Format) ContentType() string {
	if f == FormatExcel {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/pdf"
}

func (f Format) Extension() string {
	if f == FormatExcel {
		return "xlsx"
	}
	return "pdf"
}

// Filename builds "<prefix>_<YYYY-MM-DD>.<ext>".
func Filename(prefix string, f Format, at time.Time) string {
	return prefix + "_" + at.Format("2006-01-02") + "." + f.Extension()
}

// ContentDisposition is the attachment header value for filename.
func ContentDisposition(filename string) string {
	return `attachment; filename="` + filename + `"`
}
