package render

import "fmt"

// Artifact is a rendered report ready to be served as a download.
type Artifact struct {
	Filename    string
	ContentType string
	Body        []byte
}

// Renderer turns documents into workbook or PDF artifacts. It is stateless.
type Renderer struct{}

// NewRenderer returns a Renderer.
func NewRenderer() *Renderer { return &Renderer{} }

// Render encodes doc as format. Any format other than FormatExcel is
// rendered as a PDF.
func (r *Renderer) Render(doc Document, format Format) (*Artifact, error) {
	var (
		body []byte
		err  error
	)
	switch format {
	case FormatExcel:
		body, err = renderWorkbook(doc)
	default:
		format = FormatPDF
		body, err = renderPDF(doc)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s %s: %w", doc.FilePrefix, format, err)
	}
	return &Artifact{
		Filename:    Filename(doc.FilePrefix, format, doc.GeneratedAt),
		ContentType: format.ContentType(),
		Body:        body,
	}, nil
}
