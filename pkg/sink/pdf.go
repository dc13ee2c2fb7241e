package sink

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-pdf/fpdf"

	"github.com/matzehuels/furnidraw/pkg/drawing"
)

// Page layout in millimetres on A4 landscape.
const (
	pdfMargin      = 20.0
	pdfTitleHeight = 15.0
	pdfFill        = 0.85
)

// ErrNoPages is returned by [RenderPDF] when every page is empty.
var ErrNoPages = errors.New("sink: no drawable views")

// PDFOption configures PDF rendering.
type PDFOption func(*pdfRenderer)

type pdfRenderer struct {
	width, height, depth float64
	date                 time.Time
	title                string
	logger               *log.Logger
	uncompressed         bool
}

// WithPDFSpace sets the space size printed in each page subtitle.
func WithPDFSpace(width, height, depth float64) PDFOption {
	return func(r *pdfRenderer) { r.width, r.height, r.depth = width, height, depth }
}

// WithPDFDate sets the document creation date.
func WithPDFDate(t time.Time) PDFOption { return func(r *pdfRenderer) { r.date = t } }

// WithPDFTitle sets the document metadata title.
func WithPDFTitle(s string) PDFOption { return func(r *pdfRenderer) { r.title = s } }

// WithPDFLogger sets the logger used to report skipped views.
func WithPDFLogger(l *log.Logger) PDFOption { return func(r *pdfRenderer) { r.logger = l } }

// WithPDFCompression toggles stream compression. Output is compressed by
// default.
func WithPDFCompression(on bool) PDFOption { return func(r *pdfRenderer) { r.uncompressed = !on } }

// RenderPDF renders one A4 landscape page per non-empty document. Each
// drawing is scaled uniformly to fill 85% of the drawable area, centered,
// and flipped so y points up. Empty documents are skipped with a warning.
func RenderPDF(docs []*drawing.Document, opts ...PDFOption) ([]byte, error) {
	r := pdfRenderer{title: "Furniture Drawings", date: time.Unix(0, 0).UTC()}
	for _, opt := range opts {
		opt(&r)
	}
	if r.logger == nil {
		r.logger = log.Default()
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetCreationDate(r.date)
	pdf.SetModificationDate(r.date)
	pdf.SetCatalogSort(true)
	pdf.SetTitle(r.title, false)
	pdf.SetCreator("furnidraw", false)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCompression(!r.uncompressed)

	pages := 0
	for _, doc := range docs {
		if doc == nil || doc.Empty() {
			name := "unknown"
			if doc != nil {
				name = string(doc.View)
			}
			r.logger.Warn("skipping empty view", "view", name)
			continue
		}
		pdf.AddPage()
		r.page(pdf, doc)
		pages++
	}
	if pages == 0 {
		return nil, ErrNoPages
	}
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *pdfRenderer) page(pdf *fpdf.Fpdf, doc *drawing.Document) {
	pw, ph := pdf.GetPageSize()
	dw := pw - 2*pdfMargin
	dh := ph - 2*pdfMargin - pdfTitleHeight
	f := fitFrame(doc.Bounds(), pdfMargin, pdfMargin+pdfTitleHeight, dw, dh, pdfFill)

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 14)
	centered(pdf, doc.View.Title(), pw/2, pdfMargin+8)

	if r.width > 0 {
		pdf.SetFont("Helvetica", "", 9)
		centered(pdf, drawing.DimensionString(r.width, r.height, r.depth)+" mm", pw/2, pdfMargin+13)
	}

	// Light frame around the drawable area.
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.2)
	pdf.Rect(pdfMargin, pdfMargin, pw-2*pdfMargin, ph-2*pdfMargin, "D")

	for _, l := range doc.Lines {
		c := ACIColor(l.EffectiveColor())
		pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
		pdf.SetLineWidth(0.1 * lineWidth(l.Layer))
		pdf.Line(f.x(l.X1), f.y(l.Y1), f.x(l.X2), f.y(l.Y2))
	}

	pdf.SetFont("Helvetica", "", 8)
	for _, t := range doc.Texts {
		if t.Value == "" {
			continue
		}
		// Font size in points; the drawing height is in mm.
		size := math.Max(t.Height*f.scale*0.5/0.3528, 6)
		pdf.SetFontSize(size)
		c := ACIColor(t.EffectiveColor())
		pdf.SetTextColor(int(c.R), int(c.G), int(c.B))
		x := f.x(t.X)
		switch t.Align {
		case drawing.AlignLeft:
			pdf.Text(x, f.y(t.Y), t.Value)
		case drawing.AlignRight:
			pdf.Text(x-pdf.GetStringWidth(t.Value), f.y(t.Y), t.Value)
		default:
			centered(pdf, t.Value, x, f.y(t.Y))
		}
	}

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(128, 128, 128)
	label := "Scale 1:" + drawing.FormatMM(scaleDenominator(f.scale))
	pdf.Text(pw-pdfMargin-pdf.GetStringWidth(label)-2, ph-pdfMargin-2, label)
}

func centered(pdf *fpdf.Fpdf, s string, x, y float64) {
	pdf.Text(x-pdf.GetStringWidth(s)/2, y, s)
}

// scaleDenominator returns n for a page scale of 1:n.
func scaleDenominator(scale float64) float64 {
	if scale <= 0 {
		return 1
	}
	return math.Max(1, math.Round(1/scale))
}
