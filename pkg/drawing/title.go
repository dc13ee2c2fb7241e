package drawing

import (
	"fmt"
	"time"

	"github.com/matzehuels/furnidraw/pkg/geom"
)

// Envelope is the overall space size used by annotations, in millimetres.
type Envelope struct {
	Width, Height, Depth float64
}

// Extent returns the drawn width and height of the envelope in view.
func (e Envelope) Extent(view geom.View) (w, h float64) {
	switch view {
	case geom.Plan:
		return e.Width, e.Depth
	case geom.Left, geom.Right:
		return e.Depth, e.Height
	default:
		return e.Width, e.Height
	}
}

// AppendTitleBlock adds the title block to the right of the drawing and
// the overall size summary below it. The date is the only time-dependent
// value that ever enters a document.
func AppendTitleBlock(doc *Document, env Envelope, date time.Time) {
	w, h := env.Extent(doc.View)
	name := DrawingTypeName(doc.View)
	x := w + 500

	rows := []struct {
		dy     float64
		height float64
		text   string
	}{
		{100, 80, "Furniture Layout " + name},
		{200, 40, "Date: " + date.Format("2006-01-02")},
		{280, 40, "Drawing: " + name},
		{360, 40, "Scale: 1:100"},
		{440, 40, "Unit: mm"},
	}
	for _, r := range rows {
		doc.AddAlignedText(geom.Point{X: x, Y: h - r.dy}, r.text, r.height, LayerText, AlignLeft, RoleTitle)
	}

	primary, secondary := summaryLines(doc.View, env)
	doc.AddText(geom.Point{X: w / 2, Y: -200}, primary, 60, LayerText, RoleTitle)
	doc.AddText(geom.Point{X: w / 2, Y: -280}, secondary, 50, LayerText, RoleTitle)
}

func summaryLines(view geom.View, env Envelope) (string, string) {
	W, H, D := FormatMM(env.Width), FormatMM(env.Height), FormatMM(env.Depth)
	switch view {
	case geom.Plan:
		return fmt.Sprintf("Width: %smm x Depth: %smm", W, D), fmt.Sprintf("Space Height: %smm", H)
	case geom.Left, geom.Right:
		return fmt.Sprintf("Depth: %smm x Height: %smm", D, H), fmt.Sprintf("Space Width: %smm", W)
	default:
		return fmt.Sprintf("Width: %smm x Height: %smm", W, H), fmt.Sprintf("Space Depth: %smm", D)
	}
}

// AppendSpaceLabels adds the view caption above the drawing and the note
// naming the axis the view does not show.
func AppendSpaceLabels(doc *Document, env Envelope) {
	w, h := env.Extent(doc.View)
	W, H, D := FormatMM(env.Width), FormatMM(env.Height), FormatMM(env.Depth)

	var caption, note string
	switch doc.View {
	case geom.Plan:
		caption = fmt.Sprintf("Plan View: %smm(W) x %smm(D)", W, D)
		note = fmt.Sprintf("Space Height: %smm", H)
	case geom.Left, geom.Right:
		caption = fmt.Sprintf("Side Section: %smm(D) x %smm(H)", D, H)
		note = fmt.Sprintf("Space Width: %smm", W)
	default:
		caption = fmt.Sprintf("Front Elevation: %smm(W) x %smm(H)", W, H)
		note = fmt.Sprintf("Space Depth: %smm", D)
	}
	doc.AddText(geom.Point{X: w / 2, Y: h + 200}, caption, 100, LayerText, RoleLabel)
	doc.AddText(geom.Point{X: w / 2, Y: h + 300}, note, 60, LayerText, RoleLabel)
}
