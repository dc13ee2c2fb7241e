package sink

import (
	"bytes"
	"fmt"

	svg "github.com/ajstarks/svgo/float"

	"github.com/matzehuels/furnidraw/pkg/drawing"
	"github.com/matzehuels/furnidraw/pkg/fonts"
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	width  float64
	margin float64
	title  bool
}

// WithSVGWidth sets the canvas width in pixels (default 1200). The height
// follows the drawing's aspect ratio.
func WithSVGWidth(w float64) SVGOption { return func(r *svgRenderer) { r.width = w } }

// WithSVGMargin sets the canvas margin in pixels (default 40).
func WithSVGMargin(m float64) SVGOption { return func(r *svgRenderer) { r.margin = m } }

// WithSVGTitle adds the view title as the SVG <title> element.
func WithSVGTitle() SVGOption { return func(r *svgRenderer) { r.title = true } }

// RenderSVG renders doc as SVG with one group per layer, in registration
// order.
func RenderSVG(doc *drawing.Document, opts ...SVGOption) []byte {
	r := svgRenderer{width: 1200, margin: 40}
	for _, opt := range opts {
		opt(&r)
	}

	b := doc.Bounds()
	inner := r.width - 2*r.margin
	height := 2 * r.margin
	if bw := b.Width(); bw > 0 {
		height += b.Height() * inner / bw
	} else {
		height += inner
	}
	f := fitFrame(b, r.margin, r.margin, inner, height-2*r.margin, 1)

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(r.width, height, fmt.Sprintf(`viewBox="0 0 %.2f %.2f"`, r.width, height))
	if r.title {
		canvas.Title(doc.View.Title())
	}
	canvas.Rect(0, 0, r.width, height, "fill:white")

	for _, def := range drawing.Layers {
		lines, texts := layerPrimitives(doc, def.Name)
		if len(lines) == 0 && len(texts) == 0 {
			continue
		}
		canvas.Group(fmt.Sprintf(`id="layer-%s"`, def.Name), "fill:none")
		for _, l := range lines {
			canvas.Line(f.x(l.X1), f.y(l.Y1), f.x(l.X2), f.y(l.Y2),
				fmt.Sprintf("stroke:%s;stroke-width:%.2f", hexColor(l.EffectiveColor()), lineWidth(l.Layer)))
		}
		for _, t := range texts {
			canvas.Text(f.x(t.X), f.y(t.Y), t.Value,
				fmt.Sprintf("fill:%s;font-family:%s;font-size:%.2fpx;text-anchor:%s",
					hexColor(t.EffectiveColor()), fonts.FallbackFontFamily, t.Height*f.scale, anchor(t.Align)))
		}
		canvas.Gend()
	}
	canvas.End()
	return buf.Bytes()
}

// layerPrimitives returns the primitives drawn on layer. Unregistered layers
// are drawn with FURNITURE.
func layerPrimitives(doc *drawing.Document, layer drawing.Layer) ([]drawing.Line, []drawing.Text) {
	var lines []drawing.Line
	var texts []drawing.Text
	for _, l := range doc.Lines {
		if drawing.NormalizeLayer(string(l.Layer)) == layer {
			lines = append(lines, l)
		}
	}
	for _, t := range doc.Texts {
		if t.Value != "" && drawing.NormalizeLayer(string(t.Layer)) == layer {
			texts = append(texts, t)
		}
	}
	return lines, texts
}

func hexColor(aci int) string {
	c := ACIColor(aci)
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func anchor(a drawing.Align) string {
	switch a {
	case drawing.AlignLeft:
		return "start"
	case drawing.AlignRight:
		return "end"
	default:
		return "middle"
	}
}
