package sink

import (
	"bytes"
	"fmt"

	"git.sr.ht/~sbinet/gg"

	"github.com/matzehuels/furnidraw/pkg/drawing"
	"github.com/matzehuels/furnidraw/pkg/fonts"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	width  int
	margin float64
	scale  float64
}

// WithPNGWidth sets the image width in pixels before scaling (default
// 1600).
func WithPNGWidth(w int) PNGOption { return func(r *pngRenderer) { r.width = w } }

// WithScale sets the PNG scale factor (default 1.0; 2.0 for 2x resolution).
func WithScale(s float64) PNGOption { return func(r *pngRenderer) { r.scale = s } }

// RenderPNG rasterizes doc onto a white canvas.
func RenderPNG(doc *drawing.Document, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{width: 1600, margin: 40, scale: 1}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 {
		r.scale = 1
	}

	b := doc.Bounds()
	w := float64(r.width) * r.scale
	margin := r.margin * r.scale
	inner := w - 2*margin
	h := 2 * margin
	if bw := b.Width(); bw > 0 {
		h += b.Height() * inner / bw
	} else {
		h += inner
	}
	f := fitFrame(b, margin, margin, inner, h-2*margin, 1)

	dc := gg.NewContext(int(w), int(h))
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	for _, l := range doc.Lines {
		dc.SetColor(ACIColor(l.EffectiveColor()))
		dc.SetLineWidth(lineWidth(l.Layer) * r.scale)
		dc.DrawLine(f.x(l.X1), f.y(l.Y1), f.x(l.X2), f.y(l.Y2))
		dc.Stroke()
	}

	for _, t := range doc.Texts {
		if t.Value == "" {
			continue
		}
		size := t.Height * f.scale
		if size < 4 {
			continue
		}
		face, err := fonts.Face(size)
		if err != nil {
			return nil, fmt.Errorf("load font: %w", err)
		}
		dc.SetFontFace(face)
		dc.SetColor(ACIColor(t.EffectiveColor()))
		dc.DrawStringAnchored(t.Value, f.x(t.X), f.y(t.Y), anchorX(t.Align), 0)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func anchorX(a drawing.Align) float64 {
	switch a {
	case drawing.AlignLeft:
		return 0
	case drawing.AlignRight:
		return 1
	default:
		return 0.5
	}
}
