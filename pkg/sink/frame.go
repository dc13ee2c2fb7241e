package sink

import (
	"image/color"
	"math"

	"github.com/matzehuels/furnidraw/pkg/drawing"
	"github.com/matzehuels/furnidraw/pkg/geom"
)

// textWidthFactor approximates the advance of one character relative to
// the text height.
const textWidthFactor = 0.6

// TextWidth estimates the drawn width of value at height h.
func TextWidth(value string, h float64) float64 {
	return float64(len([]rune(value))) * h * textWidthFactor
}

// frame maps drawing millimetres onto a canvas whose y axis points down.
type frame struct {
	bounds geom.Bounds
	scale  float64
	// origin is the canvas position of the bounds center.
	originX, originY float64
}

// fitFrame scales bounds uniformly into the w x h box at (x, y), filling
// fill of the tighter axis, and centers it.
func fitFrame(b geom.Bounds, x, y, w, h, fill float64) frame {
	bw, bh := b.Width(), b.Height()
	scale := 1.0
	switch {
	case bw > 0 && bh > 0:
		scale = math.Min(w/bw, h/bh) * fill
	case bw > 0:
		scale = w / bw * fill
	case bh > 0:
		scale = h / bh * fill
	}
	return frame{bounds: b, scale: scale, originX: x + w/2, originY: y + h/2}
}

func (f frame) x(v float64) float64 {
	return f.originX + (v-(f.bounds.MinX+f.bounds.MaxX)/2)*f.scale
}

func (f frame) y(v float64) float64 {
	return f.originY - (v-(f.bounds.MinY+f.bounds.MaxY)/2)*f.scale
}

// textLeft returns the left edge of t in drawing units.
func textLeft(t drawing.Text) float64 {
	switch t.Align {
	case drawing.AlignLeft:
		return t.X
	case drawing.AlignRight:
		return t.X - TextWidth(t.Value, t.Height)
	default:
		return t.X - TextWidth(t.Value, t.Height)/2
	}
}

// ACIColor maps an AutoCAD color index onto RGB for light backgrounds.
// Index 7 is drawn black.
func ACIColor(aci int) color.RGBA {
	switch aci {
	case 1:
		return color.RGBA{R: 0xd0, A: 0xff}
	case 2:
		return color.RGBA{R: 0xc8, G: 0xa8, A: 0xff}
	case 3:
		return color.RGBA{G: 0x99, B: 0x33, A: 0xff}
	case 4:
		return color.RGBA{G: 0x99, B: 0xaa, A: 0xff}
	case 5:
		return color.RGBA{G: 0x33, B: 0xcc, A: 0xff}
	case 6:
		return color.RGBA{R: 0xaa, B: 0xaa, A: 0xff}
	case 8:
		return color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
	case 9:
		return color.RGBA{R: 0xc0, G: 0xc0, B: 0xc0, A: 0xff}
	default:
		return color.RGBA{A: 0xff}
	}
}

// lineWidth returns the stroke weight of a layer relative to the base
// width.
func lineWidth(l drawing.Layer) float64 {
	switch l {
	case drawing.LayerDimensions:
		return 0.8
	case drawing.LayerSpace:
		return 1.5
	default:
		return 1
	}
}
