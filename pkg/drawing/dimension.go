package drawing

import (
	"math"

	"github.com/matzehuels/furnidraw/pkg/geom"
)

// Side places a dimension relative to the measured edge.
type Side int

// Dimension placements. Below and Above measure along x; LeftOf and
// RightOf measure along y.
const (
	Below Side = iota
	Above
	LeftOf
	RightOf
)

// Dimension describes one dimension annotation: an offset dimension line,
// two end ticks, two extension lines back to the measured edge and a
// centered "{n}mm" label.
type Dimension struct {
	// From and To are the endpoints of the measured edge on the object.
	From, To geom.Point
	Side     Side

	// Offset is the distance from the edge to the dimension line.
	Offset float64
	// Tick is the half-length of the end ticks; extension lines overshoot
	// the dimension line by the same amount.
	Tick float64
	// TextGap is the distance from the dimension line to the label anchor.
	TextGap    float64
	TextHeight float64
	// MinLength suppresses the dimension when the measured length does not
	// exceed it.
	MinLength float64
	// TextLayer defaults to DIMENSIONS.
	TextLayer Layer
	// Extensions toggles the extension lines.
	Extensions bool
}

// Standard dimension styles.
var (
	// External is used around the whole space envelope.
	External = Dimension{Offset: 100, Tick: 20, TextGap: 50, TextHeight: 30, Extensions: true}

	// ModuleHeight is drawn to the right of each module.
	ModuleHeight = Dimension{Side: RightOf, Offset: 50, Tick: 20, TextGap: 30, TextHeight: 20,
		MinLength: 100, TextLayer: LayerText, Extensions: true}

	// ModuleWidth is drawn below each module.
	ModuleWidth = Dimension{Side: Below, Offset: 100, Tick: 20, TextGap: 30, TextHeight: 20,
		MinLength: 100, TextLayer: LayerText, Extensions: true}

	// ModuleDepth is drawn below each module in the side sections.
	ModuleDepth = Dimension{Side: Below, Offset: 120, Tick: 10, TextGap: 30, TextHeight: 15,
		MinLength: 100, TextLayer: LayerText}
)

// Measure returns a copy of d measuring from a to b on side s.
func (d Dimension) Measure(a, b geom.Point, s Side) Dimension {
	d.From, d.To, d.Side = a, b, s
	return d
}

// Length returns the measured distance along the dimension axis.
func (d Dimension) Length() float64 {
	if d.Side == Below || d.Side == Above {
		return math.Abs(d.To.X - d.From.X)
	}
	return math.Abs(d.To.Y - d.From.Y)
}

// Emit appends the dimension to doc. It reports false and emits nothing
// when the measured length is not above MinLength.
func (d Dimension) Emit(doc *Document) bool {
	length := d.Length()
	if length <= d.MinLength || length == 0 {
		return false
	}
	textLayer := d.TextLayer
	if textLayer == "" {
		textLayer = LayerDimensions
	}
	label := FormatMM(length) + "mm"

	switch d.Side {
	case Below, Above:
		sign := -1.0
		if d.Side == Above {
			sign = 1
		}
		y := d.From.Y + sign*d.Offset
		x1, x2 := d.From.X, d.To.X
		doc.AddLine(geom.Point{X: x1, Y: y}, geom.Point{X: x2, Y: y}, LayerDimensions, RoleDimension)
		doc.AddLine(geom.Point{X: x1, Y: y - d.Tick}, geom.Point{X: x1, Y: y + d.Tick}, LayerDimensions, RoleTick)
		doc.AddLine(geom.Point{X: x2, Y: y - d.Tick}, geom.Point{X: x2, Y: y + d.Tick}, LayerDimensions, RoleTick)
		if d.Extensions {
			end := y + sign*d.Tick
			doc.AddLine(geom.Point{X: x1, Y: d.From.Y}, geom.Point{X: x1, Y: end}, LayerDimensions, RoleExtension)
			doc.AddLine(geom.Point{X: x2, Y: d.To.Y}, geom.Point{X: x2, Y: end}, LayerDimensions, RoleExtension)
		}
		doc.AddText(geom.Point{X: (x1 + x2) / 2, Y: y + sign*d.TextGap}, label, d.TextHeight, textLayer, RoleMeasure)

	case LeftOf, RightOf:
		sign := -1.0
		if d.Side == RightOf {
			sign = 1
		}
		x := d.From.X + sign*d.Offset
		y1, y2 := d.From.Y, d.To.Y
		doc.AddLine(geom.Point{X: x, Y: y1}, geom.Point{X: x, Y: y2}, LayerDimensions, RoleDimension)
		doc.AddLine(geom.Point{X: x - d.Tick, Y: y1}, geom.Point{X: x + d.Tick, Y: y1}, LayerDimensions, RoleTick)
		doc.AddLine(geom.Point{X: x - d.Tick, Y: y2}, geom.Point{X: x + d.Tick, Y: y2}, LayerDimensions, RoleTick)
		if d.Extensions {
			end := x + sign*d.Tick
			doc.AddLine(geom.Point{X: d.From.X, Y: y1}, geom.Point{X: end, Y: y1}, LayerDimensions, RoleExtension)
			doc.AddLine(geom.Point{X: d.To.X, Y: y2}, geom.Point{X: end, Y: y2}, LayerDimensions, RoleExtension)
		}
		doc.AddText(geom.Point{X: x + sign*d.TextGap, Y: (y1 + y2) / 2}, label, d.TextHeight, textLayer, RoleMeasure)
	}
	return true
}

// ExternalSet appends the overall dimensions of a width x height rectangle
// anchored at the origin: width below and height to the left.
func ExternalSet(doc *Document, width, height float64) {
	origin := geom.Point{}
	External.Measure(origin, geom.Point{X: width}, Below).Emit(doc)
	External.Measure(origin, geom.Point{Y: height}, LeftOf).Emit(doc)
}

// BoundingSet appends width and height dimensions around b with the given
// margin. It is used where the geometry has no known envelope.
func BoundingSet(doc *Document, b geom.Bounds, margin float64) {
	if b.Empty() {
		return
	}
	d := External
	d.Offset = margin
	d.Measure(geom.Point{X: b.MinX, Y: b.MinY}, geom.Point{X: b.MaxX, Y: b.MinY}, Below).Emit(doc)
	d.Measure(geom.Point{X: b.MinX, Y: b.MinY}, geom.Point{X: b.MinX, Y: b.MaxY}, LeftOf).Emit(doc)
}
