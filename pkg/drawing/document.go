package drawing

import (
	"github.com/matzehuels/furnidraw/pkg/geom"
)

// Layer names a CAD layer.
type Layer string

// The fixed layer set. Layer "0" exists in every DXF file and only carries
// setup entities.
const (
	LayerDefault    Layer = "0"
	LayerFurniture  Layer = "FURNITURE"
	LayerSpace      Layer = "SPACE"
	LayerDimensions Layer = "DIMENSIONS"
	LayerText       Layer = "TEXT"
	LayerDoor       Layer = "DOOR"
)

// LayerDef is a layer with its default ACI color.
type LayerDef struct {
	Name  Layer
	Color int
}

// Layers is the registered layer set in registration order.
var Layers = []LayerDef{
	{LayerDefault, 7},
	{LayerFurniture, 3},
	{LayerSpace, 8},
	{LayerDimensions, 1},
	{LayerText, 5},
	{LayerDoor, 4},
}

// Color returns the default ACI color of l, or the FURNITURE color for an
// unregistered layer.
func (l Layer) Color() int {
	for _, def := range Layers {
		if def.Name == l {
			return def.Color
		}
	}
	return 3
}

// Registered reports whether l belongs to the fixed layer set.
func (l Layer) Registered() bool {
	for _, def := range Layers {
		if def.Name == l {
			return true
		}
	}
	return false
}

// NormalizeLayer maps a layer name onto the fixed set; unknown names fall
// back to FURNITURE.
func NormalizeLayer(name string) Layer {
	if l := Layer(name); l.Registered() {
		return l
	}
	return LayerFurniture
}

// ColorByLayer leaves the entity color to its layer.
const ColorByLayer = 0

// Role tags what a primitive depicts. It is attached by the code that
// creates the primitive and never inferred afterwards.
type Role string

// Primitive roles.
const (
	RoleBoundary      Role = "boundary"
	RoleBaseFrame     Role = "base_frame"
	RoleOutline       Role = "outline"
	RoleCenterDivider Role = "center_divider"
	RoleDrawerDivider Role = "drawer_divider"
	RoleSection       Role = "section"
	RoleShelf         Role = "shelf"
	RoleRod           Role = "rod"
	RoleSupport       Role = "support"
	RoleEdge          Role = "edge"
	RoleDimension     Role = "dimension"
	RoleTick          Role = "tick"
	RoleExtension     Role = "extension"
	RoleMeasure       Role = "measure"
	RoleName          Role = "name"
	RoleSize          Role = "size"
	RoleLabel         Role = "label"
	RoleTitle         Role = "title"
)

// Align is the horizontal anchor of a text primitive.
type Align string

// Text alignments.
const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// Line is a 2D segment in millimetres.
type Line struct {
	X1    float64 `json:"x1" msgpack:"x1"`
	Y1    float64 `json:"y1" msgpack:"y1"`
	X2    float64 `json:"x2" msgpack:"x2"`
	Y2    float64 `json:"y2" msgpack:"y2"`
	Layer Layer   `json:"layer" msgpack:"layer"`
	Color int     `json:"color,omitempty" msgpack:"color,omitempty"`
	Role  Role    `json:"role" msgpack:"role"`
}

// Start returns the first endpoint.
func (l Line) Start() geom.Point { return geom.Point{X: l.X1, Y: l.Y1} }

// End returns the second endpoint.
func (l Line) End() geom.Point { return geom.Point{X: l.X2, Y: l.Y2} }

// EffectiveColor resolves [ColorByLayer] to the layer color.
func (l Line) EffectiveColor() int {
	if l.Color != ColorByLayer {
		return l.Color
	}
	return l.Layer.Color()
}

// Text is a single-line annotation anchored at (X, Y).
type Text struct {
	X      float64 `json:"x" msgpack:"x"`
	Y      float64 `json:"y" msgpack:"y"`
	Value  string  `json:"value" msgpack:"value"`
	Height float64 `json:"height" msgpack:"height"`
	Layer  Layer   `json:"layer" msgpack:"layer"`
	Color  int     `json:"color,omitempty" msgpack:"color,omitempty"`
	Align  Align   `json:"align,omitempty" msgpack:"align,omitempty"`
	Role   Role    `json:"role" msgpack:"role"`
}

// EffectiveColor resolves [ColorByLayer] to the layer color.
func (t Text) EffectiveColor() int {
	if t.Color != ColorByLayer {
		return t.Color
	}
	return t.Layer.Color()
}

// Document is an ordered set of drawing primitives for one view.
type Document struct {
	Name  string    `json:"name" msgpack:"name"`
	View  geom.View `json:"view" msgpack:"view"`
	Lines []Line    `json:"lines" msgpack:"lines"`
	Texts []Text    `json:"texts" msgpack:"texts"`
}

// New returns an empty document for view.
func New(view geom.View) *Document {
	return &Document{View: view}
}

// AddLine appends a by-layer line from a to b.
func (d *Document) AddLine(a, b geom.Point, layer Layer, role Role) {
	d.Lines = append(d.Lines, Line{X1: a.X, Y1: a.Y, X2: b.X, Y2: b.Y, Layer: layer, Role: role})
}

// AddColoredLine appends a line with an explicit ACI color.
func (d *Document) AddColoredLine(a, b geom.Point, layer Layer, color int, role Role) {
	d.Lines = append(d.Lines, Line{X1: a.X, Y1: a.Y, X2: b.X, Y2: b.Y, Layer: layer, Color: color, Role: role})
}

// AddRect appends the four edges of the rectangle lo-hi, counter-clockwise
// from the bottom edge.
func (d *Document) AddRect(lo, hi geom.Point, layer Layer, role Role) {
	d.AddLine(geom.Point{X: lo.X, Y: lo.Y}, geom.Point{X: hi.X, Y: lo.Y}, layer, role)
	d.AddLine(geom.Point{X: hi.X, Y: lo.Y}, geom.Point{X: hi.X, Y: hi.Y}, layer, role)
	d.AddLine(geom.Point{X: hi.X, Y: hi.Y}, geom.Point{X: lo.X, Y: hi.Y}, layer, role)
	d.AddLine(geom.Point{X: lo.X, Y: hi.Y}, geom.Point{X: lo.X, Y: lo.Y}, layer, role)
}

// AddText appends a centered text at p.
func (d *Document) AddText(p geom.Point, value string, height float64, layer Layer, role Role) {
	d.Texts = append(d.Texts, Text{X: p.X, Y: p.Y, Value: value, Height: height, Layer: layer, Align: AlignCenter, Role: role})
}

// AddAlignedText appends a text with an explicit anchor.
func (d *Document) AddAlignedText(p geom.Point, value string, height float64, layer Layer, align Align, role Role) {
	d.Texts = append(d.Texts, Text{X: p.X, Y: p.Y, Value: value, Height: height, Layer: layer, Align: align, Role: role})
}

// Empty reports whether the document has no primitives.
func (d *Document) Empty() bool {
	return len(d.Lines) == 0 && len(d.Texts) == 0
}

// Bounds returns the extent of every line endpoint and text anchor.
func (d *Document) Bounds() geom.Bounds {
	var b geom.Bounds
	for _, l := range d.Lines {
		b.Extend(l.Start())
		b.Extend(l.End())
	}
	for _, t := range d.Texts {
		b.Extend(geom.Point{X: t.X, Y: t.Y})
	}
	return b
}

// LineBounds returns the extent of line endpoints only.
func (d *Document) LineBounds() geom.Bounds {
	var b geom.Bounds
	for _, l := range d.Lines {
		b.Extend(l.Start())
		b.Extend(l.End())
	}
	return b
}

// Count returns the number of primitives tagged with role.
func (d *Document) Count(role Role) int {
	n := 0
	for _, l := range d.Lines {
		if l.Role == role {
			n++
		}
	}
	for _, t := range d.Texts {
		if t.Role == role {
			n++
		}
	}
	return n
}
