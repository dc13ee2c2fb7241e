package extract

import (
	"context"
	"fmt"
	"math"

	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/furnidraw/pkg/drawing"
	"github.com/matzehuels/furnidraw/pkg/errors"
	"github.com/matzehuels/furnidraw/pkg/furniture"
	"github.com/matzehuels/furnidraw/pkg/geom"
)

// Structure sizes, in millimetres.
const (
	// StructureMinSize is the size both rectangle sides must exceed for
	// plan and side structure lines.
	StructureMinSize = 200.0
	// RodInset is the gap between a hanging rod end and the module side.
	RodInset = 20.0
	// SupportInset is the largest distance of a support line from the
	// module side.
	SupportInset = 50.0
)

// Data extracts primitives from the layout records. The same request
// always yields an identical document.
type Data struct {
	Logger *log.Logger
}

// NewData returns a data-driven extractor.
func NewData(logger *log.Logger) *Data {
	return &Data{Logger: orDefault(logger)}
}

// Strategy implements [Extractor].
func (d *Data) Strategy() Strategy { return StrategyData }

// placement is a module positioned in the drawing frame.
type placement struct {
	inst Instance
	// box is the module's 3D extent in millimetres with the space's left
	// edge at x = 0, the floor at y = 0 and the back wall at z = -depth/2.
	box r3.Box
	// centerX is the module center on the width axis.
	centerX float64
}

// Extract implements [Extractor].
func (d *Data) Extract(ctx context.Context, req Request) (*drawing.Document, error) {
	if _, err := geom.ParseView(string(req.View)); err != nil {
		return nil, err
	}
	if err := errors.ValidateSpaceDimensions(req.Space.Width, req.Space.Height, req.Space.Depth); err != nil {
		return nil, err
	}

	doc := drawing.New(req.View)
	doc.Name = drawing.DrawingTypeName(req.View)
	env := req.Envelope()
	w, h := env.Extent(req.View)

	doc.AddRect(geom.Point{}, geom.Point{X: w, Y: h}, drawing.LayerFurniture, drawing.RoleBoundary)
	d.baseFrame(doc, req)

	placed := furniture.FilterSide(d.place(req), req.Filter(), func(p placement) float64 { return p.centerX })
	proj := geom.NewMMProjector(req.View, req.Space.Depth)
	for i, p := range placed {
		d.module(doc, req, proj, p, i+1)
	}

	drawing.ExternalSet(doc, w, h)
	drawing.AppendSpaceLabels(doc, env)

	d.Logger.Debug("extracted primitives",
		"view", req.View,
		"modules", len(placed),
		"lines", len(doc.Lines),
		"texts", len(doc.Texts))
	return doc, nil
}

func (d *Data) baseFrame(doc *drawing.Document, req Request) {
	bh := req.Space.BaseFrameHeight()
	if bh <= 0 {
		return
	}
	switch req.View {
	case geom.Front:
		doc.AddRect(geom.Point{}, geom.Point{X: req.Space.Width, Y: bh}, drawing.LayerFurniture, drawing.RoleBaseFrame)
	case geom.Left, geom.Right:
		doc.AddRect(geom.Point{}, geom.Point{X: req.Space.Depth, Y: bh}, drawing.LayerFurniture, drawing.RoleBaseFrame)
	}
}

// place resolves each module's position. Slotted modules take their x from
// the slot grid; unslotted ones, or slots outside the grid, use the
// module's own position. Modules stand on the base and against the back
// wall.
func (d *Data) place(req Request) []placement {
	space := req.Space
	bottom := space.BottomOffset()
	back := -space.Depth / 2

	out := make([]placement, 0, len(req.Modules))
	for _, inst := range req.Modules {
		dims := inst.Dims
		x, ok := req.Indexing.SlotX(inst.Placed.Slot(), inst.Placed.IsDualSlot)
		if !ok {
			x = inst.Placed.Position.X * geom.SceneScale
		}
		cx := x + space.Width/2
		out = append(out, placement{
			inst:    inst,
			centerX: cx,
			box: r3.Box{
				Min: r3.Vec{X: cx - dims.Width/2, Y: bottom, Z: back},
				Max: r3.Vec{X: cx + dims.Width/2, Y: bottom + dims.Height, Z: back + dims.Depth},
			},
		})
	}
	return out
}

// rect projects the module box into the view. Plan output is shifted so
// the front wall lies on y = 0.
func rect(proj geom.Projector, box r3.Box, depth float64) (lo, hi geom.Point) {
	var b geom.Bounds
	for _, v := range box.Vertices() {
		b.Extend(proj.Project(v))
	}
	if proj.View == geom.Plan {
		b.MinY += depth / 2
		b.MaxY += depth / 2
	}
	return geom.Point{X: b.MinX, Y: b.MinY}, geom.Point{X: b.MaxX, Y: b.MaxY}
}

func (d *Data) module(doc *drawing.Document, req Request, proj geom.Projector, p placement, n int) {
	dims := p.inst.Dims
	lo, hi := rect(proj, p.box, req.Space.Depth)
	x1, y1, x2, y2 := lo.X, lo.Y, hi.X, hi.Y
	rw, rh := x2-x1, y2-y1
	cx := (x1 + x2) / 2

	doc.AddRect(lo, hi, drawing.LayerFurniture, drawing.RoleOutline)

	switch req.View {
	case geom.Front:
		halves := [][2]float64{{x1, x2}}
		if dims.Dual {
			doc.AddLine(geom.Point{X: cx, Y: y1}, geom.Point{X: cx, Y: y2}, drawing.LayerFurniture, drawing.RoleCenterDivider)
			halves = [][2]float64{{x1, cx}, {cx, x2}}
		}
		for i, half := range halves {
			for _, lv := range structureLevels(dims, y1, rh, i) {
				a, b := half[0], half[1]
				if lv.role == drawing.RoleRod {
					a, b = a+RodInset, b-RodInset
				}
				doc.AddLine(geom.Point{X: a, Y: lv.y}, geom.Point{X: b, Y: lv.y}, drawing.LayerFurniture, lv.role)
			}
		}
	case geom.Plan:
		if dims.Dual && rw > StructureMinSize && rh > StructureMinSize {
			doc.AddLine(geom.Point{X: cx, Y: y1}, geom.Point{X: cx, Y: y2}, drawing.LayerFurniture, drawing.RoleCenterDivider)
		}
	case geom.Left, geom.Right:
		if rw > StructureMinSize && rh > StructureMinSize {
			for _, lv := range structureLevels(dims, y1, rh, 0) {
				if lv.role == drawing.RoleShelf {
					doc.AddLine(geom.Point{X: x1, Y: lv.y}, geom.Point{X: x2, Y: lv.y}, drawing.LayerFurniture, drawing.RoleShelf)
				}
			}
		}
	}

	if req.View != geom.Plan && y1 > 0 {
		inset := math.Min(SupportInset, rw/4)
		for _, x := range []float64{x1 + inset, x2 - inset} {
			doc.AddLine(geom.Point{X: x, Y: 0}, geom.Point{X: x, Y: y1}, drawing.LayerFurniture, drawing.RoleSupport)
		}
	}

	d.labels(doc, req, dims, lo, hi, n)
}

func (d *Data) labels(doc *drawing.Document, req Request, dims furniture.ModuleDimensions, lo, hi geom.Point, n int) {
	x1, y1, x2, y2 := lo.X, lo.Y, hi.X, hi.Y
	rw, rh := x2-x1, y2-y1
	center := geom.Point{X: (x1 + x2) / 2, Y: (y1 + y2) / 2}

	nameHeight := math.Min(math.Min(rw/4, rh/4), 50)
	sizeY := y1 - 50
	if req.View == geom.Front {
		nameHeight = math.Min(rh/6, 40)
		sizeY = y1 - 60
	}
	doc.AddText(center, req.Sanitizer.Name(dims.Name), nameHeight, drawing.LayerText, drawing.RoleName)
	doc.AddText(geom.Point{X: center.X, Y: sizeY}, dims.String(), 20, drawing.LayerText, drawing.RoleSize)

	switch req.View {
	case geom.Plan:
		label := fmt.Sprintf("Module%d | %s", n, furniture.TypeLabel(dims.ShelfCount))
		doc.AddText(geom.Point{X: center.X, Y: y1 - 80}, label, 15, drawing.LayerText, drawing.RoleLabel)
	case geom.Left, geom.Right:
		label := fmt.Sprintf("%s | #%d", furniture.TypeLabel(dims.ShelfCount), n)
		doc.AddText(geom.Point{X: center.X, Y: y1 - 80}, label, 15, drawing.LayerText, drawing.RoleLabel)
		drawing.ModuleDepth.Measure(geom.Point{X: x1, Y: y1}, geom.Point{X: x2, Y: y1}, drawing.Below).Emit(doc)
	case geom.Front:
		drawing.ModuleHeight.Measure(geom.Point{X: x2, Y: y1}, geom.Point{X: x2, Y: y2}, drawing.RightOf).Emit(doc)
		drawing.ModuleWidth.Measure(geom.Point{X: x1, Y: y1}, geom.Point{X: x2, Y: y1}, drawing.Below).Emit(doc)
	}
}

// halfCount splits n between the two halves of a dual module; the left
// half takes the remainder.
func halfCount(n int, dual bool, half int) int {
	if !dual {
		return n
	}
	if half == 0 {
		return n - n/2
	}
	return n / 2
}

// level is a horizontal structure line inside a module.
type level struct {
	y    float64
	role drawing.Role
}

// structureLevels returns the internal horizontal lines of a module whose
// bottom is at y1 and whose drawn height is h. Sections are scaled to fill
// h. Without sections the legacy drawer and shelf counts are used for the
// given half of the module (0 is the left or only half).
//
// When a module has both drawers and shelves, the drawer stack fills the
// lower half and the shelves divide the upper half.
func structureLevels(dims furniture.ModuleDimensions, y1, h float64, half int) []level {
	var out []level
	if len(dims.Sections) == 0 {
		drawers, shelves := halfCount(dims.DrawerCount, dims.Dual, half), halfCount(dims.ShelfCount, dims.Dual, half)
		drawerH := h
		if drawers > 0 && shelves > 0 {
			drawerH = h / 2
		}
		for k := 1; k < drawers; k++ {
			out = append(out, level{y1 + drawerH*float64(k)/float64(drawers), drawing.RoleDrawerDivider})
		}
		base, shelfH := y1, h
		if drawers > 0 {
			base, shelfH = y1+drawerH, h-drawerH
		}
		for k := 1; k <= shelves; k++ {
			out = append(out, level{base + shelfH*float64(k)/float64(shelves+1), drawing.RoleShelf})
		}
		return out
	}

	total := 0.0
	for _, s := range dims.Sections {
		total += s.Height
	}
	if total <= 0 {
		return nil
	}
	scale := h / total

	cur := y1
	for i, s := range dims.Sections {
		sh := s.Height * scale
		top := cur + sh
		switch s.Type {
		case furniture.SectionDrawer:
			count := s.Count
			if count == 0 {
				count = len(s.DrawerHeights)
			}
			for k := 1; k < count; k++ {
				out = append(out, level{cur + sh*float64(k)/float64(count), drawing.RoleDrawerDivider})
			}
		case furniture.SectionShelf:
			if len(s.ShelfPositions) == 0 {
				for k := 1; k <= s.Count; k++ {
					out = append(out, level{cur + sh*float64(k)/float64(s.Count+1), drawing.RoleShelf})
				}
			}
		case furniture.SectionHanging:
			if sh > 2*furniture.BasicThickness {
				out = append(out, level{top - 2*furniture.BasicThickness, drawing.RoleRod})
			}
		}
		if s.Type != furniture.SectionDrawer {
			for _, pos := range s.ShelfPositions {
				out = append(out, level{cur + pos*scale, drawing.RoleShelf})
			}
		}
		if i < len(dims.Sections)-1 {
			out = append(out, level{top, drawing.RoleSection})
		}
		cur = top
	}
	return out
}
