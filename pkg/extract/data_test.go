package extract

import (
	"context"
	"math"
	"reflect"
	"testing"

	"github.com/matzehuels/furnidraw/pkg/drawing"
	"github.com/matzehuels/furnidraw/pkg/errors"
	"github.com/matzehuels/furnidraw/pkg/furniture"
	"github.com/matzehuels/furnidraw/pkg/geom"
	"github.com/matzehuels/furnidraw/pkg/indexing"
)

func hasText(doc *drawing.Document, value string) bool {
	for _, t := range doc.Texts {
		if t.Value == value {
			return true
		}
	}
	return false
}

func linesWith(doc *drawing.Document, role drawing.Role) []drawing.Line {
	var out []drawing.Line
	for _, l := range doc.Lines {
		if l.Role == role {
			out = append(out, l)
		}
	}
	return out
}

func testSpace() furniture.SpaceEnvelope {
	return furniture.SpaceEnvelope{Width: 4000, Height: 2400, Depth: 600, InstallType: furniture.BuiltIn}
}

func testRequest(view geom.View, mods ...Instance) Request {
	space := testSpace()
	return Request{Space: space, Modules: mods, View: view, Indexing: indexing.Default{}.Index(space)}
}

func slotted(slot int, dims furniture.ModuleDimensions) Instance {
	return Instance{
		Placed: furniture.PlacedModule{ID: dims.Name, ModuleID: "custom", SlotIndex: furniture.Slot(slot)},
		Dims:   dims,
	}
}

func extract(t *testing.T, req Request) *drawing.Document {
	t.Helper()
	doc, err := NewData(nil).Extract(context.Background(), req)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	return doc
}

func TestFrontBoundaryCorners(t *testing.T) {
	doc := extract(t, testRequest(geom.Front))

	want := []drawing.Line{
		{X1: 0, Y1: 0, X2: 4000, Y2: 0},
		{X1: 4000, Y1: 0, X2: 4000, Y2: 2400},
		{X1: 4000, Y1: 2400, X2: 0, Y2: 2400},
		{X1: 0, Y1: 2400, X2: 0, Y2: 0},
	}
	got := linesWith(doc, drawing.RoleBoundary)
	if len(got) != len(want) {
		t.Fatalf("boundary lines = %d, want 4", len(got))
	}
	for i, w := range want {
		w.Layer, w.Role = drawing.LayerFurniture, drawing.RoleBoundary
		if got[i] != w {
			t.Errorf("boundary %d = %+v, want %+v", i, got[i], w)
		}
	}
}

func TestBoundaryExtentPerView(t *testing.T) {
	tests := []struct {
		view geom.View
		w, h float64
	}{
		{geom.Front, 4000, 2400},
		{geom.Plan, 4000, 600},
		{geom.Left, 600, 2400},
		{geom.Right, 600, 2400},
	}
	for _, tt := range tests {
		t.Run(string(tt.view), func(t *testing.T) {
			doc := extract(t, testRequest(tt.view))
			var b geom.Bounds
			for _, l := range linesWith(doc, drawing.RoleBoundary) {
				b.Extend(l.Start())
				b.Extend(l.End())
			}
			if b.MinX != 0 || b.MinY != 0 || b.MaxX != tt.w || b.MaxY != tt.h {
				t.Errorf("boundary = %+v, want 0,0-%v,%v", b, tt.w, tt.h)
			}
		})
	}
}

func TestDimensionStringNotTransposed(t *testing.T) {
	mod := slotted(0, furniture.ModuleDimensions{Width: 800, Height: 400, Depth: 580, Name: "Drawer Unit"})
	doc := extract(t, testRequest(geom.Front, mod))

	if !hasText(doc, "800W x 400H x 580D") {
		t.Error(`missing "800W x 400H x 580D"`)
	}
	if hasText(doc, "800W x 580H x 400D") {
		t.Error(`height and depth transposed: found "800W x 580H x 400D"`)
	}
}

func TestDimensionStringVerbatimAllViews(t *testing.T) {
	shapes := []furniture.ModuleDimensions{
		{Width: 600, Height: 2300, Depth: 350, Name: "Tall"},
		{Width: 900, Height: 300, Depth: 580, Name: "Low"},
	}
	for _, view := range geom.Views {
		for _, dims := range shapes {
			doc := extract(t, testRequest(view, slotted(0, dims)))
			if !hasText(doc, drawing.DimensionString(dims.Width, dims.Height, dims.Depth)) {
				t.Errorf("%s: missing size text for %s", view, dims.Name)
			}
			if hasText(doc, drawing.DimensionString(dims.Width, dims.Depth, dims.Height)) {
				t.Errorf("%s: transposed size text for %s", view, dims.Name)
			}
		}
	}
}

func TestDrawerDividers(t *testing.T) {
	for n := 2; n <= 6; n++ {
		dims := furniture.ModuleDimensions{Width: 600, Height: 1200, Depth: 580, DrawerCount: n, Name: "Drawers"}
		doc := extract(t, testRequest(geom.Front, slotted(1, dims)))

		dividers := linesWith(doc, drawing.RoleDrawerDivider)
		if len(dividers) != n-1 {
			t.Errorf("%d drawers: dividers = %d, want %d", n, len(dividers), n-1)
			continue
		}
		step := 1200.0 / float64(n)
		for k, l := range dividers {
			want := step * float64(k+1)
			if math.Abs(l.Y1-want) > 1e-9 || l.Y1 != l.Y2 {
				t.Errorf("%d drawers: divider %d at y=%v, want %v", n, k, l.Y1, want)
			}
		}
	}
}

func TestLegacyDrawersAndShelves(t *testing.T) {
	dims := furniture.ModuleDimensions{Width: 600, Height: 1200, Depth: 580, DrawerCount: 2, ShelfCount: 2, Name: "Mixed"}
	doc := extract(t, testRequest(geom.Front, slotted(1, dims)))

	dividers := linesWith(doc, drawing.RoleDrawerDivider)
	if len(dividers) != 1 || dividers[0].Y1 != 300 {
		t.Errorf("dividers = %+v, want one at y=300", dividers)
	}
	shelves := linesWith(doc, drawing.RoleShelf)
	if len(shelves) != 2 {
		t.Fatalf("shelves = %d, want 2", len(shelves))
	}
	for k, want := range []float64{800, 1000} {
		if math.Abs(shelves[k].Y1-want) > 1e-9 {
			t.Errorf("shelf %d at y=%v, want %v", k, shelves[k].Y1, want)
		}
	}
}

func TestDualLegacyRemainder(t *testing.T) {
	tests := []struct {
		name     string
		drawers  int
		shelves  int
		dividers int
		shelf    int
	}{
		{"odd drawers", 3, 0, 1, 0},
		{"five drawers", 5, 0, 3, 0},
		{"odd shelves", 0, 3, 0, 3},
		{"even shelves", 0, 4, 0, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mod := slotted(0, furniture.ModuleDimensions{
				Width: 1136, Height: 2000, Depth: 580, Dual: true,
				DrawerCount: tt.drawers, ShelfCount: tt.shelves, Name: "D",
			})
			mod.Placed.IsDualSlot = true
			doc := extract(t, testRequest(geom.Front, mod))
			if got := doc.Count(drawing.RoleDrawerDivider); got != tt.dividers {
				t.Errorf("drawer dividers = %d, want %d", got, tt.dividers)
			}
			if got := doc.Count(drawing.RoleShelf); got != tt.shelf {
				t.Errorf("shelves = %d, want %d", got, tt.shelf)
			}
		})
	}
}

func TestDrawerSectionDividers(t *testing.T) {
	dims := furniture.ModuleDimensions{
		Width: 600, Height: 2000, Depth: 580, Name: "Combo",
		Sections: []furniture.Section{
			{Type: furniture.SectionDrawer, Height: 1000, Count: 4},
			{Type: furniture.SectionHanging, Height: 1000},
		},
	}
	doc := extract(t, testRequest(geom.Front, slotted(0, dims)))
	if got := doc.Count(drawing.RoleDrawerDivider); got != 3 {
		t.Errorf("drawer dividers = %d, want 3", got)
	}
	if got := doc.Count(drawing.RoleSection); got != 1 {
		t.Errorf("section separators = %d, want 1", got)
	}
	rods := linesWith(doc, drawing.RoleRod)
	if len(rods) != 1 || rods[0].Y1 != 2000-36 {
		t.Errorf("rods = %+v, want one at y=1964", rods)
	}
}

func TestDualCenterDivider(t *testing.T) {
	tests := []struct {
		name string
		dims furniture.ModuleDimensions
	}{
		{"tiny", furniture.ModuleDimensions{Width: 150, Height: 90, Depth: 100, Dual: true, Name: "D"}},
		{"plain", furniture.ModuleDimensions{Width: 1136, Height: 2000, Depth: 580, Dual: true, Name: "D"}},
		{"drawers", furniture.ModuleDimensions{Width: 1136, Height: 2000, Depth: 580, Dual: true, DrawerCount: 4, Name: "D"}},
		{"sections", furniture.ModuleDimensions{Width: 1136, Height: 2390, Depth: 600, Dual: true, Name: "D",
			Sections: []furniture.Section{
				{Type: furniture.SectionDrawer, Height: 600, Count: 2},
				{Type: furniture.SectionHanging, Height: 1790, ShelfPositions: []float64{1450}},
			}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mod := slotted(0, tt.dims)
			mod.Placed.IsDualSlot = true
			doc := extract(t, testRequest(geom.Front, mod))
			if got := doc.Count(drawing.RoleCenterDivider); got != 1 {
				t.Fatalf("center dividers = %d, want 1", got)
			}
			l := linesWith(doc, drawing.RoleCenterDivider)[0]
			if l.X1 != l.X2 {
				t.Errorf("center divider %+v is not vertical", l)
			}
		})
	}
}

func TestDualDrawersSplitPerHalf(t *testing.T) {
	mod := slotted(0, furniture.ModuleDimensions{Width: 1136, Height: 2000, Depth: 580, Dual: true, DrawerCount: 4, Name: "D"})
	mod.Placed.IsDualSlot = true
	doc := extract(t, testRequest(geom.Front, mod))
	// Two drawers per half, one divider each.
	if got := doc.Count(drawing.RoleDrawerDivider); got != 2 {
		t.Errorf("drawer dividers = %d, want 2", got)
	}
}

func TestExtractIdempotent(t *testing.T) {
	mods := []Instance{
		slotted(0, furniture.ModuleDimensions{Width: 568, Height: 2390, Depth: 600, DrawerCount: 2, Name: "2단서랍+옷장 568mm"}),
		slotted(2, furniture.ModuleDimensions{Width: 1136, Height: 2390, Depth: 600, ShelfCount: 12, Dual: true, Name: "듀얼7단"}),
	}
	for _, view := range geom.Views {
		req := testRequest(view, mods...)
		a := extract(t, req)
		b := extract(t, req)
		if !reflect.DeepEqual(a, b) {
			t.Errorf("%s: two extractions differ", view)
		}
	}
}

func TestSideViewFilter(t *testing.T) {
	space := testSpace()
	space.Width = 1000
	mk := func(name string, x float64) Instance {
		return Instance{
			Placed: furniture.PlacedModule{ID: name, Position: furniture.Position{X: x}},
			Dims:   furniture.ModuleDimensions{Width: 100, Height: 500, Depth: 400, Name: name},
		}
	}
	// Centers at x = 100, 500, 900.
	mods := []Instance{mk("B", 0), mk("A", -4), mk("C", 4)}

	tests := []struct {
		view   geom.View
		filter furniture.SideViewFilter
		want   []string
	}{
		{geom.Left, "", []string{"A"}},
		{geom.Right, "", []string{"C"}},
		{geom.Left, furniture.SideAll, []string{"A", "B", "C"}},
		{geom.Front, "", []string{"A", "B", "C"}},
		{geom.Front, furniture.SideRightmost, []string{"C"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.view)+"/"+string(tt.filter), func(t *testing.T) {
			req := Request{Space: space, Modules: mods, View: tt.view, SideFilter: tt.filter}
			doc := extract(t, req)
			if got := doc.Count(drawing.RoleName); got != len(tt.want) {
				t.Errorf("modules drawn = %d, want %d", got, len(tt.want))
			}
			for _, name := range tt.want {
				if !hasText(doc, name) {
					t.Errorf("module %s missing", name)
				}
			}
		})
	}
}

func TestPlanModuleAgainstBackWall(t *testing.T) {
	mod := slotted(0, furniture.ModuleDimensions{Width: 800, Height: 400, Depth: 580, Name: "M"})
	doc := extract(t, testRequest(geom.Plan, mod))

	var b geom.Bounds
	for _, l := range linesWith(doc, drawing.RoleOutline) {
		b.Extend(l.Start())
		b.Extend(l.End())
	}
	if b.MinY != 20 || b.MaxY != 600 {
		t.Errorf("plan outline y = %v..%v, want 20..600", b.MinY, b.MaxY)
	}
	if !hasText(doc, "Module1 | Open Box") {
		t.Error("plan type label missing")
	}
}

func TestSectionModuleDepthDimension(t *testing.T) {
	mod := slotted(0, furniture.ModuleDimensions{Width: 800, Height: 2000, Depth: 580, ShelfCount: 6, Name: "M"})
	doc := extract(t, testRequest(geom.Left, mod))
	if !hasText(doc, "580mm") {
		t.Error("side section missing module depth dimension")
	}
	if !hasText(doc, "7-Shelf | #1") {
		t.Error("side type label missing")
	}
	if got := doc.Count(drawing.RoleShelf); got != 6 {
		t.Errorf("shelves = %d, want 6", got)
	}
}

func TestSupportLines(t *testing.T) {
	mod := slotted(0, furniture.ModuleDimensions{Width: 600, Height: 1000, Depth: 580, Name: "M"})

	req := testRequest(geom.Front, mod)
	if doc := extract(t, req); doc.Count(drawing.RoleSupport) != 0 {
		t.Error("floor-standing module should have no supports")
	}

	req.Space.Base = furniture.Base{Type: furniture.BaseFrame, Height: 80}
	doc := extract(t, req)
	supports := linesWith(doc, drawing.RoleSupport)
	if len(supports) != 2 {
		t.Fatalf("supports = %d, want 2", len(supports))
	}
	for _, s := range supports {
		if s.Y1 != 0 || s.Y2 != 80 {
			t.Errorf("support %+v should span floor to module bottom", s)
		}
	}
	if doc.Count(drawing.RoleBaseFrame) != 4 {
		t.Error("base frame rectangle missing")
	}
}

func TestModuleDimensionThreshold(t *testing.T) {
	small := slotted(0, furniture.ModuleDimensions{Width: 100, Height: 90, Depth: 300, Name: "S"})
	doc := extract(t, testRequest(geom.Front, small))
	// Only the two external dimensions remain.
	if got := doc.Count(drawing.RoleMeasure); got != 2 {
		t.Errorf("measure texts = %d, want 2", got)
	}
}

func TestExtractRejectsInvalidInput(t *testing.T) {
	req := testRequest(geom.Front)
	req.Space.Width = 0
	if _, err := NewData(nil).Extract(context.Background(), req); !errors.Is(err, errors.ErrCodeInvalidSpace) {
		t.Errorf("err = %v, want INVALID_SPACE", err)
	}

	req = testRequest("iso")
	if _, err := NewData(nil).Extract(context.Background(), req); !errors.Is(err, errors.ErrCodeInvalidView) {
		t.Errorf("err = %v, want INVALID_VIEW", err)
	}
}

func TestNameSanitized(t *testing.T) {
	mod := slotted(0, furniture.ModuleDimensions{Width: 600, Height: 2000, Depth: 580, Name: "2단서랍+옷장 600mm"})
	doc := extract(t, testRequest(geom.Front, mod))
	if !hasText(doc, "2-Drawer+Wardrobe 600mm") {
		t.Errorf("sanitized name missing: %+v", doc.Texts)
	}
}
