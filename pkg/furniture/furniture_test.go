package furniture

import (
	"testing"

	"github.com/matzehuels/furnidraw/pkg/geom"
)

func testSpace() SpaceEnvelope {
	return SpaceEnvelope{Width: 4000, Height: 2400, Depth: 600, InstallType: BuiltIn, Walls: Walls{Left: true, Right: true}}
}

func TestBottomOffset(t *testing.T) {
	tests := []struct {
		name string
		base Base
		want float64
	}{
		{"floor", Base{Type: BaseFloor}, 0},
		{"base frame default", Base{Type: BaseFrame}, 100},
		{"base frame custom", Base{Type: BaseFrame, Height: 65}, 65},
		{"grounded stand", Base{Type: BaseStand, Placement: PlacementGround, FloatHeight: 200}, 0},
		{"floating stand", Base{Type: BaseStand, Placement: PlacementFloat, FloatHeight: 200}, 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testSpace()
			s.Base = tt.base
			if got := s.BottomOffset(); got != tt.want {
				t.Errorf("BottomOffset() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseInstallType(t *testing.T) {
	tests := map[string]InstallType{
		"built-in":      BuiltIn,
		"builtin":       BuiltIn,
		"semistanding":  SemiStanding,
		"Free-Standing": FreeStanding,
		"":              BuiltIn,
	}
	for in, want := range tests {
		if got := ParseInstallType(in); got != want {
			t.Errorf("ParseInstallType(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestNewCatalog(t *testing.T) {
	c := NewCatalog(testSpace(), 600, 6)

	m, ok := c.Lookup("single-2drawer-hanging-600")
	if !ok {
		t.Fatalf("missing single-2drawer-hanging-600, have %v", c.IDs())
	}
	if m.Height != 2390 || m.Depth != DefaultDepth || m.DrawerCount != 2 {
		t.Errorf("module = %+v", m)
	}
	if len(m.Sections) != 2 || m.Sections[0].Type != SectionDrawer || m.Sections[0].Height != 600 {
		t.Fatalf("sections = %+v", m.Sections)
	}
	hanging := m.Sections[1]
	if hanging.Height != 1790 {
		t.Errorf("hanging height = %v, want 1790", hanging.Height)
	}
	if len(hanging.ShelfPositions) != 1 || hanging.ShelfPositions[0] != 1450 {
		t.Errorf("safety shelf = %v, want [1450]", hanging.ShelfPositions)
	}

	if _, ok := c.Lookup("dual-2drawer-hanging-1200"); !ok {
		t.Error("dual variant missing with six columns")
	}
	if _, ok := c.Lookup("shelf-7-600"); !ok {
		t.Error("shelf-7 missing")
	}
}

func TestNewCatalogSingleColumn(t *testing.T) {
	c := NewCatalog(testSpace(), 580, 1)
	for _, id := range c.IDs() {
		if m, _ := c.Lookup(id); m.Dual {
			t.Errorf("dual module %s generated for one column", id)
		}
	}
	if len(c.Modules()) != 6 {
		t.Errorf("modules = %d, want 6", len(c.Modules()))
	}
}

func TestNewCatalogFloatReducesHeight(t *testing.T) {
	s := testSpace()
	s.Base = Base{Type: BaseStand, Placement: PlacementFloat, FloatHeight: 200}
	m, _ := NewCatalog(s, 600, 2).Lookup("single-2hanging-600")
	if m.Height != 2190 {
		t.Errorf("height = %v, want 2190", m.Height)
	}
}

func TestApplySafetyShelf(t *testing.T) {
	sections := []Section{
		{Type: SectionDrawer, Height: 600, Count: 2},
		{Type: SectionHanging, Height: 1600},
	}
	if got := ApplySafetyShelf(sections, 2200); got[1].ShelfPositions != nil {
		t.Error("no safety shelf below the threshold")
	}
	got := ApplySafetyShelf(sections, 2400)
	if len(got[1].ShelfPositions) != 1 || got[1].ShelfPositions[0] != 1450 {
		t.Errorf("ShelfPositions = %v", got[1].ShelfPositions)
	}
	if sections[1].ShelfPositions != nil {
		t.Error("input sections were modified")
	}
}

func TestResolve(t *testing.T) {
	c := NewCatalog(testSpace(), 600, 2)
	tests := []struct {
		name   string
		placed PlacedModule
		want   ModuleDimensions
	}{
		{
			name:   "catalog",
			placed: PlacedModule{ModuleID: "shelf-2-600"},
			want:   ModuleDimensions{Width: 600, Height: 2390, Depth: 600},
		},
		{
			name:   "custom overrides",
			placed: PlacedModule{ModuleID: "shelf-2-600", CustomWidth: 800, CustomDepth: 580},
			want:   ModuleDimensions{Width: 800, Height: 2390, Depth: 580},
		},
		{
			name:   "unknown id",
			placed: PlacedModule{ModuleID: "missing"},
			want:   ModuleDimensions{Width: 400, Height: 400, Depth: 300},
		},
		{
			name:   "unknown id with custom depth",
			placed: PlacedModule{ModuleID: "missing", CustomDepth: 450},
			want:   ModuleDimensions{Width: 400, Height: 400, Depth: 450},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(c, tt.placed)
			if got.Width != tt.want.Width || got.Height != tt.want.Height || got.Depth != tt.want.Depth {
				t.Errorf("Resolve = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestResolveNilCatalog(t *testing.T) {
	got := Resolve(nil, PlacedModule{ModuleID: "x", Name: "Custom"})
	if got.String() != "400W x 400H x 300D" || got.Name != "Custom" {
		t.Errorf("Resolve(nil) = %+v", got)
	}
}

func TestFilterSide(t *testing.T) {
	xs := []float64{500, 100, 900}
	ident := func(v float64) float64 { return v }

	tests := []struct {
		filter SideViewFilter
		want   []float64
	}{
		{SideLeftmost, []float64{100}},
		{SideRightmost, []float64{900}},
		{SideAll, []float64{500, 100, 900}},
	}
	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			got := FilterSide(xs, tt.filter, ident)
			if len(got) != len(tt.want) {
				t.Fatalf("FilterSide = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("FilterSide = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestFilterSideKeepsTies(t *testing.T) {
	mods := []PlacedModule{
		{ID: "a", Position: Position{X: -10}},
		{ID: "b", Position: Position{X: -10}},
		{ID: "c", Position: Position{X: 4}},
	}
	got := FilterSide(mods, SideLeftmost, func(m PlacedModule) float64 { return m.Position.X })
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "b" {
		t.Errorf("FilterSide = %+v", got)
	}
}

func TestFilterForView(t *testing.T) {
	if FilterForView(geom.Left) != SideLeftmost || FilterForView(geom.Right) != SideRightmost {
		t.Error("side views must filter to their extreme")
	}
	if FilterForView(geom.Front) != SideAll || FilterForView(geom.Plan) != SideAll {
		t.Error("front and plan keep every module")
	}
}

func TestTypeLabel(t *testing.T) {
	tests := map[int]string{
		0:  "Open Box",
		1:  "2-Shelf",
		2:  "Dual 2-Shelf",
		6:  "7-Shelf",
		12: "Dual 7-Shelf",
		4:  "4-Shelf",
	}
	for n, want := range tests {
		if got := TypeLabel(n); got != want {
			t.Errorf("TypeLabel(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestSlot(t *testing.T) {
	if (PlacedModule{}).Slot() != -1 {
		t.Error("unslotted module should report -1")
	}
	if (PlacedModule{SlotIndex: Slot(3)}).Slot() != 3 {
		t.Error("Slot(3) not preserved")
	}
}
