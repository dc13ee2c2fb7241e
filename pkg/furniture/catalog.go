package furniture

import (
	"fmt"
	"sort"
	"strings"
)

// Catalog dimensions, in millimetres.
const (
	BasicThickness = 18.0
	DefaultDepth   = 600.0

	Type1DrawerHeight = 600.0
	Type2BottomHeight = 1025.0
	Type4DrawerHeight = 1000.0
	DrawerGap         = 24.0

	SafetyShelfPosition  = 2050.0
	SafetyShelfThreshold = 2300.0
)

// Fallback dimensions for modules missing from the catalog.
const (
	FallbackWidth  = 400.0
	FallbackHeight = 400.0
	FallbackDepth  = 300.0
)

var (
	drawerHeights2 = []float64{255, 255}
	drawerHeights4 = []float64{255, 255, 176, 176}
)

// Module is a catalog entry.
type Module struct {
	ID          string
	Name        string
	Width       float64
	Height      float64
	Depth       float64
	ShelfCount  int
	DrawerCount int
	Sections    []Section
	Dual        bool
}

// Catalog holds the module definitions generated for one space.
type Catalog struct {
	modules map[string]Module
	order   []string
}

// NewCatalog generates the module definitions for a column grid. height is
// the space's internal height; the lift of a floating stand is taken off it.
// Dual variants exist only when there are at least two columns.
func NewCatalog(space SpaceEnvelope, columnWidth float64, columnCount int) *Catalog {
	h := space.InternalHeight() - space.FloatHeight()
	c := &Catalog{modules: make(map[string]Module)}

	w := columnWidth
	c.add(drawerWardrobe("single-2drawer-hanging", "2단서랍+옷장", w, h, Type1DrawerHeight, drawerHeights2, false))
	c.add(twoTierWardrobe("single-2hanging", "2단 옷장", w, h, false))
	c.add(drawerWardrobe("single-4drawer-hanging", "4단서랍+옷장", w, h, Type4DrawerHeight, drawerHeights4, false))
	c.add(shelving("open-box", "오픈박스", w, h, 0, false))
	c.add(shelving("shelf-2", "2단", w, h, 1, false))
	c.add(shelving("shelf-7", "7단", w, h, 6, false))

	if columnCount >= 2 {
		dw := columnWidth * 2
		c.add(drawerWardrobe("dual-2drawer-hanging", "듀얼 2단서랍+옷장", dw, h, Type1DrawerHeight, drawerHeights2, true))
		c.add(twoTierWardrobe("dual-2hanging", "듀얼 2단 옷장", dw, h, true))
		c.add(drawerWardrobe("dual-4drawer-hanging", "듀얼 4단서랍+옷장", dw, h, Type4DrawerHeight, drawerHeights4, true))
		c.add(drawerWardrobe("dual-2drawer-styler", "듀얼 서랍+스타일러", dw, h, Type1DrawerHeight, drawerHeights2, true))
		c.add(drawerWardrobe("dual-4drawer-pantshanger", "듀얼 서랍+바지걸이", dw, h, Type4DrawerHeight, drawerHeights4, true))
		c.add(shelving("dual-shelf-2", "듀얼2단", dw, h, 2, true))
		c.add(shelving("dual-shelf-7", "듀얼7단", dw, h, 12, true))
	}
	return c
}

func (c *Catalog) add(m Module) {
	if _, ok := c.modules[m.ID]; !ok {
		c.order = append(c.order, m.ID)
	}
	c.modules[m.ID] = m
}

// Lookup returns the module with id.
func (c *Catalog) Lookup(id string) (Module, bool) {
	if c == nil {
		return Module{}, false
	}
	m, ok := c.modules[id]
	return m, ok
}

// Modules returns the catalog entries in generation order.
func (c *Catalog) Modules() []Module {
	out := make([]Module, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.modules[id])
	}
	return out
}

// IDs returns the catalog ids sorted alphabetically.
func (c *Catalog) IDs() []string {
	ids := append([]string(nil), c.order...)
	sort.Strings(ids)
	return ids
}

func drawerWardrobe(prefix, name string, width, height, drawerBand float64, drawers []float64, dual bool) Module {
	sections := []Section{
		{Type: SectionDrawer, Height: drawerBand, Count: len(drawers), DrawerHeights: drawers, Gap: DrawerGap},
		{Type: SectionHanging, Height: height - drawerBand},
	}
	return Module{
		ID:          fmt.Sprintf("%s-%s", prefix, formatWidth(width)),
		Name:        fmt.Sprintf("%s %smm", name, formatWidth(width)),
		Width:       width,
		Height:      height,
		Depth:       DefaultDepth,
		DrawerCount: len(drawers),
		Sections:    ApplySafetyShelf(sections, height),
		Dual:        dual,
	}
}

func twoTierWardrobe(prefix, name string, width, height float64, dual bool) Module {
	sections := []Section{
		{Type: SectionHanging, Height: Type2BottomHeight},
		{Type: SectionHanging, Height: height - Type2BottomHeight},
	}
	return Module{
		ID:       fmt.Sprintf("%s-%s", prefix, formatWidth(width)),
		Name:     fmt.Sprintf("%s %smm", name, formatWidth(width)),
		Width:    width,
		Height:   height,
		Depth:    DefaultDepth,
		Sections: ApplySafetyShelf(sections, height),
		Dual:     dual,
	}
}

func shelving(prefix, name string, width, height float64, shelves int, dual bool) Module {
	perSide := shelves
	if dual {
		perSide = shelves / 2
	}
	section := Section{Type: SectionOpen, Height: height}
	if perSide > 0 {
		section = Section{Type: SectionShelf, Height: height, Count: perSide}
	}
	return Module{
		ID:         fmt.Sprintf("%s-%s", prefix, formatWidth(width)),
		Name:       name,
		Width:      width,
		Height:     height,
		Depth:      DefaultDepth,
		ShelfCount: shelves,
		Sections:   []Section{section},
		Dual:       dual,
	}
}

// ApplySafetyShelf adds a shelf at [SafetyShelfPosition] to the hanging
// section spanning it when the module is taller than
// [SafetyShelfThreshold]. The input slice is not modified.
func ApplySafetyShelf(sections []Section, totalHeight float64) []Section {
	out := make([]Section, len(sections))
	copy(out, sections)
	if totalHeight <= SafetyShelfThreshold {
		return out
	}
	start := 0.0
	for i, s := range out {
		end := start + s.Height
		if s.Type == SectionHanging && SafetyShelfPosition >= start && SafetyShelfPosition < end {
			out[i].Count = 1
			out[i].ShelfPositions = []float64{SafetyShelfPosition - start}
		}
		start = end
	}
	return out
}

func formatWidth(w float64) string {
	return strings.TrimSuffix(fmt.Sprintf("%.1f", w), ".0")
}
