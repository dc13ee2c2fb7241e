package furniture

import (
	"fmt"
	"math"

	"github.com/matzehuels/furnidraw/pkg/geom"
)

// Resolve returns the dimensions of placed. Custom width and depth override
// the catalog values. A module id missing from the catalog resolves to the
// fallback size so the export still shows it.
func Resolve(c *Catalog, placed PlacedModule) ModuleDimensions {
	def, ok := c.Lookup(placed.ModuleID)
	if !ok {
		depth := FallbackDepth
		if placed.CustomDepth > 0 {
			depth = placed.CustomDepth
		}
		width := FallbackWidth
		if placed.CustomWidth > 0 {
			width = placed.CustomWidth
		}
		return ModuleDimensions{
			Width:  width,
			Height: FallbackHeight,
			Depth:  depth,
			Name:   displayName(placed, placed.ModuleID),
			Dual:   placed.IsDualSlot,
		}
	}

	dims := ModuleDimensions{
		Width:       def.Width,
		Height:      def.Height,
		Depth:       def.Depth,
		ShelfCount:  def.ShelfCount,
		DrawerCount: def.DrawerCount,
		Sections:    append([]Section(nil), def.Sections...),
		Name:        displayName(placed, def.Name),
		Dual:        def.Dual || placed.IsDualSlot,
	}
	if placed.CustomWidth > 0 {
		dims.Width = placed.CustomWidth
	}
	if placed.CustomDepth > 0 {
		dims.Depth = placed.CustomDepth
	}
	return dims
}

func displayName(placed PlacedModule, fallback string) string {
	switch {
	case placed.Name != "":
		return placed.Name
	case fallback != "":
		return fallback
	default:
		return "Module"
	}
}

// SideViewFilter restricts which modules take part in a side section.
type SideViewFilter string

// Side view filters. The zero value picks the filter from the view.
const (
	SideAll       SideViewFilter = "all"
	SideLeftmost  SideViewFilter = "leftmost"
	SideRightmost SideViewFilter = "rightmost"
)

// ParseSideViewFilter accepts "", "all", "leftmost" and "rightmost".
func ParseSideViewFilter(s string) (SideViewFilter, error) {
	switch f := SideViewFilter(s); f {
	case "", SideAll, SideLeftmost, SideRightmost:
		return f, nil
	}
	return "", fmt.Errorf("invalid side filter %q (must be all, leftmost or rightmost)", s)
}

// FilterForView returns the filter a view uses by default: the left
// section shows the leftmost modules and the right section the rightmost.
func FilterForView(view geom.View) SideViewFilter {
	switch view {
	case geom.Left:
		return SideLeftmost
	case geom.Right:
		return SideRightmost
	default:
		return SideAll
	}
}

const filterEpsilon = 1e-6

// FilterSide keeps the items whose x equals the minimum (leftmost) or
// maximum (rightmost) over all items. SideAll keeps everything. Order is
// preserved.
func FilterSide[T any](items []T, filter SideViewFilter, x func(T) float64) []T {
	if len(items) == 0 || filter == SideAll || filter == "" {
		return items
	}
	target := math.Inf(1)
	if filter == SideRightmost {
		target = math.Inf(-1)
	}
	for _, it := range items {
		v := x(it)
		if filter == SideLeftmost {
			target = math.Min(target, v)
		} else {
			target = math.Max(target, v)
		}
	}
	var out []T
	for _, it := range items {
		if math.Abs(x(it)-target) <= filterEpsilon {
			out = append(out, it)
		}
	}
	return out
}

// TypeLabel names a shelving unit by its shelf count.
func TypeLabel(shelfCount int) string {
	switch shelfCount {
	case 0:
		return "Open Box"
	case 1:
		return "2-Shelf"
	case 2:
		return "Dual 2-Shelf"
	case 6:
		return "7-Shelf"
	case 12:
		return "Dual 7-Shelf"
	default:
		return fmt.Sprintf("%d-Shelf", shelfCount)
	}
}
