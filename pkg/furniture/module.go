package furniture

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/furnidraw/pkg/drawing"
)

// Position is a location in scene units (1 unit = 100 mm), centered on the
// space.
type Position struct {
	X float64 `json:"x" toml:"x" yaml:"x"`
	Y float64 `json:"y" toml:"y" yaml:"y"`
	Z float64 `json:"z" toml:"z" yaml:"z"`
}

// Vec returns p as a gonum vector.
func (p Position) Vec() r3.Vec { return r3.Vec{X: p.X, Y: p.Y, Z: p.Z} }

// PlacedModule is one furniture instance in the layout.
type PlacedModule struct {
	ID       string   `json:"id" toml:"id" yaml:"id"`
	ModuleID string   `json:"module_id" toml:"module_id" yaml:"module_id"`
	Position Position `json:"position" toml:"position" yaml:"position"`
	// Rotation is the rotation about the vertical axis in degrees.
	Rotation    float64 `json:"rotation,omitempty" toml:"rotation" yaml:"rotation,omitempty"`
	CustomWidth float64 `json:"custom_width,omitempty" toml:"custom_width" yaml:"custom_width,omitempty"`
	CustomDepth float64 `json:"custom_depth,omitempty" toml:"custom_depth" yaml:"custom_depth,omitempty"`
	// SlotIndex is nil for modules placed outside the slot grid.
	SlotIndex     *int   `json:"slot_index,omitempty" toml:"slot_index" yaml:"slot_index,omitempty"`
	IsDualSlot    bool   `json:"is_dual_slot,omitempty" toml:"is_dual_slot" yaml:"is_dual_slot,omitempty"`
	HingePosition string `json:"hinge_position,omitempty" toml:"hinge_position" yaml:"hinge_position,omitempty"`
	HasDoor       bool   `json:"has_door,omitempty" toml:"has_door" yaml:"has_door,omitempty"`
	// Name overrides the catalog name in labels.
	Name string `json:"name,omitempty" toml:"name" yaml:"name,omitempty"`
}

// Slot returns a slot index pointer for composing PlacedModule literals.
func Slot(i int) *int { return &i }

// Slot returns the slot index, or -1 when the module is unslotted.
func (m PlacedModule) Slot() int {
	if m.SlotIndex == nil {
		return -1
	}
	return *m.SlotIndex
}

// SectionType is the use of a vertical section inside a module.
type SectionType string

// Section types.
const (
	SectionDrawer  SectionType = "drawer"
	SectionShelf   SectionType = "shelf"
	SectionHanging SectionType = "hanging"
	SectionOpen    SectionType = "open"
)

// Section is a horizontal band of a module, listed bottom to top.
type Section struct {
	Type   SectionType `json:"type" toml:"type" yaml:"type"`
	Height float64     `json:"height" toml:"height" yaml:"height"`
	// Count is the number of drawers or shelves in the band.
	Count int `json:"count,omitempty" toml:"count" yaml:"count,omitempty"`
	// ShelfPositions are offsets from the band bottom, in millimetres.
	ShelfPositions []float64 `json:"shelf_positions,omitempty" toml:"shelf_positions" yaml:"shelf_positions,omitempty"`
	DrawerHeights  []float64 `json:"drawer_heights,omitempty" toml:"drawer_heights" yaml:"drawer_heights,omitempty"`
	Gap            float64   `json:"gap,omitempty" toml:"gap" yaml:"gap,omitempty"`
}

// ModuleDimensions is the resolved size and structure of one placed module.
// It is computed once per export and not modified afterwards.
type ModuleDimensions struct {
	Width       float64   `json:"width" msgpack:"width"`
	Height      float64   `json:"height" msgpack:"height"`
	Depth       float64   `json:"depth" msgpack:"depth"`
	ShelfCount  int       `json:"shelf_count,omitempty" msgpack:"shelf_count,omitempty"`
	DrawerCount int       `json:"drawer_count,omitempty" msgpack:"drawer_count,omitempty"`
	Sections    []Section `json:"sections,omitempty" msgpack:"sections,omitempty"`
	Name        string    `json:"name" msgpack:"name"`
	Dual        bool      `json:"dual,omitempty" msgpack:"dual,omitempty"`
}

// String formats the dimensions as "{w}W x {h}H x {d}D".
func (d ModuleDimensions) String() string {
	return drawing.DimensionString(d.Width, d.Height, d.Depth)
}
