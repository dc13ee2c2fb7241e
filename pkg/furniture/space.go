package furniture

import "strings"

// InstallType describes how the cabinet run meets the room walls.
type InstallType string

// Install types.
const (
	BuiltIn      InstallType = "built-in"
	SemiStanding InstallType = "semi-standing"
	FreeStanding InstallType = "free-standing"
)

// ParseInstallType accepts the hyphenated names and the compact aliases
// ("builtin", "semistanding", "freestanding"). Unknown values map to BuiltIn.
func ParseInstallType(s string) InstallType {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "-", "")) {
	case "semistanding":
		return SemiStanding
	case "freestanding":
		return FreeStanding
	default:
		return BuiltIn
	}
}

// Surround selects whether side frames close the gap to the walls.
type Surround string

// Surround types.
const (
	WithSurround Surround = "surround"
	NoSurround   Surround = "no-surround"
)

// BaseType is the kind of support under the modules.
type BaseType string

// Base types.
const (
	BaseFloor BaseType = "floor"
	BaseFrame BaseType = "base_frame"
	BaseStand BaseType = "stand"
)

// Placement applies to stands only.
type Placement string

// Stand placements.
const (
	PlacementGround Placement = "ground"
	PlacementFloat  Placement = "float"
)

// Defaults used when the envelope leaves a value unset.
const (
	DefaultFrameSize       = 10.0
	DefaultTopFrame        = 10.0
	DefaultGap             = 2.0
	DefaultBaseFrameHeight = 100.0
	EndPanelThickness      = 18.0
)

// Walls records which sides of the space are closed by a wall.
type Walls struct {
	Left  bool `json:"left" toml:"left" yaml:"left"`
	Right bool `json:"right" toml:"right" yaml:"right"`
}

// FrameSize holds the surround frame widths in millimetres. Zero means the
// default.
type FrameSize struct {
	Left  float64 `json:"left,omitempty" toml:"left" yaml:"left,omitempty"`
	Right float64 `json:"right,omitempty" toml:"right" yaml:"right,omitempty"`
	Top   float64 `json:"top,omitempty" toml:"top" yaml:"top,omitempty"`
}

// Base describes the plinth or stand.
type Base struct {
	Type        BaseType  `json:"type,omitempty" toml:"type" yaml:"type,omitempty"`
	Height      float64   `json:"height,omitempty" toml:"height" yaml:"height,omitempty"`
	Placement   Placement `json:"placement,omitempty" toml:"placement" yaml:"placement,omitempty"`
	FloatHeight float64   `json:"float_height,omitempty" toml:"float_height" yaml:"float_height,omitempty"`
}

// SpaceEnvelope is the room opening the furniture is placed into. It is
// read-only input to an export.
type SpaceEnvelope struct {
	Width  float64 `json:"width" toml:"width" yaml:"width"`
	Height float64 `json:"height" toml:"height" yaml:"height"`
	Depth  float64 `json:"depth" toml:"depth" yaml:"depth"`

	InstallType       InstallType `json:"install_type,omitempty" toml:"install_type" yaml:"install_type,omitempty"`
	Surround          Surround    `json:"surround,omitempty" toml:"surround" yaml:"surround,omitempty"`
	Walls             Walls       `json:"walls" toml:"walls" yaml:"walls"`
	Frame             FrameSize   `json:"frame" toml:"frame" yaml:"frame"`
	Gap               float64     `json:"gap,omitempty" toml:"gap" yaml:"gap,omitempty"`
	Base              Base        `json:"base" toml:"base" yaml:"base"`
	CustomColumnCount int         `json:"custom_column_count,omitempty" toml:"custom_column_count" yaml:"custom_column_count,omitempty"`
}

// BaseFrameHeight returns the plinth height, or 0 without a base frame.
func (s SpaceEnvelope) BaseFrameHeight() float64 {
	if s.Base.Type != BaseFrame {
		return 0
	}
	if s.Base.Height > 0 {
		return s.Base.Height
	}
	return DefaultBaseFrameHeight
}

// FloatHeight returns the lift of a floating stand, or 0.
func (s SpaceEnvelope) FloatHeight() float64 {
	if s.Base.Type == BaseStand && s.Base.Placement == PlacementFloat {
		return s.Base.FloatHeight
	}
	return 0
}

// BottomOffset is the height of the module bottoms above the floor.
func (s SpaceEnvelope) BottomOffset() float64 {
	if h := s.BaseFrameHeight(); h > 0 {
		return h
	}
	return s.FloatHeight()
}

// TopFrame returns the top frame height; no-surround spaces have none.
func (s SpaceEnvelope) TopFrame() float64 {
	if s.Surround == NoSurround {
		return 0
	}
	if s.Frame.Top > 0 {
		return s.Frame.Top
	}
	return DefaultTopFrame
}

// InternalHeight is the height available to modules above the base frame
// and below the top frame.
func (s SpaceEnvelope) InternalHeight() float64 {
	return s.Height - s.TopFrame() - s.BaseFrameHeight()
}

// GapSize returns the per-side gap used by no-surround spaces.
func (s SpaceEnvelope) GapSize() float64 {
	if s.Gap > 0 {
		return s.Gap
	}
	return DefaultGap
}
