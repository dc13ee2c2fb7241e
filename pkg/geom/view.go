package geom

import (
	"strings"

	"github.com/matzehuels/furnidraw/pkg/errors"
)

// View is one of the orthographic drawing planes.
type View string

// Supported views.
const (
	Front View = "front"
	Plan  View = "plan"
	Left  View = "left"
	Right View = "right"
)

// Views lists every view in export order.
var Views = []View{Front, Plan, Left, Right}

// ParseView resolves a view name. "top" is an alias for plan and "side"
// (the legacy drawing type) maps to the left section.
func ParseView(s string) (View, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "front":
		return Front, nil
	case "plan", "top":
		return Plan, nil
	case "left", "side":
		return Left, nil
	case "right":
		return Right, nil
	}
	return "", errors.New(errors.ErrCodeInvalidView, "invalid view: %q (must be one of: front, plan, left, right)", s)
}

// IsSide reports whether v is a left or right section.
func (v View) IsSide() bool {
	return v == Left || v == Right
}

// Title returns the human-readable page title for v.
func (v View) Title() string {
	switch v {
	case Plan:
		return "Top View"
	case Left:
		return "Left Side View"
	case Right:
		return "Right Side View"
	default:
		return "Front View"
	}
}

func (v View) String() string { return string(v) }
