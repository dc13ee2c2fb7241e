package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// SceneScale converts scene units to millimetres (1 unit = 100 mm).
const SceneScale = 100.0

// VisibilityEpsilon is the tolerance, in input units, below which an axis
// delta is treated as zero by [IsLineVisible].
const VisibilityEpsilon = 1e-3

// Point is a position in a 2D drawing plane, in millimetres.
type Point struct {
	X, Y float64
}

// Add returns p translated by (dx, dy).
func (p Point) Add(dx, dy float64) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Projector maps 3D points onto the plane of one view.
//
// SpaceDepth is the depth of the space envelope in millimetres and anchors
// the section views. Scale converts input units to millimetres; the zero
// value is treated as [SceneScale].
type Projector struct {
	View       View
	SpaceDepth float64
	Scale      float64
}

// NewProjector returns a projector for scene-unit input.
func NewProjector(view View, spaceDepthMM float64) Projector {
	return Projector{View: view, SpaceDepth: spaceDepthMM, Scale: SceneScale}
}

// NewMMProjector returns a projector for input already in millimetres.
func NewMMProjector(view View, spaceDepthMM float64) Projector {
	return Projector{View: view, SpaceDepth: spaceDepthMM, Scale: 1}
}

// Project maps v onto the view plane. It is a pure function of its inputs.
func (p Projector) Project(v r3.Vec) Point {
	s := p.Scale
	if s == 0 {
		s = SceneScale
	}
	x, y, z := v.X*s, v.Y*s, v.Z*s

	switch p.View {
	case Plan:
		return Point{X: x, Y: -z}
	case Left:
		return Point{X: p.SpaceDepth/2 - z, Y: y}
	case Right:
		return Point{X: z + p.SpaceDepth/2, Y: y}
	default:
		return Point{X: x, Y: y}
	}
}

// Segment projects the edge a-b. ok is false when the edge is parallel to
// the viewing axis and collapses to a point.
func (p Projector) Segment(a, b r3.Vec) (p1, p2 Point, ok bool) {
	if !IsLineVisible(a, b, p.View) {
		return Point{}, Point{}, false
	}
	return p.Project(a), p.Project(b), true
}

// Project is shorthand for a scene-unit [Projector] call.
func Project(v r3.Vec, view View, spaceDepthMM float64) Point {
	return NewProjector(view, spaceDepthMM).Project(v)
}

// IsLineVisible reports whether the 3D edge a-b has extent in the plane of
// view. Front ignores z, plan ignores y and the sections ignore x.
func IsLineVisible(a, b r3.Vec, view View) bool {
	d := r3.Sub(b, a)
	dx, dy, dz := math.Abs(d.X), math.Abs(d.Y), math.Abs(d.Z)

	switch view {
	case Front:
		return dx >= VisibilityEpsilon || dy >= VisibilityEpsilon
	case Plan:
		return dx >= VisibilityEpsilon || dz >= VisibilityEpsilon
	case Left, Right:
		return dz >= VisibilityEpsilon || dy >= VisibilityEpsilon
	}
	return true
}
