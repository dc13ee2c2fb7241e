package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Bounds is an axis-aligned rectangle accumulated from points.
// The zero value is empty.
type Bounds struct {
	MinX, MinY float64
	MaxX, MaxY float64
	set        bool
}

// Extend grows b to include p.
func (b *Bounds) Extend(p Point) {
	if !b.set {
		b.MinX, b.MaxX = p.X, p.X
		b.MinY, b.MaxY = p.Y, p.Y
		b.set = true
		return
	}
	b.MinX = math.Min(b.MinX, p.X)
	b.MinY = math.Min(b.MinY, p.Y)
	b.MaxX = math.Max(b.MaxX, p.X)
	b.MaxY = math.Max(b.MaxY, p.Y)
}

// Empty reports whether no point has been added.
func (b Bounds) Empty() bool { return !b.set }

// Width returns the horizontal extent.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical extent.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Center returns the midpoint.
func (b Bounds) Center() Point {
	return Point{X: (b.MinX + b.MaxX) / 2, Y: (b.MinY + b.MaxY) / 2}
}

// Box is an axis-aligned 3D box used for scene-node extents.
type Box struct {
	Min, Max r3.Vec
	set      bool
}

// Extend grows b to include v.
func (b *Box) Extend(v r3.Vec) {
	if !b.set {
		b.Min, b.Max = v, v
		b.set = true
		return
	}
	b.Min = r3.Vec{X: math.Min(b.Min.X, v.X), Y: math.Min(b.Min.Y, v.Y), Z: math.Min(b.Min.Z, v.Z)}
	b.Max = r3.Vec{X: math.Max(b.Max.X, v.X), Y: math.Max(b.Max.Y, v.Y), Z: math.Max(b.Max.Z, v.Z)}
}

// Empty reports whether no point has been added.
func (b Box) Empty() bool { return !b.set }

// Size returns the extent along each axis.
func (b Box) Size() r3.Vec {
	if !b.set {
		return r3.Vec{}
	}
	return r3.Sub(b.Max, b.Min)
}
