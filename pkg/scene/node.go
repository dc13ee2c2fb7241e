package scene

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/furnidraw/pkg/drawing"
)

// Kind is the renderer object type of a node.
type Kind string

// Node kinds. Line-bearing kinds carry their vertices in Positions.
const (
	KindGroup        Kind = "group"
	KindMesh         Kind = "mesh"
	KindLine         Kind = "line"
	KindLineSegments Kind = "line_segments"
	KindThickLine    Kind = "thick_line"
	KindLight        Kind = "light"
	KindCamera       Kind = "camera"
	KindHelper       Kind = "helper"
)

// IsLine reports whether k stores drawable line vertices.
func (k Kind) IsLine() bool {
	return k == KindLine || k == KindLineSegments || k == KindThickLine
}

// Transform is a node's local placement. Rotation holds Euler angles in
// radians applied in X, Y, Z order. A zero Scale component means 1.
type Transform struct {
	Position r3.Vec `json:"position"`
	Rotation r3.Vec `json:"rotation"`
	Scale    r3.Vec `json:"scale"`
}

// Affine is a linear map plus translation.
type Affine struct {
	M *r3.Mat
	T r3.Vec
}

// Identity returns the identity transform.
func Identity() Affine {
	return Affine{M: r3.Eye()}
}

// Apply maps v through a.
func (a Affine) Apply(v r3.Vec) r3.Vec {
	return r3.Add(a.M.MulVec(v), a.T)
}

// Then returns the transform applying local first and then a.
func (a Affine) Then(local Affine) Affine {
	m := r3.NewMat(nil)
	m.Mul(a.M, local.M)
	return Affine{M: m, T: r3.Add(a.M.MulVec(local.T), a.T)}
}

// Affine returns the local transform as a matrix and translation.
func (t Transform) Affine() Affine {
	sx, sy, sz := scaleOr1(t.Scale.X), scaleOr1(t.Scale.Y), scaleOr1(t.Scale.Z)
	s := r3.NewMat([]float64{
		sx, 0, 0,
		0, sy, 0,
		0, 0, sz,
	})

	rot := r3.Eye()
	for _, r := range []r3.Rotation{
		r3.NewRotation(t.Rotation.X, r3.Vec{X: 1}),
		r3.NewRotation(t.Rotation.Y, r3.Vec{Y: 1}),
		r3.NewRotation(t.Rotation.Z, r3.Vec{Z: 1}),
	} {
		next := r3.NewMat(nil)
		next.Mul(rot, r.Mat())
		rot = next
	}

	m := r3.NewMat(nil)
	m.Mul(rot, s)
	return Affine{M: m, T: t.Position}
}

func scaleOr1(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}

// Node is one object of the scene graph.
type Node struct {
	Name      string    `json:"name"`
	Kind      Kind      `json:"kind"`
	Hidden    bool      `json:"hidden,omitempty"`
	Transform Transform `json:"transform"`

	// Positions is a flat xyz vertex buffer. Thick lines store one segment
	// per six values (start xyz, end xyz).
	Positions []float64 `json:"positions,omitempty"`
	// Indices lists mesh triangles as vertex index triples.
	Indices []int `json:"indices,omitempty"`
	// Box is the size of a centered box geometry, for box meshes.
	Box *r3.Vec `json:"box,omitempty"`

	// Layer is an explicit drawing layer set by the renderer.
	Layer   drawing.Layer `json:"layer,omitempty"`
	// Color is an explicit ACI color; zero draws by layer.
	Color   int           `json:"color,omitempty"`
	Opacity float64       `json:"opacity,omitempty"`

	Children []*Node `json:"children,omitempty"`
	parent   *Node
}

// NewNode returns a visible node.
func NewNode(name string, kind Kind) *Node {
	return &Node{Name: name, Kind: kind}
}

// Add attaches children to n and returns n.
func (n *Node) Add(children ...*Node) *Node {
	for _, c := range children {
		c.parent = n
		n.Children = append(n.Children, c)
	}
	return n
}

// Parent returns the node n is attached to, or nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// Vertices returns Positions as vectors.
func (n *Node) Vertices() []r3.Vec {
	out := make([]r3.Vec, 0, len(n.Positions)/3)
	for i := 0; i+2 < len(n.Positions); i += 3 {
		out = append(out, r3.Vec{X: n.Positions[i], Y: n.Positions[i+1], Z: n.Positions[i+2]})
	}
	return out
}

// WalkFunc is called for every node with its world transform. Returning
// false skips the node's children.
type WalkFunc func(n *Node, world Affine) bool

// Walk visits n and its descendants depth first.
func (n *Node) Walk(fn WalkFunc) {
	n.walk(Identity(), fn)
}

func (n *Node) walk(parent Affine, fn WalkFunc) {
	world := parent.Then(n.Transform.Affine())
	if !fn(n, world) {
		return
	}
	for _, c := range n.Children {
		c.walk(world, fn)
	}
}

// link restores parent pointers after decoding.
func (n *Node) link() {
	for _, c := range n.Children {
		c.parent = n
		c.link()
	}
}

// WorldBox returns the world-space bounds of the node's own geometry.
func (n *Node) WorldBox(world Affine) (r3.Box, bool) {
	var pts []r3.Vec
	if n.Box != nil {
		pts = boxCorners(*n.Box)
	} else {
		pts = n.Vertices()
	}
	if len(pts) == 0 {
		return r3.Box{}, false
	}
	inf := math.Inf(1)
	b := r3.Box{Min: r3.Vec{X: inf, Y: inf, Z: inf}, Max: r3.Vec{X: -inf, Y: -inf, Z: -inf}}
	for _, p := range pts {
		w := world.Apply(p)
		b.Min = r3.Vec{X: math.Min(b.Min.X, w.X), Y: math.Min(b.Min.Y, w.Y), Z: math.Min(b.Min.Z, w.Z)}
		b.Max = r3.Vec{X: math.Max(b.Max.X, w.X), Y: math.Max(b.Max.Y, w.Y), Z: math.Max(b.Max.Z, w.Z)}
	}
	return b, true
}

func boxCorners(size r3.Vec) []r3.Vec {
	return r3.NewBox(-size.X/2, -size.Y/2, -size.Z/2, size.X/2, size.Y/2, size.Z/2).Vertices()
}
