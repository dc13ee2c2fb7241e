package scene

import (
	"bytes"
	"math"
	"strings"
	"sync"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func near(a, b r3.Vec) bool {
	return r3.Norm(r3.Sub(a, b)) < 1e-9
}

func TestHolder(t *testing.T) {
	var nilHolder *Holder
	if nilHolder.Get() != nil {
		t.Error("nil holder should have no scene")
	}

	h := NewHolder(nil)
	if h.Get() != nil {
		t.Fatal("new holder should be empty")
	}
	a, b := NewNode("a", KindGroup), NewNode("b", KindGroup)
	h.Set(a)
	h.Set(b)
	if h.Get() != b {
		t.Error("last Set should win")
	}
	h.Clear()
	if h.Get() != nil {
		t.Error("Clear should drop the scene")
	}
}

func TestHolderConcurrentAccess(t *testing.T) {
	h := NewHolder(nil)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			h.Set(NewNode("scene", KindGroup))
		}()
		go func() {
			defer wg.Done()
			_ = h.Get()
		}()
	}
	wg.Wait()
	if h.Get() == nil {
		t.Error("expected a scene after concurrent sets")
	}
}

func TestWalkComposesTransforms(t *testing.T) {
	child := NewNode("child", KindLine)
	child.Transform.Position = r3.Vec{X: 1}
	root := NewNode("root", KindGroup)
	root.Transform.Position = r3.Vec{Y: 2}
	root.Transform.Rotation = r3.Vec{Y: math.Pi / 2}
	root.Add(child)

	var got r3.Vec
	root.Walk(func(n *Node, world Affine) bool {
		if n == child {
			got = world.Apply(r3.Vec{})
		}
		return true
	})
	// Rotating (1, 0, 0) by 90 degrees about y gives (0, 0, -1).
	if want := (r3.Vec{Y: 2, Z: -1}); !near(got, want) {
		t.Errorf("child origin = %v, want %v", got, want)
	}
}

func TestWalkSkipsSubtree(t *testing.T) {
	root := NewNode("root", KindGroup).Add(
		NewNode("skip", KindGroup).Add(NewNode("inner", KindLine)),
		NewNode("keep", KindLine),
	)
	var seen []string
	root.Walk(func(n *Node, _ Affine) bool {
		seen = append(seen, n.Name)
		return n.Name != "skip"
	})
	if strings.Join(seen, ",") != "root,skip,keep" {
		t.Errorf("visited %v", seen)
	}
}

func TestTransformScale(t *testing.T) {
	tr := Transform{Scale: r3.Vec{X: 2, Y: 0, Z: 3}}
	got := tr.Affine().Apply(r3.Vec{X: 1, Y: 1, Z: 1})
	if want := (r3.Vec{X: 2, Y: 1, Z: 3}); !near(got, want) {
		t.Errorf("scaled = %v, want %v", got, want)
	}
}

func TestEdgeSegmentsBox(t *testing.T) {
	n := NewNode("cabinet", KindMesh)
	n.Box = &r3.Vec{X: 6, Y: 20, Z: 5.8}
	segs := EdgeSegments(n, DefaultEdgeThreshold)
	if len(segs) != 12 {
		t.Fatalf("box edges = %d, want 12", len(segs))
	}
	for _, s := range segs {
		if math.Abs(s.A.X) != 3 || math.Abs(s.B.Y) != 10 {
			t.Errorf("edge %v is not on the box", s)
		}
	}
}

func TestEdgeSegmentsHidesCoplanarDiagonal(t *testing.T) {
	n := NewNode("panel", KindMesh)
	n.Positions = []float64{
		0, 0, 0,
		1, 0, 0,
		1, 1, 0,
		0, 1, 0,
	}
	n.Indices = []int{0, 1, 2, 0, 2, 3}
	segs := EdgeSegments(n, DefaultEdgeThreshold)
	if len(segs) != 4 {
		t.Fatalf("edges = %d, want 4 boundary edges", len(segs))
	}
	for _, s := range segs {
		d := r3.Sub(s.B, s.A)
		if math.Abs(d.X) > 0 && math.Abs(d.Y) > 0 {
			t.Errorf("diagonal %v should be hidden", s)
		}
	}
}

func TestEdgeSegmentsKeepsCrease(t *testing.T) {
	n := NewNode("fold", KindMesh)
	n.Positions = []float64{
		0, 0, 0,
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
	// Two faces sharing the edge 0-2 at a right angle.
	n.Indices = []int{0, 1, 2, 0, 2, 3}
	if got := len(EdgeSegments(n, DefaultEdgeThreshold)); got != 5 {
		t.Errorf("edges = %d, want 5", got)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	line := NewNode("dimension_line", KindLineSegments)
	line.Positions = []float64{0, 0, 0, 1, 0, 0}
	root := NewNode("scene", KindGroup).Add(line)

	var buf bytes.Buffer
	if err := WriteSnapshot(&buf, root); err != nil {
		t.Fatal(err)
	}
	got, err := ReadSnapshot(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Children) != 1 || got.Children[0].Parent() != got {
		t.Fatalf("children not linked: %+v", got)
	}
	if v := got.Children[0].Vertices(); len(v) != 2 || v[1].X != 1 {
		t.Errorf("vertices = %v", v)
	}
}

func TestReadSnapshotInvalid(t *testing.T) {
	if _, err := ReadSnapshot(strings.NewReader("{")); err == nil {
		t.Error("expected error for truncated JSON")
	}
}

func TestWorldBox(t *testing.T) {
	n := NewNode("box", KindMesh)
	n.Box = &r3.Vec{X: 2, Y: 4, Z: 6}
	world := Affine{M: r3.Eye(), T: r3.Vec{X: 10}}
	b, ok := n.WorldBox(world)
	if !ok {
		t.Fatal("box node has no bounds")
	}
	if !near(b.Min, r3.Vec{X: 9, Y: -2, Z: -3}) || !near(b.Max, r3.Vec{X: 11, Y: 2, Z: 3}) {
		t.Errorf("WorldBox = %+v", b)
	}
	if _, ok := NewNode("empty", KindGroup).WorldBox(world); ok {
		t.Error("group without geometry should have no bounds")
	}
}
