package extract

import (
	"context"
	"math"
	"strings"

	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/furnidraw/pkg/drawing"
	"github.com/matzehuels/furnidraw/pkg/errors"
	"github.com/matzehuels/furnidraw/pkg/geom"
	"github.com/matzehuels/furnidraw/pkg/scene"
)

// Scene extraction tuning.
const (
	// MinMeshSize is the world size, in millimetres, a mesh must exceed on
	// at least two axes to contribute edges.
	MinMeshSize = 10.0
	// BoundingMargin is the offset of the dimensions drawn around scene
	// output.
	BoundingMargin = 100.0
	// dedupeGrid is the snapping grid, in millimetres, for duplicate
	// segment detection.
	dedupeGrid = 0.1
)

// excludedTokens mark renderer helpers that never belong in a drawing.
var excludedTokens = []string{
	"grid", "helper", "light", "camera", "controls", "axes", "background",
	"sky", "floor_plane", "gizmo", "overlay", "debug", "guide", "slot_drop",
	"drop_zone", "ghost", "preview", "highlight", "measure", "column_guide",
}

// meshExcludedTokens mark meshes that are room or UI surfaces rather than
// furniture.
var meshExcludedTokens = []string{"floor", "wall", "background", "slot"}

// Scene extracts primitives from a renderer scene graph.
type Scene struct {
	Holder *scene.Holder
	Logger *log.Logger
	// EdgeThreshold is the crease angle used for mesh edges, in degrees.
	EdgeThreshold float64
}

// NewScene returns a scene-driven extractor reading from holder.
func NewScene(holder *scene.Holder, logger *log.Logger) *Scene {
	return &Scene{Holder: holder, Logger: orDefault(logger), EdgeThreshold: scene.DefaultEdgeThreshold}
}

// Strategy implements [Extractor].
func (s *Scene) Strategy() Strategy { return StrategyScene }

// Extract implements [Extractor]. Module records in req are not used; the
// scene already contains the furniture. A scene with no drawable geometry
// yields a document with no lines and a logged warning.
func (s *Scene) Extract(ctx context.Context, req Request) (*drawing.Document, error) {
	if _, err := geom.ParseView(string(req.View)); err != nil {
		return nil, err
	}
	root := s.Holder.Get()
	if root == nil {
		return nil, errors.New(errors.ErrCodeNoScene, "no scene available")
	}

	doc := drawing.New(req.View)
	doc.Name = drawing.DrawingTypeName(req.View)
	c := &collector{
		doc:    doc,
		proj:   geom.NewProjector(req.View, req.Space.Depth),
		offset: originOffset(req),
		seen:   make(map[segmentKey]bool),
	}

	root.Walk(func(n *scene.Node, world scene.Affine) bool {
		if skipNode(n) {
			return false
		}
		if n.Kind.IsLine() {
			layer := nodeLayer(n)
			for _, seg := range lineSegments(n) {
				c.add(world.Apply(seg.A), world.Apply(seg.B), layer, n.Color)
			}
		}
		return true
	})

	if len(doc.Lines) == 0 {
		s.Logger.Debug("scene has no line geometry, using mesh edges", "view", req.View)
		s.meshEdges(root, c)
	}

	if len(doc.Lines) == 0 {
		s.Logger.Warn("no primitives found in scene", "view", req.View)
		return doc, nil
	}
	drawing.BoundingSet(doc, doc.LineBounds(), BoundingMargin)

	s.Logger.Debug("extracted scene primitives",
		"view", req.View,
		"lines", len(doc.Lines),
		"duplicates", c.duplicates)
	return doc, nil
}

func (s *Scene) meshEdges(root *scene.Node, c *collector) {
	threshold := s.EdgeThreshold
	if threshold <= 0 {
		threshold = scene.DefaultEdgeThreshold
	}
	root.Walk(func(n *scene.Node, world scene.Affine) bool {
		if skipNode(n) {
			return false
		}
		if n.Kind != scene.KindMesh || containsAny(n.Name, meshExcludedTokens) {
			return true
		}
		box, ok := n.WorldBox(world)
		if !ok || !largeEnough(box) {
			return true
		}
		layer := nodeLayer(n)
		for _, seg := range scene.EdgeSegments(n, threshold) {
			c.add(world.Apply(seg.A), world.Apply(seg.B), layer, n.Color)
		}
		return true
	})
}

func largeEnough(b r3.Box) bool {
	size := r3.Scale(geom.SceneScale, b.Size())
	n := 0
	for _, v := range []float64{size.X, size.Y, size.Z} {
		if v > MinMeshSize {
			n++
		}
	}
	return n >= 2
}

// originOffset moves the centered scene frame so the space's left edge is
// x = 0 and, in plan, the front wall is y = 0. The sections are already
// anchored by the projector.
func originOffset(req Request) geom.Point {
	switch req.View {
	case geom.Front:
		return geom.Point{X: req.Space.Width / 2}
	case geom.Plan:
		return geom.Point{X: req.Space.Width / 2, Y: req.Space.Depth / 2}
	default:
		return geom.Point{}
	}
}

func skipNode(n *scene.Node) bool {
	if n.Hidden {
		return true
	}
	switch n.Kind {
	case scene.KindLight, scene.KindCamera, scene.KindHelper:
		return true
	}
	return containsAny(n.Name, excludedTokens)
}

func containsAny(name string, tokens []string) bool {
	lower := strings.ToLower(name)
	for _, t := range tokens {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}

// nodeLayer returns the renderer's explicit layer tag, or classifies the
// node by name. The result is fixed on the primitives created from n.
func nodeLayer(n *scene.Node) drawing.Layer {
	if n.Layer != "" {
		return drawing.NormalizeLayer(string(n.Layer))
	}
	return ClassifyName(n.Name)
}

// ClassifyName assigns a layer from a node name.
func ClassifyName(name string) drawing.Layer {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "dimension"):
		return drawing.LayerDimensions
	case containsAny(lower, []string{"space", "wall", "boundary", "room", "floor"}):
		return drawing.LayerSpace
	case strings.Contains(lower, "door"):
		return drawing.LayerDoor
	default:
		return drawing.LayerFurniture
	}
}

// lineSegments returns the local segments of a line-bearing node.
func lineSegments(n *scene.Node) []scene.Segment {
	var out []scene.Segment
	switch n.Kind {
	case scene.KindLine:
		v := n.Vertices()
		for i := 0; i+1 < len(v); i++ {
			out = append(out, scene.Segment{A: v[i], B: v[i+1]})
		}
	case scene.KindLineSegments:
		v := n.Vertices()
		for i := 0; i+1 < len(v); i += 2 {
			out = append(out, scene.Segment{A: v[i], B: v[i+1]})
		}
	case scene.KindThickLine:
		p := n.Positions
		for i := 0; i+5 < len(p); i += 6 {
			out = append(out, scene.Segment{
				A: r3.Vec{X: p[i], Y: p[i+1], Z: p[i+2]},
				B: r3.Vec{X: p[i+3], Y: p[i+4], Z: p[i+5]},
			})
		}
	}
	return out
}

type segmentKey [4]int64

// collector projects world segments into the document, dropping degenerate
// and duplicate ones.
type collector struct {
	doc        *drawing.Document
	proj       geom.Projector
	offset     geom.Point
	seen       map[segmentKey]bool
	duplicates int
}

func (c *collector) add(a, b r3.Vec, layer drawing.Layer, color int) {
	p1, p2, ok := c.proj.Segment(a, b)
	if !ok {
		return
	}
	p1 = p1.Add(c.offset.X, c.offset.Y)
	p2 = p2.Add(c.offset.X, c.offset.Y)
	if math.Hypot(p2.X-p1.X, p2.Y-p1.Y) < dedupeGrid {
		return
	}

	k1, k2 := snap(p1), snap(p2)
	if k2[0] < k1[0] || (k2[0] == k1[0] && k2[1] < k1[1]) {
		k1, k2 = k2, k1
	}
	key := segmentKey{k1[0], k1[1], k2[0], k2[1]}
	if c.seen[key] {
		c.duplicates++
		return
	}
	c.seen[key] = true
	if color != drawing.ColorByLayer {
		c.doc.AddColoredLine(p1, p2, layer, color, drawing.RoleEdge)
		return
	}
	c.doc.AddLine(p1, p2, layer, drawing.RoleEdge)
}

func snap(p geom.Point) [2]int64 {
	return [2]int64{int64(math.Round(p.X / dedupeGrid)), int64(math.Round(p.Y / dedupeGrid))}
}
