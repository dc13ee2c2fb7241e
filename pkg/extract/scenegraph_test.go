package extract

import (
	"context"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/furnidraw/pkg/drawing"
	"github.com/matzehuels/furnidraw/pkg/errors"
	"github.com/matzehuels/furnidraw/pkg/geom"
	"github.com/matzehuels/furnidraw/pkg/scene"
)

func lineNode(name string, kind scene.Kind, positions ...float64) *scene.Node {
	n := scene.NewNode(name, kind)
	n.Positions = positions
	return n
}

func extractScene(t *testing.T, root *scene.Node, view geom.View) *drawing.Document {
	t.Helper()
	doc, err := NewScene(scene.NewHolder(root), nil).Extract(context.Background(), testRequest(view))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	return doc
}

func countLayer(doc *drawing.Document, layer drawing.Layer) int {
	n := 0
	for _, l := range linesWith(doc, drawing.RoleEdge) {
		if l.Layer == layer {
			n++
		}
	}
	return n
}

func TestSceneLines(t *testing.T) {
	hidden := lineNode("cabinet_hidden", scene.KindLineSegments, 0, 0, 0, 1, 1, 0)
	hidden.Hidden = true
	tagged := lineNode("cabinet_edge", scene.KindLineSegments, 0, 5, 0, 1, 5, 0)
	tagged.Layer = drawing.LayerDoor

	root := scene.NewNode("scene", scene.KindGroup).Add(
		lineNode("furniture_edges", scene.KindLineSegments,
			-1, 0, 0, 1, 0, 0,
			1, 0, 0, -1, 0, 0),
		lineNode("dimension_line", scene.KindLine, 0, 0, 0, 0, 2, 0, 3, 2, 0),
		lineNode("grid_helper", scene.KindLineSegments, 0, 0, 0, 9, 9, 0),
		hidden,
		scene.NewNode("camera_rig", scene.KindGroup).Add(
			lineNode("rig_line", scene.KindLine, 0, 0, 0, 4, 4, 0),
		),
		lineNode("wall_outline", scene.KindThickLine, 0, 0, 0, 0, 1, 0),
		lineNode("depth_edge", scene.KindLineSegments, 2, 0, 0, 2, 0, 1),
		tagged,
	)

	doc := extractScene(t, root, geom.Front)

	tests := []struct {
		layer drawing.Layer
		want  int
	}{
		{drawing.LayerFurniture, 1},
		{drawing.LayerDimensions, 2},
		{drawing.LayerSpace, 1},
		{drawing.LayerDoor, 1},
	}
	for _, tt := range tests {
		if got := countLayer(doc, tt.layer); got != tt.want {
			t.Errorf("%s edges = %d, want %d", tt.layer, got, tt.want)
		}
	}
	if got := doc.Count(drawing.RoleEdge); got != 5 {
		t.Errorf("edges = %d, want 5", got)
	}

	first := linesWith(doc, drawing.RoleEdge)[0]
	if first.X1 != 1900 || first.X2 != 2100 || first.Y1 != 0 {
		t.Errorf("first edge = %+v, want 1900..2100 at y=0", first)
	}
	if doc.Count(drawing.RoleDimension) != 2 {
		t.Errorf("bounding dimensions = %d, want 2", doc.Count(drawing.RoleDimension))
	}
}

func TestSceneDepthEdgeVisibleInPlan(t *testing.T) {
	root := scene.NewNode("scene", scene.KindGroup).Add(
		lineNode("depth_edge", scene.KindLineSegments, 2, 0, 0, 2, 0, 1),
	)
	if got := extractScene(t, root, geom.Front).Count(drawing.RoleEdge); got != 0 {
		t.Errorf("front edges = %d, want 0", got)
	}
	doc := extractScene(t, root, geom.Plan)
	edges := linesWith(doc, drawing.RoleEdge)
	if len(edges) != 1 {
		t.Fatalf("plan edges = %d, want 1", len(edges))
	}
	if e := edges[0]; e.X1 != 2200 || e.Y1 != 300 || e.Y2 != 200 {
		t.Errorf("plan edge = %+v", e)
	}
}

func TestSceneMeshFallback(t *testing.T) {
	cabinet := scene.NewNode("cabinet", scene.KindMesh)
	cabinet.Box = &r3.Vec{X: 6, Y: 20, Z: 5.8}
	cabinet.Transform.Position = r3.Vec{Y: 10}

	floor := scene.NewNode("floor", scene.KindMesh)
	floor.Box = &r3.Vec{X: 40, Y: 0.1, Z: 6}

	knob := scene.NewNode("knob", scene.KindMesh)
	knob.Box = &r3.Vec{X: 0.05, Y: 0.05, Z: 0.05}

	root := scene.NewNode("scene", scene.KindGroup).Add(cabinet, floor, knob)
	doc := extractScene(t, root, geom.Front)

	// Front and back faces coincide after projection; depth edges vanish.
	if got := doc.Count(drawing.RoleEdge); got != 4 {
		t.Fatalf("edges = %d, want 4", got)
	}
	var eb geom.Bounds
	for _, l := range linesWith(doc, drawing.RoleEdge) {
		eb.Extend(l.Start())
		eb.Extend(l.End())
	}
	if eb.MinX != 1700 || eb.MaxX != 2300 || eb.MinY != 0 || eb.MaxY != 2000 {
		t.Errorf("cabinet bounds = %+v", eb)
	}
}

func TestSceneNoScene(t *testing.T) {
	_, err := NewScene(scene.NewHolder(nil), nil).Extract(context.Background(), testRequest(geom.Front))
	if !errors.Is(err, errors.ErrCodeNoScene) {
		t.Errorf("err = %v, want NO_SCENE", err)
	}
}

func TestSceneEmptyIsNotAnError(t *testing.T) {
	root := scene.NewNode("scene", scene.KindGroup).Add(scene.NewNode("ambient_light", scene.KindLight))
	doc := extractScene(t, root, geom.Front)
	if len(doc.Lines) != 0 {
		t.Errorf("lines = %d, want 0", len(doc.Lines))
	}
}

func TestClassifyName(t *testing.T) {
	tests := map[string]drawing.Layer{
		"DimensionLine_width": drawing.LayerDimensions,
		"space_boundary":      drawing.LayerSpace,
		"left_wall":           drawing.LayerSpace,
		"room":                drawing.LayerSpace,
		"door_left":           drawing.LayerDoor,
		"cabinet_panel":       drawing.LayerFurniture,
		"":                    drawing.LayerFurniture,
	}
	for name, want := range tests {
		if got := ClassifyName(name); got != want {
			t.Errorf("ClassifyName(%q) = %s, want %s", name, got, want)
		}
	}
}

func TestSelect(t *testing.T) {
	holder := scene.NewHolder(nil)
	if Select(holder, true, nil).Strategy() != StrategyData {
		t.Error("without a scene the data extractor is used")
	}
	holder.Set(scene.NewNode("scene", scene.KindGroup))
	if Select(holder, true, nil).Strategy() != StrategyScene {
		t.Error("a live scene should select the scene extractor")
	}
	if Select(holder, false, nil).Strategy() != StrategyData {
		t.Error("data extraction is the default")
	}
	if Select(nil, true, nil).Strategy() != StrategyData {
		t.Error("nil holder should fall back to data extraction")
	}
}

func TestSceneNodeColor(t *testing.T) {
	red := lineNode("cabinet_edge", scene.KindLineSegments, 0, 0, 0, 1, 0, 0)
	red.Color = 1
	root := scene.NewNode("scene", scene.KindGroup).Add(
		red,
		lineNode("cabinet_back", scene.KindLineSegments, 0, 3, 0, 1, 3, 0),
	)
	doc := extractScene(t, root, geom.Front)

	edges := linesWith(doc, drawing.RoleEdge)
	if len(edges) != 2 {
		t.Fatalf("edges = %d, want 2", len(edges))
	}
	if got := edges[0].EffectiveColor(); got != 1 {
		t.Errorf("colored node line color = %d, want 1", got)
	}
	if edges[1].Color != drawing.ColorByLayer {
		t.Errorf("untagged node line color = %d, want by-layer", edges[1].Color)
	}
	if got := edges[1].EffectiveColor(); got != drawing.LayerFurniture.Color() {
		t.Errorf("by-layer color = %d, want %d", got, drawing.LayerFurniture.Color())
	}
}
