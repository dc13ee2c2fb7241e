package scene

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultEdgeThreshold is the crease angle, in degrees, above which a
// shared mesh edge counts as a silhouette edge.
const DefaultEdgeThreshold = 1.0

// Segment is a 3D line segment.
type Segment struct {
	A, B r3.Vec
}

var boxEdges = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0},
	{4, 5}, {5, 6}, {6, 7}, {7, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// EdgeSegments returns the edge geometry of a mesh node in local space.
// Box meshes yield their 12 edges. Triangle meshes yield boundary edges and
// edges whose adjacent faces meet at more than thresholdDeg degrees.
// Vertices closer than 1e-4 units are merged first, so split-normal meshes
// do not report their seams.
func EdgeSegments(n *Node, thresholdDeg float64) []Segment {
	if n.Box != nil {
		v := r3.NewBox(-n.Box.X/2, -n.Box.Y/2, -n.Box.Z/2, n.Box.X/2, n.Box.Y/2, n.Box.Z/2).Vertices()
		out := make([]Segment, 0, len(boxEdges))
		for _, e := range boxEdges {
			out = append(out, Segment{A: v[e[0]], B: v[e[1]]})
		}
		return out
	}

	verts := n.Vertices()
	indices := n.Indices
	if len(indices) == 0 {
		indices = make([]int, len(verts))
		for i := range indices {
			indices[i] = i
		}
	}

	type key [3]int64
	quant := func(v r3.Vec) key {
		const p = 1e4
		return key{int64(math.Round(v.X * p)), int64(math.Round(v.Y * p)), int64(math.Round(v.Z * p))}
	}
	type edgeKey [2]key
	type edgeInfo struct {
		a, b    r3.Vec
		normals []r3.Vec
	}
	edges := make(map[edgeKey]*edgeInfo)
	var order []edgeKey

	for i := 0; i+2 < len(indices); i += 3 {
		ia, ib, ic := indices[i], indices[i+1], indices[i+2]
		if ia >= len(verts) || ib >= len(verts) || ic >= len(verts) {
			continue
		}
		tri := r3.Triangle{verts[ia], verts[ib], verts[ic]}
		if tri.IsDegenerate(1e-12) {
			continue
		}
		normal := r3.Unit(tri.Normal())
		for j := 0; j < 3; j++ {
			a, b := tri[j], tri[(j+1)%3]
			ka, kb := quant(a), quant(b)
			if ka == kb {
				continue
			}
			k := edgeKey{ka, kb}
			if lessKey(kb, ka) {
				k = edgeKey{kb, ka}
			}
			info, ok := edges[k]
			if !ok {
				info = &edgeInfo{a: a, b: b}
				edges[k] = info
				order = append(order, k)
			}
			info.normals = append(info.normals, normal)
		}
	}

	cosThreshold := math.Cos(thresholdDeg * math.Pi / 180)
	var out []Segment
	for _, k := range order {
		info := edges[k]
		if len(info.normals) == 1 || r3.Dot(info.normals[0], info.normals[1]) <= cosThreshold {
			out = append(out, Segment{A: info.a, B: info.b})
		}
	}
	return out
}

func lessKey(a, b [3]int64) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
