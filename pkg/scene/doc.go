// Package scene models the renderer's scene graph as far as drawing export
// needs it: named nodes with local transforms, line vertex buffers and mesh
// geometry.
//
// The renderer owns the graph and publishes it through a [Holder]; the
// export pipeline reads it and never mutates it. Snapshots of a graph can be
// stored as JSON with [WriteSnapshot] and loaded with [ReadSnapshot], which
// lets the CLI export from a captured scene without a live renderer.
//
// World transforms are composed with gonum's r3 matrices during
// [Node.Walk]. Coordinates are scene units (1 unit = 100 mm).
package scene
