// Package geom maps 3D layout coordinates onto the 2D drawing planes used by
// furnidraw exports.
//
// # Views
//
// Four orthographic views are supported:
//
//   - [Front]: elevation seen from the room, (x, y)
//   - [Plan]: top-down view, (x, -z)
//   - [Left]: section seen from the left wall, (depth/2 - z, y)
//   - [Right]: section seen from the right wall, (z + depth/2, y)
//
// # Units
//
// Scene coordinates use 1 unit = 100 mm ([SceneScale]). The scale is applied
// inside [Projector.Project], never before, so chains of transforms keep
// their precision. Inputs that are already in millimetres use a projector
// with Scale 1 (see [NewMMProjector]).
//
// # Visibility
//
// [IsLineVisible] drops edges that run parallel to the viewing axis. It is
// evaluated on the un-projected 3D endpoints: two distinct 3D edges may
// overlap in 2D and must both survive.
//
// # Usage
//
//	p := geom.NewProjector(geom.Front, 600)
//	if geom.IsLineVisible(a, b, p.View) {
//	    p1, p2 := p.Project(a), p.Project(b)
//	    // ...
//	}
package geom
