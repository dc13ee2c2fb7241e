// Package extract produces the drawing primitives of one view.
//
// Two [Extractor] implementations share the contract:
//
//   - [Data] computes lines and texts directly from the space envelope and
//     the resolved module dimensions. It is deterministic and is the
//     authoritative path.
//   - [Scene] walks a renderer scene graph published through a
//     [scene.Holder] and projects its line geometry, falling back to mesh
//     edges when the scene holds no lines.
//
// [Select] picks one by availability of a scene. Everything downstream of
// the returned [drawing.Document] is independent of the strategy.
package extract
