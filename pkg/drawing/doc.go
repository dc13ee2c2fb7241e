// Package drawing is the in-memory CAD document model shared by every
// extractor and serializer.
//
// # Model
//
// A [Document] holds the primitives of one view: [Line] segments and [Text]
// annotations, both in millimetres with the space's left edge at x = 0 and
// its floor (or front wall, in plan) at y = 0. Every primitive carries a
// [Layer] from the fixed set in [Layers] and a [Role] tag naming what it
// depicts. Both are set when the primitive is created.
//
// Builders only append. Nothing is written in an output format until a
// serializer in package sink walks the document.
//
// # Annotations
//
// [Dimension] emits a full dimension annotation (offset line, ticks,
// extension lines and a "{n}mm" label). The preset styles [External],
// [ModuleHeight], [ModuleWidth] and [ModuleDepth] cover the overall envelope
// and per-module annotations. [AppendSpaceLabels] and [AppendTitleBlock]
// add captions and the title block.
//
// # Example
//
//	doc := drawing.New(geom.Front)
//	doc.AddRect(geom.Point{}, geom.Point{X: 4000, Y: 2400}, drawing.LayerFurniture, drawing.RoleBoundary)
//	drawing.ExternalSet(doc, 4000, 2400)
package drawing
