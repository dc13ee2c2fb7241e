// Package sink serializes drawing documents into output formats.
//
// # Overview
//
// A "sink" turns a finished [drawing.Document] into bytes. This package
// provides:
//
//   - DXF: the primary CAD output, written with github.com/yofu/dxf
//   - PDF: one A4 landscape page per view, written with github.com/go-pdf/fpdf
//   - SVG: vector preview, written with github.com/ajstarks/svgo
//   - PNG: raster preview, drawn with git.sr.ht/~sbinet/gg
//   - JSON: the document model itself, for external tools and caching
//   - Slot map: the space, column and module occupancy as a Graphviz diagram
//
// Every renderer takes functional options in the same style:
//
//	data, err := sink.RenderDXF(doc)
//	pdf, err := sink.RenderPDF(pages, sink.WithPDFSpace(4000, 2400, 600))
//	svg := sink.RenderSVG(doc, sink.WithSVGWidth(1200))
//
// # Layers and colors
//
// All sinks honor the layer set of [drawing.Layers]. The DXF sink registers
// every layer before the first entity and switches the current layer before
// each primitive, so no entity ever lands in an unregistered layer. The
// preview sinks map ACI colors onto RGB with [ACIColor].
//
// # Determinism
//
// DXF, SVG and JSON output depend only on the document. The PDF sink stamps
// the creation date given with [WithPDFDate].
//
// [drawing.Document]: github.com/matzehuels/furnidraw/pkg/drawing.Document
// [drawing.Layers]: github.com/matzehuels/furnidraw/pkg/drawing.Layers
package sink
