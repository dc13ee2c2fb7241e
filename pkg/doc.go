// Package pkg provides the core libraries for furnidraw furniture drawing
// export.
//
// # Overview
//
// Furnidraw turns a furniture layout, a space envelope and the modules
// placed in it, into 2D technical drawings. A furniture configurator keeps
// the layout as a 3D scene; furnidraw projects it onto a front elevation, a
// plan and two side elevations and writes each drawing as DXF for CAD, PDF
// for print, or SVG, PNG and JSON for previews.
//
// # Architecture
//
// The data flow of one export:
//
//	Project (space + placed modules)   or   3D scene snapshot
//	         ↓                                   ↓
//	    [indexing] slot grid              [scene] node tree
//	         ↓                                   ↓
//	    [extract] data or scene extractor → [drawing] Document
//	         ↓
//	    [sink] DXF / PDF / SVG / PNG / JSON / slot map
//	         ↓
//	    [storage] store, or local files as fallback
//
// # Quick Start
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, nil)
//	res := runner.Export(ctx, pipeline.Options{
//	    Space:     project.Space,
//	    Modules:   project.Modules,
//	    View:      "front",
//	    Formats:   []string{pipeline.FormatDXF, pipeline.FormatPDF},
//	    OutputDir: "drawings",
//	})
//	if !res.Success {
//	    log.Fatal(res.Message)
//	}
//
// # Main Packages
//
// ## Domain
//
// [furniture] - Space envelopes, placed modules, the module catalog and
// project files.
//
// [geom] - Views, axis projection and scene units.
//
// [indexing] - Divides the space width into columns and resolves module
// slots to X positions.
//
// [scene] - A minimal 3D node tree with snapshots, standing in for the
// configurator's live scene.
//
// ## Drawing
//
// [extract] - Builds a [drawing] Document from project data or from a scene.
//
// [drawing] - The 2D document model: layers, lines, texts, file naming and
// the title block.
//
// [sink] - Serializers for every output format.
//
// [dxfcheck] - Inspects DXF files and checks them against the layer rules.
//
// [textsafe] - Makes labels safe for DXF fonts.
//
// [fonts] - Embedded fonts for PDF and PNG output.
//
// ## Infrastructure
//
// [pipeline] - The export runner used by the CLI and the HTTP API.
//
// [cache] - Drawing and artifact caches: file, Redis and null.
//
// [storage] - Artifact stores: local directory, Redis and MongoDB.
//
// [io] - Project file reading and artifact writing.
//
// [errors] - Error codes shared by every entry point.
//
// [observability] - Hooks for export, cache and HTTP events.
//
// # Testing
//
//	go test ./...                     # All tests
//	go test ./pkg/pipeline/...        # Specific package
//
// [furniture]: https://pkg.go.dev/github.com/matzehuels/furnidraw/pkg/furniture
// [geom]: https://pkg.go.dev/github.com/matzehuels/furnidraw/pkg/geom
// [indexing]: https://pkg.go.dev/github.com/matzehuels/furnidraw/pkg/indexing
// [scene]: https://pkg.go.dev/github.com/matzehuels/furnidraw/pkg/scene
// [extract]: https://pkg.go.dev/github.com/matzehuels/furnidraw/pkg/extract
// [drawing]: https://pkg.go.dev/github.com/matzehuels/furnidraw/pkg/drawing
// [sink]: https://pkg.go.dev/github.com/matzehuels/furnidraw/pkg/sink
// [dxfcheck]: https://pkg.go.dev/github.com/matzehuels/furnidraw/pkg/dxfcheck
// [textsafe]: https://pkg.go.dev/github.com/matzehuels/furnidraw/pkg/textsafe
// [fonts]: https://pkg.go.dev/github.com/matzehuels/furnidraw/pkg/fonts
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/furnidraw/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/furnidraw/pkg/cache
// [storage]: https://pkg.go.dev/github.com/matzehuels/furnidraw/pkg/storage
// [io]: https://pkg.go.dev/github.com/matzehuels/furnidraw/pkg/io
// [errors]: https://pkg.go.dev/github.com/matzehuels/furnidraw/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/furnidraw/pkg/observability
package pkg
