// Package dxfcheck inspects DXF output and checks it against the layer
// conventions of the exporter.
//
// [Inspect] reads a DXF stream twice: once with github.com/rpaloschi/dxf-go
// to confirm the file parses as a document, and once with a group-code
// scanner that records every LINE and TEXT entity with its layer. [Check]
// turns a [Report] into a list of [Issue] values:
//
//   - a required layer carries no entities
//   - LINE entities sit on layer "0"
//   - an entity sits on a layer outside the allowed set
//   - a text still contains Hangul
//   - the drawing has no entities at all
package dxfcheck
