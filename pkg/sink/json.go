package sink

import (
	"encoding/json"

	"github.com/matzehuels/furnidraw/pkg/drawing"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	filename string
	compact  bool
}

// WithJSONFilename records the artifact filename in the output.
func WithJSONFilename(name string) JSONOption { return func(r *jsonRenderer) { r.filename = name } }

// WithJSONCompact disables indentation.
func WithJSONCompact() JSONOption { return func(r *jsonRenderer) { r.compact = true } }

type jsonOutput struct {
	Name     string         `json:"name"`
	View     string         `json:"view"`
	Filename string         `json:"filename,omitempty"`
	Bounds   *jsonBounds    `json:"bounds,omitempty"`
	Layers   []jsonLayer    `json:"layers"`
	Lines    []drawing.Line `json:"lines"`
	Texts    []drawing.Text `json:"texts"`
}

type jsonBounds struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

type jsonLayer struct {
	Name  string `json:"name"`
	Color int    `json:"color"`
	Lines int    `json:"lines"`
	Texts int    `json:"texts"`
}

// RenderJSON exports the document model with per-layer counts.
func RenderJSON(doc *drawing.Document, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Name:     doc.Name,
		View:     string(doc.View),
		Filename: r.filename,
		Lines:    doc.Lines,
		Texts:    doc.Texts,
	}
	if out.Lines == nil {
		out.Lines = []drawing.Line{}
	}
	if out.Texts == nil {
		out.Texts = []drawing.Text{}
	}
	if b := doc.Bounds(); !b.Empty() {
		out.Bounds = &jsonBounds{MinX: b.MinX, MinY: b.MinY, MaxX: b.MaxX, MaxY: b.MaxY}
	}
	for _, def := range drawing.Layers {
		lines, texts := layerPrimitives(doc, def.Name)
		out.Layers = append(out.Layers, jsonLayer{
			Name:  string(def.Name),
			Color: def.Color,
			Lines: len(lines),
			Texts: len(texts),
		})
	}

	if r.compact {
		return json.Marshal(out)
	}
	return json.MarshalIndent(out, "", "  ")
}
