package extract

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/furnidraw/pkg/drawing"
	"github.com/matzehuels/furnidraw/pkg/furniture"
	"github.com/matzehuels/furnidraw/pkg/geom"
	"github.com/matzehuels/furnidraw/pkg/indexing"
	"github.com/matzehuels/furnidraw/pkg/scene"
	"github.com/matzehuels/furnidraw/pkg/textsafe"
)

// Strategy names an extractor implementation.
type Strategy string

// Extraction strategies.
const (
	StrategyData  Strategy = "data"
	StrategyScene Strategy = "scene"
)

// Instance is a placed module together with its resolved dimensions.
type Instance struct {
	Placed furniture.PlacedModule     `json:"placed"`
	Dims   furniture.ModuleDimensions `json:"dims"`
}

// Request is the input of one extraction. It is a snapshot: extractors do
// not retain or modify it.
type Request struct {
	Space    furniture.SpaceEnvelope
	Modules  []Instance
	View     geom.View
	Indexing indexing.Indexing

	// SideFilter defaults to the view's filter when empty.
	SideFilter furniture.SideViewFilter
	Sanitizer  textsafe.Sanitizer
}

// Filter returns the side filter in effect for the request.
func (r Request) Filter() furniture.SideViewFilter {
	if r.SideFilter != "" {
		return r.SideFilter
	}
	return furniture.FilterForView(r.View)
}

// Envelope returns the space size as a drawing envelope.
func (r Request) Envelope() drawing.Envelope {
	return drawing.Envelope{Width: r.Space.Width, Height: r.Space.Height, Depth: r.Space.Depth}
}

// Extractor turns a request into the primitives of one view.
type Extractor interface {
	Strategy() Strategy
	Extract(ctx context.Context, req Request) (*drawing.Document, error)
}

// Select returns the scene extractor when preferScene is set and holder
// has a scene, and the data extractor otherwise.
func Select(holder *scene.Holder, preferScene bool, logger *log.Logger) Extractor {
	if preferScene && holder.Get() != nil {
		return NewScene(holder, logger)
	}
	return NewData(logger)
}

func orDefault(logger *log.Logger) *log.Logger {
	if logger == nil {
		return log.Default()
	}
	return logger
}
