package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/furnidraw/pkg/drawing"
	"github.com/matzehuels/furnidraw/pkg/errors"
	"github.com/matzehuels/furnidraw/pkg/extract"
	"github.com/matzehuels/furnidraw/pkg/furniture"
	"github.com/matzehuels/furnidraw/pkg/sink"
	"github.com/matzehuels/furnidraw/pkg/textsafe"
)

// SerializeOptions carries what the serializers need besides the document.
type SerializeOptions struct {
	Space    furniture.SpaceEnvelope
	Inputs   Inputs
	Date     time.Time
	SVGWidth float64
	PNGWidth int
	Logger   *log.Logger
}

// Serialize renders doc in one format.
func Serialize(ctx context.Context, doc *drawing.Document, format string, opts SerializeOptions) ([]byte, error) {
	switch format {
	case FormatDXF:
		return sink.RenderDXF(doc)
	case FormatPDF:
		return sink.RenderPDF([]*drawing.Document{doc}, pdfOptions(opts)...)
	case FormatSVG:
		return sink.RenderSVG(doc, sink.WithSVGWidth(opts.SVGWidth), sink.WithSVGTitle()), nil
	case FormatPNG:
		return sink.RenderPNG(doc, sink.WithPNGWidth(opts.PNGWidth))
	case FormatJSON:
		name := drawing.Filename(doc.View, opts.Space.Width, opts.Space.Height, opts.Space.Depth, opts.Date, FormatDXF)
		return sink.RenderJSON(doc, sink.WithJSONFilename(name))
	case FormatSlotMap:
		env := drawing.Envelope{Width: opts.Space.Width, Height: opts.Space.Height, Depth: opts.Space.Depth}
		return sink.RenderSlotMap(ctx, sink.SlotMapDOT(env, opts.Inputs.Indexing, SlotModules(opts.Inputs.Instances)))
	default:
		return nil, ValidateFormat(format)
	}
}

func pdfOptions(opts SerializeOptions) []sink.PDFOption {
	return []sink.PDFOption{
		sink.WithPDFSpace(opts.Space.Width, opts.Space.Height, opts.Space.Depth),
		sink.WithPDFDate(opts.Date),
		sink.WithPDFLogger(opts.Logger),
	}
}

// SlotModules lists the modules for the slot map, labelled with their
// sanitized names.
func SlotModules(instances []extract.Instance) []sink.SlotModule {
	out := make([]sink.SlotModule, 0, len(instances))
	for _, in := range instances {
		out = append(out, sink.SlotModule{
			ID:    in.Placed.ID,
			Label: textsafe.FurnitureName(in.Dims.Name) + "\n" + in.Dims.String(),
			Slot:  in.Placed.Slot(),
			Dual:  in.Dims.Dual,
		})
	}
	return out
}

// Book renders the documents of several views into one multi-page PDF.
// Empty views are skipped; a book without any drawable view fails.
func Book(docs []*drawing.Document, space furniture.SpaceEnvelope, date time.Time, logger *log.Logger) ([]byte, error) {
	data, err := sink.RenderPDF(docs, pdfOptions(SerializeOptions{Space: space, Date: date, Logger: logger})...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSerializeFailed, err, "render pdf book")
	}
	return data, nil
}

// BookFilename returns the filename of a multi-view PDF book:
// furniture-book-{W}W-{H}H-{D}D-{YYYYMMDD}.pdf.
func BookFilename(space furniture.SpaceEnvelope, date time.Time) string {
	return fmt.Sprintf("furniture-book-%sW-%sH-%sD-%s.pdf",
		drawing.FormatMM(space.Width), drawing.FormatMM(space.Height), drawing.FormatMM(space.Depth), date.Format("20060102"))
}
