// Package pipeline runs drawing exports for furnidraw.
//
// One export turns a layout (a space envelope and its placed modules) into
// the drawings of one view:
//
//  1. Preconditions: the space must have positive dimensions, and a live
//     scene must exist when the scene strategy is required
//  2. Resolve: build the slot grid, the module catalog, and the dimensions
//     of every placed module
//  3. Extract: produce the view's drawing document (cached by content hash)
//  4. Serialize: render every requested format
//  5. Deliver: upload to the configured store, or write to the output
//     directory when the store fails
//
// Failures never escape as Go errors or panics: [Runner.Export] always
// returns a [Result], with Success false and a coded message on failure.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	res := runner.Export(ctx, pipeline.Options{
//	    Space:   project.Space,
//	    Modules: project.Modules,
//	    View:    "front",
//	    Formats: []string{"dxf", "pdf"},
//	})
//	if !res.Success {
//	    return fmt.Errorf("%s: %s", res.Code, res.Error)
//	}
//
// Export several views at once:
//
//	results := runner.ExportViews(ctx, opts, geom.Views)
package pipeline

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/furnidraw/pkg/cache"
	"github.com/matzehuels/furnidraw/pkg/drawing"
	"github.com/matzehuels/furnidraw/pkg/dxfcheck"
	"github.com/matzehuels/furnidraw/pkg/errors"
	"github.com/matzehuels/furnidraw/pkg/furniture"
	"github.com/matzehuels/furnidraw/pkg/geom"
	"github.com/matzehuels/furnidraw/pkg/storage"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultView is the view exported when none is given.
	DefaultView = geom.Front

	// DefaultSVGWidth is the SVG canvas width in user units.
	DefaultSVGWidth = 1200.0

	// DefaultPNGWidth is the PNG width in pixels.
	DefaultPNGWidth = 1600
)

// Format constants for output formats.
const (
	FormatDXF     = "dxf"
	FormatPDF     = "pdf"
	FormatSVG     = "svg"
	FormatPNG     = "png"
	FormatJSON    = "json"
	FormatSlotMap = "slotmap"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatDXF:     true,
	FormatPDF:     true,
	FormatSVG:     true,
	FormatPNG:     true,
	FormatJSON:    true,
	FormatSlotMap: true,
}

// Extraction strategies.
const (
	// StrategyAuto uses the live scene when there is one and the layout
	// records otherwise.
	StrategyAuto = "auto"
	// StrategyData always uses the layout records.
	StrategyData = "data"
	// StrategyScene requires a live scene.
	StrategyScene = "scene"
)

// ValidStrategies is the set of supported extraction strategies.
var ValidStrategies = map[string]bool{
	StrategyAuto:  true,
	StrategyData:  true,
	StrategyScene: true,
}

// =============================================================================
// Options - Export Configuration
// =============================================================================

// Options configures one export. It supports JSON for API requests.
type Options struct {
	// Input
	Space   furniture.SpaceEnvelope  `json:"space"`
	Modules []furniture.PlacedModule `json:"modules"`

	// Extraction
	View       string `json:"view,omitempty"`
	Strategy   string `json:"strategy,omitempty"`
	SideFilter string `json:"side_filter,omitempty"`
	// Sanitize selects the Hangul label strategy: "romanize" or "escape".
	Sanitize string `json:"sanitize,omitempty"`

	// Serialization
	Formats  []string `json:"formats,omitempty"`
	SVGWidth float64  `json:"svg_width,omitempty"`
	PNGWidth int      `json:"png_width,omitempty"`
	// Check validates DXF output and reports the issues in the result.
	Check bool `json:"check,omitempty"`

	// Refresh bypasses the cache.
	Refresh bool `json:"refresh,omitempty"`

	// Delivery (not serialized). OutputDir receives artifacts when there
	// is no store, and fallback copies when the store fails.
	OutputDir string      `json:"-"`
	Logger    *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Artifact is one serialized output of an export.
type Artifact struct {
	Format      string `json:"format"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int    `json:"size"`
	// Location is set when the artifact was stored.
	Location *storage.Location `json:"location,omitempty"`
	// Path is set when the artifact was written to the output directory.
	Path string `json:"path,omitempty"`
	// Fallback is true when Path was written because the store failed.
	Fallback bool   `json:"fallback,omitempty"`
	Data     []byte `json:"-"`
}

// Result is the outcome of one export. On failure only Success, Message,
// Error and Code are set.
type Result struct {
	Success bool      `json:"success"`
	View    geom.View `json:"view,omitempty"`
	// Filename is the name of the first artifact.
	Filename  string           `json:"filename,omitempty"`
	Message   string           `json:"message"`
	Error     string           `json:"error,omitempty"`
	Code      errors.Code      `json:"code,omitempty"`
	Artifacts []Artifact       `json:"artifacts,omitempty"`
	Fallback  bool             `json:"fallback,omitempty"`
	Issues    []dxfcheck.Issue `json:"issues,omitempty"`
	Stats     Stats            `json:"stats"`
	CacheInfo CacheInfo        `json:"cache"`

	// Document is the extracted drawing.
	Document *drawing.Document `json:"-"`
}

// Artifact returns the artifact of format, or nil.
func (r *Result) Artifact(format string) *Artifact {
	for i := range r.Artifacts {
		if r.Artifacts[i].Format == format {
			return &r.Artifacts[i]
		}
	}
	return nil
}

// Stats contains export statistics.
type Stats struct {
	Modules     int           `json:"modules"`
	Lines       int           `json:"lines"`
	Texts       int           `json:"texts"`
	ExtractTime time.Duration `json:"extract_time"`
	RenderTime  time.Duration `json:"render_time"`
	DeliverTime time.Duration `json:"deliver_time"`
}

// CacheInfo tracks cache hits for each stage.
type CacheInfo struct {
	ExtractHit bool `json:"extract_hit"` // Whether the document came from cache
	RenderHit  bool `json:"render_hit"`  // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: dxf, pdf, svg, png, json, slotmap)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStrategy checks that a strategy is valid.
func ValidateStrategy(s string) error {
	if !ValidStrategies[s] {
		return errors.New(errors.ErrCodeInvalidInput,
			"invalid strategy: %q (must be one of: auto, data, scene)", s)
	}
	return nil
}

// ParseFormats splits a comma separated format list, dropping blanks and
// duplicates.
func ParseFormats(s string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.View == "" {
		o.View = string(DefaultView)
	}
	view, err := geom.ParseView(o.View)
	if err != nil {
		return err
	}
	o.View = string(view)

	if o.Strategy == "" {
		o.Strategy = StrategyAuto
	}
	if err := ValidateStrategy(o.Strategy); err != nil {
		return err
	}
	if _, err := furniture.ParseSideViewFilter(o.SideFilter); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "side filter")
	}

	if len(o.Formats) == 0 {
		o.Formats = []string{FormatDXF}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.SVGWidth <= 0 {
		o.SVGWidth = DefaultSVGWidth
	}
	if o.PNGWidth <= 0 {
		o.PNGWidth = DefaultPNGWidth
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ParsedView returns the view after validation.
func (o *Options) ParsedView() geom.View {
	return geom.View(o.View)
}

// DocumentKeyOpts returns cache key options for extraction.
func (o *Options) DocumentKeyOpts(strategy string, date time.Time) cache.DocumentKeyOpts {
	opts := cache.DocumentKeyOpts{
		View:       o.View,
		Strategy:   strategy,
		SideFilter: o.SideFilter,
		Sanitize:   o.Sanitize,
	}
	if o.ParsedView() != geom.Front {
		opts.Date = date.Format("2006-01-02")
	}
	return opts
}

// ArtifactKeyOpts returns cache key options for one format.
func (o *Options) ArtifactKeyOpts(format string, date time.Time) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatSVG:
		opts.Width = o.SVGWidth
	case FormatPNG:
		opts.Width = float64(o.PNGWidth)
	case FormatPDF:
		// The PDF carries its creation date.
		opts.Date = date.Format("2006-01-02")
	}
	return opts
}

// Extension returns the file extension of a format.
func Extension(format string) string {
	if format == FormatSlotMap {
		return "slots.svg"
	}
	return format
}

func describe(view geom.View, formats []string) string {
	return fmt.Sprintf("%s exported as %s", drawing.DrawingTypeName(view), strings.ToUpper(strings.Join(formats, ", ")))
}
