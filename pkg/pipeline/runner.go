package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/furnidraw/pkg/cache"
	"github.com/matzehuels/furnidraw/pkg/drawing"
	"github.com/matzehuels/furnidraw/pkg/dxfcheck"
	"github.com/matzehuels/furnidraw/pkg/errors"
	"github.com/matzehuels/furnidraw/pkg/extract"
	"github.com/matzehuels/furnidraw/pkg/furniture"
	"github.com/matzehuels/furnidraw/pkg/geom"
	"github.com/matzehuels/furnidraw/pkg/indexing"
	"github.com/matzehuels/furnidraw/pkg/observability"
	"github.com/matzehuels/furnidraw/pkg/scene"
	"github.com/matzehuels/furnidraw/pkg/storage"
	"github.com/matzehuels/furnidraw/pkg/textsafe"
)

// Runner encapsulates export execution with caching and delivery.
// Both CLI and API use it so that every entry point follows the same
// failure policy.
//
// The Runner keeps no per-export state. Multiple goroutines can use the
// same Runner with different options.
type Runner struct {
	Cache cache.Cache
	Keyer cache.Keyer
	// Store receives artifacts. Nil keeps them in the result and, when
	// Options.OutputDir is set, writes them there.
	Store storage.Store
	// Holder is the live scene handle used by the scene strategy.
	Holder  *scene.Holder
	Indexer indexing.Provider
	Logger  *log.Logger
	// Clock supplies the title block and PDF dates.
	Clock func() time.Time
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:   c,
		Keyer:   keyer,
		Indexer: indexing.Default{},
		Logger:  logger,
		Clock:   time.Now,
	}
}

// Inputs are the resolved, read-only inputs shared by the stages of one
// export.
type Inputs struct {
	Indexing  indexing.Indexing
	Catalog   *furniture.Catalog
	Instances []extract.Instance
}

// Resolve builds the slot grid and catalog for space and resolves the
// dimensions of every module once.
func (r *Runner) Resolve(space furniture.SpaceEnvelope, modules []furniture.PlacedModule) Inputs {
	indexer := r.Indexer
	if indexer == nil {
		indexer = indexing.Default{}
	}
	ix := indexer.Index(space)
	catalog := furniture.NewCatalog(space, ix.ColumnWidth, ix.ColumnCount)
	instances := make([]extract.Instance, 0, len(modules))
	for _, m := range modules {
		instances = append(instances, extract.Instance{Placed: m, Dims: furniture.Resolve(catalog, m)})
	}
	return Inputs{Indexing: ix, Catalog: catalog, Instances: instances}
}

// Export runs one view through extract, serialize and deliver. It never
// returns an error or panics: every failure becomes a Result with Success
// false, a user message and an error code.
func (r *Runner) Export(ctx context.Context, opts Options) *Result {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return r.fail(opts.ParsedView(), "Invalid export options.", err)
	}
	view := opts.ParsedView()
	logger := opts.Logger.With("view", view)

	// Stage 1: Preconditions
	if !CanExport(&opts.Space) {
		return r.fail(view, StatusMessage(&opts.Space, len(opts.Modules)),
			errors.New(errors.ErrCodeInvalidSpace, "space width and depth must be positive"))
	}
	if err := errors.ValidateSpaceDimensions(opts.Space.Width, opts.Space.Height, opts.Space.Depth); err != nil {
		return r.fail(view, "Set the space size.", err)
	}
	extractor, err := r.extractor(opts)
	if err != nil {
		return r.fail(view, "No 3D scene is available for export.", err)
	}

	// Stage 2: Resolve
	now := r.now()
	in := r.Resolve(opts.Space, opts.Modules)
	req := extract.Request{
		Space:      opts.Space,
		Modules:    in.Instances,
		View:       view,
		Indexing:   in.Indexing,
		SideFilter: furniture.SideViewFilter(opts.SideFilter),
		Sanitizer:  textsafe.Sanitizer{Mode: textsafe.ParseMode(opts.Sanitize)},
	}
	result := &Result{View: view, Stats: Stats{Modules: len(in.Instances)}}

	// Stage 3: Extract
	if err := ctx.Err(); err != nil {
		return r.fail(view, "Export canceled.", errors.Wrap(errors.ErrCodeCanceled, err, "before extraction"))
	}
	extractStart := time.Now()
	observability.Export().OnExtractStart(ctx, string(view), string(extractor.Strategy()))
	doc, extractHit, err := r.ExtractWithCacheInfo(ctx, extractor, req, opts, now)
	result.Stats.ExtractTime = time.Since(extractStart)
	if err != nil {
		observability.Export().OnExtractComplete(ctx, string(view), 0, 0, result.Stats.ExtractTime, err)
		return r.fail(view, "Failed to extract the drawing.", errors.Wrap(errors.ErrCodeExtractFailed, err, "extract %s", view))
	}
	observability.Export().OnExtractComplete(ctx, string(view), len(doc.Lines), len(doc.Texts), result.Stats.ExtractTime, nil)
	result.Document = doc
	result.Stats.Lines = len(doc.Lines)
	result.Stats.Texts = len(doc.Texts)
	result.CacheInfo.ExtractHit = extractHit
	if doc.Empty() {
		logger.Warn("drawing has no primitives, exporting an empty view")
	}
	logger.Info("extracted drawing",
		"strategy", extractor.Strategy(),
		"lines", len(doc.Lines),
		"texts", len(doc.Texts),
		"cached", extractHit,
		"duration", result.Stats.ExtractTime)

	// Stage 4: Serialize
	if err := ctx.Err(); err != nil {
		return r.fail(view, "Export canceled.", errors.Wrap(errors.ErrCodeCanceled, err, "before serialization"))
	}
	renderStart := time.Now()
	rendered, renderHit, err := r.RenderWithCacheInfo(ctx, doc, in, opts, now)
	result.Stats.RenderTime = time.Since(renderStart)
	if err != nil {
		return r.fail(view, fmt.Sprintf("Failed to create the %s file.", drawing.DrawingTypeName(view)), err)
	}
	result.CacheInfo.RenderHit = renderHit
	logger.Info("serialized drawing",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	if opts.Check {
		if data, ok := rendered[FormatDXF]; ok {
			result.Issues = r.check(data, logger)
		}
	}

	// Stage 5: Deliver
	if err := ctx.Err(); err != nil {
		return r.fail(view, "Export canceled.", errors.Wrap(errors.ErrCodeCanceled, err, "before delivery"))
	}
	deliverStart := time.Now()
	for _, format := range opts.Formats {
		data := rendered[format]
		filename := drawing.Filename(view, opts.Space.Width, opts.Space.Height, opts.Space.Depth, now, Extension(format))
		art := Artifact{
			Format:      format,
			Filename:    filename,
			ContentType: storage.ContentType(format),
			Size:        len(data),
			Data:        data,
		}
		if err := r.deliver(ctx, &art, opts, logger); err != nil {
			return r.fail(view, "Failed to save the exported file.", err)
		}
		result.Fallback = result.Fallback || art.Fallback
		result.Artifacts = append(result.Artifacts, art)
	}
	result.Stats.DeliverTime = time.Since(deliverStart)

	result.Success = true
	result.Filename = result.Artifacts[0].Filename
	result.Message = describe(view, opts.Formats)
	if result.Fallback {
		result.Message += " (saved locally, upload failed)"
	}
	return result
}

// ExportViews exports each view as an independent call, concurrently.
// Results are returned in the order of views.
func (r *Runner) ExportViews(ctx context.Context, opts Options, views []geom.View) []*Result {
	results := make([]*Result, len(views))
	g, gctx := errgroup.WithContext(ctx)
	for i, v := range views {
		viewOpts := opts
		viewOpts.View = string(v)
		viewOpts.Formats = append([]string(nil), opts.Formats...)
		viewOpts.validated = false
		g.Go(func() error {
			results[i] = r.Export(gctx, viewOpts)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// ExtractWithCacheInfo extracts the document for req with caching and
// returns cache hit info. The title block is added to non-front views.
func (r *Runner) ExtractWithCacheInfo(ctx context.Context, ex extract.Extractor, req extract.Request, opts Options, date time.Time) (*drawing.Document, bool, error) {
	strategy := string(ex.Strategy())
	inputHash, err := r.inputHash(req, ex)
	if err != nil {
		return nil, false, err
	}
	cacheKey := r.Keyer.DocumentKey(inputHash, opts.DocumentKeyOpts(strategy, date))

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var doc drawing.Document
			if err := msgpack.Unmarshal(data, &doc); err == nil {
				observability.Cache().OnCacheHit(ctx, "document")
				return &doc, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "document")
	}

	doc, err := ex.Extract(ctx, req)
	if err != nil {
		return nil, false, err
	}
	if req.View != geom.Front {
		drawing.AppendTitleBlock(doc, req.Envelope(), date)
	}

	if data, err := msgpack.Marshal(doc); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLDocument); err == nil {
			observability.Cache().OnCacheSet(ctx, "document", len(data))
		}
	}
	return doc, false, nil
}

// RenderWithCacheInfo serializes doc in every requested format with
// caching and returns cache hit info. A failing format fails the whole
// call so that no partial export is delivered.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, doc *drawing.Document, in Inputs, opts Options, date time.Time) (map[string][]byte, bool, error) {
	docData, err := msgpack.Marshal(doc)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeSerializeFailed, err, "encode document for cache key")
	}
	slotData, err := msgpack.Marshal(in.Instances)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeSerializeFailed, err, "encode modules for cache key")
	}
	renderHash := cache.Hash(append(docData, slotData...))

	artifacts := make(map[string][]byte, len(opts.Formats))
	allCached := !opts.Refresh
	if allCached {
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(renderHash, opts.ArtifactKeyOpts(format, date))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				allCached = false
				break
			}
			artifacts[format] = data
		}
	}
	if allCached && len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return artifacts, true, nil
	}

	rendered := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		start := time.Now()
		observability.Export().OnRenderStart(ctx, format)
		data, err := Serialize(ctx, doc, format, SerializeOptions{
			Space:    opts.Space,
			Inputs:   in,
			Date:     date,
			SVGWidth: opts.SVGWidth,
			PNGWidth: opts.PNGWidth,
			Logger:   opts.Logger,
		})
		observability.Export().OnRenderComplete(ctx, format, len(data), time.Since(start), err)
		if err != nil {
			return nil, false, errors.Wrap(errors.ErrCodeSerializeFailed, err, "render %s", format)
		}
		rendered[format] = data
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(renderHash, opts.ArtifactKeyOpts(format, date))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return rendered, false, nil
}

// check runs the DXF validator over data and logs each issue.
func (r *Runner) check(data []byte, logger *log.Logger) []dxfcheck.Issue {
	rep, err := dxfcheck.InspectBytes(data)
	if err != nil {
		logger.Warn("could not inspect dxf output", "error", err)
		return []dxfcheck.Issue{{Code: dxfcheck.IssueStructure, Message: err.Error()}}
	}
	issues := dxfcheck.Check(rep, dxfcheck.DefaultRules())
	for _, is := range issues {
		logger.Warn("dxf check", "code", is.Code, "layer", is.Layer, "message", is.Message)
	}
	return issues
}

func (r *Runner) extractor(opts Options) (extract.Extractor, error) {
	switch opts.Strategy {
	case StrategyData:
		return extract.NewData(opts.Logger), nil
	case StrategyScene:
		if r.Holder == nil || r.Holder.Get() == nil {
			return nil, errors.New(errors.ErrCodeNoScene, "the scene strategy needs a live scene")
		}
		return extract.NewScene(r.Holder, opts.Logger), nil
	default:
		if r.Holder == nil {
			return extract.NewData(opts.Logger), nil
		}
		return extract.Select(r.Holder, true, opts.Logger), nil
	}
}

// inputHash identifies everything an extractor reads. The scene strategy
// hashes a snapshot of the live scene as well.
func (r *Runner) inputHash(req extract.Request, ex extract.Extractor) (string, error) {
	key := struct {
		Space    furniture.SpaceEnvelope `json:"space"`
		Modules  []extract.Instance      `json:"modules"`
		Indexing indexing.Indexing       `json:"indexing"`
		Scene    string                  `json:"scene,omitempty"`
	}{Space: req.Space, Modules: req.Modules, Indexing: req.Indexing}

	if ex.Strategy() == extract.StrategyScene && r.Holder != nil {
		if root := r.Holder.Get(); root != nil {
			var buf bytes.Buffer
			if err := scene.WriteSnapshot(&buf, root); err != nil {
				return "", fmt.Errorf("snapshot scene: %w", err)
			}
			key.Scene = cache.Hash(buf.Bytes())
		}
	}
	return cache.HashJSON(key)
}

// fail builds a failure result and logs it.
func (r *Runner) fail(view geom.View, message string, err error) *Result {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	logger := r.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger.Error("export failed", "view", view, "code", code, "error", err)
	return &Result{
		Success: false,
		View:    view,
		Message: message,
		Error:   errors.UserMessage(err),
		Code:    code,
	}
}

func (r *Runner) now() time.Time {
	if r.Clock == nil {
		return time.Now()
	}
	return r.Clock()
}

// Close releases resources held by the runner.
func (r *Runner) Close() error {
	var first error
	if r.Cache != nil {
		first = r.Cache.Close()
	}
	if r.Store != nil {
		if err := r.Store.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
