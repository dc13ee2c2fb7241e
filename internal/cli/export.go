package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/furnidraw/pkg/drawing"
	"github.com/matzehuels/furnidraw/pkg/errors"
	"github.com/matzehuels/furnidraw/pkg/furniture"
	"github.com/matzehuels/furnidraw/pkg/geom"
	fio "github.com/matzehuels/furnidraw/pkg/io"
	"github.com/matzehuels/furnidraw/pkg/pipeline"
)

// exportOpts holds the command-line flags for the export command.
type exportOpts struct {
	views      []string // views to export; empty means front
	all        bool     // export every view
	pick       bool     // choose views interactively
	formats    []string // output formats
	strategy   string   // extraction strategy: auto, data, scene
	sideFilter string   // side section filter: all, leftmost, rightmost
	sanitize   string   // Hangul label handling: romanize, escape
	output     string   // output directory; defaults to the project's directory
	svgWidth   float64
	pngWidth   int
	check      bool // validate the DXF output
	book       bool // also write one PDF with every exported view
	watch      bool // re-export when the project file changes
	refresh    bool // bypass the cache for this run

	runner runnerConfig
}

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	var viewsStr, formatsStr string
	opts := exportOpts{
		svgWidth: pipeline.DefaultSVGWidth,
		pngWidth: pipeline.DefaultPNGWidth,
	}

	cmd := &cobra.Command{
		Use:   "export [project]",
		Short: "Export a furniture project as technical drawings",
		Long: `Export reads a project file (.toml, .json, .yaml) holding the space and
its placed modules and writes one drawing per view and format.

Files are named furniture-{view}-{W}W-{H}H-{D}D-{YYYYMMDD}.{ext} and written
next to the project unless --out or --store says otherwise. When the store
is unreachable the files are written locally instead.`,
		Example: `  furnidraw export closet.toml
  furnidraw export closet.toml --all -f dxf,pdf --book
  furnidraw export closet.yaml --view plan --store mongodb://localhost:27017
  furnidraw export closet.toml --watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			if err := pipeline.ValidateStrategy(opts.strategy); err != nil {
				return err
			}
			if viewsStr != "" {
				opts.views = strings.Split(viewsStr, ",")
			}
			opts.runner = opts.runner.withEnv()
			return c.runExport(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVar(&viewsStr, "view", "", "view(s) to export: front (default), plan, left, right (comma-separated)")
	cmd.Flags().BoolVar(&opts.all, "all", false, "export every view")
	cmd.Flags().BoolVar(&opts.pick, "pick", false, "choose the views interactively")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): dxf (default), pdf, svg, png, json, slotmap (comma-separated)")
	cmd.Flags().StringVar(&opts.strategy, "strategy", pipeline.StrategyAuto, "extraction strategy: auto, data, scene")
	cmd.Flags().StringVar(&opts.sideFilter, "side-filter", "", "side section modules: all, leftmost, rightmost (default from view)")
	cmd.Flags().StringVar(&opts.sanitize, "sanitize", "", "Hangul labels: romanize (default), escape")
	cmd.Flags().StringVarP(&opts.output, "out", "o", "", "output directory (default: the project's directory)")
	cmd.Flags().Float64Var(&opts.svgWidth, "svg-width", opts.svgWidth, "SVG canvas width")
	cmd.Flags().IntVar(&opts.pngWidth, "png-width", opts.pngWidth, "PNG width in pixels")
	cmd.Flags().BoolVar(&opts.check, "check", false, "validate the DXF output")
	cmd.Flags().BoolVar(&opts.book, "book", false, "also write a PDF with every exported view")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "re-export whenever the project file changes")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached drawings")
	cmd.Flags().BoolVar(&opts.runner.noCache, "no-cache", false, "disable the drawing cache")
	cmd.Flags().StringVar(&opts.runner.cacheURL, "cache-url", "", "redis:// cache URL (env "+envCacheURL+")")
	cmd.Flags().StringVar(&opts.runner.store, "store", "", "artifact store: directory, file://, mongodb:// or redis:// (env "+envStore+")")
	cmd.Flags().StringVar(&opts.runner.scene, "scene", "", "scene snapshot file used by the scene strategy")

	return cmd
}

// runExport exports the project at path once, or on every change with
// --watch.
func (c *CLI) runExport(ctx context.Context, path string, opts *exportOpts) error {
	views, err := selectViews(opts)
	if err != nil {
		return err
	}
	if len(views) == 0 {
		printInfo("No views selected")
		return nil
	}

	runner, err := c.newRunner(ctx, opts.runner)
	if err != nil {
		return err
	}
	defer runner.Close()

	if !opts.watch {
		return exportProject(ctx, runner, path, views, opts, true)
	}
	return watchProject(ctx, path, loggerFromContext(ctx), func() {
		if err := exportProject(ctx, runner, path, views, opts, true); err != nil {
			printError("%v", err)
		}
	})
}

// selectViews resolves --view, --all and --pick into views in export order.
func selectViews(opts *exportOpts) ([]geom.View, error) {
	switch {
	case opts.all:
		return geom.Views, nil
	case opts.pick:
		return pickViews()
	case len(opts.views) == 0:
		return []geom.View{pipeline.DefaultView}, nil
	}
	seen := make(map[geom.View]bool)
	var views []geom.View
	for _, s := range opts.views {
		v, err := geom.ParseView(s)
		if err != nil {
			return nil, err
		}
		if !seen[v] {
			seen[v] = true
			views = append(views, v)
		}
	}
	return views, nil
}

// pipelineOptions builds the pipeline options for project.
func (opts *exportOpts) pipelineOptions(project *furniture.Project, outDir string) pipeline.Options {
	return pipeline.Options{
		Space:      project.Space,
		Modules:    project.Modules,
		Strategy:   opts.strategy,
		SideFilter: opts.sideFilter,
		Sanitize:   opts.sanitize,
		Formats:    append([]string(nil), opts.formats...),
		SVGWidth:   opts.svgWidth,
		PNGWidth:   opts.pngWidth,
		Check:      opts.check,
		Refresh:    opts.refresh,
		OutputDir:  outDir,
	}
}

// exportProject reads the project at path and exports views. Every view is
// reported; the returned error names the first failed view.
func exportProject(ctx context.Context, runner *pipeline.Runner, path string, views []geom.View, opts *exportOpts, interactive bool) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	project, err := fio.ReadProjectFile(path)
	if err != nil {
		return err
	}
	// With a store, outDir only receives fallback copies.
	outDir := opts.output
	if outDir == "" {
		outDir = filepath.Dir(path)
	}
	printInfo("%s", pipeline.StatusMessage(&project.Space, len(project.Modules)))

	base := opts.pipelineOptions(project, outDir)
	base.Logger = logger

	var spinner *Spinner
	if interactive {
		spinner = newSpinnerWithContext(ctx, fmt.Sprintf("Exporting %d view(s) as %s", len(views), joinUpper(opts.formats)))
		spinner.Start()
	}
	var results []*pipeline.Result
	if len(views) == 1 {
		base.View = string(views[0])
		results = []*pipeline.Result{runner.Export(ctx, base)}
	} else {
		results = runner.ExportViews(ctx, base, views)
	}
	if spinner != nil {
		spinner.Stop()
	}

	var firstErr error
	var docs []*drawing.Document
	for _, res := range results {
		printResult(res)
		if !res.Success {
			if firstErr == nil {
				firstErr = errors.New(res.Code, "%s view: %s", res.View, res.Error)
			}
			continue
		}
		docs = append(docs, res.Document)
	}

	if opts.book && len(docs) > 0 {
		path, err := writeBook(runner, project.Space, docs, outDir)
		if err != nil {
			return err
		}
		printSuccess("Wrote %d-page PDF book", len(docs))
		printFile(path)
	}
	if firstErr == nil {
		prog.done("exported", "views", len(views), "formats", opts.formats)
	}
	return firstErr
}

// writeBook renders docs as one PDF into dir.
func writeBook(runner *pipeline.Runner, space furniture.SpaceEnvelope, docs []*drawing.Document, dir string) (string, error) {
	date := runner.Clock()
	data, err := pipeline.Book(docs, space, date, runner.Logger)
	if err != nil {
		return "", err
	}
	return fio.WriteArtifact(dir, pipeline.BookFilename(space, date), data)
}
