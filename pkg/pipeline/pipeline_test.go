package pipeline

import (
	"bytes"
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/furnidraw/pkg/cache"
	"github.com/matzehuels/furnidraw/pkg/drawing"
	"github.com/matzehuels/furnidraw/pkg/errors"
	"github.com/matzehuels/furnidraw/pkg/furniture"
	"github.com/matzehuels/furnidraw/pkg/geom"
	"github.com/matzehuels/furnidraw/pkg/scene"
	"github.com/matzehuels/furnidraw/pkg/storage"
)

var testDate = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

func testSpace() furniture.SpaceEnvelope {
	return furniture.SpaceEnvelope{Width: 4000, Height: 2400, Depth: 600}
}

// customModule is not in the catalog, so it resolves to the fallback
// height with its own width and depth.
func customModule() furniture.PlacedModule {
	return furniture.PlacedModule{
		ID:          "m1",
		ModuleID:    "custom-cabinet",
		CustomWidth: 800,
		CustomDepth: 580,
		SlotIndex:   furniture.Slot(2),
	}
}

func newTestRunner(t *testing.T, c cache.Cache) *Runner {
	t.Helper()
	r := NewRunner(c, nil, nil)
	r.Clock = func() time.Time { return testDate }
	return r
}

func testOptions(formats ...string) Options {
	return Options{
		Space:    testSpace(),
		Modules:  []furniture.PlacedModule{customModule()},
		Strategy: StrategyData,
		Formats:  formats,
	}
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"dxf", false},
		{"pdf", false},
		{"svg", false},
		{"png", false},
		{"json", false},
		{"slotmap", false},
		{"invalid", true},
		{"DXF", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"dxf", "pdf"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"dxf", "dwg"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateStrategy(t *testing.T) {
	for _, s := range []string{"auto", "data", "scene"} {
		if err := ValidateStrategy(s); err != nil {
			t.Errorf("ValidateStrategy(%q) = %v", s, err)
		}
	}
	if err := ValidateStrategy("mesh"); err == nil {
		t.Error("ValidateStrategy(mesh) should fail")
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"dxf", []string{"dxf"}},
		{"dxf,pdf", []string{"dxf", "pdf"}},
		{" DXF , pdf ,, dxf", []string{"dxf", "pdf"}},
		{"", nil},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseFormats(tt.in)
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("ParseFormats(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestOptionsValidateAndSetDefaults(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		var opts Options
		if err := opts.ValidateAndSetDefaults(); err != nil {
			t.Fatalf("ValidateAndSetDefaults: %v", err)
		}
		if opts.ParsedView() != geom.Front {
			t.Errorf("View = %q, want front", opts.View)
		}
		if opts.Strategy != StrategyAuto {
			t.Errorf("Strategy = %q, want auto", opts.Strategy)
		}
		if len(opts.Formats) != 1 || opts.Formats[0] != FormatDXF {
			t.Errorf("Formats = %v, want [dxf]", opts.Formats)
		}
		if opts.SVGWidth != DefaultSVGWidth || opts.PNGWidth != DefaultPNGWidth {
			t.Errorf("widths = %v, %v", opts.SVGWidth, opts.PNGWidth)
		}
		if opts.Logger == nil {
			t.Error("Logger should default to a discard logger")
		}
	})

	t.Run("view alias", func(t *testing.T) {
		opts := Options{View: "top"}
		if err := opts.ValidateAndSetDefaults(); err != nil {
			t.Fatalf("ValidateAndSetDefaults: %v", err)
		}
		if opts.ParsedView() != geom.Plan {
			t.Errorf("View = %q, want plan", opts.View)
		}
	})

	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"bad view", Options{View: "iso"}, errors.ErrCodeInvalidView},
		{"bad strategy", Options{Strategy: "mesh"}, errors.ErrCodeInvalidInput},
		{"bad side filter", Options{SideFilter: "middle"}, errors.ErrCodeInvalidInput},
		{"bad format", Options{Formats: []string{"dwg"}}, errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{SVGWidth: 800, PNGWidth: 1000}
	if got := opts.ArtifactKeyOpts(FormatSVG, testDate); got.Width != 800 {
		t.Errorf("svg width = %v", got.Width)
	}
	if got := opts.ArtifactKeyOpts(FormatPNG, testDate); got.Width != 1000 {
		t.Errorf("png width = %v", got.Width)
	}
	if got := opts.ArtifactKeyOpts(FormatPDF, testDate); got.Date != "2024-05-01" {
		t.Errorf("pdf date = %q", got.Date)
	}
	if got := opts.ArtifactKeyOpts(FormatDXF, testDate); got.Date != "" || got.Width != 0 {
		t.Errorf("dxf opts = %+v, want zero width and date", got)
	}
}

func TestCanExport(t *testing.T) {
	tests := []struct {
		name  string
		space *furniture.SpaceEnvelope
		want  bool
	}{
		{"nil", nil, false},
		{"zero", &furniture.SpaceEnvelope{}, false},
		{"no depth", &furniture.SpaceEnvelope{Width: 3000, Height: 2400}, false},
		{"negative width", &furniture.SpaceEnvelope{Width: -1, Height: 2400, Depth: 600}, false},
		{"valid", &furniture.SpaceEnvelope{Width: 3000, Height: 2400, Depth: 600}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanExport(tt.space); got != tt.want {
				t.Errorf("CanExport() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStatusMessage(t *testing.T) {
	space := testSpace()
	tests := []struct {
		name    string
		space   *furniture.SpaceEnvelope
		modules int
		want    string
	}{
		{"nil", nil, 0, "No space information."},
		{"zero", &furniture.SpaceEnvelope{}, 3, "No space information."},
		{"incomplete", &furniture.SpaceEnvelope{Width: 3000}, 3, "Set the space size."},
		{"empty", &space, 0, "Only the space drawing will be generated."},
		{"one", &space, 1, "A drawing with 1 furniture module will be generated."},
		{"many", &space, 4, "A drawing with 4 furniture modules will be generated."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusMessage(tt.space, tt.modules); got != tt.want {
				t.Errorf("StatusMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExport(t *testing.T) {
	r := newTestRunner(t, nil)
	res := r.Export(context.Background(), testOptions(FormatDXF, FormatJSON, FormatSVG))
	if !res.Success {
		t.Fatalf("Export failed: %s (%s)", res.Error, res.Code)
	}

	if res.View != geom.Front {
		t.Errorf("View = %q, want front", res.View)
	}
	wantName := "furniture-elevation-4000W-2400H-600D-20240501.dxf"
	if res.Filename != wantName {
		t.Errorf("Filename = %q, want %q", res.Filename, wantName)
	}
	if len(res.Artifacts) != 3 {
		t.Fatalf("got %d artifacts, want 3", len(res.Artifacts))
	}
	for _, a := range res.Artifacts {
		if a.Size == 0 || len(a.Data) != a.Size {
			t.Errorf("%s: size %d, data %d", a.Format, a.Size, len(a.Data))
		}
		if a.Path != "" || a.Location != nil {
			t.Errorf("%s: delivered without a store or output dir", a.Format)
		}
	}
	if res.Stats.Modules != 1 || res.Stats.Lines == 0 || res.Stats.Texts == 0 {
		t.Errorf("Stats = %+v", res.Stats)
	}
	if !strings.Contains(res.Message, "DXF, JSON, SVG") {
		t.Errorf("Message = %q", res.Message)
	}

	dxf := string(res.Artifact(FormatDXF).Data)
	if !strings.Contains(dxf, "800W x 400H x 580D") {
		t.Error("DXF is missing the module size label 800W x 400H x 580D")
	}
	if strings.Contains(dxf, "800W x 580H x 400D") {
		t.Error("DXF contains a size label with height and depth swapped")
	}
	if res.Artifact(FormatPNG) != nil {
		t.Error("unrequested format in result")
	}
}

func TestExportAllFormats(t *testing.T) {
	r := newTestRunner(t, nil)
	formats := []string{FormatDXF, FormatPDF, FormatSVG, FormatPNG, FormatJSON, FormatSlotMap}
	res := r.Export(context.Background(), testOptions(formats...))
	if !res.Success {
		t.Fatalf("Export failed: %s (%s)", res.Error, res.Code)
	}

	magic := map[string][]byte{
		FormatPDF: []byte("%PDF"),
		FormatPNG: []byte("\x89PNG"),
		FormatSVG: []byte("<svg"),
	}
	for _, f := range formats {
		a := res.Artifact(f)
		if a == nil {
			t.Errorf("missing %s artifact", f)
			continue
		}
		if m, ok := magic[f]; ok && !bytes.Contains(a.Data[:min(len(a.Data), 256)], m) {
			t.Errorf("%s artifact does not start with %q", f, m)
		}
		if a.ContentType != storage.ContentType(f) {
			t.Errorf("%s content type = %q", f, a.ContentType)
		}
	}
	if got := res.Artifact(FormatSlotMap).Filename; !strings.HasSuffix(got, ".slots.svg") {
		t.Errorf("slot map filename = %q", got)
	}
}

func TestExportFailures(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		holder  *scene.Holder
		code    errors.Code
		message string
	}{
		{
			name:    "no space",
			opts:    Options{Strategy: StrategyData},
			code:    errors.ErrCodeInvalidSpace,
			message: "No space information.",
		},
		{
			name:    "zero width",
			opts:    Options{Space: furniture.SpaceEnvelope{Height: 2400, Depth: 600}, Strategy: StrategyData},
			code:    errors.ErrCodeInvalidSpace,
			message: "Set the space size.",
		},
		{
			name: "scene without holder",
			opts: Options{Space: testSpace(), Strategy: StrategyScene},
			code: errors.ErrCodeNoScene,
		},
		{
			name:   "scene with empty holder",
			opts:   Options{Space: testSpace(), Strategy: StrategyScene},
			holder: scene.NewHolder(nil),
			code:   errors.ErrCodeNoScene,
		},
		{
			name: "invalid format",
			opts: Options{Space: testSpace(), Formats: []string{"dwg"}},
			code: errors.ErrCodeInvalidFormat,
		},
		{
			name: "invalid view",
			opts: Options{Space: testSpace(), View: "iso"},
			code: errors.ErrCodeInvalidView,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRunner(t, nil)
			r.Holder = tt.holder
			res := r.Export(context.Background(), tt.opts)
			if res.Success {
				t.Fatal("Export should fail")
			}
			if res.Code != tt.code {
				t.Errorf("Code = %s, want %s", res.Code, tt.code)
			}
			if tt.message != "" && res.Message != tt.message {
				t.Errorf("Message = %q, want %q", res.Message, tt.message)
			}
			if res.Error == "" {
				t.Error("Error should be set")
			}
			if len(res.Artifacts) != 0 {
				t.Error("failed export should carry no artifacts")
			}
		})
	}
}

func TestExportCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := newTestRunner(t, nil).Export(ctx, testOptions())
	if res.Success {
		t.Fatal("Export should fail on a canceled context")
	}
	if res.Code != errors.ErrCodeCanceled {
		t.Errorf("Code = %s, want %s", res.Code, errors.ErrCodeCanceled)
	}
}

func TestExportEmptySpace(t *testing.T) {
	opts := testOptions()
	opts.Modules = nil
	res := newTestRunner(t, nil).Export(context.Background(), opts)
	if !res.Success {
		t.Fatalf("Export failed: %s", res.Error)
	}
	if res.Stats.Modules != 0 {
		t.Errorf("Modules = %d", res.Stats.Modules)
	}
	if !strings.Contains(string(res.Artifact(FormatDXF).Data), "4000") {
		t.Error("space drawing should carry the space width")
	}
}

func TestExportSceneStrategy(t *testing.T) {
	line := scene.NewNode("furniture_edges", scene.KindLineSegments)
	line.Positions = []float64{
		-10, 0, 0, 10, 0, 0,
		-10, 0, 0, -10, 20, 0,
	}
	root := scene.NewNode("root", scene.KindGroup).Add(line)

	r := newTestRunner(t, nil)
	r.Holder = scene.NewHolder(root)

	for _, strategy := range []string{StrategyScene, StrategyAuto} {
		t.Run(strategy, func(t *testing.T) {
			opts := testOptions()
			opts.Strategy = strategy
			res := r.Export(context.Background(), opts)
			if !res.Success {
				t.Fatalf("Export failed: %s (%s)", res.Error, res.Code)
			}
			if res.Stats.Lines == 0 {
				t.Error("scene export produced no lines")
			}
		})
	}
}

func TestExportOutputDir(t *testing.T) {
	dir := t.TempDir()
	opts := testOptions(FormatDXF, FormatJSON)
	opts.OutputDir = dir

	res := newTestRunner(t, nil).Export(context.Background(), opts)
	if !res.Success {
		t.Fatalf("Export failed: %s", res.Error)
	}
	for _, a := range res.Artifacts {
		if a.Path != filepath.Join(dir, a.Filename) {
			t.Errorf("Path = %q", a.Path)
		}
		data, err := os.ReadFile(a.Path)
		if err != nil {
			t.Fatalf("read artifact: %v", err)
		}
		if !bytes.Equal(data, a.Data) {
			t.Errorf("%s on disk differs from result data", a.Format)
		}
		if a.Fallback {
			t.Error("Fallback should be false without a store")
		}
	}
}

func TestExportStore(t *testing.T) {
	store, err := storage.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	r := newTestRunner(t, nil)
	r.Store = store

	res := r.Export(context.Background(), testOptions(FormatDXF))
	if !res.Success {
		t.Fatalf("Export failed: %s", res.Error)
	}
	a := res.Artifact(FormatDXF)
	if a.Location == nil {
		t.Fatal("Location should be set")
	}
	if a.Path != "" || a.Fallback {
		t.Errorf("stored artifact should not be written locally: %+v", a)
	}
	data, err := store.Get(context.Background(), a.Location.Key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(data, a.Data) {
		t.Error("stored data differs from result data")
	}
}

type failingStore struct{}

func (failingStore) Put(context.Context, storage.Object) (storage.Location, error) {
	return storage.Location{Backend: "test"}, stderrors.New("bucket offline")
}

func (failingStore) Get(context.Context, string) ([]byte, error) {
	return nil, cache.ErrNotFound
}

func (failingStore) Close() error { return nil }

func TestExportUploadFallback(t *testing.T) {
	dir := t.TempDir()
	r := newTestRunner(t, nil)
	r.Store = failingStore{}

	opts := testOptions(FormatDXF)
	opts.OutputDir = dir
	res := r.Export(context.Background(), opts)
	if !res.Success {
		t.Fatalf("an upload failure should not fail the export: %s", res.Error)
	}
	if !res.Fallback {
		t.Error("Fallback should be set")
	}
	if !strings.Contains(res.Message, "saved locally") {
		t.Errorf("Message = %q", res.Message)
	}
	a := res.Artifact(FormatDXF)
	if a.Location != nil {
		t.Error("Location should be nil after a failed upload")
	}
	if _, err := os.Stat(filepath.Join(dir, a.Filename)); err != nil {
		t.Errorf("fallback file missing: %v", err)
	}
}

func TestExportCache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	r := newTestRunner(t, fc)
	defer r.Close()

	opts := testOptions(FormatDXF, FormatSVG)
	first := r.Export(context.Background(), opts)
	if !first.Success {
		t.Fatalf("first export: %s", first.Error)
	}
	if first.CacheInfo.ExtractHit || first.CacheInfo.RenderHit {
		t.Errorf("first export should miss: %+v", first.CacheInfo)
	}

	second := r.Export(context.Background(), opts)
	if !second.Success {
		t.Fatalf("second export: %s", second.Error)
	}
	if !second.CacheInfo.ExtractHit || !second.CacheInfo.RenderHit {
		t.Errorf("second export should hit: %+v", second.CacheInfo)
	}
	if !bytes.Equal(first.Artifact(FormatDXF).Data, second.Artifact(FormatDXF).Data) {
		t.Error("cached DXF differs")
	}

	opts.Refresh = true
	third := r.Export(context.Background(), opts)
	if third.CacheInfo.ExtractHit || third.CacheInfo.RenderHit {
		t.Errorf("refresh should bypass the cache: %+v", third.CacheInfo)
	}

	moved := testOptions(FormatDXF, FormatSVG)
	moved.Modules[0].SlotIndex = furniture.Slot(3)
	fourth := r.Export(context.Background(), moved)
	if fourth.CacheInfo.ExtractHit {
		t.Error("a changed layout should miss the document cache")
	}
}

func TestExportViews(t *testing.T) {
	r := newTestRunner(t, nil)
	results := r.ExportViews(context.Background(), testOptions(FormatDXF), geom.Views)
	if len(results) != len(geom.Views) {
		t.Fatalf("got %d results, want %d", len(results), len(geom.Views))
	}
	for i, res := range results {
		if !res.Success {
			t.Errorf("%s failed: %s", geom.Views[i], res.Error)
			continue
		}
		if res.View != geom.Views[i] {
			t.Errorf("result %d view = %q, want %q", i, res.View, geom.Views[i])
		}
		dxf := string(res.Artifact(FormatDXF).Data)
		hasDate := strings.Contains(dxf, "Date: 2024-05-01")
		if want := res.View != geom.Front; hasDate != want {
			t.Errorf("%s: title block present = %v, want %v", res.View, hasDate, want)
		}
	}
	if !strings.Contains(results[1].Filename, "-plan-") {
		t.Errorf("plan filename = %q", results[1].Filename)
	}
}

func TestExportCheck(t *testing.T) {
	opts := testOptions(FormatDXF)
	opts.Check = true
	res := newTestRunner(t, nil).Export(context.Background(), opts)
	if !res.Success {
		t.Fatalf("Export failed: %s", res.Error)
	}
	for _, is := range res.Issues {
		t.Errorf("unexpected issue: %s %s", is.Code, is.Message)
	}
}

func TestPreflight(t *testing.T) {
	r := newTestRunner(t, nil)
	space := testSpace()

	tests := []struct {
		name     string
		project  *furniture.Project
		ok       bool
		wantCode string
	}{
		{
			name:     "nil project",
			project:  nil,
			wantCode: CodeMissingSpace,
		},
		{
			name:     "invalid space",
			project:  &furniture.Project{Space: furniture.SpaceEnvelope{Width: -5, Height: 2400, Depth: 600}},
			wantCode: CodeInvalidSpace,
		},
		{
			name:     "no furniture",
			project:  &furniture.Project{Space: space},
			ok:       true,
			wantCode: CodeNoFurniture,
		},
		{
			name:     "small space",
			project:  &furniture.Project{Space: furniture.SpaceEnvelope{Width: 90, Height: 2400, Depth: 600}},
			ok:       true,
			wantCode: CodeSmallSpace,
		},
		{
			name: "out of bounds",
			project: &furniture.Project{Space: space, Modules: []furniture.PlacedModule{
				{ID: "far", ModuleID: "custom", Position: furniture.Position{X: 25}},
			}},
			wantCode: CodeOutOfBoundsX,
		},
		{
			name: "too deep",
			project: &furniture.Project{Space: space, Modules: []furniture.PlacedModule{
				{ID: "deep", ModuleID: "custom", CustomDepth: 900},
			}},
			wantCode: CodeOutOfBoundsZ,
		},
		{
			name: "overlap",
			project: &furniture.Project{Space: space, Modules: []furniture.PlacedModule{
				{ID: "a", ModuleID: "custom"},
				{ID: "b", ModuleID: "custom", Position: furniture.Position{X: 1}},
			}},
			ok:       true,
			wantCode: CodeOverlap,
		},
		{
			name: "fits",
			project: &furniture.Project{Space: space, Modules: []furniture.PlacedModule{
				customModule(),
			}},
			ok: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Preflight(tt.project)
			if got.OK() != tt.ok {
				t.Errorf("OK() = %v, want %v (%+v)", got.OK(), tt.ok, got)
			}
			if tt.wantCode == "" {
				if len(got.Errors)+len(got.Warnings) != 0 {
					t.Errorf("unexpected findings: %+v", got)
				}
				if got.Summary() != "Ready to export." {
					t.Errorf("Summary() = %q", got.Summary())
				}
				return
			}
			found := false
			for _, f := range append(got.Errors, got.Warnings...) {
				if f.Code == tt.wantCode {
					found = true
				}
			}
			if !found {
				t.Errorf("missing %s in %+v", tt.wantCode, got)
			}
		})
	}
}

func TestBook(t *testing.T) {
	r := newTestRunner(t, nil)
	results := r.ExportViews(context.Background(), testOptions(FormatDXF), []geom.View{geom.Front, geom.Plan})
	for _, res := range results {
		if !res.Success {
			t.Fatalf("%s failed: %s", res.View, res.Error)
		}
	}
	docs := []*drawing.Document{results[0].Document, results[1].Document}
	data, err := Book(docs, testSpace(), testDate, nil)
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Error("Book output is not a PDF")
	}
}

func TestBookFilename(t *testing.T) {
	want := "furniture-book-4000W-2400H-600D-20240501.pdf"
	if got := BookFilename(testSpace(), testDate); got != want {
		t.Errorf("BookFilename() = %q, want %q", got, want)
	}
}
