package sink

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	dxfdrawing "github.com/yofu/dxf/drawing"

	"github.com/matzehuels/furnidraw/pkg/drawing"
)

// DXFOption configures DXF rendering.
type DXFOption func(*dxfRenderer)

type dxfRenderer struct {
	tempDir string
}

// WithDXFTempDir sets the directory used for the intermediate file. The
// default is the system temp directory.
func WithDXFTempDir(dir string) DXFOption {
	return func(r *dxfRenderer) { r.tempDir = dir }
}

// RenderDXF writes doc as an ASCII DXF drawing in millimetres.
//
// The fixed layer set is registered first. Each primitive then switches the
// writer to its layer before it is added; layers outside the set are written
// to FURNITURE. Texts are placed by their left baseline, so centered and
// right-aligned texts are shifted by their estimated width.
func RenderDXF(doc *drawing.Document, opts ...DXFOption) ([]byte, error) {
	r := dxfRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	d := dxf.NewDrawing()
	for _, def := range drawing.Layers {
		if def.Name == drawing.LayerDefault {
			continue
		}
		if _, err := d.AddLayer(string(def.Name), color.ColorNumber(def.Color), dxf.DefaultLineType, false); err != nil {
			return nil, fmt.Errorf("add layer %s: %w", def.Name, err)
		}
	}

	current := drawing.Layer("")
	use := func(l drawing.Layer) error {
		l = drawing.NormalizeLayer(string(l))
		if l == current {
			return nil
		}
		if err := d.ChangeLayer(string(l)); err != nil {
			return fmt.Errorf("change layer %s: %w", l, err)
		}
		current = l
		return nil
	}

	for _, l := range doc.Lines {
		if err := use(l.Layer); err != nil {
			return nil, err
		}
		if _, err := d.Line(l.X1, l.Y1, 0, l.X2, l.Y2, 0); err != nil {
			return nil, fmt.Errorf("add line: %w", err)
		}
	}
	for _, t := range doc.Texts {
		if t.Value == "" {
			continue
		}
		if err := use(t.Layer); err != nil {
			return nil, err
		}
		if _, err := d.Text(t.Value, textLeft(t), t.Y, 0, t.Height); err != nil {
			return nil, fmt.Errorf("add text: %w", err)
		}
	}

	return saveDXF(d, r.tempDir)
}

// saveDXF writes d through a scratch file, the writer's only output path.
func saveDXF(d *dxfdrawing.Drawing, dir string) ([]byte, error) {
	tmp, err := os.MkdirTemp(dir, "furnidraw-dxf-")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmp)

	path := filepath.Join(tmp, "drawing.dxf")
	if err := d.SaveAs(path); err != nil {
		return nil, fmt.Errorf("write dxf: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dxf: %w", err)
	}
	return data, nil
}
