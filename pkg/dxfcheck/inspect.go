package dxfcheck

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/rpaloschi/dxf-go/document"

	"github.com/matzehuels/furnidraw/pkg/geom"
	"github.com/matzehuels/furnidraw/pkg/textsafe"
)

// Entity is one LINE or TEXT record of the ENTITIES section.
type Entity struct {
	Type   string
	Layer  string
	X1, Y1 float64
	X2, Y2 float64
	Text   string
	Height float64
}

// LayerStats counts the entities on one layer.
type LayerStats struct {
	Name  string `json:"name"`
	Lines int    `json:"lines"`
	Texts int    `json:"texts"`
	Other int    `json:"other"`
}

// Report is the result of inspecting a DXF stream.
type Report struct {
	// Declared lists the layers of the LAYER table in file order.
	Declared []string
	Entities []Entity
	Bounds   geom.Bounds
	// Hangul lists text values that still contain Hangul.
	Hangul []string
	// StructureErr is set when the document parser rejected the file.
	StructureErr string

	stats map[string]*LayerStats
}

// Inspect reads a DXF document from r.
func Inspect(r io.Reader) (*Report, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read dxf: %w", err)
	}
	return InspectBytes(data)
}

// InspectBytes inspects an in-memory DXF document.
func InspectBytes(data []byte) (*Report, error) {
	rep := &Report{stats: make(map[string]*LayerStats)}
	if err := rep.scan(data); err != nil {
		return nil, err
	}
	if _, err := document.DxfDocumentFromStream(bytes.NewReader(data)); err != nil {
		rep.StructureErr = err.Error()
	}
	return rep, nil
}

// Stats returns per-layer counts sorted by layer name.
func (r *Report) Stats() []LayerStats {
	out := make([]LayerStats, 0, len(r.stats))
	for _, s := range r.stats {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Layer returns the counts for one layer.
func (r *Report) Layer(name string) LayerStats {
	if s, ok := r.stats[name]; ok {
		return *s
	}
	return LayerStats{Name: name}
}

// Lines returns the LINE entities on layer, or all of them when layer is
// empty.
func (r *Report) Lines(layer string) []Entity {
	var out []Entity
	for _, e := range r.Entities {
		if e.Type == "LINE" && (layer == "" || e.Layer == layer) {
			out = append(out, e)
		}
	}
	return out
}

// HasLine reports whether a LINE from a to b, in either direction, exists on
// layer within tol.
func (r *Report) HasLine(layer string, a, b geom.Point, tol float64) bool {
	near := func(x, y float64, p geom.Point) bool {
		return abs(x-p.X) <= tol && abs(y-p.Y) <= tol
	}
	for _, e := range r.Lines(layer) {
		if (near(e.X1, e.Y1, a) && near(e.X2, e.Y2, b)) || (near(e.X1, e.Y1, b) && near(e.X2, e.Y2, a)) {
			return true
		}
	}
	return false
}

// Texts returns the values of all TEXT entities in file order.
func (r *Report) Texts() []string {
	var out []string
	for _, e := range r.Entities {
		if e.Type == "TEXT" {
			out = append(out, e.Text)
		}
	}
	return out
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

type pair struct {
	code  int
	value string
}

// scan walks the group-code pairs of data.
func (r *Report) scan(data []byte) error {
	pairs, err := readPairs(data)
	if err != nil {
		return err
	}

	var section, record string
	var cur *Entity
	flush := func() {
		if cur == nil {
			return
		}
		r.add(*cur)
		cur = nil
	}

	for i := 0; i < len(pairs); i++ {
		p := pairs[i]
		if p.code == 0 {
			flush()
			record = p.value
			switch p.value {
			case "SECTION":
				if i+1 < len(pairs) && pairs[i+1].code == 2 {
					section = pairs[i+1].value
					i++
				}
				continue
			case "ENDSEC":
				section = ""
				continue
			}
			if section == "ENTITIES" {
				cur = &Entity{Type: p.value, Layer: "0"}
			}
			continue
		}

		if section == "TABLES" && record == "LAYER" && p.code == 2 {
			r.Declared = append(r.Declared, p.value)
			continue
		}
		if cur == nil {
			continue
		}
		switch p.code {
		case 8:
			cur.Layer = p.value
		case 1:
			cur.Text = p.value
		case 10:
			cur.X1 = parseFloat(p.value)
		case 20:
			cur.Y1 = parseFloat(p.value)
		case 11:
			cur.X2 = parseFloat(p.value)
		case 21:
			cur.Y2 = parseFloat(p.value)
		case 40:
			cur.Height = parseFloat(p.value)
		}
	}
	flush()
	return nil
}

func (r *Report) add(e Entity) {
	s, ok := r.stats[e.Layer]
	if !ok {
		s = &LayerStats{Name: e.Layer}
		r.stats[e.Layer] = s
	}
	switch e.Type {
	case "LINE":
		s.Lines++
		r.Bounds.Extend(geom.Point{X: e.X1, Y: e.Y1})
		r.Bounds.Extend(geom.Point{X: e.X2, Y: e.Y2})
	case "TEXT", "MTEXT":
		s.Texts++
		r.Bounds.Extend(geom.Point{X: e.X1, Y: e.Y1})
		if textsafe.ContainsHangul(e.Text) {
			r.Hangul = append(r.Hangul, e.Text)
		}
	default:
		s.Other++
	}
	r.Entities = append(r.Entities, e)
}

func readPairs(data []byte) ([]pair, error) {
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

	var out []pair
	line := 0
	for sc.Scan() {
		line++
		codeText := strings.TrimSpace(sc.Text())
		if !sc.Scan() {
			if codeText == "" {
				break
			}
			return nil, fmt.Errorf("line %d: group code %q without value", line, codeText)
		}
		line++
		code, err := strconv.Atoi(codeText)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid group code %q", line-1, codeText)
		}
		out = append(out, pair{code: code, value: strings.TrimSpace(sc.Text())})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan dxf: %w", err)
	}
	return out, nil
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}
