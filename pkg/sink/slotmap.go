package sink

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/furnidraw/pkg/drawing"
	"github.com/matzehuels/furnidraw/pkg/indexing"
)

// SlotModule is one module as shown on the slot map.
type SlotModule struct {
	ID    string
	Label string
	// Slot is -1 for modules placed outside the grid.
	Slot int
	Dual bool
}

// SlotMapDOT describes the slot grid and the modules occupying it as a
// Graphviz digraph. Columns are laid out left to right; each module points
// at the columns it covers and unslotted modules hang off the space node
// with a dashed edge.
func SlotMapDOT(env drawing.Envelope, ix indexing.Indexing, modules []SlotModule) string {
	var buf bytes.Buffer
	buf.WriteString("digraph slots {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Helvetica\", fontsize=12];\n")
	buf.WriteString("\n")

	fmt.Fprintf(&buf, "  space [label=%q, fillcolor=lightgrey];\n",
		"space\n"+drawing.DimensionString(env.Width, env.Height, env.Depth))

	buf.WriteString("  subgraph columns {\n    rank=same;\n")
	for i, x := range ix.ColumnPositions {
		label := fmt.Sprintf("slot %d\nx=%s\nw=%s", i, drawing.FormatMM(x), drawing.FormatMM(ix.ColumnWidth))
		fmt.Fprintf(&buf, "    %s [label=%q, shape=box3d];\n", columnID(i), label)
	}
	buf.WriteString("  }\n")
	for i := range ix.ColumnPositions {
		fmt.Fprintf(&buf, "  space -> %s [arrowhead=none, color=grey];\n", columnID(i))
	}

	buf.WriteString("\n")
	for i, m := range modules {
		id := fmt.Sprintf("module_%d", i)
		label := m.Label
		if label == "" {
			label = m.ID
		}
		attrs := []string{fmt.Sprintf("label=%q", label)}
		if m.Dual {
			attrs = append(attrs, "fillcolor=\"#dfefff\"")
		}
		fmt.Fprintf(&buf, "  %s [%s];\n", id, strings.Join(attrs, ", "))

		covered := slotsCovered(m, ix.ColumnCount)
		if len(covered) == 0 {
			fmt.Fprintf(&buf, "  space -> %s [style=dashed];\n", id)
			continue
		}
		for _, c := range covered {
			fmt.Fprintf(&buf, "  %s -> %s;\n", columnID(c), id)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func columnID(i int) string { return fmt.Sprintf("col_%d", i) }

// slotsCovered returns the columns a module occupies, or nil when it is
// outside the grid.
func slotsCovered(m SlotModule, columns int) []int {
	if m.Slot < 0 || m.Slot >= columns {
		return nil
	}
	if m.Dual {
		if m.Slot+1 >= columns {
			return nil
		}
		return []int{m.Slot, m.Slot + 1}
	}
	return []int{m.Slot}
}

// RenderSlotMap renders a DOT graph to SVG using Graphviz.
func RenderSlotMap(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
