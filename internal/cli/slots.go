package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/furnidraw/pkg/cache"
	"github.com/matzehuels/furnidraw/pkg/drawing"
	"github.com/matzehuels/furnidraw/pkg/extract"
	fio "github.com/matzehuels/furnidraw/pkg/io"
	"github.com/matzehuels/furnidraw/pkg/pipeline"
	"github.com/matzehuels/furnidraw/pkg/sink"
)

// slotsCommand creates the slots command, which shows how the space is
// divided into columns and which module sits in each.
func (c *CLI) slotsCommand() *cobra.Command {
	var svgPath string

	cmd := &cobra.Command{
		Use:   "slots [project]",
		Short: "Show the slot grid of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSlots(cmd.Context(), args[0], svgPath)
		},
	}
	cmd.Flags().StringVar(&svgPath, "svg", "", "also write the slot map as SVG to this file")
	return cmd
}

func (c *CLI) runSlots(ctx context.Context, path, svgPath string) error {
	project, err := fio.ReadProjectFile(path)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(cache.NewNullCache(), nil, c.Logger)
	in := runner.Resolve(project.Space, project.Modules)
	ix := in.Indexing

	printKeyValue("Space", drawing.DimensionString(project.Space.Width, project.Space.Height, project.Space.Depth))
	printKeyValue("Columns", fmt.Sprintf("%d × %smm", ix.ColumnCount, drawing.FormatMM(ix.ColumnWidth)))
	printKeyValue("Frame", fmt.Sprintf("left %smm, right %smm", drawing.FormatMM(ix.Frame.Left), drawing.FormatMM(ix.Frame.Right)))
	fmt.Println(slotTable(ix.ColumnPositions, in.Instances))

	if svgPath == "" {
		printNextStep("Write the slot map", "furnidraw slots "+path+" --svg slots.svg")
		return nil
	}
	dot := sink.SlotMapDOT(drawing.Envelope{
		Width:  project.Space.Width,
		Height: project.Space.Height,
		Depth:  project.Space.Depth,
	}, ix, pipeline.SlotModules(in.Instances))
	data, err := sink.RenderSlotMap(ctx, dot)
	if err != nil {
		return err
	}
	if err := os.WriteFile(svgPath, data, 0o644); err != nil {
		return fmt.Errorf("write slot map: %w", err)
	}
	printSuccess("Wrote slot map")
	printFile(svgPath)
	return nil
}

// slotTable renders one row per column with its center and occupants.
// Dual modules occupy their slot and the next one.
func slotTable(positions []float64, instances []extract.Instance) string {
	occupants := make([][]string, len(positions))
	var unslotted []string
	for _, inst := range instances {
		slot := inst.Placed.Slot()
		label := inst.Placed.ID + " " + StyleDim.Render(inst.Dims.String())
		if slot < 0 || slot >= len(positions) {
			unslotted = append(unslotted, label)
			continue
		}
		occupants[slot] = append(occupants[slot], label)
		if inst.Placed.IsDualSlot && slot+1 < len(positions) {
			occupants[slot+1] = append(occupants[slot+1], inst.Placed.ID+" "+StyleDim.Render("(dual)"))
		}
	}

	rows := make([][]string, 0, len(positions)+1)
	for i, x := range positions {
		rows = append(rows, []string{fmt.Sprint(i), drawing.FormatMM(x), strings.Join(occupants[i], ", ")})
	}
	if len(unslotted) > 0 {
		rows = append(rows, []string{"-", "-", strings.Join(unslotted, ", ")})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Slot", "Center X", "Modules").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 2 {
				return StyleHighlight
			}
			return lipgloss.NewStyle()
		}).
		Render()
}
