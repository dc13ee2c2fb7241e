package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/furnidraw/pkg/cache"
	"github.com/matzehuels/furnidraw/pkg/dxfcheck"
	"github.com/matzehuels/furnidraw/pkg/errors"
	fio "github.com/matzehuels/furnidraw/pkg/io"
	"github.com/matzehuels/furnidraw/pkg/pipeline"
)

// validateCommand creates the validate command. Project files get the
// export preflight; DXF files get the layer and text checks.
func (c *CLI) validateCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "validate [project|drawing.dxf]",
		Short: "Check a project before export, or check an exported DXF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.EqualFold(filepath.Ext(args[0]), ".dxf") {
				return validateDXF(cmd.OutOrStdout(), args[0], asJSON)
			}
			return c.validateProject(cmd.OutOrStdout(), args[0], asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the findings as JSON")
	return cmd
}

func (c *CLI) validateProject(w io.Writer, path string, asJSON bool) error {
	project, err := fio.ReadProjectFile(path)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(cache.NewNullCache(), nil, c.Logger)
	report := runner.Preflight(project)

	if asJSON {
		if err := writeJSON(w, report); err != nil {
			return err
		}
	} else {
		printKeyValue("Project", path)
		printKeyValue("Status", pipeline.StatusMessage(&project.Space, len(project.Modules)))
		printFindings(report)
	}
	if !report.OK() {
		return errors.New(errors.ErrCodeInvalidProject, "%s", report.Summary())
	}
	return nil
}

func validateDXF(w io.Writer, path string, asJSON bool) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "drawing not found: %s", path)
		}
		return err
	}
	defer f.Close()

	rep, err := dxfcheck.Inspect(f)
	if err != nil {
		return fmt.Errorf("inspect %s: %w", path, err)
	}
	issues := dxfcheck.Check(rep, dxfcheck.DefaultRules())

	if asJSON {
		if err := writeJSON(w, struct {
			Layers []dxfcheck.LayerStats `json:"layers"`
			Issues []dxfcheck.Issue      `json:"issues"`
		}{rep.Stats(), issues}); err != nil {
			return err
		}
	} else {
		for _, s := range rep.Stats() {
			printKeyValue(s.Name, fmt.Sprintf("%d lines, %d texts, %d other", s.Lines, s.Texts, s.Other))
		}
		for _, is := range issues {
			printWarning("%s", is.String())
			printDetail("%s", is.Code)
		}
		if len(issues) == 0 {
			printSuccess("%s passed all checks", filepath.Base(path))
		}
	}
	if len(issues) > 0 {
		return errors.New(errors.ErrCodeInvalidInput, "%s: %d issue(s)", filepath.Base(path), len(issues))
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
