package dxfcheck

import (
	"fmt"
	"slices"

	"github.com/matzehuels/furnidraw/pkg/drawing"
)

// Issue codes.
const (
	IssueEmpty        = "empty"
	IssueMissingLayer = "missing_layer"
	IssueDefaultLayer = "default_layer_lines"
	IssueUnknownLayer = "unknown_layer"
	IssueUndeclared   = "undeclared_layer"
	IssueHangul       = "hangul_text"
	IssueStructure    = "structure"
)

// Issue is one failed check.
type Issue struct {
	Code    string `json:"code"`
	Layer   string `json:"layer,omitempty"`
	Message string `json:"message"`
}

func (i Issue) String() string { return i.Message }

// Rules selects the checks run by [Check].
type Rules struct {
	// RequiredLayers must each carry at least one entity.
	RequiredLayers []string
	// AllowedLayers is the layer set entities may use. Empty allows all.
	AllowedLayers []string
	// ForbidHangul flags texts that still contain Hangul.
	ForbidHangul bool
	// Structure flags files the document parser rejected.
	Structure bool
}

// DefaultRules returns the checks applied to exporter output: FURNITURE,
// DIMENSIONS and TEXT are populated, only the fixed layer set is used and
// no Hangul remains.
func DefaultRules() Rules {
	allowed := make([]string, 0, len(drawing.Layers))
	for _, def := range drawing.Layers {
		allowed = append(allowed, string(def.Name))
	}
	return Rules{
		RequiredLayers: []string{
			string(drawing.LayerFurniture),
			string(drawing.LayerDimensions),
			string(drawing.LayerText),
		},
		AllowedLayers: allowed,
		ForbidHangul:  true,
	}
}

// Check returns the issues found in rep. A nil result means the file
// passed.
func Check(rep *Report, rules Rules) []Issue {
	var issues []Issue
	if len(rep.Entities) == 0 {
		issues = append(issues, Issue{Code: IssueEmpty, Message: "drawing has no entities"})
	}

	for _, name := range rules.RequiredLayers {
		s := rep.Layer(name)
		if s.Lines+s.Texts+s.Other == 0 {
			issues = append(issues, Issue{Code: IssueMissingLayer, Layer: name,
				Message: fmt.Sprintf("layer %s has no entities", name)})
		}
	}

	if n := rep.Layer(string(drawing.LayerDefault)).Lines; n > 0 {
		issues = append(issues, Issue{Code: IssueDefaultLayer, Layer: "0",
			Message: fmt.Sprintf("%d LINE entities on layer 0", n)})
	}

	for _, s := range rep.Stats() {
		if len(rules.AllowedLayers) > 0 && !slices.Contains(rules.AllowedLayers, s.Name) {
			issues = append(issues, Issue{Code: IssueUnknownLayer, Layer: s.Name,
				Message: fmt.Sprintf("%d entities on unknown layer %s", s.Lines+s.Texts+s.Other, s.Name)})
			continue
		}
		if len(rep.Declared) > 0 && s.Name != "0" && !slices.Contains(rep.Declared, s.Name) {
			issues = append(issues, Issue{Code: IssueUndeclared, Layer: s.Name,
				Message: fmt.Sprintf("layer %s is used but not declared", s.Name)})
		}
	}

	if rules.ForbidHangul {
		for _, t := range rep.Hangul {
			issues = append(issues, Issue{Code: IssueHangul, Message: fmt.Sprintf("text %q contains Hangul", t)})
		}
	}
	if rules.Structure && rep.StructureErr != "" {
		issues = append(issues, Issue{Code: IssueStructure, Message: "document does not parse: " + rep.StructureErr})
	}
	return issues
}
