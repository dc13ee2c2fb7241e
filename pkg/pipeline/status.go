package pipeline

import (
	"fmt"

	"github.com/matzehuels/furnidraw/pkg/errors"
	"github.com/matzehuels/furnidraw/pkg/furniture"
	"github.com/matzehuels/furnidraw/pkg/geom"
	"github.com/matzehuels/furnidraw/pkg/indexing"
)

// CanExport reports whether space can be drawn: it must exist and have a
// positive width and depth. Modules are optional; an empty space still
// yields a space drawing.
func CanExport(space *furniture.SpaceEnvelope) bool {
	return space != nil && space.Width > 0 && space.Depth > 0
}

// StatusMessage describes what an export of space would produce.
func StatusMessage(space *furniture.SpaceEnvelope, moduleCount int) string {
	switch {
	case space == nil || *space == (furniture.SpaceEnvelope{}):
		return "No space information."
	case !CanExport(space):
		return "Set the space size."
	case moduleCount == 0:
		return "Only the space drawing will be generated."
	case moduleCount == 1:
		return "A drawing with 1 furniture module will be generated."
	default:
		return fmt.Sprintf("A drawing with %d furniture modules will be generated.", moduleCount)
	}
}

// Severity grades a preflight finding.
type Severity string

// Preflight severities.
const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Preflight finding codes.
const (
	CodeMissingSpace  = "MISSING_SPACE_INFO"
	CodeInvalidSpace  = "INVALID_SPACE_DIMENSIONS"
	CodeSmallSpace    = "SMALL_SPACE_DIMENSIONS"
	CodeLargeSpace    = "LARGE_SPACE_DIMENSIONS"
	CodeOutOfBoundsX  = "FURNITURE_OUT_OF_BOUNDS_X"
	CodeOutOfBoundsZ  = "FURNITURE_OUT_OF_BOUNDS_Z"
	CodeHeightWarning = "FURNITURE_HEIGHT_WARNING"
	CodeOverlap       = "FURNITURE_OVERLAP"
	CodeNoFurniture   = "NO_FURNITURE"
)

const (
	minSpaceDimension = 100.0
	boundsTolerance   = 0.5
)

// Finding is one preflight result.
type Finding struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
}

// Preflight is the outcome of [Runner.Preflight].
type Preflight struct {
	Errors   []Finding `json:"errors,omitempty"`
	Warnings []Finding `json:"warnings,omitempty"`
}

// OK reports whether the project can be exported.
func (p Preflight) OK() bool { return len(p.Errors) == 0 }

// Summary is a one-line verdict.
func (p Preflight) Summary() string {
	switch {
	case p.OK() && len(p.Warnings) == 0:
		return "Ready to export."
	case p.OK():
		return fmt.Sprintf("%d warning(s): export possible, please review.", len(p.Warnings))
	default:
		return fmt.Sprintf("%d error(s): export not possible.", len(p.Errors))
	}
}

func (p *Preflight) add(sev Severity, code, format string, args ...any) {
	f := Finding{Severity: sev, Code: code, Message: fmt.Sprintf(format, args...)}
	if sev == SeverityError {
		p.Errors = append(p.Errors, f)
	} else {
		p.Warnings = append(p.Warnings, f)
	}
}

// Preflight checks a project before export: the space must be usable and
// every module should fit inside it without overlapping another. Module
// extents are the resolved catalog sizes at their drawn positions.
func (r *Runner) Preflight(p *furniture.Project) Preflight {
	var out Preflight
	if p == nil || p.Space == (furniture.SpaceEnvelope{}) {
		out.add(SeverityError, CodeMissingSpace, "No space information: set the space size first")
		return out
	}
	s := p.Space
	if err := errors.ValidateSpaceDimensions(s.Width, s.Height, s.Depth); err != nil {
		out.add(SeverityError, CodeInvalidSpace, "Invalid space size: width %vmm, height %vmm, depth %vmm", s.Width, s.Height, s.Depth)
	} else if s.Width < minSpaceDimension || s.Height < minSpaceDimension || s.Depth < minSpaceDimension {
		out.add(SeverityWarning, CodeSmallSpace, "Space is very small: at least %vmm per side is recommended", minSpaceDimension)
	}
	if s.Width > errors.MaxSpaceDimension || s.Height > errors.MaxSpaceDimension || s.Depth > errors.MaxSpaceDimension {
		out.add(SeverityWarning, CodeLargeSpace, "Space is very large: at most %dmm per side is recommended", errors.MaxSpaceDimension)
	}
	if len(p.Modules) == 0 {
		out.add(SeverityWarning, CodeNoFurniture, "No furniture placed: only the space drawing will be generated")
	}
	if !out.OK() {
		return out
	}

	in := r.Resolve(s, p.Modules)
	boxes := make([]extent, len(in.Instances))
	for i, inst := range in.Instances {
		boxes[i] = placeExtent(s, in.Indexing, inst.Placed, inst.Dims)
		name := fmt.Sprintf("furniture %d (%s)", i+1, inst.Placed.ID)
		b := boxes[i]
		if b.x1 < -boundsTolerance || b.x2 > s.Width+boundsTolerance {
			out.add(SeverityError, CodeOutOfBoundsX, "%s is outside the space width: x %.0f..%.0f mm", name, b.x1, b.x2)
		}
		if inst.Dims.Depth > s.Depth+boundsTolerance {
			out.add(SeverityError, CodeOutOfBoundsZ, "%s is deeper than the space: %vmm", name, inst.Dims.Depth)
		}
		if s.BottomOffset()+inst.Dims.Height > s.Height+boundsTolerance {
			out.add(SeverityWarning, CodeHeightWarning, "%s may not fit the space height: %vmm", name, inst.Dims.Height)
		}
	}
	for i := range boxes {
		for j := i + 1; j < len(boxes); j++ {
			if boxes[i].overlaps(boxes[j]) {
				out.add(SeverityWarning, CodeOverlap, "furniture %d (%s) and %d (%s) may overlap",
					i+1, in.Instances[i].Placed.ID, j+1, in.Instances[j].Placed.ID)
			}
		}
	}
	return out
}

// extent is a module footprint on the width axis, left wall at x = 0.
type extent struct{ x1, x2 float64 }

func (e extent) overlaps(o extent) bool {
	return e.x1 < o.x2-boundsTolerance && o.x1 < e.x2-boundsTolerance
}

func placeExtent(s furniture.SpaceEnvelope, ix indexing.Indexing, m furniture.PlacedModule, d furniture.ModuleDimensions) extent {
	x, ok := ix.SlotX(m.Slot(), m.IsDualSlot)
	if !ok {
		x = m.Position.X * geom.SceneScale
	}
	cx := x + s.Width/2
	return extent{cx - d.Width/2, cx + d.Width/2}
}
