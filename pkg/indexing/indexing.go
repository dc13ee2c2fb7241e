// Package indexing computes the slot grid of a space: how many columns fit,
// how wide they are and where their centers sit.
//
// Positions are in millimetres in centered coordinates (x = 0 is the middle
// of the space) unless the field name says otherwise.
package indexing

import (
	"math"

	"github.com/matzehuels/furnidraw/pkg/furniture"
	"github.com/matzehuels/furnidraw/pkg/geom"
)

// DefaultColumnWidth is the target width used to derive the column count.
const DefaultColumnWidth = 600.0

// Frame is the thickness of the left and right surround, in millimetres.
type Frame struct {
	Left  float64 `json:"left"`
	Right float64 `json:"right"`
}

// Indexing is the slot grid of one space.
type Indexing struct {
	ColumnCount         int       `json:"column_count"`
	ColumnWidth         float64   `json:"column_width"`
	ColumnPositions     []float64 `json:"column_positions"`
	ThreeUnitPositions  []float64 `json:"three_unit_positions"`
	DualColumnPositions []float64 `json:"dual_column_positions"`
	InternalStartX      float64   `json:"internal_start_x"`
	InternalWidth       float64   `json:"internal_width"`
	Frame               Frame     `json:"frame"`
}

// SlotX returns the center of a module occupying slot; dual modules sit
// between slot and slot+1. ok is false for slots outside the grid.
func (ix Indexing) SlotX(slot int, dual bool) (x float64, ok bool) {
	if dual {
		if slot >= 0 && slot < len(ix.DualColumnPositions) {
			return ix.DualColumnPositions[slot], true
		}
		return 0, false
	}
	if slot >= 0 && slot < len(ix.ColumnPositions) {
		return ix.ColumnPositions[slot], true
	}
	return 0, false
}

// Provider computes the slot grid for a space.
type Provider interface {
	Index(space furniture.SpaceEnvelope) Indexing
}

// Default is the column indexer of the configurator.
type Default struct{}

// Index implements [Provider].
func (Default) Index(space furniture.SpaceEnvelope) Indexing {
	frame := FrameThickness(space)

	internal := space.Width - frame.Left - frame.Right
	startOffset := frame.Left
	if space.Surround == furniture.NoSurround {
		gap := space.GapSize()
		internal = space.Width - 2*gap
		startOffset = gap
	}

	count := space.CustomColumnCount
	if count <= 0 {
		count = int(math.Ceil(internal / DefaultColumnWidth))
	}
	if count < 1 {
		count = 1
	}

	colWidth := math.Floor(internal / float64(count))
	padding := math.Floor((internal - colWidth*float64(count)) / 2)
	start := -space.Width/2 + startOffset + padding

	ix := Indexing{
		ColumnCount:    count,
		ColumnWidth:    colWidth,
		InternalStartX: start,
		InternalWidth:  internal,
		Frame:          frame,
	}
	for i := 0; i < count; i++ {
		pos := start + colWidth*(float64(i)+0.5)
		ix.ColumnPositions = append(ix.ColumnPositions, pos)
		ix.ThreeUnitPositions = append(ix.ThreeUnitPositions, pos/geom.SceneScale)
	}
	for i := 0; i+1 < count; i++ {
		ix.DualColumnPositions = append(ix.DualColumnPositions, (ix.ColumnPositions[i]+ix.ColumnPositions[i+1])/2)
	}
	return ix
}

// FrameThickness returns the surround thickness on each side. Sides without
// a wall get an end panel instead of a frame.
func FrameThickness(space furniture.SpaceEnvelope) Frame {
	if space.Surround == furniture.NoSurround {
		return Frame{}
	}
	left, right := space.Frame.Left, space.Frame.Right
	if left <= 0 {
		left = furniture.DefaultFrameSize
	}
	if right <= 0 {
		right = furniture.DefaultFrameSize
	}

	switch space.InstallType {
	case furniture.SemiStanding:
		if !space.Walls.Left && space.Walls.Right {
			return Frame{Left: furniture.EndPanelThickness, Right: right}
		}
		return Frame{Left: left, Right: furniture.EndPanelThickness}
	case furniture.FreeStanding:
		return Frame{Left: furniture.EndPanelThickness, Right: furniture.EndPanelThickness}
	default:
		return Frame{Left: left, Right: right}
	}
}
