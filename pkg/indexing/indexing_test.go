package indexing

import (
	"math"
	"testing"

	"github.com/matzehuels/furnidraw/pkg/furniture"
)

func TestFrameThickness(t *testing.T) {
	tests := []struct {
		name  string
		space furniture.SpaceEnvelope
		want  Frame
	}{
		{"built-in default", furniture.SpaceEnvelope{InstallType: furniture.BuiltIn}, Frame{10, 10}},
		{"built-in custom", furniture.SpaceEnvelope{InstallType: furniture.BuiltIn, Frame: furniture.FrameSize{Left: 50, Right: 40}}, Frame{50, 40}},
		{"semi-standing left wall", furniture.SpaceEnvelope{InstallType: furniture.SemiStanding, Walls: furniture.Walls{Left: true}}, Frame{10, 18}},
		{"semi-standing right wall", furniture.SpaceEnvelope{InstallType: furniture.SemiStanding, Walls: furniture.Walls{Right: true}}, Frame{18, 10}},
		{"free-standing", furniture.SpaceEnvelope{InstallType: furniture.FreeStanding}, Frame{18, 18}},
		{"no surround", furniture.SpaceEnvelope{InstallType: furniture.BuiltIn, Surround: furniture.NoSurround}, Frame{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FrameThickness(tt.space); got != tt.want {
				t.Errorf("FrameThickness = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestIndex(t *testing.T) {
	space := furniture.SpaceEnvelope{Width: 4000, Height: 2400, Depth: 600, InstallType: furniture.BuiltIn}
	ix := Default{}.Index(space)

	// 3980 internal -> 7 columns of 568, 4mm left over split evenly.
	if ix.InternalWidth != 3980 {
		t.Errorf("InternalWidth = %v, want 3980", ix.InternalWidth)
	}
	if ix.ColumnCount != 7 || ix.ColumnWidth != 568 {
		t.Fatalf("grid = %d x %v, want 7 x 568", ix.ColumnCount, ix.ColumnWidth)
	}
	if ix.InternalStartX != -1988 {
		t.Errorf("InternalStartX = %v, want -1988", ix.InternalStartX)
	}
	if ix.ColumnPositions[0] != -1704 {
		t.Errorf("first column = %v, want -1704", ix.ColumnPositions[0])
	}
	if math.Abs(ix.ThreeUnitPositions[0]-(-17.04)) > 1e-9 {
		t.Errorf("first three-unit position = %v", ix.ThreeUnitPositions[0])
	}
	if len(ix.DualColumnPositions) != 6 || ix.DualColumnPositions[0] != -1420 {
		t.Errorf("dual positions = %v", ix.DualColumnPositions)
	}
}

func TestIndexCustomColumns(t *testing.T) {
	space := furniture.SpaceEnvelope{Width: 2400, InstallType: furniture.FreeStanding, CustomColumnCount: 3}
	ix := Default{}.Index(space)
	if ix.ColumnCount != 3 {
		t.Fatalf("ColumnCount = %d", ix.ColumnCount)
	}
	// 2364 / 3 = 788 exactly.
	if ix.ColumnWidth != 788 || ix.InternalStartX != -1182 {
		t.Errorf("grid = %v from %v", ix.ColumnWidth, ix.InternalStartX)
	}
}

func TestIndexNoSurround(t *testing.T) {
	space := furniture.SpaceEnvelope{Width: 1200, Surround: furniture.NoSurround}
	ix := Default{}.Index(space)
	if ix.InternalWidth != 1196 || ix.ColumnCount != 2 || ix.ColumnWidth != 598 {
		t.Errorf("grid = %+v", ix)
	}
	if ix.InternalStartX != -598 {
		t.Errorf("InternalStartX = %v, want -598", ix.InternalStartX)
	}
}

func TestSlotX(t *testing.T) {
	ix := Indexing{ColumnPositions: []float64{-300, 300}, DualColumnPositions: []float64{0}}
	tests := []struct {
		slot   int
		dual   bool
		want   float64
		wantOK bool
	}{
		{0, false, -300, true},
		{1, false, 300, true},
		{0, true, 0, true},
		{1, true, 0, false},
		{-1, false, 0, false},
		{5, false, 0, false},
	}
	for _, tt := range tests {
		got, ok := ix.SlotX(tt.slot, tt.dual)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("SlotX(%d, %v) = %v, %v; want %v, %v", tt.slot, tt.dual, got, ok, tt.want, tt.wantOK)
		}
	}
}
