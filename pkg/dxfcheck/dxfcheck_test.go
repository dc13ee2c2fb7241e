package dxfcheck

import (
	"strings"
	"testing"

	"github.com/matzehuels/furnidraw/pkg/geom"
)

func dxfText(pairs ...string) string {
	return strings.Join(pairs, "\n") + "\n"
}

func sample(extra ...string) string {
	p := []string{
		"0", "SECTION", "2", "TABLES",
		"0", "TABLE", "2", "LAYER",
		"0", "LAYER", "2", "0", "62", "7",
		"0", "LAYER", "2", "FURNITURE", "62", "3",
		"0", "LAYER", "2", "DIMENSIONS", "62", "1",
		"0", "LAYER", "2", "TEXT", "62", "5",
		"0", "ENDTAB",
		"0", "ENDSEC",
		"0", "SECTION", "2", "ENTITIES",
		"0", "LINE", "8", "FURNITURE", "10", "0.0", "20", "0.0", "30", "0.0", "11", "4000.0", "21", "0.0", "31", "0.0",
		"0", "LINE", "8", "DIMENSIONS", "10", "0", "20", "-100", "11", "4000", "21", "-100",
		"0", "TEXT", "8", "TEXT", "10", "1800", "20", "2600", "40", "100", "1", "Front Elevation",
	}
	p = append(p, extra...)
	p = append(p, "0", "ENDSEC", "0", "EOF")
	return dxfText(p...)
}

func TestInspect(t *testing.T) {
	rep, err := Inspect(strings.NewReader(sample()))
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}

	if got := strings.Join(rep.Declared, ","); got != "0,FURNITURE,DIMENSIONS,TEXT" {
		t.Errorf("declared = %s", got)
	}
	if s := rep.Layer("FURNITURE"); s.Lines != 1 || s.Texts != 0 {
		t.Errorf("FURNITURE = %+v", s)
	}
	if s := rep.Layer("TEXT"); s.Texts != 1 {
		t.Errorf("TEXT = %+v", s)
	}
	if !rep.HasLine("FURNITURE", geom.Point{X: 4000}, geom.Point{}, 1e-6) {
		t.Error("expected the reversed FURNITURE line to match")
	}
	if rep.HasLine("SPACE", geom.Point{}, geom.Point{X: 4000}, 1e-6) {
		t.Error("no line exists on SPACE")
	}
	if got := rep.Texts(); len(got) != 1 || got[0] != "Front Elevation" {
		t.Errorf("texts = %v", got)
	}
	if rep.Bounds.MinY != -100 || rep.Bounds.MaxY != 2600 {
		t.Errorf("bounds = %+v", rep.Bounds)
	}
	if issues := Check(rep, DefaultRules()); len(issues) != 0 {
		t.Errorf("issues = %v", issues)
	}
}

func TestCheckIssues(t *testing.T) {
	tests := []struct {
		name  string
		extra []string
		want  string
	}{
		{"line on layer 0", []string{"0", "LINE", "8", "0", "10", "0", "20", "0", "11", "1", "21", "1"}, IssueDefaultLayer},
		{"unknown layer", []string{"0", "LINE", "8", "WALLS", "10", "0", "20", "0", "11", "1", "21", "1"}, IssueUnknownLayer},
		{"undeclared layer", []string{"0", "LINE", "8", "SPACE", "10", "0", "20", "0", "11", "1", "21", "1"}, IssueUndeclared},
		{"hangul text", []string{"0", "TEXT", "8", "TEXT", "10", "0", "20", "0", "40", "20", "1", "정면도"}, IssueHangul},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep, err := Inspect(strings.NewReader(sample(tt.extra...)))
			if err != nil {
				t.Fatalf("Inspect: %v", err)
			}
			issues := Check(rep, DefaultRules())
			if len(issues) != 1 || issues[0].Code != tt.want {
				t.Errorf("issues = %+v, want one %s", issues, tt.want)
			}
		})
	}
}

func TestCheckEmptyDrawing(t *testing.T) {
	rep, err := Inspect(strings.NewReader(dxfText("0", "SECTION", "2", "ENTITIES", "0", "ENDSEC", "0", "EOF")))
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	issues := Check(rep, DefaultRules())
	codes := map[string]int{}
	for _, i := range issues {
		codes[i.Code]++
	}
	if codes[IssueEmpty] != 1 || codes[IssueMissingLayer] != 3 {
		t.Errorf("issues = %+v", issues)
	}
}

func TestInspectRejectsBadGroupCode(t *testing.T) {
	if _, err := Inspect(strings.NewReader("X\nSECTION\n")); err == nil {
		t.Error("expected an error for a non-numeric group code")
	}
}
