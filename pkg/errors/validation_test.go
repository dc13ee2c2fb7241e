package errors

import (
	"math"
	"testing"
)

func TestValidateSpaceDimensions(t *testing.T) {
	tests := []struct {
		name    string
		w, h, d float64
		wantErr bool
	}{
		{"typical room", 4000, 2400, 600, false},
		{"minimal", 1, 1, 1, false},
		{"at maximum", MaxSpaceDimension, 2400, 600, false},

		{"zero width", 0, 2400, 600, true},
		{"zero depth", 4000, 2400, 0, true},
		{"negative height", 4000, -1, 600, true},
		{"too wide", MaxSpaceDimension + 1, 2400, 600, true},
		{"NaN depth", 4000, 2400, math.NaN(), true},
		{"infinite width", math.Inf(1), 2400, 600, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSpaceDimensions(tt.w, tt.h, tt.d)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSpaceDimensions(%v, %v, %v) error = %v, wantErr %v", tt.w, tt.h, tt.d, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidSpace) {
				t.Errorf("error code = %v, want %v", GetCode(err), ErrCodeInvalidSpace)
			}
		})
	}
}

func TestValidateFilename(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"dxf export", "furniture-front-4000W-2400H-600D-20240115.dxf", false},
		{"pdf export", "furniture-vector-4000W-2400H-600D-1705312800.pdf", false},

		{"empty", "", true},
		{"with path /", "out/file.dxf", true},
		{"with path \\", "out\\file.dxf", true},
		{"hidden file", ".file.dxf", true},
		{"control char", "file\x01.dxf", true},
		{"too long", string(make([]byte, 300)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFilename(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFilename(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateStorageKey(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "exports/abc.dxf", false},
		{"nested", "exports/2024/01/abc.pdf", false},

		{"empty", "", true},
		{"absolute", "/etc/passwd", true},
		{"traversal", "exports/../secret", true},
		{"backslash", "exports\\abc", true},
		{"null byte", "abc\x00", true},
		{"too long", string(make([]byte, 600)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStorageKey(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateStorageKey(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
