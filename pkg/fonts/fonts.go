// Package fonts provides the embedded font used for raster and vector
// previews.
//
// The Go Regular TrueType font ships inside golang.org/x/image, so previews
// render identically on every machine without system fonts.
package fonts

import (
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// RegularTTF returns the TTF font data.
func RegularTTF() []byte {
	return goregular.TTF
}

// The parsed font is computed once on first access.
var (
	regular     *truetype.Font
	regularErr  error
	regularOnce sync.Once
)

// Face returns a new face of the regular font at the given point size.
// Faces are not safe for concurrent use; the parsed font behind them is.
func Face(points float64) (font.Face, error) {
	regularOnce.Do(func() {
		regular, regularErr = truetype.Parse(goregular.TTF)
	})
	if regularErr != nil {
		return nil, regularErr
	}
	return truetype.NewFace(regular, &truetype.Options{Size: points}), nil
}

// FontFamily is the CSS font-family name of the embedded font.
const FontFamily = "Go"

// FallbackFontFamily provides fallback fonts for SVG viewers without the
// embedded font.
const FallbackFontFamily = `'Go', Helvetica, Arial, sans-serif`
