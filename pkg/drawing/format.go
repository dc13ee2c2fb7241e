package drawing

import (
	"fmt"
	"strconv"
	"time"

	"github.com/matzehuels/furnidraw/pkg/geom"
)

// FormatMM renders a millimetre value without trailing zeros:
// 800 -> "800", 580.5 -> "580.5".
func FormatMM(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// DimensionString formats a module size as "{w}W x {h}H x {d}D". The
// arguments are used verbatim and always in width, height, depth order.
func DimensionString(width, height, depth float64) string {
	return fmt.Sprintf("%sW x %sH x %sD", FormatMM(width), FormatMM(height), FormatMM(depth))
}

// DrawingTypeName returns the title used for view in labels and title
// blocks.
func DrawingTypeName(view geom.View) string {
	switch view {
	case geom.Plan:
		return "Plan View"
	case geom.Left, geom.Right:
		return "Side Section"
	default:
		return "Front Elevation"
	}
}

// FileViewName is the view segment of export filenames.
func FileViewName(view geom.View) string {
	switch view {
	case geom.Plan:
		return "plan"
	case geom.Left:
		return "section-left"
	case geom.Right:
		return "section-right"
	default:
		return "elevation"
	}
}

// Filename returns the filename for an export:
// furniture-{view}-{W}W-{H}H-{D}D-{YYYYMMDD}.{ext}.
func Filename(view geom.View, width, height, depth float64, date time.Time, ext string) string {
	return fmt.Sprintf("furniture-%s-%sW-%sH-%sD-%s.%s",
		FileViewName(view), FormatMM(width), FormatMM(height), FormatMM(depth), date.Format("20060102"), ext)
}
