package docx

import (
	"strconv"
	"strings"
)

// Unit conversions for the measurement types WordprocessingML mixes freely:
// twips (twentieths of a point) for widths and spacing, half-points for font
// sizes, eighth-points for border widths, fiftieths of a percent for
// relative widths and EMUs for drawing extents.

// TwipsToPoints parses a twip value and converts it to points.
func TwipsToPoints(val string) (float64, bool) {
	n, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false
	}
	return n / 20, true
}

// HalfPointsToPoints parses a half-point value (font sizes) and converts it
// to points.
func HalfPointsToPoints(val string) (float64, bool) {
	n, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false
	}
	return n / 2, true
}

// EighthPointsToPoints parses an eighth-point value (border widths) and
// converts it to points.
func EighthPointsToPoints(val string) (float64, bool) {
	n, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false
	}
	return n / 8, true
}

// PctToPercent converts a table width of type "pct". The raw form counts in
// fiftieths of a percent ("2500" is 50%), but files also carry a literal
// "50%" shape which is passed through.
func PctToPercent(val string) (float64, bool) {
	if cut, ok := strings.CutSuffix(val, "%"); ok {
		n, err := strconv.ParseFloat(cut, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	n, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false
	}
	return n / 50, true
}

// EMUToPixels converts a drawing extent to CSS pixels at 96dpi. One inch is
// 914400 EMU, so one pixel is 9525.
func EMUToPixels(emu int64) int {
	return int(emu / 9525)
}
