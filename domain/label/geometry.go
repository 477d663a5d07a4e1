package label

import "math"

// mmPerInch is the millimeter/inch conversion base for all label geometry.
const mmPerInch = 25.4

// SupportedDPIs are the print resolutions accepted for label rendering.
var SupportedDPIs = []int{203, 300, 600}

// PxFromMm converts a physical millimeter dimension to pixels at the given
// print resolution, rounded to the nearest integer pixel.
func PxFromMm(mm float64, dpi int) int {
	return int(math.Round(mm / mmPerInch * float64(dpi)))
}

// MmFromPx converts a pixel dimension back to millimeters at the given
// print resolution.
func MmFromPx(px int, dpi int) float64 {
	return float64(px) * mmPerInch / float64(dpi)
}

// ValidDPI reports whether dpi is one of the supported print resolutions.
func ValidDPI(dpi int) bool {
	for _, d := range SupportedDPIs {
		if d == dpi {
			return true
		}
	}
	return false
}
