package hexmap

import "fmt"

// Sequential palette: light teal through teal to blue.
const (
	colorLow  = "#F7FDFC"
	colorMid  = "#39C6C0"
	colorHigh = "#2C6496"
)

// Color maps t in [0,1] onto the palette, interpolating low->mid over
// the first half and mid->high over the second, matching the scale used
// by the interactive map.
func Color(t float64) string {
	switch {
	case t <= 0:
		return colorLow
	case t >= 1:
		return colorHigh
	case t < 0.5:
		return lerpHex(colorLow, colorMid, t*2)
	default:
		return lerpHex(colorMid, colorHigh, (t-0.5)*2)
	}
}

func lerpHex(a, b string, t float64) string {
	ar, ag, ab := splitHex(a)
	br, bg, bb := splitHex(b)
	lerp := func(x, y int) int {
		return x + int(float64(y-x)*t+0.5)
	}
	return fmt.Sprintf("#%02X%02X%02X", lerp(ar, br), lerp(ag, bg), lerp(ab, bb))
}

func splitHex(s string) (r, g, b int) {
	fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b)
	return r, g, b
}
