package notifier

import (
	"fmt"
	"math"
)

// HueToHex converts a display hue to the fully saturated hex color the
// platform renders notifications with.
func HueToHex(hue int) string {
	return hslToHex(float64(hue), 100, 50)
}

func hslToHex(h, s, l float64) string {
	l /= 100
	a := s * math.Min(l, 1-l) / 100
	f := func(n float64) uint8 {
		k := math.Mod(n+h/30, 12)
		color := l - a*math.Max(math.Min(math.Min(k-3, 9-k), 1), -1)
		return uint8(math.Round(255 * color))
	}
	return fmt.Sprintf("#%02x%02x%02x", f(0), f(8), f(4))
}
