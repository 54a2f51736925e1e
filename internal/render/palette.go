package render

import (
	"image/color"
	"math"

	"github.com/crazy3lf/colorconv"
)

// Background is palette index 0, used for pixels no sample covers.
var Background = color.RGBA{R: 12, G: 12, B: 16, A: 255}

// HeatPalette returns a palette of levels+1 colours: Background followed by
// a hue ramp from blue (cold) to red (hot).
func HeatPalette(levels int) []color.RGBA {
	if levels < 2 {
		levels = 2
	}
	pal := make([]color.RGBA, levels+1)
	pal[0] = Background
	for i := 0; i < levels; i++ {
		frac := float64(i) / float64(levels-1)
		hue := 240 * (1 - frac)
		r, g, b, err := colorconv.HSVToRGB(hue, 0.85, 1)
		if err != nil {
			r, g, b = 255, 255, 255
		}
		pal[i+1] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return pal
}

// Quantize maps t in [lo, hi] to a palette index in 1..levels. Values
// outside the range are clamped.
func Quantize(t, lo, hi float64, levels int) uint8 {
	if levels < 1 {
		return 0
	}
	levels = min(levels, 255)
	frac := 0.0
	if hi > lo {
		frac = (t - lo) / (hi - lo)
	}
	if math.IsNaN(frac) {
		frac = 0
	}
	frac = math.Max(0, math.Min(1, frac))
	return uint8(1 + int(math.Round(frac*float64(levels-1))))
}
