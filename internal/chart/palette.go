package chart

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// SeriesColors is the categorical palette, cycled for slices and groups.
var SeriesColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// SeriesColor returns the i-th palette color, wrapping around.
func SeriesColor(i int) colorful.Color {
	c, err := colorful.Hex(SeriesColors[i%len(SeriesColors)])
	if err != nil {
		return colorful.Color{R: 0.5, G: 0.5, B: 0.5}
	}
	return c
}

// coolwarm anchors: blue at -1, light grey at 0, red at +1.
var (
	coolBlue  = colorful.Color{R: 0.230, G: 0.299, B: 0.754}
	coolMid   = colorful.Color{R: 0.865, G: 0.865, B: 0.865}
	coolRed   = colorful.Color{R: 0.706, G: 0.016, B: 0.150}
	nanColour = colorful.Color{R: 0.3, G: 0.3, B: 0.3}
)

// Coolwarm maps a correlation in [-1, 1] onto a diverging blue-red scale.
// NaN maps to dark grey.
func Coolwarm(v float64) colorful.Color {
	if math.IsNaN(v) {
		return nanColour
	}
	v = math.Max(-1, math.Min(1, v))
	if v < 0 {
		return coolMid.BlendLab(coolBlue, -v).Clamped()
	}
	return coolMid.BlendLab(coolRed, v).Clamped()
}

// ContrastText picks black or white text for a background.
func ContrastText(bg colorful.Color) colorful.Color {
	l, _, _ := bg.Lab()
	if l > 0.6 {
		return colorful.Color{}
	}
	return colorful.Color{R: 1, G: 1, B: 1}
}
