package render

import (
	"fmt"
	"image/color"
	"math"

	"github.com/wcharczuk/go-chart/v2/drawing"
	"gonum.org/v1/plot/palette"
)

// Control colours of the two continuous maps used by the dashboard.
var (
	purpleGreenStops = []string{"F1EEF6", "BDC9E1", "74A9CF", "0570B0", "00441B"}
	viridisStops     = []string{"440154", "482878", "3E4A89", "31688E", "26828E", "1F9E89", "35B779", "6DCD59", "B4DE2C", "FDE725"}
)

// linearMap is a palette.ColorMap that interpolates linearly in RGB between
// evenly spaced control colours.
type linearMap struct {
	stops    []color.NRGBA
	min, max float64
	alpha    float64
}

var _ palette.ColorMap = (*linearMap)(nil)

func newLinearMap(hexStops []string) *linearMap {
	stops := make([]color.NRGBA, len(hexStops))
	for i, h := range hexStops {
		c := drawing.ColorFromHex(h)
		stops[i] = color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}
	}
	return &linearMap{stops: stops, min: 0, max: 1, alpha: 1}
}

// At returns the colour for v. Values outside [Min, Max] are an error;
// callers clamp first.
func (m *linearMap) At(v float64) (color.Color, error) {
	if math.IsNaN(v) {
		return nil, fmt.Errorf("colormap: NaN value")
	}
	if v < m.min || v > m.max {
		return nil, fmt.Errorf("colormap: %g outside [%g, %g]", v, m.min, m.max)
	}
	t := 0.0
	if m.max > m.min {
		t = (v - m.min) / (m.max - m.min)
	}
	return m.atFraction(t), nil
}

// Clamped returns the colour for v with v clamped onto the map's range.
func (m *linearMap) Clamped(v float64) color.Color {
	t := 0.0
	if m.max > m.min {
		t = math.Max(0, math.Min(1, (v-m.min)/(m.max-m.min)))
	}
	return m.atFraction(t)
}

func (m *linearMap) atFraction(t float64) color.Color {
	segments := len(m.stops) - 1
	if segments == 0 {
		return m.withAlpha(m.stops[0])
	}
	pos := t * float64(segments)
	i := int(math.Floor(pos))
	if i >= segments {
		return m.withAlpha(m.stops[segments])
	}
	frac := pos - float64(i)
	a, b := m.stops[i], m.stops[i+1]
	return m.withAlpha(color.NRGBA{
		R: lerp(a.R, b.R, frac),
		G: lerp(a.G, b.G, frac),
		B: lerp(a.B, b.B, frac),
		A: 255,
	})
}

func (m *linearMap) withAlpha(c color.NRGBA) color.Color {
	c.A = uint8(math.Round(m.alpha * 255))
	return c
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(math.Round(float64(a) + t*(float64(b)-float64(a))))
}

func (m *linearMap) Max() float64 { return m.max }
func (m *linearMap) Min() float64 { return m.min }
func (m *linearMap) SetMax(v float64) { m.max = v }
func (m *linearMap) SetMin(v float64) { m.min = v }
func (m *linearMap) Alpha() float64 { return m.alpha }
func (m *linearMap) SetAlpha(a float64) { m.alpha = math.Max(0, math.Min(1, a)) }

func (m *linearMap) Palette(n int) palette.Palette {
	colors := make(colorList, n)
	for i := range colors {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		colors[i] = m.atFraction(t)
	}
	return colors
}

type colorList []color.Color

func (c colorList) Colors() []color.Color { return c }
