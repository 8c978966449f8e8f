package domain

import (
	"math"
	"slices"
)

// DefaultPercentile caps the choropleth colour scale.
const DefaultPercentile = 98.0

// ColorScale is the value range of the choropleth colour map.
type ColorScale struct {
	Min        float64
	Max        float64 // the Percentile-th percentile of all rates; NaN when no rate is known
	Percentile float64
	Truncated  int // rates strictly above Max
}

// NewColorScale builds a scale from 0 to the p-th percentile of values and
// counts the values above the cap. NaN values are ignored.
func NewColorScale(values []float64, p float64) ColorScale {
	vmax := Percentile(values, p)
	s := ColorScale{Min: 0, Max: vmax, Percentile: p}
	if math.IsNaN(vmax) {
		return s
	}
	for _, v := range values {
		if v > vmax {
			s.Truncated++
		}
	}
	return s
}

// Percentile returns the p-th percentile (0-100) of values, ignoring NaN,
// interpolating linearly between the closest ranks at position p/100*(n-1).
// It returns NaN when no value is left.
func Percentile(values []float64, p float64) float64 {
	sorted := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			sorted = append(sorted, v)
		}
	}
	if len(sorted) == 0 {
		return math.NaN()
	}
	slices.Sort(sorted)

	p = math.Max(0, math.Min(100, p))
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}
