package domain

import (
	"math"

	"github.com/twpayne/go-geom"
)

// RatePer is the population base of every homicide rate.
const RatePer = 100000

// Record is one row of the tabular relation.
type Record struct {
	Department   string
	Municipality string
	Homicides    int
	Population   int
	Rate         float64 // precomputed homicides per 100,000 inhabitants; NaN when missing
}

// Region is one feature of the geospatial relation.
type Region struct {
	Department   string
	Municipality string
	Rate         float64 // NaN when the feature carries no rate
	Geometry     *geom.MultiPolygon
}

// HasRate reports whether the region carries a usable rate.
func (r Region) HasRate() bool {
	return !math.IsNaN(r.Rate) && !math.IsInf(r.Rate, 0)
}
