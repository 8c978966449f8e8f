// Package render turns dashboard snapshots into PNG charts, the choropleth
// map image and the spreadsheet export.
package render

import (
	"fmt"
	"math"

	"github.com/couchcryptid/homicide-observatory/internal/domain"
)

// Chart names a dashboard image.
type Chart string

// Charts served by the dashboard.
const (
	ChartComparison  Chart = "comparison"
	ChartTop         Chart = "top"
	ChartBottom      Chart = "bottom"
	ChartDepartments Chart = "departments"
	ChartMap         Chart = "map"
)

// Charts lists every chart in page order.
var Charts = []Chart{ChartComparison, ChartTop, ChartBottom, ChartDepartments, ChartMap}

// ParseChart validates a chart name.
func ParseChart(s string) (Chart, bool) {
	for _, c := range Charts {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// DependsOnSelection reports whether the chart changes with the drop-downs.
// Only the comparison line does; the rankings, the department chart and the
// map are national.
func (c Chart) DependsOnSelection() bool {
	return c == ChartComparison
}

// ChartRenderer renders one chart for a snapshot.
type ChartRenderer interface {
	Render(chart Chart, snap domain.Snapshot) ([]byte, error)
}

// Renderer implements ChartRenderer. It holds the geospatial relation the
// map is drawn from.
type Renderer struct {
	regions []domain.Region
}

// NewRenderer creates a Renderer for the given map regions.
func NewRenderer(regions []domain.Region) *Renderer {
	return &Renderer{regions: regions}
}

// Render produces the PNG bytes for chart.
func (r *Renderer) Render(chart Chart, snap domain.Snapshot) ([]byte, error) {
	var (
		img []byte
		err error
	)
	switch chart {
	case ChartComparison:
		img, err = comparisonChart(snap.Comparison)
	case ChartTop:
		img, err = topMunicipalitiesChart(snap.Top)
	case ChartBottom:
		img, err = bottomMunicipalitiesChart(snap.Bottom)
	case ChartDepartments:
		img, err = departmentsChart(snap.TopDepartments)
	case ChartMap:
		img, err = choropleth(r.regions, snap.Scale)
	default:
		return nil, fmt.Errorf("unknown chart %q", chart)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", chart, err)
	}
	return img, nil
}

// FormatRate prints a rate with two decimals, or "s/d" (sin datos) for NaN.
func FormatRate(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "s/d"
	}
	return fmt.Sprintf("%.2f", v)
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
