package render

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"strconv"

	"github.com/wcharczuk/go-chart/v2/drawing"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/couchcryptid/homicide-observatory/internal/domain"
)

var bottomColor = drawing.ColorFromHex("2E7D32")

// hbar is one bar of a horizontal bar chart.
type hbar struct {
	label string
	value float64
	text  string
	color color.Color
}

// bottomMunicipalitiesChart draws the municipalities with the fewest homicides
// as horizontal bars, ascending from the top of the list.
func bottomMunicipalitiesChart(bottom []domain.Record) ([]byte, error) {
	bars := make([]hbar, len(bottom))
	for i, r := range bottom {
		bars[i] = hbar{
			label: r.Municipality,
			value: float64(r.Homicides),
			text:  strconv.Itoa(r.Homicides),
			color: bottomColor,
		}
	}
	return horizontalBars("Municipios con menos homicidios", "homicidios", bars)
}

// departmentsChart draws the departments with the highest aggregate rate,
// coloured along Viridis by rate.
func departmentsChart(top []domain.DepartmentAggregate) ([]byte, error) {
	cmap := newLinearMap(viridisStops)
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, d := range top {
		if math.IsNaN(d.Rate) {
			continue
		}
		lo = math.Min(lo, d.Rate)
		hi = math.Max(hi, d.Rate)
	}
	if !math.IsInf(lo, 0) {
		cmap.SetMin(lo)
		cmap.SetMax(hi)
	}

	bars := make([]hbar, len(top))
	for i, d := range top {
		bars[i] = hbar{
			label: d.Department,
			value: finiteOrZero(d.Rate),
			text:  FormatRate(d.Rate),
			color: cmap.Clamped(finiteOrZero(d.Rate)),
		}
	}
	return horizontalBars(
		fmt.Sprintf("Departamentos con mayor tasa de homicidios (Top %d)", domain.TopDepartments),
		"tasa por 100.000 hab.",
		bars,
	)
}

// horizontalBars renders one bar per category, the first category at the
// bottom of the y axis, with its value text just past the bar end.
func horizontalBars(title, xLabel string, bars []hbar) ([]byte, error) {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(11)
	p.X.Label.Text = xLabel
	p.X.Min = 0

	labels := make([]string, len(bars))
	xys := make(plotter.XYs, len(bars))
	texts := make([]string, len(bars))
	maxValue := 0.0

	for i, b := range bars {
		bc, err := plotter.NewBarChart(plotter.Values{b.value}, vg.Points(14))
		if err != nil {
			return nil, fmt.Errorf("bar %q: %w", b.label, err)
		}
		bc.Horizontal = true
		bc.XMin = float64(i)
		bc.Color = b.color
		bc.LineStyle.Width = 0
		p.Add(bc)

		labels[i] = b.label
		xys[i] = plotter.XY{X: b.value, Y: float64(i)}
		texts[i] = b.text
		maxValue = math.Max(maxValue, b.value)
	}

	if len(bars) > 0 {
		valueLabels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: texts})
		if err != nil {
			return nil, fmt.Errorf("value labels: %w", err)
		}
		for i := range valueLabels.TextStyle {
			valueLabels.TextStyle[i].Font.Size = vg.Points(7)
		}
		valueLabels.Offset = vg.Point{X: vg.Points(3), Y: -vg.Points(3)}
		p.Add(valueLabels)
		p.NominalY(labels...)
	}

	if maxValue == 0 {
		maxValue = 1
	}
	p.X.Max = maxValue * 1.15

	wt, err := p.WriterTo(6*vg.Inch, 4*vg.Inch, "png")
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
