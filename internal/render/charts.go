package render

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"gonum.org/v1/plot/palette/brewer"

	"github.com/couchcryptid/homicide-observatory/internal/domain"
)

var comparisonColor = drawing.ColorFromHex("6A1B9A")

// comparisonLevels are the x-axis categories of the comparison line.
var comparisonLevels = []string{"Municipio", "Departamento", "Nacional"}

const comparisonTitle = "Comparación de tasas: municipio, departamento y país"

// comparisonChart draws the municipal, department and national rates as a
// marked line with the value printed above each point.
func comparisonChart(c domain.Comparison) ([]byte, error) {
	raw := []float64{c.Municipality, c.Department, c.National}
	xs := make([]float64, len(raw))
	ys := make([]float64, len(raw))
	ticks := make([]chart.Tick, len(raw))
	annotations := make([]chart.Value2, len(raw))

	yMax := 0.0
	for i, v := range raw {
		xs[i] = float64(i)
		ys[i] = finiteOrZero(v)
		yMax = math.Max(yMax, ys[i])
		ticks[i] = chart.Tick{Value: float64(i), Label: comparisonLevels[i]}
		annotations[i] = chart.Value2{XValue: xs[i], YValue: ys[i], Label: FormatRate(v)}
	}
	if yMax == 0 {
		yMax = 1
	}

	ch := chart.Chart{
		Title:      comparisonTitle,
		TitleStyle: chart.Style{FontSize: 11},
		Width:      800,
		Height:     400,
		Background: chart.Style{Padding: chart.Box{Top: 48, Left: 16, Right: 32, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:  "Nivel",
			Range: &chart.ContinuousRange{Min: -0.25, Max: float64(len(raw)) - 0.75},
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Name:  "Tasa",
			Range: &chart.ContinuousRange{Min: 0, Max: yMax * 1.25},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Tasa",
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: comparisonColor,
					StrokeWidth: 2,
					DotColor:    comparisonColor,
					DotWidth:    5,
				},
			},
			chart.AnnotationSeries{Annotations: annotations},
		},
	}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// topMunicipalitiesChart draws the municipalities with the most homicides as
// a pie, shaded along the OrRd sequential palette in ranking order. When no
// municipality has a homicide the pie is a single grey placeholder slice.
func topMunicipalitiesChart(top []domain.Record) ([]byte, error) {
	shades, err := orRdShades(len(top))
	if err != nil {
		return nil, err
	}

	total := 0
	for _, r := range top {
		total += r.Homicides
	}

	values := make([]chart.Value, 0, len(top))
	if total == 0 {
		values = append(values, chart.Value{
			Label: "Sin homicidios registrados",
			Value: 1,
			Style: chart.Style{FillColor: missingColor, StrokeColor: chart.ColorWhite, FontSize: 8},
		})
	} else {
		for i, r := range top {
			values = append(values, chart.Value{
				Label: fmt.Sprintf("%s (%d)", r.Municipality, r.Homicides),
				Value: float64(r.Homicides),
				Style: chart.Style{
					FillColor:   shades[i],
					StrokeColor: chart.ColorWhite,
					StrokeWidth: 1,
					FontSize:    8,
				},
			})
		}
	}

	pie := chart.PieChart{
		Title:      "Municipios con más homicidios",
		TitleStyle: chart.Style{FontSize: 11},
		Width:      512,
		Height:     512,
		Values:     values,
	}

	var buf bytes.Buffer
	if err := pie.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// orRdShades returns n colours from the OrRd palette, lightest first. The
// palette has at most 9 classes; beyond that the colours repeat.
func orRdShades(n int) ([]drawing.Color, error) {
	const maxClasses = 9
	p, err := brewer.GetPalette(brewer.TypeSequential, "OrRd", maxClasses)
	if err != nil {
		return nil, fmt.Errorf("load OrRd palette: %w", err)
	}
	colors := p.Colors()
	shades := make([]drawing.Color, n)
	for i := range shades {
		shades[i] = toDrawingColor(colors[i%len(colors)])
	}
	return shades, nil
}

func toDrawingColor(c color.Color) drawing.Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return drawing.Color{R: n.R, G: n.G, B: n.B, A: n.A}
}
