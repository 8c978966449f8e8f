package render

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"github.com/wcharczuk/go-chart/v2/drawing"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/couchcryptid/homicide-observatory/internal/domain"
)

var (
	missingColor = drawing.ColorFromHex("EEEEEE")
	edgeColor    = drawing.ColorFromHex("222222")
	noteColor    = color.Gray{Y: 128}
)

// Map image geometry.
const (
	mapSize       = 5 * vg.Inch
	mapDPI        = 200
	colorBarWidth = 0.9 * vg.Inch
)

// choropleth paints every region by rate on the purple-green map clamped to
// the scale, with a colour bar on the right. Regions without a rate are
// painted in the missing colour. When rates were clipped by the percentile
// cap, a note in the lower-left corner says how many.
func choropleth(regions []domain.Region, scale domain.ColorScale) ([]byte, error) {
	cmap := newLinearMap(purpleGreenStops)
	cmap.SetMin(scale.Min)
	if vmax := scale.Max; !math.IsNaN(vmax) && vmax > scale.Min {
		cmap.SetMax(vmax)
	} else {
		cmap.SetMax(scale.Min + 1)
	}

	p := plot.New()
	p.HideAxes()
	p.BackgroundColor = color.White

	minX, minY := math.Inf(1), math.Inf(1)
	for _, region := range regions {
		fill := color.Color(missingColor)
		if region.HasRate() {
			fill = cmap.Clamped(region.Rate)
		}

		for i := 0; i < region.Geometry.NumPolygons(); i++ {
			poly, err := polygon(region, i, fill)
			if err != nil {
				return nil, err
			}
			p.Add(poly)
		}

		if b := region.Geometry.Bounds(); !b.IsEmpty() {
			minX = math.Min(minX, b.Min(0))
			minY = math.Min(minY, b.Min(1))
		}
	}

	if scale.Truncated > 0 && !math.IsInf(minX, 0) {
		note, err := plotter.NewLabels(plotter.XYLabels{
			XYs:    []plotter.XY{{X: minX, Y: minY}},
			Labels: []string{TruncationNote(scale)},
		})
		if err != nil {
			return nil, fmt.Errorf("truncation note: %w", err)
		}
		note.TextStyle[0].Font.Size = vg.Points(6)
		note.TextStyle[0].Color = noteColor
		p.Add(note)
	}

	bar := plot.New()
	bar.HideX()
	bar.Y.Label.Text = "Tasa por 100k hab."
	bar.Y.Label.TextStyle.Font.Size = vg.Points(8)
	bar.Y.Tick.Label.Font.Size = vg.Points(7)
	bar.Add(&plotter.ColorBar{ColorMap: cmap, Vertical: true, Colors: 128})

	img := vgimg.NewWith(vgimg.UseWH(mapSize, mapSize), vgimg.UseDPI(mapDPI))
	dc := draw.New(img)
	p.Draw(draw.Crop(dc, 0, -colorBarWidth, 0, 0))
	bar.Draw(draw.Crop(dc, mapSize-colorBarWidth, 0, mapSize/8, -mapSize/8))

	var buf bytes.Buffer
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// TruncationNote is the map annotation shown when the colour scale clips rates.
func TruncationNote(scale domain.ColorScale) string {
	return fmt.Sprintf("Escala truncada al p%g (↑%d)", scale.Percentile, scale.Truncated)
}

// polygon converts the i-th member of a region's multi-polygon into a
// filled plotter polygon; inner rings become holes.
func polygon(region domain.Region, i int, fill color.Color) (*plotter.Polygon, error) {
	src := region.Geometry.Polygon(i)
	rings := make([]plotter.XYer, 0, src.NumLinearRings())
	for j := 0; j < src.NumLinearRings(); j++ {
		coords := src.LinearRing(j).Coords()
		xys := make(plotter.XYs, len(coords))
		for k, c := range coords {
			xys[k] = plotter.XY{X: c.X(), Y: c.Y()}
		}
		rings = append(rings, xys)
	}

	poly, err := plotter.NewPolygon(rings...)
	if err != nil {
		return nil, fmt.Errorf("polygon %s/%s: %w", region.Department, region.Municipality, err)
	}
	poly.Color = fill
	poly.LineStyle.Color = edgeColor
	poly.LineStyle.Width = vg.Points(0.2)
	return poly, nil
}
