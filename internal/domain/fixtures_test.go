package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

const (
	testAntioquia = "Antioquia"
	testValle     = "Valle del Cauca"
	testAmazonas  = "Amazonas"
)

func testRecords() []Record {
	return []Record{
		{Department: testAntioquia, Municipality: "Medellín", Homicides: 380, Population: 2616335, Rate: 14.52},
		{Department: testAntioquia, Municipality: "Rionegro", Homicides: 21, Population: 135465, Rate: 15.5},
		{Department: testAntioquia, Municipality: "Bello", Homicides: 64, Population: 552155, Rate: 11.59},
		{Department: testValle, Municipality: "Cali", Homicides: 980, Population: 2283846, Rate: 42.91},
		{Department: testValle, Municipality: "Buenaventura", Homicides: 118, Population: 324130, Rate: 36.4},
		{Department: testValle, Municipality: "Tuluá", Homicides: 64, Population: 221764, Rate: 28.86},
		{Department: testAmazonas, Municipality: "Leticia", Homicides: 3, Population: 52870, Rate: 5.67},
		{Department: testAmazonas, Municipality: "Puerto Nariño", Homicides: 0, Population: 9020, Rate: 0},
	}
}

func testSquare(t *testing.T, x, y float64) *geom.MultiPolygon {
	t.Helper()
	poly := geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{{
		{x, y}, {x + 1, y}, {x + 1, y + 1}, {x, y + 1}, {x, y},
	}})
	mp := geom.NewMultiPolygon(geom.XY)
	require.NoError(t, mp.Push(poly))
	return mp
}

func testRegions(t *testing.T) []Region {
	t.Helper()
	records := testRecords()
	regions := make([]Region, 0, len(records)+1)
	for i, r := range records {
		regions = append(regions, Region{
			Department:   r.Department,
			Municipality: r.Municipality,
			Rate:         r.Rate,
			Geometry:     testSquare(t, float64(i), 0),
		})
	}
	regions = append(regions, Region{
		Department:   testAmazonas,
		Municipality: "La Pedrera",
		Rate:         math.NaN(),
		Geometry:     testSquare(t, float64(len(records)), 0),
	})
	return regions
}

func testDataset(t *testing.T) *Dataset {
	t.Helper()
	d, err := NewDataset(testRecords(), testRegions(t))
	require.NoError(t, err)
	return d
}
