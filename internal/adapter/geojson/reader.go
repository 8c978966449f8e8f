// Package geojson loads the geospatial homicide relation from a GeoJSON
// FeatureCollection.
package geojson

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/twpayne/go-geom"
	gjson "github.com/twpayne/go-geom/encoding/geojson"

	"github.com/couchcryptid/homicide-observatory/internal/domain"
)

// Feature property names.
const (
	PropDepartment   = "departamento"
	PropMunicipality = "municipio"
	PropRate         = "tasa_homicidios"
)

// Load reads the geospatial relation from path.
func Load(path string) ([]domain.Region, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open geospatial file: %w", err)
	}
	defer f.Close()

	regions, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return regions, nil
}

// Read decodes a FeatureCollection. Polygon geometries are promoted to
// single-member multi-polygons; any other geometry type is an error.
// A missing, null or non-numeric rate property is read as NaN.
func Read(r io.Reader) ([]domain.Region, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read geojson: %w", err)
	}

	var fc gjson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("decode feature collection: %w", err)
	}

	regions := make([]domain.Region, 0, len(fc.Features))
	for i, f := range fc.Features {
		region, err := regionFromFeature(f)
		if err != nil {
			return nil, fmt.Errorf("feature %d: %w", i, err)
		}
		regions = append(regions, region)
	}
	return regions, nil
}

func regionFromFeature(f *gjson.Feature) (domain.Region, error) {
	if f == nil {
		return domain.Region{}, fmt.Errorf("null feature")
	}
	mp, err := toMultiPolygon(f.Geometry)
	if err != nil {
		return domain.Region{}, err
	}
	return domain.Region{
		Department:   stringProp(f.Properties, PropDepartment),
		Municipality: stringProp(f.Properties, PropMunicipality),
		Rate:         rateProp(f.Properties),
		Geometry:     mp,
	}, nil
}

func toMultiPolygon(g geom.T) (*geom.MultiPolygon, error) {
	switch g := g.(type) {
	case *geom.MultiPolygon:
		return g, nil
	case *geom.Polygon:
		mp := geom.NewMultiPolygon(g.Layout())
		if err := mp.Push(g); err != nil {
			return nil, fmt.Errorf("promote polygon: %w", err)
		}
		return mp, nil
	case nil:
		return nil, fmt.Errorf("missing geometry")
	default:
		return nil, fmt.Errorf("unsupported geometry %T", g)
	}
}

func stringProp(props map[string]interface{}, key string) string {
	s, _ := props[key].(string)
	return strings.TrimSpace(s)
}

func rateProp(props map[string]interface{}) float64 {
	switch v := props[PropRate].(type) {
	case float64:
		return v
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f
		}
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
	}
	return math.NaN()
}
