// Command genmock writes a synthetic tabular + geospatial dataset pair for
// local runs and tests. The files are read back through the same loaders the
// dashboard uses, and the derived figures are printed for updating test
// assertions.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -csv-out data/homicidios_2024.csv \
//	  -geo-out data/municipios_2024.geojson \
//	  -seed 2024
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/twpayne/go-geom"
	gjson "github.com/twpayne/go-geom/encoding/geojson"

	"github.com/couchcryptid/homicide-observatory/internal/adapter/csvfile"
	"github.com/couchcryptid/homicide-observatory/internal/adapter/geojson"
	"github.com/couchcryptid/homicide-observatory/internal/domain"
)

// departments maps a department to the municipalities generated for it.
var departments = []struct {
	name           string
	municipalities []string
}{
	{"Antioquia", []string{"Medellín", "Bello", "Itagüí", "Envigado", "Rionegro", "Apartadó", "Turbo", "Caucasia"}},
	{"Valle del Cauca", []string{"Cali", "Buenaventura", "Palmira", "Tuluá", "Cartago", "Jamundí", "Buga"}},
	{"Cundinamarca", []string{"Soacha", "Fusagasugá", "Facatativá", "Zipaquirá", "Chía", "Girardot"}},
	{"Bogotá, D.C.", []string{"Bogotá, D.C."}},
	{"Atlántico", []string{"Barranquilla", "Soledad", "Malambo", "Sabanalarga"}},
	{"Cauca", []string{"Popayán", "Santander de Quilichao", "El Tambo", "Argelia", "Guapi"}},
	{"Nariño", []string{"Pasto", "Tumaco", "Ipiales", "Barbacoas"}},
	{"Norte de Santander", []string{"Cúcuta", "Ocaña", "Tibú", "Villa del Rosario"}},
	{"Bolívar", []string{"Cartagena de Indias", "Magangué", "El Carmen de Bolívar"}},
	{"Santander", []string{"Bucaramanga", "Floridablanca", "Girón", "Barrancabermeja"}},
	{"Meta", []string{"Villavicencio", "Acacías", "Granada"}},
	{"Córdoba", []string{"Montería", "Lorica", "Tierralta"}},
	{"Caquetá", []string{"Florencia", "San Vicente del Caguán"}},
	{"Putumayo", []string{"Mocoa", "Puerto Asís", "Orito"}},
	{"Chocó", []string{"Quibdó", "Istmina", "Riosucio"}},
	{"Amazonas", []string{"Leticia", "Puerto Nariño", "La Pedrera"}},
	{"Vaupés", []string{"Mitú", "Carurú"}},
}

// Grid layout: one row per department, one cell per municipality.
const (
	originLon = -79.0
	originLat = -4.0
	cellSize  = 0.6
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	csvOut := flag.String("csv-out", "data/homicidios_2024.csv", "output path for the tabular CSV")
	geoOut := flag.String("geo-out", "data/municipios_2024.geojson", "output path for the geospatial GeoJSON")
	seed := flag.Uint64("seed", 2024, "random seed")
	missing := flag.Float64("missing", 0.05, "fraction of map features written without a rate")
	flag.Parse()

	if *missing < 0 || *missing > 1 {
		return fmt.Errorf("-missing must be in [0, 1], got %g", *missing)
	}

	rng := rand.New(rand.NewPCG(*seed, *seed^0x9e3779b97f4a7c15))
	records, features := generate(rng, *missing)

	if err := writeCSV(*csvOut, records); err != nil {
		return fmt.Errorf("writing tabular file: %w", err)
	}
	log.Printf("wrote %d records: %s", len(records), *csvOut)

	if err := writeGeoJSON(*geoOut, features); err != nil {
		return fmt.Errorf("writing geospatial file: %w", err)
	}
	log.Printf("wrote %d features: %s", len(features), *geoOut)

	return printStats(*csvOut, *geoOut)
}

func generate(rng *rand.Rand, missing float64) ([]domain.Record, []*gjson.Feature) {
	var records []domain.Record   //nolint:prealloc // size depends on the department table
	var features []*gjson.Feature //nolint:prealloc // size depends on the department table

	for row, dept := range departments {
		// Each department gets its own violence level so the aggregate chart
		// has a spread.
		baseRate := 5 + rng.Float64()*45
		for col, muni := range dept.municipalities {
			population := 5000 + rng.IntN(400000)
			if col == 0 {
				population *= 4
			}
			rate := math.Max(0, baseRate*(0.4+rng.Float64()*1.4))
			if rng.Float64() < 0.03 {
				rate *= 4 // a few outliers above the map's percentile cap
			}
			homicides := int(math.Round(rate * float64(population) / domain.RatePer))
			stored := math.Round(float64(homicides)/float64(population)*domain.RatePer*100) / 100

			records = append(records, domain.Record{
				Department:   dept.name,
				Municipality: muni,
				Homicides:    homicides,
				Population:   population,
				Rate:         stored,
			})

			props := map[string]interface{}{
				"departamento":    dept.name,
				"municipio":       muni,
				"tasa_homicidios": stored,
			}
			if rng.Float64() < missing {
				props["tasa_homicidios"] = nil
			}
			features = append(features, &gjson.Feature{
				ID:         strconv.Itoa(len(features) + 1),
				Geometry:   cell(row, col),
				Properties: props,
			})
		}
	}
	return records, features
}

// cell returns the square for grid position (row, col) with a small inset so
// neighbouring municipalities show their edges.
func cell(row, col int) *geom.Polygon {
	const inset = 0.02
	x0 := originLon + float64(col)*cellSize + inset
	y0 := originLat + float64(row)*cellSize + inset
	x1 := x0 + cellSize - 2*inset
	y1 := y0 + cellSize - 2*inset
	return geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{{
		{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}, {x0, y0},
	}})
}

func writeCSV(path string, records []domain.Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"departamento", "municipio", "homicidios", "poblacion", "tasa_homicidios"}); err != nil {
		return err
	}
	for _, r := range records {
		if err := w.Write([]string{
			r.Department,
			r.Municipality,
			strconv.Itoa(r.Homicides),
			strconv.Itoa(r.Population),
			strconv.FormatFloat(r.Rate, 'f', 2, 64),
		}); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

func writeGeoJSON(path string, features []*gjson.Feature) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.Marshal(&gjson.FeatureCollection{Features: features})
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

// printStats loads the written files back through the dashboard loaders and
// prints the figures the tests and the page depend on.
func printStats(csvPath, geoPath string) error {
	records, err := csvfile.Load(csvPath)
	if err != nil {
		return fmt.Errorf("reload tabular file: %w", err)
	}
	regions, err := geojson.Load(geoPath)
	if err != nil {
		return fmt.Errorf("reload geospatial file: %w", err)
	}
	data, err := domain.NewDataset(records, regions)
	if err != nil {
		return err
	}

	// Set a fixed clock for a reproducible snapshot.
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC)))
	defer domain.SetClock(nil)

	snap, err := data.Snapshot(domain.Selection{}, domain.DefaultPercentile)
	if err != nil {
		return err
	}

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Records: %d, regions: %d, departments: %d\n", len(records), len(regions), len(snap.Departments))
	fmt.Printf("Default selection: %s / %s (rate %.2f)\n",
		snap.Selection.Department, snap.Selection.Municipality, snap.Record.Rate)
	fmt.Printf("National mean rate: %.2f\n", snap.Comparison.National)
	fmt.Printf("Map scale: p%g = %.2f, truncated %d\n", snap.Scale.Percentile, snap.Scale.Max, snap.Scale.Truncated)

	fmt.Println("\nTop municipalities by homicides:")
	for i, r := range snap.Top {
		fmt.Printf("  %2d. %s (%s): %d\n", i+1, r.Municipality, r.Department, r.Homicides)
	}
	fmt.Println("\nTop departments by rate:")
	for i, a := range snap.TopDepartments {
		fmt.Printf("  %2d. %s: %.2f\n", i+1, a.Department, a.Rate)
	}
	return nil
}
