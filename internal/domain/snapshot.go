package domain

import (
	"fmt"
	"slices"
	"time"
)

// Widget sizes.
const (
	TopMunicipalities    = 10
	BottomMunicipalities = 10
	TopDepartments       = 15
)

// Selection is the pair chosen in the two drop-downs.
type Selection struct {
	Department   string
	Municipality string
}

// Snapshot is everything the dashboard renders for one selection.
type Snapshot struct {
	Selection      Selection
	Departments    []string
	Municipalities []string
	Record         Record
	Comparison     Comparison
	Top            []Record
	Bottom         []Record
	Aggregates     []DepartmentAggregate
	TopDepartments []DepartmentAggregate
	Scale          ColorScale
	GeneratedAt    time.Time
}

// Resolve fills in defaults the way a pair of dependent drop-downs behaves:
// an empty department selects the first one, and a municipality that is empty
// or does not belong to the department selects the department's first
// municipality. An unknown department is an error.
func (d *Dataset) Resolve(sel Selection) (Selection, error) {
	if sel.Department == "" {
		sel.Department = d.departments[0]
	}
	munis, err := d.Municipalities(sel.Department)
	if err != nil {
		return Selection{}, err
	}
	if !slices.Contains(munis, sel.Municipality) {
		sel.Municipality = munis[0]
	}
	return sel, nil
}

// Snapshot recomputes every derived value for a selection from scratch.
// percentile caps the map colour scale.
func (d *Dataset) Snapshot(sel Selection, percentile float64) (Snapshot, error) {
	sel, err := d.Resolve(sel)
	if err != nil {
		return Snapshot{}, err
	}

	munis, err := d.Municipalities(sel.Department)
	if err != nil {
		return Snapshot{}, err
	}
	rec, err := d.Lookup(sel.Department, sel.Municipality)
	if err != nil {
		return Snapshot{}, err
	}
	comparison, err := d.Compare(sel.Department, sel.Municipality)
	if err != nil {
		return Snapshot{}, fmt.Errorf("compare rates: %w", err)
	}

	aggs := AggregateByDepartment(d.records)
	return Snapshot{
		Selection:      sel,
		Departments:    d.Departments(),
		Municipalities: munis,
		Record:         rec,
		Comparison:     comparison,
		Top:            TopByHomicides(d.records, TopMunicipalities),
		Bottom:         BottomByHomicides(d.records, BottomMunicipalities),
		Aggregates:     aggs,
		TopDepartments: TopDepartmentsByRate(aggs, TopDepartments),
		Scale:          NewColorScale(d.RegionRates(), percentile),
		GeneratedAt:    clock.Now(),
	}, nil
}
