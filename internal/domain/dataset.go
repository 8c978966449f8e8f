package domain

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrEmptyDataset is returned when a relation has no rows.
	ErrEmptyDataset = errors.New("dataset is empty")
	// ErrUnknownDepartment is returned when a department has no rows.
	ErrUnknownDepartment = errors.New("unknown department")
	// ErrUnknownMunicipality is returned when a (department, municipality) pair has no row.
	ErrUnknownMunicipality = errors.New("unknown municipality")
)

// Dataset holds both input relations. It is immutable after construction
// and safe for concurrent use.
type Dataset struct {
	records     []Record
	regions     []Region
	departments []string
	byDept      map[string][]Record
}

// NewDataset indexes the two relations. Both must be non-empty.
func NewDataset(records []Record, regions []Region) (*Dataset, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("tabular relation: %w", ErrEmptyDataset)
	}
	if len(regions) == 0 {
		return nil, fmt.Errorf("geospatial relation: %w", ErrEmptyDataset)
	}

	d := &Dataset{
		records: slices.Clone(records),
		regions: slices.Clone(regions),
		byDept:  make(map[string][]Record),
	}
	for _, r := range d.records {
		if _, ok := d.byDept[r.Department]; !ok {
			d.departments = append(d.departments, r.Department)
		}
		d.byDept[r.Department] = append(d.byDept[r.Department], r)
	}
	slices.Sort(d.departments)
	return d, nil
}

// Records returns a copy of the tabular relation in file order.
func (d *Dataset) Records() []Record {
	return slices.Clone(d.records)
}

// Regions returns a copy of the geospatial relation in file order.
func (d *Dataset) Regions() []Region {
	return slices.Clone(d.regions)
}

// RegionRates returns the rate column of the geospatial relation, NaN included.
func (d *Dataset) RegionRates() []float64 {
	rates := make([]float64, len(d.regions))
	for i, r := range d.regions {
		rates[i] = r.Rate
	}
	return rates
}

// Departments returns the sorted distinct department names.
func (d *Dataset) Departments() []string {
	return slices.Clone(d.departments)
}

// DepartmentRecords returns the rows of one department in file order.
func (d *Dataset) DepartmentRecords(department string) ([]Record, error) {
	rows, ok := d.byDept[department]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDepartment, department)
	}
	return slices.Clone(rows), nil
}

// Municipalities returns the sorted distinct municipality names of a department.
func (d *Dataset) Municipalities(department string) ([]string, error) {
	rows, ok := d.byDept[department]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDepartment, department)
	}

	seen := make(map[string]struct{}, len(rows))
	names := make([]string, 0, len(rows))
	for _, r := range rows {
		if _, dup := seen[r.Municipality]; dup {
			continue
		}
		seen[r.Municipality] = struct{}{}
		names = append(names, r.Municipality)
	}
	slices.Sort(names)
	return names, nil
}

// Lookup returns the row for a (department, municipality) pair. When the
// pair is duplicated the first row in file order wins.
func (d *Dataset) Lookup(department, municipality string) (Record, error) {
	rows, ok := d.byDept[department]
	if !ok {
		return Record{}, fmt.Errorf("%w: %q", ErrUnknownDepartment, department)
	}
	for _, r := range rows {
		if r.Municipality == municipality {
			return r, nil
		}
	}
	return Record{}, fmt.Errorf("%w: %q in %q", ErrUnknownMunicipality, municipality, department)
}
