package domain

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Comparison holds the three rates plotted side by side on the dashboard.
type Comparison struct {
	Municipality float64
	Department   float64
	National     float64
}

// MeanRate returns the unweighted mean of the rate column, skipping NaN.
// It returns NaN when no row has a rate.
func MeanRate(records []Record) float64 {
	rates := make([]float64, 0, len(records))
	for _, r := range records {
		if math.IsNaN(r.Rate) {
			continue
		}
		rates = append(rates, r.Rate)
	}
	if len(rates) == 0 {
		return math.NaN()
	}
	return stat.Mean(rates, nil)
}

// Compare derives the municipal, department and national rates for a selection.
// The municipal rate is the stored value of the selected row.
func (d *Dataset) Compare(department, municipality string) (Comparison, error) {
	rec, err := d.Lookup(department, municipality)
	if err != nil {
		return Comparison{}, err
	}
	rows, err := d.DepartmentRecords(department)
	if err != nil {
		return Comparison{}, err
	}
	return Comparison{
		Municipality: rec.Rate,
		Department:   MeanRate(rows),
		National:     MeanRate(d.records),
	}, nil
}
