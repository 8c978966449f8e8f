package domain

import (
	"cmp"
	"math"
	"slices"
)

// DepartmentAggregate is the department-level roll-up of the tabular relation.
type DepartmentAggregate struct {
	Department string
	Homicides  int
	Population int
	Rate       float64 // recomputed from the sums, rounded to two decimals; NaN when population is 0
}

// AggregateByDepartment sums homicides and population per department and
// recomputes the rate from the sums. Results are ordered by department name.
func AggregateByDepartment(records []Record) []DepartmentAggregate {
	index := make(map[string]int)
	var aggs []DepartmentAggregate
	for _, r := range records {
		i, ok := index[r.Department]
		if !ok {
			i = len(aggs)
			index[r.Department] = i
			aggs = append(aggs, DepartmentAggregate{Department: r.Department})
		}
		aggs[i].Homicides += r.Homicides
		aggs[i].Population += r.Population
	}

	for i := range aggs {
		aggs[i].Rate = aggregateRate(aggs[i].Homicides, aggs[i].Population)
	}
	slices.SortFunc(aggs, func(a, b DepartmentAggregate) int {
		return cmp.Compare(a.Department, b.Department)
	})
	return aggs
}

// TopDepartmentsByRate returns the n aggregates with the highest rate,
// stably sorted descending. NaN rates sort last.
func TopDepartmentsByRate(aggs []DepartmentAggregate, n int) []DepartmentAggregate {
	ranked := slices.Clone(aggs)
	slices.SortStableFunc(ranked, func(a, b DepartmentAggregate) int {
		return compareRateDesc(a.Rate, b.Rate)
	})
	return ranked[:min(n, len(ranked))]
}

func aggregateRate(homicides, population int) float64 {
	if population == 0 {
		return math.NaN()
	}
	return round2(float64(homicides) / float64(population) * RatePer)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func compareRateDesc(a, b float64) int {
	aNaN, bNaN := math.IsNaN(a), math.IsNaN(b)
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return 1
	case bNaN:
		return -1
	case a > b:
		return -1
	case a < b:
		return 1
	default:
		return 0
	}
}
