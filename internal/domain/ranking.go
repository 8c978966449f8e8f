package domain

import (
	"cmp"
	"slices"
)

// RankByHomicides returns the rows stably sorted by homicide count,
// highest first. Ties keep file order.
func RankByHomicides(records []Record) []Record {
	ranked := slices.Clone(records)
	slices.SortStableFunc(ranked, func(a, b Record) int {
		return cmp.Compare(b.Homicides, a.Homicides)
	})
	return ranked
}

// TopByHomicides returns the n rows with the most homicides, highest first.
func TopByHomicides(records []Record, n int) []Record {
	ranked := RankByHomicides(records)
	return ranked[:min(n, len(ranked))]
}

// BottomByHomicides returns the last n rows of the descending ranking,
// re-sorted stably in ascending order.
func BottomByHomicides(records []Record, n int) []Record {
	ranked := RankByHomicides(records)
	tail := slices.Clone(ranked[len(ranked)-min(n, len(ranked)):])
	slices.SortStableFunc(tail, func(a, b Record) int {
		return cmp.Compare(a.Homicides, b.Homicides)
	})
	return tail
}
