package insights

import (
	"cmp"
	"math"
	"slices"
	"time"
)

// RoundedAverage is the mean of values rounded to the nearest integer, halves
// away from zero. An empty input yields 0.
func RoundedAverage(values []int) int {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return int(math.Round(float64(sum) / float64(len(values))))
}

// Percentage is part/whole as a rounded percent clamped to [0, 100]. A zero
// whole yields 0.
func Percentage(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	p := int(math.Round(float64(part) * 100 / float64(whole)))
	return min(max(p, 0), 100)
}

// RecentAverage averages value over the n items with the latest timestamps.
// It also returns how many items were averaged, so callers can tell the 0
// sentinel from a real average.
func RecentAverage[T any](items []T, at func(T) time.Time, value func(T) int, n int) (avg, samples int) {
	if n <= 0 || len(items) == 0 {
		return 0, 0
	}

	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b T) int {
		return cmp.Compare(at(b).UnixNano(), at(a).UnixNano())
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}

	values := make([]int, len(sorted))
	for i, item := range sorted {
		values[i] = value(item)
	}
	return RoundedAverage(values), len(values)
}
