package util

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Avg calculates the average of all values in the given array
func Avg(values []float64) float64 {
	if len(values) <= 0 {
		return 0
	}
	sum := 0.0
	for i := 0; i < len(values); i++ {
		sum += values[i]
	}
	return sum / (float64(len(values)))
}

// Coerce returns value limited to [min..max]
func Coerce[T constraints.Ordered](value T, min T, max T) T {
	if value > max {
		return max
	}
	if value < min {
		return min
	}
	return value
}

// ScaleRound maps value from the range [0..from] to [0..to], rounding to the nearest integer
func ScaleRound(value int, from int, to int) int {
	if from == 0 {
		return 0
	}
	return int(math.Round(float64(value) * float64(to) / float64(from)))
}
