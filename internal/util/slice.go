package util

import (
	"golang.org/x/exp/constraints"
)

// Max returns the largest element of s, or the zero value if s is empty
func Max[T constraints.Ordered](s []T) T {
	var result T
	for i, v := range s {
		if i == 0 || v > result {
			result = v
		}
	}
	return result
}
