package utils

import (
	"sort"

	"golang.org/x/exp/constraints"
)

func FindIndex[T comparable](slice []T, item T) int {
	for i, v := range slice {
		if v == item {
			return i
		}
	}
	return -1
}

// SortDescending orders a dice pool from highest to lowest roll in place.
func SortDescending[T constraints.Ordered](pool []T) {
	sort.Slice(pool, func(i, j int) bool {
		return pool[i] > pool[j]
	})
}

// SumHighest adds up the first n values of a descending pool, or all of it when shorter.
func SumHighest[T constraints.Integer](pool []T, n int) T {
	var sum T
	for i := 0; i < n && i < len(pool); i++ {
		sum += pool[i]
	}
	return sum
}
