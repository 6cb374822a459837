package utils

import (
	"sort"
)

func Max(x, y int) int {
	if x < y {
		return y
	}
	return x
}

func Min(x, y int) int {
	if x <= y {
		return x
	}
	return y
}

// Clamp keeps value inside [low, high].
func Clamp(value, low, high int) int {
	if value < low { return low }
	if value > high { return high }
	return value
}

func InsertTo[T any](a []T, index int, value T) []T {
	n := len(a)
	if index < 0 {
		index = (index%n + n) % n
	}
	switch {
	case index == n: // nil or empty slice or after last element
		return append(a, value)

	case index < n: // index < len(a)
		a = append(a[:index+1], a[index:]...)
		a[index] = value
		return a

	case index < cap(a): // index > len(a)
		a = a[:index+1]
		var zero T
		for i := n; i < index; i++ {
			a[i] = zero
		}
		a[index] = value
		return a

	default:
		b := make([]T, index+1) // malloc
		if n > 0 {
			copy(b, a)
		}
		b[index] = value
		return b
	}
}

func Contains[T comparable](slice []T, e T) bool {
	return IndexOf(slice, e) != -1
}

func IndexOf[T comparable](slice []T, e T) int {
	for i, val := range slice {
		if val == e {
			return i
		}
	}
	return -1
}

func Remove[T any](slice []T, s int) []T {
	return append(slice[:s], slice[s+1:]...)
}

func FindAndRemove[T comparable](slice []T, element T) []T {
	index := IndexOf(slice, element)
	if index == -1 { return slice }
	return Remove(slice, index)
}

type Set map[string]struct{}

// Add puts value in the set.
func (this Set) Add(value string) { this[value] = struct{}{} }
func (s Set) Contains(value string) bool {
	_, exists := s[value]
	return exists
}

// SortedKeys returns the keys of any string keyed map in order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m { keys = append(keys, key) }
	sort.Strings(keys)
	return keys
}
