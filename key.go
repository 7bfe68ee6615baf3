package bstmap

import (
	"bytes"
	"cmp"
)

// A Key has a sort order relative to other keys of its type.
type Key[K any] interface {
	// Order returns -1 if this key sorts before the argument, 1 if after, and 0 if equal.
	Order(K) int
}

// KeyOrder returns a comparison for keys that implement Key.
func KeyOrder[K Key[K]]() func(a, b K) int {
	return func(a, b K) int {
		return a.Order(b)
	}
}

// BytesOrder compares []byte keys lexicographically.
func BytesOrder(a, b []byte) int {
	return bytes.Compare(a, b)
}

// ReverseOrder inverts the given comparison, for maps kept in descending order.
func ReverseOrder[K any](order func(a, b K) int) func(a, b K) int {
	return func(a, b K) int {
		return order(b, a)
	}
}

func defaultOrder[K cmp.Ordered]() func(a, b K) int {
	return cmp.Compare[K]
}
