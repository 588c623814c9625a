// Package util contains small generic helpers shared across the normalizer,
// the interactive shell, and the server.
package util

import (
	"sort"
)

// OrderedKeys returns the keys of m, ordered a particular way. The order is
// guaranteed to be the same on every run.
//
// As of this writing, the order is alphabetical, but this function does not
// guarantee this will always be the case.
func OrderedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))

	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

// InSlice returns whether s is in the given slice.
func InSlice[E comparable](s E, sl []E) bool {
	for i := range sl {
		if sl[i] == s {
			return true
		}
	}
	return false
}

// SortBy returns a copy of items sorted with the given less function.
func SortBy[E any](items []E, less func(left, right E) bool) []E {
	sorted := make([]E, len(items))
	copy(sorted, items)

	sort.SliceStable(sorted, func(i, j int) bool {
		return less(sorted[i], sorted[j])
	})

	return sorted
}
