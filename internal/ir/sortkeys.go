package ir

import "sort"

// sortedKeys returns m's keys in byte-sorted order, used to make map-backed
// state views encode deterministically regardless of iteration order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return sortStrings(keys)
}

func sortStrings(s []string) []string {
	sort.Strings(s)
	return s
}
