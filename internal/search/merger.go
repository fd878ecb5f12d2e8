// Package search combines ranked store queries into de-duplicated
// result bundles.
package search

// MergeRanked flattens already-ranked lists into one, preserving the
// relative order of earlier lists and skipping any item whose ID was
// already seen. No re-ranking happens; the first list wins ties.
func MergeRanked[T any](id func(T) string, lists ...[]T) []T {
	seen := make(map[string]struct{})
	var out []T
	for _, list := range lists {
		for _, item := range list {
			key := id(item)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, item)
		}
	}
	return out
}
