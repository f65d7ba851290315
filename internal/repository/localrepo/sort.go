package localrepo

import (
	"sort"
	"time"
)

// sortByCreatedAtDesc orders newest-first. The sort is stable so records
// created within the same clock tick keep insertion order.
func sortByCreatedAtDesc[T any](items []T, at func(T) time.Time) {
	sort.SliceStable(items, func(i, j int) bool {
		return at(items[i]).After(at(items[j]))
	})
}
