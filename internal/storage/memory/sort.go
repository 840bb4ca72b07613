package memory

import (
	"sort"
	"time"
)

func sortByTimeAsc[T any](items []T, key func(T) time.Time) {
	sort.SliceStable(items, func(i, j int) bool {
		return key(items[i]).Before(key(items[j]))
	})
}

func sortByTimeDesc[T any](items []T, key func(T) time.Time) {
	sort.SliceStable(items, func(i, j int) bool {
		return key(items[i]).After(key(items[j]))
	})
}
