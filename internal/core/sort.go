package core

import (
	"sort"
	"strings"
)

// SortContactsByName returns an alphabetical copy (case-insensitive, phone as
// tie-breaker). The input slice is left untouched.
func SortContactsByName(in []Contact) []Contact {
	out := append([]Contact(nil), in...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := strings.ToLower(out[i].Name), strings.ToLower(out[j].Name)
		if a != b {
			return a < b
		}
		return out[i].Phone < out[j].Phone
	})
	return out
}

// SortFavoritesFirst returns a copy with favorites ahead of the rest, keeping
// the incoming (most-recently-used) order within each group.
func SortFavoritesFirst(in []Contact) []Contact {
	out := append([]Contact(nil), in...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Favorite && !out[j].Favorite
	})
	return out
}
