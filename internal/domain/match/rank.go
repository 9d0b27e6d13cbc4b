package match

import "sort"

// RankedEntry pairs a counterpart entity id with its score inside a
// ranked list.
type RankedEntry struct {
	ID    string `json:"id"`
	Score Score  `json:"score"`
}

// SortRanked orders entries strictly descending by Overall; equal scores
// fall back to ascending id so output is deterministic.
func SortRanked(entries []RankedEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score.Overall != entries[j].Score.Overall {
			return entries[i].Score.Overall > entries[j].Score.Overall
		}
		return entries[i].ID < entries[j].ID
	})
}

// Truncate caps a ranked list at limit, tolerating non-positive limits.
func Truncate(entries []RankedEntry, limit int) []RankedEntry {
	if limit <= 0 || limit >= len(entries) {
		return entries
	}
	return entries[:limit]
}
