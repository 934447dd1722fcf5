package retriever

import (
	"sort"

	"github.com/w-h-a/tutor/store"
)

// MergeBest reduces per-scope result groups into one ranking: duplicate
// record ids keep the entry with the smaller distance, the merged set is
// sorted ascending by distance, and the ranking is truncated to k.
// The sort is stable over first-seen order so equal distances reproduce.
func MergeBest(groups [][]store.Candidate, k int) []store.Candidate {
	bestIdx := map[string]int{}
	merged := make([]store.Candidate, 0)

	for _, group := range groups {
		for _, cand := range group {
			at, seen := bestIdx[cand.Id]
			if !seen {
				bestIdx[cand.Id] = len(merged)
				merged = append(merged, cand)
				continue
			}
			if cand.Distance < merged[at].Distance {
				merged[at] = cand
			}
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Distance < merged[j].Distance
	})

	if k > 0 && len(merged) > k {
		merged = merged[:k]
	}

	return merged
}
