package retriever

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/w-h-a/tutor/store"
)

func cand(id string, distance float64) store.Candidate {
	return store.Candidate{
		Record:   store.Record{Id: id, Content: "content of " + id},
		Distance: distance,
	}
}

func ids(cands []store.Candidate) []string {
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.Id
	}
	return out
}

func TestMergeBestSortsAscending(t *testing.T) {
	merged := MergeBest([][]store.Candidate{
		{cand("a", 0.7), cand("b", 0.1)},
		{cand("c", 0.4)},
	}, 10)

	assert.Equal(t, []string{"b", "c", "a"}, ids(merged))
}

func TestMergeBestKeepsSmallerDistanceForDuplicates(t *testing.T) {
	merged := MergeBest([][]store.Candidate{
		{cand("a", 0.8), cand("b", 0.3)},
		{cand("a", 0.2)},
	}, 10)

	require.Equal(t, []string{"a", "b"}, ids(merged))
	assert.Equal(t, 0.2, merged[0].Distance)
}

func TestMergeBestTruncatesToK(t *testing.T) {
	merged := MergeBest([][]store.Candidate{
		{cand("a", 0.1), cand("b", 0.2), cand("c", 0.3), cand("d", 0.4)},
	}, 2)

	assert.Equal(t, []string{"a", "b"}, ids(merged))
}

func TestMergeBestStableOnEqualDistances(t *testing.T) {
	merged := MergeBest([][]store.Candidate{
		{cand("a", 0.5), cand("b", 0.5)},
		{cand("c", 0.5)},
	}, 10)

	// ties keep first-seen order
	assert.Equal(t, []string{"a", "b", "c"}, ids(merged))
}

func TestMergeBestEmptyGroups(t *testing.T) {
	assert.Empty(t, MergeBest(nil, 5))
	assert.Empty(t, MergeBest([][]store.Candidate{{}, {}}, 5))
}
