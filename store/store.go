package store

import (
	"context"
	"errors"
	"math"
)

// ErrFailure marks an embedding or persistence call that did not complete.
// Callers wrap it with the failing item's title or source id.
var ErrFailure = errors.New("store failure")

// Store is a narrow contract over a vector index. Query ranks candidates
// by cosine distance, lower = more similar. The filter, when set, is an
// exact match on the conversation id a record was ingested under.
type Store interface {
	Add(ctx context.Context, records []Record) error
	Query(ctx context.Context, vector []float32, k int, opts ...QueryOption) ([]Candidate, error)
	Count(ctx context.Context) (int, error)
}

// CosineDistance is 1 minus the cosine similarity of a and b, in [0, 2].
// Mismatched or empty vectors are maximally distant.
func CosineDistance(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 2.0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 2.0
	}

	return 1.0 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
