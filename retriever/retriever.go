package retriever

import (
	"context"
	"fmt"

	"github.com/w-h-a/tutor/store"
	getsafe "github.com/w-h-a/tutor/util/get_safe"
)

// Hit is one supporting passage, ordered by ascending cosine distance.
type Hit struct {
	ID         string
	Content    string
	Title      string
	SourceType string
	SourceID   string
	Index      int
	Distance   float64
}

// Citation is the reference surfaced to the answer generator per hit.
type Citation struct {
	Title      string `json:"title"`
	DocumentID string `json:"documentId"`
	ChunkIndex int    `json:"chunkIndex"`
}

func (h Hit) Citation() Citation {
	return Citation{
		Title:      h.Title,
		DocumentID: h.SourceID,
		ChunkIndex: h.Index,
	}
}

// Result carries the ranked hits plus the two facts the caller needs to
// decide whether answering from outside the retrieved context is
// permitted: whether the store held anything at call time, and (via
// len(Hits)) whether retrieval came back empty. The coordinator never
// fabricates hits.
type Result struct {
	Hits       []Hit
	StoreEmpty bool
}

// Retriever embeds a question, runs scoped vector searches, and merges
// the results into one deduplicated ranking.
type Retriever struct {
	options Options
}

func New(opts ...Option) *Retriever {
	options := NewOptions(opts...)

	if options.Embedder == nil || options.Store == nil {
		panic("missing embedder or store for retriever")
	}

	return &Retriever{
		options: options,
	}
}

func (r *Retriever) Retrieve(ctx context.Context, question string, opts ...RetrieveOption) (*Result, error) {
	options := NewRetrieveOptions(opts...)

	topK := options.TopK
	if topK <= 0 {
		topK = r.options.TopK
	}

	result := &Result{}

	if count, err := r.options.Store.Count(ctx); err == nil && count == 0 {
		result.StoreEmpty = true
	}

	vectors, err := r.options.Embedder.Embed(ctx, []string{question})
	if err != nil || len(vectors) != 1 {
		return nil, fmt.Errorf("%w: embedding question: %v", store.ErrFailure, err)
	}
	vector := vectors[0]

	candidates, err := r.search(ctx, vector, topK, options.Scope)
	if err != nil {
		return nil, err
	}

	for _, cand := range MergeBest(candidates, topK) {
		result.Hits = append(result.Hits, toHit(cand))
	}

	return result, nil
}

// search fans out per scope. A scoped query that errors inside a
// multi-scope fan-out counts as zero hits; a failing single-scope query
// is retried once unscoped before giving up.
func (r *Retriever) search(ctx context.Context, vector []float32, topK int, scope []string) ([][]store.Candidate, error) {
	switch len(scope) {
	case 0:
		cands, err := r.options.Store.Query(ctx, vector, topK)
		if err != nil {
			return nil, fmt.Errorf("%w: query: %v", store.ErrFailure, err)
		}
		return [][]store.Candidate{cands}, nil

	case 1:
		cands, err := r.options.Store.Query(ctx, vector, topK, store.WithConversation(scope[0]))
		if err != nil {
			cands, err = r.options.Store.Query(ctx, vector, topK)
			if err != nil {
				return nil, fmt.Errorf("%w: query: %v", store.ErrFailure, err)
			}
		}
		return [][]store.Candidate{cands}, nil

	default:
		groups := make([][]store.Candidate, 0, len(scope))
		for _, id := range scope {
			cands, err := r.options.Store.Query(ctx, vector, topK, store.WithConversation(id))
			if err != nil {
				continue
			}
			groups = append(groups, cands)
		}
		return groups, nil
	}
}

func toHit(cand store.Candidate) Hit {
	return Hit{
		ID:         cand.Id,
		Content:    cand.Content,
		Title:      getsafe.String(cand.Metadata, store.MetaTitle),
		SourceType: getsafe.String(cand.Metadata, store.MetaSourceType),
		SourceID:   getsafe.String(cand.Metadata, store.MetaSourceID),
		Index:      getsafe.Int(cand.Metadata, store.MetaIndex),
		Distance:   cand.Distance,
	}
}
