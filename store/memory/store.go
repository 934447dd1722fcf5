package memory

import (
	"context"
	"maps"
	"sort"
	"sync"

	"github.com/w-h-a/tutor/store"
	getsafe "github.com/w-h-a/tutor/util/get_safe"
)

type memoryStore struct {
	options store.Options
	records map[string]store.Record
	mtx     sync.RWMutex
}

func (s *memoryStore) Add(ctx context.Context, records []store.Record) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	for _, rec := range records {
		cpy := rec

		cpy.Embedding = make([]float32, len(rec.Embedding))
		copy(cpy.Embedding, rec.Embedding)

		cpy.Metadata = make(map[string]any, len(rec.Metadata))
		maps.Copy(cpy.Metadata, rec.Metadata)

		s.records[cpy.Id] = cpy
	}

	return nil
}

func (s *memoryStore) Query(ctx context.Context, vector []float32, k int, opts ...store.QueryOption) ([]store.Candidate, error) {
	if k < 1 {
		return nil, nil
	}

	options := store.NewQueryOptions(opts...)

	s.mtx.RLock()
	defer s.mtx.RUnlock()

	candidates := make([]store.Candidate, 0, len(s.records))

	for _, rec := range s.records {
		if len(options.Conversation) > 0 && getsafe.String(rec.Metadata, store.MetaConversation) != options.Conversation {
			continue
		}
		candidates = append(candidates, store.Candidate{
			Record:   rec,
			Distance: store.CosineDistance(vector, rec.Embedding),
		})
	}

	// map iteration order is random, so ties break on id to keep results
	// reproducible across calls
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Distance != candidates[j].Distance {
			return candidates[i].Distance < candidates[j].Distance
		}
		return candidates[i].Id < candidates[j].Id
	})

	if len(candidates) > k {
		candidates = candidates[:k]
	}

	return candidates, nil
}

func (s *memoryStore) Count(ctx context.Context) (int, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	return len(s.records), nil
}

func NewStore(opts ...store.Option) store.Store {
	options := store.NewOptions(opts...)

	s := &memoryStore{
		options: options,
		records: map[string]store.Record{},
		mtx:     sync.RWMutex{},
	}

	return s
}
