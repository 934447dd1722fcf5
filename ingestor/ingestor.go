package ingestor

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/w-h-a/tutor/chunker"
	"github.com/w-h-a/tutor/store"
)

// Chunk is a contiguous span of one source's normalized text, identified
// by its zero-based position within that source.
type Chunk struct {
	Content    string
	Title      string
	Index      int
	SourceType string
	SourceID   string
}

// BuildChunks assigns contiguous zero-based indexes to chunked pieces.
// Pure function of input order.
func BuildChunks(pieces []string, title string, sourceType string, sourceID string) []Chunk {
	chunks := make([]Chunk, 0, len(pieces))
	for i, piece := range pieces {
		chunks = append(chunks, Chunk{
			Content:    piece,
			Title:      title,
			Index:      i,
			SourceType: sourceType,
			SourceID:   sourceID,
		})
	}
	return chunks
}

// RecordID composes the persisted record id. The format is stable for
// external tooling: "{runId}:{sourceType}:{sourceId}:{index}".
func RecordID(runID string, c Chunk) string {
	return fmt.Sprintf("%s:%s:%s:%d", runID, c.SourceType, c.SourceID, c.Index)
}

// Summary reports one ingested item.
type Summary struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Chunks int    `json:"chunks"`
}

// Result reports one ingestion batch.
type Result struct {
	Ingested    []Summary `json:"ingested"`
	TotalChunks int       `json:"total_chunks"`
}

// Ingestor drives extraction, chunking, embedding, and storage for a
// batch of heterogeneous items. The first failing item aborts the batch;
// items stored before the failure stay stored, and because every stored
// batch gets a fresh run id, re-uploading the failed item never collides
// with the partial success.
type Ingestor struct {
	options Options
}

func New(opts ...Option) *Ingestor {
	options := NewOptions(opts...)

	if options.Embedder == nil || options.Store == nil {
		panic("missing embedder or store for ingestor")
	}

	return &Ingestor{
		options: options,
	}
}

func (ing *Ingestor) Ingest(ctx context.Context, items []Item, opts ...IngestOption) (*Result, error) {
	options := NewIngestOptions(opts...)

	result := &Result{
		Ingested: make([]Summary, 0, len(items)),
	}

	for _, item := range items {
		res, err := item.resolve(ctx, ing)
		if err != nil {
			return nil, fmt.Errorf("ingest failed for %s: %w", item.Title(), err)
		}

		pieces := ing.options.Chunker.Chunk(chunker.Normalize(res.text))
		chunks := BuildChunks(pieces, res.title, res.sourceType, res.sourceID)

		if err := ing.storeChunks(ctx, chunks, options.Conversation); err != nil {
			return nil, fmt.Errorf("ingest failed for %s: %w", res.title, err)
		}

		result.Ingested = append(result.Ingested, Summary{
			Type:   res.sourceType,
			Title:  res.title,
			Chunks: len(chunks),
		})
		result.TotalChunks += len(chunks)
	}

	return result, nil
}

// storeChunks embeds all chunk contents in one batched call and adds all
// records in one call, namespaced under a run id that is fresh per call.
func (ing *Ingestor) storeChunks(ctx context.Context, chunks []Chunk, conversation string) error {
	if len(chunks) == 0 {
		return nil
	}

	contents := make([]string, len(chunks))
	for i, c := range chunks {
		contents[i] = c.Content
	}

	vectors, err := ing.options.Embedder.Embed(ctx, contents)
	if err != nil {
		return fmt.Errorf("%w: embedding: %v", store.ErrFailure, err)
	}

	if len(vectors) != len(chunks) {
		return fmt.Errorf("%w: embedding returned %d vectors for %d chunks", store.ErrFailure, len(vectors), len(chunks))
	}

	runID := uuid.NewString()

	records := make([]store.Record, len(chunks))
	for i, c := range chunks {
		metadata := map[string]any{
			store.MetaTitle:      c.Title,
			store.MetaSourceType: c.SourceType,
			store.MetaSourceID:   c.SourceID,
			store.MetaIndex:      c.Index,
			store.MetaRunID:      runID,
		}
		if len(conversation) > 0 {
			metadata[store.MetaConversation] = conversation
		}

		records[i] = store.Record{
			Id:        RecordID(runID, c),
			Content:   c.Content,
			Metadata:  metadata,
			Embedding: vectors[i],
		}
	}

	if err := ing.options.Store.Add(ctx, records); err != nil {
		return fmt.Errorf("%w: add: %v", store.ErrFailure, err)
	}

	return nil
}
