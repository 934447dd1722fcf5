package embedder

import "context"

// Embedder turns a batch of texts into one vector per text. The same
// model identity must be used for ingestion and queries; distances are
// only meaningful between vectors from one model.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}
