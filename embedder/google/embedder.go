package google

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"github.com/w-h-a/tutor/embedder"
	genaiopt "google.golang.org/api/option"
)

type googleEmbedder struct {
	options embedder.Options
	client  *genai.Client
}

func (e *googleEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	model := e.client.EmbeddingModel(e.options.Model)

	vectors := make([][]float32, 0, len(texts))

	for start := 0; start < len(texts); start += e.options.BatchSize {
		end := min(start+e.options.BatchSize, len(texts))

		batch := model.NewBatch()
		for _, text := range texts[start:end] {
			batch = batch.AddContent(genai.Text(text))
		}

		rsp, err := model.BatchEmbedContents(ctx, batch)
		if err != nil {
			return nil, err
		}

		if rsp == nil || len(rsp.Embeddings) != end-start {
			return nil, errors.New("no response from Google")
		}

		for i, emb := range rsp.Embeddings {
			if emb == nil || len(emb.Values) == 0 {
				return nil, fmt.Errorf("empty embedding from Google at index %d", start+i)
			}
			vectors = append(vectors, emb.Values)
		}
	}

	return vectors, nil
}

func NewEmbedder(opts ...embedder.Option) embedder.Embedder {
	options := embedder.NewOptions(opts...)

	e := &googleEmbedder{
		options: options,
	}

	client, err := genai.NewClient(
		context.Background(),
		genaiopt.WithAPIKey(options.ApiKey),
	)
	if err != nil {
		panic(err)
	}

	e.client = client

	return e
}
