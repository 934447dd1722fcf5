package tutor

import (
	"context"
	"errors"
	"strings"

	"github.com/w-h-a/tutor/ingestor"
	"github.com/w-h-a/tutor/retriever"
)

// Answer is a generated response grounded (when possible) in ingested
// study material.
type Answer struct {
	Text      string
	Citations []retriever.Citation

	// Grounded is false when the model was permitted to answer from its
	// general knowledge because nothing was indexed or retrieval came
	// back empty.
	Grounded bool
}

// Tutor wires the ingestion pipeline, the retrieval pipeline, and an
// answer generator into a question-answering system over user-supplied
// study material.
type Tutor struct {
	options Options
}

func New(opts ...Option) *Tutor {
	options := NewOptions(opts...)

	if options.Ingestor == nil || options.Retriever == nil {
		panic("missing ingestor or retriever for tutor")
	}

	return &Tutor{
		options: options,
	}
}

// Ingest indexes a batch of study materials.
func (t *Tutor) Ingest(ctx context.Context, items []ingestor.Item, opts ...ingestor.IngestOption) (*ingestor.Result, error) {
	return t.options.Ingestor.Ingest(ctx, items, opts...)
}

// Retrieve returns the ranked supporting passages for a question without
// generating an answer.
func (t *Tutor) Retrieve(ctx context.Context, question string, opts ...retriever.RetrieveOption) (*retriever.Result, error) {
	return t.options.Retriever.Retrieve(ctx, question, opts...)
}

// Ask retrieves supporting passages and asks the generator for an answer
// grounded in them. When nothing has been indexed or retrieval returns no
// hits, the prompt explicitly allows the model to fall back to its own
// knowledge; the pipeline itself never fabricates context.
func (t *Tutor) Ask(ctx context.Context, question string, opts ...AskOption) (*Answer, error) {
	question = strings.TrimSpace(question)
	if len(question) == 0 {
		return nil, errors.New("question is required")
	}

	if t.options.Generator == nil {
		return nil, errors.New("no generator configured")
	}

	options := NewAskOptions(opts...)

	retrieveOpts := []retriever.RetrieveOption{
		retriever.WithRetrieveTopK(options.TopK),
	}
	if len(options.Scope) > 0 {
		retrieveOpts = append(retrieveOpts, retriever.WithScope(options.Scope...))
	}

	result, err := t.options.Retriever.Retrieve(ctx, question, retrieveOpts...)
	if err != nil {
		return nil, err
	}

	allowFallback := result.StoreEmpty || len(result.Hits) == 0

	prompt := buildPrompt(result.Hits, question, options.History, allowFallback)

	text, err := t.options.Generator.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	answer := &Answer{
		Text:     StripThinkTags(text),
		Grounded: !allowFallback,
	}

	for _, hit := range result.Hits {
		answer.Citations = append(answer.Citations, hit.Citation())
	}

	return answer, nil
}
