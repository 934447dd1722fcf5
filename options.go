package tutor

import (
	"context"

	"github.com/w-h-a/tutor/generator"
	"github.com/w-h-a/tutor/ingestor"
	"github.com/w-h-a/tutor/retriever"
)

type Option func(*Options)

type Options struct {
	Ingestor  *ingestor.Ingestor
	Retriever *retriever.Retriever
	Generator generator.Generator
	Context   context.Context
}

func WithIngestor(i *ingestor.Ingestor) Option {
	return func(o *Options) {
		o.Ingestor = i
	}
}

func WithRetriever(r *retriever.Retriever) Option {
	return func(o *Options) {
		o.Retriever = r
	}
}

func WithGenerator(g generator.Generator) Option {
	return func(o *Options) {
		o.Generator = g
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Context: context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

type AskOption func(*AskOptions)

type AskOptions struct {
	TopK    int
	Scope   []string
	History []Message
	Context context.Context
}

func WithTopK(k int) AskOption {
	return func(o *AskOptions) {
		o.TopK = k
	}
}

// WithScope restricts the supporting passages to material ingested under
// the given conversation ids.
func WithScope(ids ...string) AskOption {
	return func(o *AskOptions) {
		o.Scope = ids
	}
}

func WithHistory(history []Message) AskOption {
	return func(o *AskOptions) {
		o.History = history
	}
}

func NewAskOptions(opts ...AskOption) AskOptions {
	options := AskOptions{
		Context: context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
