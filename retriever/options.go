package retriever

import (
	"context"

	"github.com/w-h-a/tutor/embedder"
	"github.com/w-h-a/tutor/store"
)

const DefaultTopK = 6

type Option func(*Options)

type Options struct {
	Embedder embedder.Embedder
	Store    store.Store
	TopK     int
	Context  context.Context
}

func WithEmbedder(e embedder.Embedder) Option {
	return func(o *Options) {
		o.Embedder = e
	}
}

func WithStore(s store.Store) Option {
	return func(o *Options) {
		o.Store = s
	}
}

func WithTopK(k int) Option {
	return func(o *Options) {
		if k > 0 {
			o.TopK = k
		}
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		TopK:    DefaultTopK,
		Context: context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

type RetrieveOption func(*RetrieveOptions)

type RetrieveOptions struct {
	TopK    int
	Scope   []string
	Context context.Context
}

func WithRetrieveTopK(k int) RetrieveOption {
	return func(o *RetrieveOptions) {
		o.TopK = k
	}
}

// WithScope restricts retrieval to material ingested under the given
// conversation ids. No ids means the whole store.
func WithScope(ids ...string) RetrieveOption {
	return func(o *RetrieveOptions) {
		o.Scope = ids
	}
}

func NewRetrieveOptions(opts ...RetrieveOption) RetrieveOptions {
	options := RetrieveOptions{
		Context: context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
