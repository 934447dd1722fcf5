package embedder

import "context"

// DefaultBatchSize caps how many texts go to the provider per request.
// Ingestion hands over a whole document's chunks at once.
const DefaultBatchSize = 96

type Option func(*Options)

type Options struct {
	ApiKey    string
	Model     string
	BatchSize int
	Context   context.Context
}

func WithApiKey(apiKey string) Option {
	return func(o *Options) {
		o.ApiKey = apiKey
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

func WithBatchSize(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.BatchSize = n
		}
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		BatchSize: DefaultBatchSize,
		Context:   context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
