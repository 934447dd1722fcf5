package generator

import "context"

const DefaultMaxTokens = 1024

type Option func(*Options)

type Options struct {
	ApiKey    string
	Model     string
	MaxTokens int
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

func WithMaxTokens(tokens int) Option {
	return func(o *Options) {
		if tokens > 0 {
			o.MaxTokens = tokens
		}
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		MaxTokens: DefaultMaxTokens,
		Context:   context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
