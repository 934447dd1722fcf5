package extractor

import "context"

type Option func(*Options)

type Options struct {
	Language string
	Runner   Runner
	Context  context.Context
}

func WithLanguage(lang string) Option {
	return func(o *Options) {
		o.Language = lang
	}
}

func WithRunner(runner Runner) Option {
	return func(o *Options) {
		o.Runner = runner
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Language: "en",
		Runner:   NewRunner(),
		Context:  context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
