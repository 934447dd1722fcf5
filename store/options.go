package store

import "context"

type Option func(*Options)

type Options struct {
	Location   string
	Collection string
	ApiKey     string
	VectorSize int
	Distance   string
	Context    context.Context
}

func WithLocation(loc string) Option {
	return func(o *Options) {
		o.Location = loc
	}
}

func WithCollection(collection string) Option {
	return func(o *Options) {
		o.Collection = collection
	}
}

func WithApiKey(apiKey string) Option {
	return func(o *Options) {
		o.ApiKey = apiKey
	}
}

func WithVectorSize(size int) Option {
	return func(o *Options) {
		o.VectorSize = size
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Distance: "Cosine",
		Context:  context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

type QueryOption func(*QueryOptions)

type QueryOptions struct {
	Conversation string
}

// WithConversation restricts a query to records ingested under the given
// conversation id.
func WithConversation(id string) QueryOption {
	return func(o *QueryOptions) {
		o.Conversation = id
	}
}

func NewQueryOptions(opts ...QueryOption) QueryOptions {
	options := QueryOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
