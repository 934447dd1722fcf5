package server

import "context"

// Server is a transport for the tutor API.
type Server interface {
	Run() error
	Stop(ctx context.Context) error
}

type Option func(*Options)

type Options struct {
	Address     string
	CORSOrigins []string
	Context     context.Context
}

func WithAddress(addr string) Option {
	return func(o *Options) {
		o.Address = addr
	}
}

func WithCORSOrigins(origins ...string) Option {
	return func(o *Options) {
		o.CORSOrigins = origins
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Address: ":5000",
		Context: context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
