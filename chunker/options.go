package chunker

type Option func(*Options)

type Options struct {
	TargetTokens  int
	OverlapTokens int
}

func WithTargetTokens(tokens int) Option {
	return func(o *Options) {
		if tokens > 0 {
			o.TargetTokens = tokens
		}
	}
}

func WithOverlapTokens(tokens int) Option {
	return func(o *Options) {
		if tokens >= 0 {
			o.OverlapTokens = tokens
		}
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		TargetTokens:  DefaultTargetTokens,
		OverlapTokens: DefaultOverlapTokens,
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.OverlapTokens >= options.TargetTokens {
		options.OverlapTokens = options.TargetTokens / 4
	}
	return options
}
