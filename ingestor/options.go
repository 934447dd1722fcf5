package ingestor

import (
	"context"

	"github.com/w-h-a/tutor/chunker"
	"github.com/w-h-a/tutor/embedder"
	"github.com/w-h-a/tutor/store"
)

// PDFExtractor hands back the text of a base64-encoded PDF payload.
type PDFExtractor interface {
	Extract(ctx context.Context, dataBase64 string) (string, error)
}

// YouTubeExtractor resolves a URL to a canonical video id and returns the
// transcript text.
type YouTubeExtractor interface {
	Extract(ctx context.Context, url string) (text string, videoID string, err error)
}

type Option func(*Options)

type Options struct {
	Embedder embedder.Embedder
	Store    store.Store
	Chunker  *chunker.Chunker
	PDF      PDFExtractor
	YouTube  YouTubeExtractor
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

func WithChunker(c *chunker.Chunker) Option {
	return func(o *Options) {
		o.Chunker = c
	}
}

func WithPDFExtractor(e PDFExtractor) Option {
	return func(o *Options) {
		o.PDF = e
	}
}

func WithYouTubeExtractor(e YouTubeExtractor) Option {
	return func(o *Options) {
		o.YouTube = e
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Chunker: chunker.New(),
		Context: context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

type IngestOption func(*IngestOptions)

type IngestOptions struct {
	Conversation string
	Context      context.Context
}

// WithConversation tags every record produced by the call with the given
// conversation id, so later retrieval can scope to it.
func WithConversation(id string) IngestOption {
	return func(o *IngestOptions) {
		o.Conversation = id
	}
}

func NewIngestOptions(opts ...IngestOption) IngestOptions {
	options := IngestOptions{
		Context: context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
