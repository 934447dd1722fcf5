package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/w-h-a/tutor"
	"github.com/w-h-a/tutor/chunker"
	"github.com/w-h-a/tutor/embedder"
	googleembedder "github.com/w-h-a/tutor/embedder/google"
	openaiembedder "github.com/w-h-a/tutor/embedder/openai"
	"github.com/w-h-a/tutor/extractor"
	"github.com/w-h-a/tutor/extractor/pdf"
	"github.com/w-h-a/tutor/extractor/youtube"
	"github.com/w-h-a/tutor/generator"
	anthropicgenerator "github.com/w-h-a/tutor/generator/anthropic"
	googlegenerator "github.com/w-h-a/tutor/generator/google"
	openaigenerator "github.com/w-h-a/tutor/generator/openai"
	"github.com/w-h-a/tutor/ingestor"
	"github.com/w-h-a/tutor/retriever"
	"github.com/w-h-a/tutor/server"
	httpserver "github.com/w-h-a/tutor/server/http"
	"github.com/w-h-a/tutor/store"
	memorystore "github.com/w-h-a/tutor/store/memory"
	postgresstore "github.com/w-h-a/tutor/store/postgres"
	qdrantstore "github.com/w-h-a/tutor/store/qdrant"
)

var cfg struct {
	// Server config
	Address     string `help:"Address for the HTTP API" default:":5000" env:"ADDRESS"`
	CORSOrigins string `help:"Comma-separated allowed CORS origins" default:"http://localhost:5173,http://127.0.0.1:5173" env:"CORS_ORIGINS"`

	// Embedder config
	Embedder      string `help:"Embedding provider (openai or google)" default:"openai" env:"EMBEDDER"`
	EmbedderModel string `help:"Model identity for embeddings; must match between ingestion and queries" default:"text-embedding-3-small" env:"EMBED_MODEL"`
	EmbedderKey   string `help:"API key for the embedding provider" default:"" env:"EMBEDDER_API_KEY"`
	VectorSize    int    `help:"Embedding dimensionality of the chosen model" default:"1536" env:"VECTOR_SIZE"`

	// Store config
	Store      string `help:"Vector store (memory, qdrant, or postgres)" default:"memory" env:"STORE"`
	Location   string `help:"Store location (qdrant base URL or postgres DSN)" default:"" env:"STORE_LOCATION"`
	Collection string `help:"Collection name for the vector store" default:"study_chunks" env:"STORE_COLLECTION"`
	StoreKey   string `help:"API key for the vector store" default:"" env:"STORE_API_KEY"`

	// Generator config
	Generator      string `help:"Answer provider (openai, anthropic, or google)" default:"openai" env:"GENERATOR"`
	GeneratorModel string `help:"Model identity for answers" default:"gpt-4o-mini" env:"GENERATOR_MODEL"`
	GeneratorKey   string `help:"API key for the answer provider" default:"" env:"GENERATOR_API_KEY"`

	// Pipeline config
	TargetTokens  int `help:"Approximate tokens per chunk" default:"750" env:"TARGET_TOKENS"`
	OverlapTokens int `help:"Approximate overlap tokens between chunks" default:"150" env:"OVERLAP_TOKENS"`
	TopK          int `help:"Default number of passages retrieved per question" default:"6" env:"TOP_K"`
}

func main() {
	godotenv.Load()
	kong.Parse(&cfg)

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	emb := newEmbedder()
	st := newStore()

	chk := chunker.New(
		chunker.WithTargetTokens(cfg.TargetTokens),
		chunker.WithOverlapTokens(cfg.OverlapTokens),
	)

	ing := ingestor.New(
		ingestor.WithEmbedder(emb),
		ingestor.WithStore(st),
		ingestor.WithChunker(chk),
		ingestor.WithPDFExtractor(pdf.NewExtractor(extractor.WithLanguage("en"))),
		ingestor.WithYouTubeExtractor(youtube.NewExtractor(extractor.WithLanguage("en"))),
	)

	ret := retriever.New(
		retriever.WithEmbedder(emb),
		retriever.WithStore(st),
		retriever.WithTopK(cfg.TopK),
	)

	t := tutor.New(
		tutor.WithIngestor(ing),
		tutor.WithRetriever(ret),
		tutor.WithGenerator(newGenerator()),
	)

	srv := httpserver.NewServer(
		t,
		server.WithAddress(cfg.Address),
		server.WithCORSOrigins(strings.Split(cfg.CORSOrigins, ",")...),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	case sig := <-sigCh:
		slog.Info("shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Stop(ctx); err != nil {
			slog.Error("shutdown failed", "error", err)
			os.Exit(1)
		}
	}
}

func newEmbedder() embedder.Embedder {
	opts := []embedder.Option{
		embedder.WithApiKey(cfg.EmbedderKey),
		embedder.WithModel(cfg.EmbedderModel),
	}

	switch cfg.Embedder {
	case "google":
		return googleembedder.NewEmbedder(opts...)
	default:
		return openaiembedder.NewEmbedder(opts...)
	}
}

func newStore() store.Store {
	opts := []store.Option{
		store.WithLocation(cfg.Location),
		store.WithCollection(cfg.Collection),
		store.WithApiKey(cfg.StoreKey),
		store.WithVectorSize(cfg.VectorSize),
	}

	switch cfg.Store {
	case "qdrant":
		return qdrantstore.NewStore(opts...)
	case "postgres":
		return postgresstore.NewStore(opts...)
	default:
		return memorystore.NewStore(opts...)
	}
}

func newGenerator() generator.Generator {
	opts := []generator.Option{
		generator.WithApiKey(cfg.GeneratorKey),
		generator.WithModel(cfg.GeneratorModel),
	}

	switch cfg.Generator {
	case "anthropic":
		return anthropicgenerator.NewGenerator(opts...)
	case "google":
		return googlegenerator.NewGenerator(opts...)
	default:
		return openaigenerator.NewGenerator(opts...)
	}
}
