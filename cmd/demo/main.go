package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/w-h-a/tutor"
	"github.com/w-h-a/tutor/embedder"
	openaiembedder "github.com/w-h-a/tutor/embedder/openai"
	"github.com/w-h-a/tutor/generator"
	openaigenerator "github.com/w-h-a/tutor/generator/openai"
	"github.com/w-h-a/tutor/ingestor"
	"github.com/w-h-a/tutor/retriever"
	memorystore "github.com/w-h-a/tutor/store/memory"
)

var cfg struct {
	APIKey         string `help:"OpenAI API key" env:"OPENAI_API_KEY" default:""`
	EmbedderModel  string `help:"Embedding model" default:"text-embedding-3-small"`
	GeneratorModel string `help:"Answer model" default:"gpt-4o-mini"`
	File           string `help:"Plain-text file to ingest" arg:"" type:"existingfile"`
	Question       string `help:"Question to ask about the file" arg:""`
}

func main() {
	godotenv.Load()
	kong.Parse(&cfg)
	ctx := context.Background()

	raw, err := os.ReadFile(cfg.File)
	if err != nil {
		log.Fatalf("failed to read %s: %v", cfg.File, err)
	}

	emb := openaiembedder.NewEmbedder(
		embedder.WithApiKey(cfg.APIKey),
		embedder.WithModel(cfg.EmbedderModel),
	)
	st := memorystore.NewStore()

	t := tutor.New(
		tutor.WithIngestor(ingestor.New(
			ingestor.WithEmbedder(emb),
			ingestor.WithStore(st),
		)),
		tutor.WithRetriever(retriever.New(
			retriever.WithEmbedder(emb),
			retriever.WithStore(st),
		)),
		tutor.WithGenerator(openaigenerator.NewGenerator(
			generator.WithApiKey(cfg.APIKey),
			generator.WithModel(cfg.GeneratorModel),
		)),
	)

	result, err := t.Ingest(ctx, []ingestor.Item{
		ingestor.TextItem{Name: cfg.File, Text: string(raw)},
	})
	if err != nil {
		log.Fatalf("ingest failed: %v", err)
	}
	fmt.Printf("Indexed %d chunks from %s\n\n", result.TotalChunks, cfg.File)

	answer, err := t.Ask(ctx, cfg.Question)
	if err != nil {
		log.Fatalf("ask failed: %v", err)
	}

	fmt.Println(answer.Text)
	if len(answer.Citations) > 0 {
		fmt.Println("\nSources:")
		for _, c := range answer.Citations {
			fmt.Printf("- %s#%d\n", c.Title, c.ChunkIndex)
		}
	}
}
