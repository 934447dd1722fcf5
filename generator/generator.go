package generator

import "context"

// Generator produces the final answer text from a fully built prompt.
// Prompt construction and citation wiring happen upstream; the generator
// is a plain text-in, text-out collaborator.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
