package pdf

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/w-h-a/tutor/extractor"
)

// Extractor pulls text out of a base64-encoded PDF payload by shelling
// out to pdftotext (poppler). Strategies: layout-preserving extraction
// first, raw stream order as a fallback for PDFs with odd layouts.
type Extractor struct {
	options extractor.Options
}

func NewExtractor(opts ...extractor.Option) *Extractor {
	options := extractor.NewOptions(opts...)

	return &Extractor{
		options: options,
	}
}

// Extract decodes the payload, which may carry a "data:application/pdf;base64,"
// prefix, and runs the extraction strategies over a temp file.
func (e *Extractor) Extract(ctx context.Context, dataBase64 string) (string, error) {
	encoded := dataBase64
	if i := strings.LastIndex(encoded, ","); i >= 0 {
		encoded = encoded[i+1:]
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: invalid base64 payload: %v", extractor.ErrNoText, err)
	}

	dir, err := os.MkdirTemp("", "tutor_pdf_")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "input.pdf")
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return "", err
	}

	return extractor.Run(
		ctx,
		&pdftotextStrategy{runner: e.options.Runner, path: path, mode: "-layout"},
		&pdftotextStrategy{runner: e.options.Runner, path: path, mode: "-raw"},
	)
}

type pdftotextStrategy struct {
	runner extractor.Runner
	path   string
	mode   string
}

func (s *pdftotextStrategy) Name() string {
	return "pdftotext " + s.mode
}

func (s *pdftotextStrategy) Extract(ctx context.Context) (string, error) {
	out, err := s.runner.Run(ctx, "pdftotext", s.mode, "-q", s.path, "-")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// InstallInstructions tells operators how to get pdftotext.
func InstallInstructions() string {
	return "pdftotext is required for PDF ingestion: `brew install poppler` (macOS) or `apt install poppler-utils` (Debian/Ubuntu)"
}
