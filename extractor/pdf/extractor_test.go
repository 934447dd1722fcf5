package pdf

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/w-h-a/tutor/extractor"
)

type fakeRunner struct {
	// output per pdftotext mode flag
	byMode map[string][]byte
	errs   map[string]error
	calls  []string
}

func (r *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	mode := args[0]
	r.calls = append(r.calls, mode)
	if err := r.errs[mode]; err != nil {
		return nil, err
	}
	return r.byMode[mode], nil
}

func payload(content string) string {
	return base64.StdEncoding.EncodeToString([]byte(content))
}

func TestExtractUsesLayoutModeFirst(t *testing.T) {
	runner := &fakeRunner{
		byMode: map[string][]byte{"-layout": []byte("layout text")},
	}
	e := NewExtractor(extractor.WithRunner(runner))

	text, err := e.Extract(context.Background(), payload("%PDF-1.4"))

	require.NoError(t, err)
	assert.Equal(t, "layout text", text)
	assert.Equal(t, []string{"-layout"}, runner.calls)
}

func TestExtractFallsBackToRawMode(t *testing.T) {
	runner := &fakeRunner{
		errs:   map[string]error{"-layout": errors.New("pdftotext: syntax error")},
		byMode: map[string][]byte{"-raw": []byte("raw text")},
	}
	e := NewExtractor(extractor.WithRunner(runner))

	text, err := e.Extract(context.Background(), payload("%PDF-1.4"))

	require.NoError(t, err)
	assert.Equal(t, "raw text", text)
	assert.Equal(t, []string{"-layout", "-raw"}, runner.calls)
}

func TestExtractStripsDataURLPrefix(t *testing.T) {
	runner := &fakeRunner{
		byMode: map[string][]byte{"-layout": []byte("ok")},
	}
	e := NewExtractor(extractor.WithRunner(runner))

	text, err := e.Extract(
		context.Background(),
		"data:application/pdf;base64,"+payload("%PDF-1.4"),
	)

	require.NoError(t, err)
	assert.Equal(t, "ok", text)
}

func TestExtractInvalidBase64(t *testing.T) {
	e := NewExtractor(extractor.WithRunner(&fakeRunner{}))

	_, err := e.Extract(context.Background(), "not base64 at all!!!")

	require.Error(t, err)
	assert.ErrorIs(t, err, extractor.ErrNoText)
}

func TestExtractAllModesFail(t *testing.T) {
	runner := &fakeRunner{
		errs: map[string]error{
			"-layout": errors.New("broken"),
			"-raw":    errors.New("also broken"),
		},
	}
	e := NewExtractor(extractor.WithRunner(runner))

	_, err := e.Extract(context.Background(), payload("%PDF-1.4"))

	require.Error(t, err)
	assert.ErrorIs(t, err, extractor.ErrNoText)
	assert.Contains(t, err.Error(), "pdftotext -layout")
	assert.Contains(t, err.Error(), "pdftotext -raw")
}
