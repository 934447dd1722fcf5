package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "nul bytes become spaces",
			input:    "a\x00b",
			expected: "a b",
		},
		{
			name:     "horizontal whitespace collapses",
			input:    "a  \t  b",
			expected: "a b",
		},
		{
			name:     "three or more newlines become a paragraph break",
			input:    "a\n\n\n\nb",
			expected: "a\n\nb",
		},
		{
			name:     "paragraph break preserved",
			input:    "a\n\nb",
			expected: "a\n\nb",
		},
		{
			name:     "leading and trailing whitespace trimmed",
			input:    "  \n a \n ",
			expected: "a",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Normalize(tc.input))
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"plain text",
		"a\x00b\t\tc\n\n\n\nd",
		"  spaced\n\nout\n\n\n",
		"tabs\tand\tspaces   everywhere",
	}

	for _, input := range inputs {
		once := Normalize(input)
		assert.Equal(t, once, Normalize(once), "input %q", input)
	}
}

func TestChunkEmptyInput(t *testing.T) {
	c := New()
	assert.Empty(t, c.Chunk(""))
	assert.Empty(t, c.Chunk("   \n\n  "))
}

func TestChunkSingleChunk(t *testing.T) {
	c := New(WithTargetTokens(750), WithOverlapTokens(150))

	chunks := c.Chunk("Para A.\n\nPara B.")

	require.Len(t, chunks, 1)
	assert.Equal(t, "Para A.\n\nPara B.", chunks[0])
}

func TestChunkNeverTruncatesFittingParagraphs(t *testing.T) {
	// paragraphs all well under the chunk budget
	paragraphs := make([]string, 12)
	for i := range paragraphs {
		paragraphs[i] = strings.Repeat("p", 90) + string(rune('a'+i))
	}
	text := strings.Join(paragraphs, "\n\n")

	// budget of ~200 chars forces multiple chunks
	c := New(WithTargetTokens(50), WithOverlapTokens(10))

	chunks := c.Chunk(text)
	require.Greater(t, len(chunks), 1)

	// every paragraph survives intact in at least one chunk, in order
	next := 0
	for _, chunk := range chunks {
		assert.NotEmpty(t, chunk)
		for _, p := range strings.Split(chunk, "\n\n") {
			if next < len(paragraphs) && p == paragraphs[next] {
				next++
			}
		}
	}
	assert.Equal(t, len(paragraphs), next, "paragraph order not reproduced")
}

func TestChunkOverlapSeedsNextChunk(t *testing.T) {
	p1 := strings.Repeat("a", 100)
	p2 := strings.Repeat("b", 100)
	p3 := strings.Repeat("c", 100)

	// target 60 tokens = 240 chars holds two paragraphs; overlap 30 tokens
	// = 120 chars holds exactly one
	c := New(WithTargetTokens(60), WithOverlapTokens(30))

	chunks := c.Chunk(p1 + "\n\n" + p2 + "\n\n" + p3)

	require.Len(t, chunks, 2)
	assert.Equal(t, p1+"\n\n"+p2, chunks[0])
	assert.Equal(t, p2+"\n\n"+p3, chunks[1], "second chunk should be seeded with the overlapping paragraph")
}

func TestChunkHardTruncatesOversizedParagraph(t *testing.T) {
	// a single block with no paragraph breaks, e.g. a transcript
	block := strings.Repeat("x", 1000)

	c := New(WithTargetTokens(100), WithOverlapTokens(20))
	maxChars := 100 * CharsPerToken
	overlapChars := 20 * CharsPerToken

	chunks := c.Chunk(block)

	require.Len(t, chunks, 2)
	assert.Equal(t, block[:maxChars], chunks[0])
	// the tail starting inside the overlap window seeds the second chunk
	assert.Equal(t, block[maxChars-overlapChars:], chunks[1])
}

func TestChunkParagraphJustUnderBudget(t *testing.T) {
	// one char short of the budget: too big to accumulate (the +2 joiner
	// margin), but shorter than a full chunk
	c := New(WithTargetTokens(100), WithOverlapTokens(20))
	maxChars := 100 * CharsPerToken
	overlapChars := 20 * CharsPerToken

	block := strings.Repeat("x", maxChars-1)

	chunks := c.Chunk(block)

	require.Len(t, chunks, 2)
	assert.Equal(t, block, chunks[0])
	assert.Equal(t, block[maxChars-overlapChars:], chunks[1])
	for _, chunk := range chunks {
		assert.NotEmpty(t, chunk)
	}
}

func TestChunkExactBudgetZeroOverlap(t *testing.T) {
	c := New(WithTargetTokens(100), WithOverlapTokens(0))
	maxChars := 100 * CharsPerToken

	block := strings.Repeat("x", maxChars)

	chunks := c.Chunk(block)

	require.Len(t, chunks, 1, "an empty tail must not become a chunk")
	assert.Equal(t, block, chunks[0])
}

func TestChunkDeterministic(t *testing.T) {
	text := strings.Repeat("alpha beta gamma.\n\n", 50)
	c := New(WithTargetTokens(40), WithOverlapTokens(8))

	first := c.Chunk(text)
	second := c.Chunk(text)

	assert.Equal(t, first, second)
}

func TestNewOptionsClampsOverlap(t *testing.T) {
	options := NewOptions(WithTargetTokens(100), WithOverlapTokens(200))
	assert.Equal(t, 25, options.OverlapTokens)
}
