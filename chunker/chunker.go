package chunker

import (
	"regexp"
	"strings"
)

const (
	// CharsPerToken is the rough character budget for one token.
	CharsPerToken = 4

	DefaultTargetTokens  = 750
	DefaultOverlapTokens = 150
)

var (
	horizontalWhitespace = regexp.MustCompile(`[ \t]+`)
	excessNewlines       = regexp.MustCompile(`\n{3,}`)
	paragraphBreak       = regexp.MustCompile(`\n\s*\n`)
)

// Normalize collapses extracted text into a stable form: NUL bytes become
// spaces, runs of horizontal whitespace collapse to one space, three or
// more consecutive newlines collapse to a paragraph break, and the result
// is trimmed. Normalize(Normalize(x)) == Normalize(x).
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\x00", " ")
	text = horizontalWhitespace.ReplaceAllString(text, " ")
	text = excessNewlines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// Chunker splits normalized text into overlapping, bounded-size pieces.
// Sizes are expressed in approximate tokens (CharsPerToken characters).
type Chunker struct {
	options Options
}

func New(opts ...Option) *Chunker {
	options := NewOptions(opts...)

	return &Chunker{
		options: options,
	}
}

// Chunk accumulates whole paragraphs into pieces of at most the target
// size and seeds each new piece with a suffix of the previous one so that
// questions near a boundary still find their context. A single paragraph
// larger than the target is hard-truncated and its tail seeds the next
// piece. Empty input yields no pieces; no piece is ever empty.
func (c *Chunker) Chunk(text string) []string {
	maxChars := c.options.TargetTokens * CharsPerToken
	overlapChars := c.options.OverlapTokens * CharsPerToken

	var paragraphs []string
	for _, p := range paragraphBreak.Split(text, -1) {
		p = strings.TrimSpace(p)
		if len(p) > 0 {
			paragraphs = append(paragraphs, p)
		}
	}

	var chunks []string
	var current []string
	currentChars := 0

	for _, p := range paragraphs {
		if currentChars+len(p)+2 <= maxChars {
			current = append(current, p)
			currentChars += len(p) + 2
			continue
		}

		if len(current) > 0 {
			chunks = append(chunks, strings.Join(current, "\n\n"))

			// keep whole trailing paragraphs while they fit the overlap budget
			var keep []string
			keepChars := 0
			for i := len(current) - 1; i >= 0; i-- {
				if keepChars+len(current[i])+2 > overlapChars {
					break
				}
				keep = append([]string{current[i]}, keep...)
				keepChars += len(current[i]) + 2
			}

			current = append(keep, p)
			currentChars = 0
			for _, x := range current {
				currentChars += len(x) + 2
			}
			continue
		}

		// single paragraph at or over the budget: truncate and carry the tail
		cut := min(maxChars, len(p))
		chunks = append(chunks, p[:cut])

		tailStart := max(maxChars-overlapChars, 0)
		if tailStart < len(p) {
			current = []string{p[tailStart:]}
			currentChars = len(current[0])
		} else {
			current = nil
			currentChars = 0
		}
	}

	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, "\n\n"))
	}

	return chunks
}
