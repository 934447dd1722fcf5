package tutor

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/w-h-a/tutor/retriever"
)

// Message is one prior turn of the conversation, included in the prompt
// so follow-up questions keep their context.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

var thinkTags = regexp.MustCompile(`(?is)<think>.*?</think>`)

// StripThinkTags removes <think>...</think> sections that reasoning
// models emit before the answer.
func StripThinkTags(text string) string {
	return strings.TrimSpace(thinkTags.ReplaceAllString(text, ""))
}

func buildPrompt(hits []retriever.Hit, question string, history []Message, allowFallback bool) string {
	var b strings.Builder

	b.WriteString("You are a precise, helpful AI tutor and conversational assistant. Use the provided CONTEXT below to answer the question when possible.\n")
	if allowFallback {
		b.WriteString("If the context is insufficient, you may answer using your general knowledge — be explicit about when you are using external knowledge vs. the provided CONTEXT.\n")
	} else {
		b.WriteString("Answer only from the provided CONTEXT; if it does not contain the answer, say so.\n")
	}
	b.WriteString("Cite sources inline like (title#chunkIndex).\n\n")

	b.WriteString("CONTEXT:\n")
	for _, hit := range hits {
		b.WriteString(fmt.Sprintf("[%s#%d] %s\n\n", hit.Title, hit.Index, hit.Content))
	}

	if len(history) > 0 {
		b.WriteString("\nCONVERSATION_HISTORY:\n")
		for _, msg := range history {
			role := msg.Role
			if len(role) == 0 {
				role = "user"
			}
			b.WriteString(fmt.Sprintf("[%s] %s\n", role, msg.Content))
		}
	}

	b.WriteString("\nQUESTION:\n")
	b.WriteString(strings.TrimSpace(question))
	b.WriteString("\n\nANSWER:\n")

	return b.String()
}
