package tutor

import (
	"fmt"
	"strings"

	"github.com/rauleduardorivassanz/ai-tutor/document"
)

// Prompt is the message bundle sent to the model.
type Prompt struct {
	System  string
	User    string
	History []Message
}

// Message carries a small amount of prior conversation.
type Message struct {
	Role    string
	Content string
}

// excerptLimit caps how much page text is quoted into the prompt per hit.
const excerptLimit = 600

// maxExcerpts caps how many matching pages are quoted into the prompt.
const maxExcerpts = 3

// BuildTutorPrompt assembles the tutoring prompt. The system prompt
// teaches the model the directive grammar it may embed in replies; the
// parser on the other end speaks exactly this grammar.
func BuildTutorPrompt(doc document.Document, hits []document.SearchHit, history []Turn, message string) Prompt {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("You are an AI tutor helping students understand PDF documents. You have access to a document titled %q with %d pages.\n\n", doc.Title, doc.TotalPages))
	sb.WriteString("Key capabilities:\n")
	sb.WriteString("1. Answer questions about the document content\n")
	sb.WriteString("2. Navigate to specific pages by responding with page numbers\n")
	sb.WriteString("3. Highlight important sections by providing annotation coordinates\n")
	sb.WriteString("4. Provide educational explanations and insights\n\n")
	sb.WriteString("ANNOTATION INSTRUCTIONS:\n")
	sb.WriteString("When you want to create visual annotations, use these formats:\n")
	sb.WriteString("- For page navigation: \"PAGE_REFERENCE: X\" where X is the page number\n")
	sb.WriteString("- For highlighting text: \"ANNOTATION: {type: 'highlight', x: 20, y: 30, width: 60, height: 8, color: '#fbbf24'}\"\n")
	sb.WriteString("- For circling content: \"ANNOTATION: {type: 'circle', x: 40, y: 50, width: 20, height: 20, color: '#dc2626'}\"\n")
	sb.WriteString("- For rectangles: \"ANNOTATION: {type: 'rectangle', x: 10, y: 25, width: 80, height: 15, color: '#dc2626'}\"\n\n")
	sb.WriteString("Coordinates are percentages (0-100) relative to the page.\n")

	if len(hits) > 0 {
		sb.WriteString("\nRelevant pages from the document:\n")
		for i, hit := range hits {
			if i == maxExcerpts {
				break
			}
			sb.WriteString(fmt.Sprintf("\n[Page %d]\n%s\n", hit.PageNumber, excerpt(hit.Text)))
		}
	}

	sb.WriteString("\nProvide a helpful, educational response. When appropriate, create visual annotations to highlight important content. Always explain what you're highlighting and why it's important.")

	var msgs []Message
	for _, t := range history {
		msgs = append(msgs, Message{Role: string(t.Role), Content: t.Content})
	}

	return Prompt{
		System:  sb.String(),
		User:    message,
		History: msgs,
	}
}

func excerpt(text string) string {
	if len(text) <= excerptLimit {
		return text
	}
	return text[:excerptLimit] + "…"
}
