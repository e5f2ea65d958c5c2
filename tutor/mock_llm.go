package tutor

import (
	"context"
	"strings"
)

// MockLLM is a placeholder client for local runs without model access. Its
// reply exercises the whole directive pipeline: a page reference plus one
// highlight in the documented literal grammar.
type MockLLM struct{}

func (m MockLLM) Complete(_ context.Context, prompt Prompt) (string, error) {
	var sb strings.Builder
	sb.WriteString("Let's look at the opening section together. ")
	sb.WriteString("The highlighted passage below is the part that answers your question.\n\n")
	sb.WriteString("PAGE_REFERENCE: 1\n")
	sb.WriteString("ANNOTATION: {type: 'highlight', x: 10, y: 20, width: 60, height: 8}\n\n")
	sb.WriteString("You asked:\n\n> ")
	sb.WriteString(prompt.User)
	sb.WriteString("\n")
	return sb.String(), nil
}
