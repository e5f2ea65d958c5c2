package tutor

import "context"

// LLMClient abstracts the text-completion capability so it can be swapped
// or mocked. No streaming: a reply's page and annotation effects are only
// applied once the full response is in hand.
type LLMClient interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// LLMSettings is the base configuration handed to concrete clients.
type LLMSettings struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
}
