package llm

import (
	"context"
)

// Client is one candidate generative-model backend. The invocation chain
// tries clients in order and falls back on failure.
type Client interface {
	// Name identifies the backend in logs and composite error messages.
	Name() string
	// GenerateText sends the prompt and returns the raw model text.
	GenerateText(ctx context.Context, prompt string) (string, error)
}
