package llm

import (
	"context"
	"errors"
	"fmt"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiClient calls the Gemini API through the official SDK. One value per
// model name; the chain holds a primary and a fallback instance.
type GeminiClient struct {
	APIKey string
	Model  string
}

func (c *GeminiClient) Name() string { return "gemini:" + c.Model }

func (c *GeminiClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(c.APIKey))
	if err != nil {
		return "", fmt.Errorf("gemini client: %w", err)
	}
	defer client.Close()

	resp, err := client.GenerativeModel(c.Model).GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini %s: %w", c.Model, err)
	}
	txt := firstText(resp)
	if txt == "" {
		return "", errors.New("no candidates")
	}
	return txt, nil
}

func firstText(r *genai.GenerateContentResponse) string {
	if r == nil {
		return ""
	}
	for _, c := range r.Candidates {
		if c.Content == nil {
			continue
		}
		for _, part := range c.Content.Parts {
			if t, ok := part.(genai.Text); ok && string(t) != "" {
				return string(t)
			}
		}
	}
	return ""
}
