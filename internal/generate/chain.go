// Package generate turns free-form user input into model text and, in
// planning mode, a structured task batch. It coordinates an ordered
// backend fallback chain and degrades to deterministic mock output rather
// than surfacing upstream errors to the conversation.
package generate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/example/planassist/internal/models"
	"github.com/example/planassist/internal/plan"
	"github.com/example/planassist/internal/providers/llm"
)

// ErrEmptyPrompt is the one structural failure a generation request can
// produce; everything else is absorbed into mock or sentinel output.
var ErrEmptyPrompt = errors.New("prompt is required")

// Outcome tags the result of an attempt across the backend chain.
type Outcome string

const (
	// OutcomeSuccess means the primary backend answered.
	OutcomeSuccess Outcome = "success"
	// OutcomeDegraded means a fallback backend answered after the primary
	// failed.
	OutcomeDegraded Outcome = "degraded"
	// OutcomeFailed means every backend failed; Err composes the
	// underlying messages.
	OutcomeFailed Outcome = "failed"
)

type attemptResult struct {
	Outcome Outcome
	Text    string
	Backend string
	Err     error
}

// ClientFactory builds the ordered backend list for one request's
// credential. The chain is stateless per request; the caller-supplied key
// wins over the ambient one.
type ClientFactory func(apiKey string) []llm.Client

// Service runs generation requests through the fallback chain.
type Service struct {
	AmbientKey string // credential from configuration, used when the request carries none
	NewClients ClientFactory
	Logger     *slog.Logger
}

// Request is one generation call.
type Request struct {
	Prompt     string
	Credential string
	Mode       models.ChatMode
}

// Generate produces a response for req. It never returns an error for
// upstream or output-format failures: a missing credential or a fully
// failed chain yields a labeled mock response, and unparsable planning
// output yields sentinel tasks. The only error is ErrEmptyPrompt.
func (s *Service) Generate(ctx context.Context, req Request) (models.GenerateResponse, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return models.GenerateResponse{}, ErrEmptyPrompt
	}

	key := req.Credential
	if key == "" {
		key = s.AmbientKey
	}
	if key == "" {
		s.logger().Info("no API key configured, returning mock response", "mode", req.Mode)
		return NoCredentialResponse(req.Mode), nil
	}

	res := s.attemptWithFallback(ctx, s.NewClients(key), buildPrompt(req.Mode, req.Prompt))
	switch res.Outcome {
	case OutcomeFailed:
		s.logger().Warn("all backends failed, returning mock response",
			"mode", req.Mode, "error", res.Err)
		return FailedResponse(req.Mode, res.Err), nil
	case OutcomeDegraded:
		s.logger().Info("fallback backend answered", "backend", res.Backend)
	}

	if req.Mode == models.ModePlanning {
		return models.GenerateResponse{
			Message: "Here's a structured plan based on your input. I've broken it down into manageable tasks with priorities and time estimates.",
			Tasks:   plan.ParseTasks(res.Text),
		}, nil
	}
	return models.GenerateResponse{Message: res.Text}, nil
}

// attemptWithFallback evaluates the ordered backend list and returns a
// tagged result. On total failure the composed error carries every
// underlying message so diagnostics survive the degradation.
func (s *Service) attemptWithFallback(ctx context.Context, clients []llm.Client, prompt string) attemptResult {
	var failures []string
	for i, client := range clients {
		text, err := client.GenerateText(ctx, prompt)
		if err == nil && strings.TrimSpace(text) != "" {
			outcome := OutcomeSuccess
			if i > 0 {
				outcome = OutcomeDegraded
			}
			return attemptResult{Outcome: outcome, Text: text, Backend: client.Name()}
		}
		if err == nil {
			err = errors.New("empty response")
		}
		s.logger().Debug("backend attempt failed", "backend", client.Name(), "error", err)
		label := "Primary model error"
		if i > 0 {
			label = "Fallback model error"
		}
		failures = append(failures, fmt.Sprintf("%s: %v", label, err))
	}
	return attemptResult{
		Outcome: OutcomeFailed,
		Err:     errors.New(strings.Join(failures, ". ")),
	}
}

func (s *Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
