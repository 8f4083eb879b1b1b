package interview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	contractx "github.com/chayanin/Summit-Goal-Coaching/engine/contract"
	llmx "github.com/chayanin/Summit-Goal-Coaching/engine/llm"
)

const maxDiagnosticBytes = 512

// Synthesizer derives a structured coach persona from an interview
// transcript. Output is either a fully valid persona or an
// ErrPersonaSynthesis carrying the raw body; it never partially fills.
type Synthesizer struct {
	client       contractx.ReasoningClient
	params       llmx.ModelParams
	systemPrompt string
}

var _ contractx.Synthesizer = (*Synthesizer)(nil)

func NewSynthesizer(client contractx.ReasoningClient, params llmx.ModelParams, systemPrompt string) (*Synthesizer, error) {
	if client == nil {
		return nil, errors.New("reasoning client is required")
	}
	if strings.TrimSpace(systemPrompt) == "" {
		return nil, errors.New("persona prompt is required")
	}
	if strings.TrimSpace(params.Model) == "" {
		return nil, errors.New("persona model is required")
	}
	return &Synthesizer{
		client:       client,
		params:       params,
		systemPrompt: systemPrompt,
	}, nil
}

func (s *Synthesizer) Synthesize(ctx context.Context, transcript string) (contractx.CoachPersona, error) {
	body := strings.TrimSpace(transcript)
	if body == "" {
		return contractx.CoachPersona{}, fmt.Errorf("%w: transcript is empty", contractx.ErrValidation)
	}

	raw, err := s.client.Complete(ctx, contractx.CompleteRequest{
		SystemPrompt: s.systemPrompt,
		Turns: []contractx.Turn{
			{Role: contractx.RoleUser, Content: body},
		},
		Model:       s.params.Model,
		Temperature: s.params.Temperature,
	})
	if err != nil {
		return contractx.CoachPersona{}, fmt.Errorf("synthesize persona: %w", err)
	}

	var persona contractx.CoachPersona
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &persona); err != nil {
		return contractx.CoachPersona{}, fmt.Errorf("%w: parse profile json: %v: raw=%q",
			contractx.ErrPersonaSynthesis, err, truncate(raw))
	}
	if err := persona.Validate(); err != nil {
		return contractx.CoachPersona{}, fmt.Errorf("%w: raw=%q", err, truncate(raw))
	}
	return persona, nil
}

// stripCodeFence unwraps a ```.-fenced body. Models wrap JSON in markdown
// fences often enough that rejecting them would fail valid profiles.
func stripCodeFence(raw string) string {
	body := strings.TrimSpace(raw)
	if !strings.HasPrefix(body, "```") {
		return body
	}
	body = strings.TrimPrefix(body, "```")
	if idx := strings.Index(body, "\n"); idx >= 0 {
		body = body[idx+1:]
	}
	body = strings.TrimSuffix(strings.TrimSpace(body), "```")
	return strings.TrimSpace(body)
}

func truncate(s string) string {
	if len(s) <= maxDiagnosticBytes {
		return s
	}
	return s[:maxDiagnosticBytes] + "..."
}
