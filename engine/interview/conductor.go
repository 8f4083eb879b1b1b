package interview

import (
	"context"
	"errors"
	"fmt"
	"strings"

	contractx "github.com/chayanin/Summit-Goal-Coaching/engine/contract"
	llmx "github.com/chayanin/Summit-Goal-Coaching/engine/llm"
)

// Conductor runs the single-shot interview exchange: the interviewer prompt
// plus the goal description in, the transcript out. Retry is a caller
// policy, never applied here.
type Conductor struct {
	client       contractx.ReasoningClient
	params       llmx.ModelParams
	systemPrompt string
}

var _ contractx.Interviewer = (*Conductor)(nil)

func NewConductor(client contractx.ReasoningClient, params llmx.ModelParams, systemPrompt string) (*Conductor, error) {
	if client == nil {
		return nil, errors.New("reasoning client is required")
	}
	if strings.TrimSpace(systemPrompt) == "" {
		return nil, errors.New("interviewer prompt is required")
	}
	if strings.TrimSpace(params.Model) == "" {
		return nil, errors.New("interview model is required")
	}
	return &Conductor{
		client:       client,
		params:       params,
		systemPrompt: systemPrompt,
	}, nil
}

// Conduct returns the raw response text verbatim as the transcript.
func (c *Conductor) Conduct(ctx context.Context, goalDescription string) (string, error) {
	description := strings.TrimSpace(goalDescription)
	if description == "" {
		return "", fmt.Errorf("%w: goal description is empty", contractx.ErrValidation)
	}

	transcript, err := c.client.Complete(ctx, contractx.CompleteRequest{
		SystemPrompt: c.systemPrompt,
		Turns: []contractx.Turn{
			{Role: contractx.RoleUser, Content: description},
		},
		Model:       c.params.Model,
		Temperature: c.params.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("conduct interview: %w", err)
	}
	return transcript, nil
}
