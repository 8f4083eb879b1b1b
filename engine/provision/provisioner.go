package provision

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/chayanin/Summit-Goal-Coaching/engine/contract"
	promptx "github.com/chayanin/Summit-Goal-Coaching/engine/prompt"
)

const referenceDocumentName = "initial-interview.txt"

// AgentProvisioner uploads the interview transcript as a reference document
// and creates a durable agent whose instructions embed the persona verbatim.
// When agent creation fails after a successful upload, the document is
// deleted best-effort so it does not accumulate as an orphan.
type AgentProvisioner struct {
	client               contractx.ReasoningClient
	agentModel           string
	instructionsTemplate string
}

var _ contractx.Provisioner = (*AgentProvisioner)(nil)

func NewAgentProvisioner(client contractx.ReasoningClient, agentModel string, instructionsTemplate string) (*AgentProvisioner, error) {
	if client == nil {
		return nil, errors.New("reasoning client is required")
	}
	if strings.TrimSpace(agentModel) == "" {
		return nil, errors.New("agent model is required")
	}
	if strings.TrimSpace(instructionsTemplate) == "" {
		return nil, errors.New("instructions template is required")
	}
	return &AgentProvisioner{
		client:               client,
		agentModel:           strings.TrimSpace(agentModel),
		instructionsTemplate: instructionsTemplate,
	}, nil
}

func (p *AgentProvisioner) Provision(ctx context.Context, persona contractx.CoachPersona, referenceText string) (string, error) {
	if err := persona.Validate(); err != nil {
		return "", err
	}
	if strings.TrimSpace(referenceText) == "" {
		return "", fmt.Errorf("%w: reference text is empty", contractx.ErrValidation)
	}

	documentID, err := p.client.UploadDocument(ctx, referenceText, referenceDocumentName)
	if err != nil {
		return "", fmt.Errorf("%w: upload reference document: %v", contractx.ErrProvisioning, err)
	}

	agentHandle, err := p.client.CreateAgent(ctx, contractx.AgentSpec{
		Name:         persona.Name,
		Instructions: p.renderInstructions(persona),
		DocumentIDs:  []string{documentID},
		Model:        p.agentModel,
	})
	if err != nil {
		// Compensate the upload so a failed provisioning leaves nothing
		// behind. The delete runs even when ctx is already cancelled.
		if delErr := p.client.DeleteDocument(context.WithoutCancel(ctx), documentID); delErr != nil {
			log.Warn().
				Str("document_id", documentID).
				Err(delErr).
				Msg("orphaned reference document could not be deleted")
		}
		return "", fmt.Errorf("%w: create agent: %v", contractx.ErrProvisioning, err)
	}
	if strings.TrimSpace(agentHandle) == "" {
		return "", fmt.Errorf("%w: service returned an empty agent handle", contractx.ErrProvisioning)
	}
	return agentHandle, nil
}

func (p *AgentProvisioner) renderInstructions(persona contractx.CoachPersona) string {
	return promptx.Render(p.instructionsTemplate, map[string]string{
		"name":           persona.Name,
		"expertise":      strings.Join(persona.Expertise, ", "),
		"personality":    persona.Personality,
		"coaching_style": persona.CoachingStyle,
	})
}
