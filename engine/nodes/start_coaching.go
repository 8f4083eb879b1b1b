package sessionnode

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	contractx "github.com/chayanin/Summit-Goal-Coaching/engine/contract"
	promptx "github.com/chayanin/Summit-Goal-Coaching/engine/prompt"
	storex "github.com/chayanin/Summit-Goal-Coaching/engine/store"
)

func ValidateStart(in StartInput, nowFn func() time.Time) (*StartState, error) {
	goalID := strings.TrimSpace(in.GoalID)
	if goalID == "" {
		return nil, ErrInvalidGoal
	}
	userID := strings.TrimSpace(in.UserID)
	if userID == "" {
		return nil, ErrInvalidUser
	}
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return nil, ErrInvalidDescription
	}

	return &StartState{
		GoalID:      goalID,
		UserID:      userID,
		Description: description,
		Now:         nowFn().UTC(),
	}, nil
}

// EnsureNoCoach rejects a second StartCoaching for the same goal before any
// external call is made. The goal_id unique constraint still backstops the
// race between two concurrent starts.
func EnsureNoCoach(ctx context.Context, in *StartState, store storex.Store) (*StartState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	existing, err := store.GetCoachByGoalID(ctx, in.GoalID)
	if err == nil && existing != nil {
		return nil, fmt.Errorf("%w: goal_id=%s", storex.ErrDuplicateCoach, in.GoalID)
	}
	if !errors.Is(err, storex.ErrCoachNotFound) {
		return nil, fmt.Errorf("check existing coach: %w", err)
	}
	return in, nil
}

func ConductInterview(ctx context.Context, in *StartState, interviewer contractx.Interviewer) (*StartState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	transcript, err := interviewer.Conduct(ctx, in.Description)
	if err != nil {
		return nil, fmt.Errorf("interview: %w", err)
	}
	in.Transcript = transcript
	return in, nil
}

func SynthesizePersona(ctx context.Context, in *StartState, synthesizer contractx.Synthesizer) (*StartState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	persona, err := synthesizer.Synthesize(ctx, in.Transcript)
	if err != nil {
		return nil, fmt.Errorf("synthesis: %w", err)
	}
	in.Persona = persona
	return in, nil
}

func ProvisionAgent(ctx context.Context, in *StartState, provisioner contractx.Provisioner) (*StartState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	agentHandle, err := provisioner.Provision(ctx, in.Persona, in.Transcript)
	if err != nil {
		return nil, fmt.Errorf("provisioning: %w", err)
	}
	in.AgentHandle = agentHandle
	return in, nil
}

// PersistCoach writes the coach row. This is the first durable write of the
// whole operation, so any earlier failure leaves no partial coach behind.
func PersistCoach(ctx context.Context, in *StartState, store storex.Store) (*StartState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	coach := &storex.Coach{
		UserID:        in.UserID,
		GoalID:        in.GoalID,
		AgentHandle:   in.AgentHandle,
		Name:          in.Persona.Name,
		Expertise:     in.Persona.Expertise,
		Personality:   in.Persona.Personality,
		CoachingStyle: in.Persona.CoachingStyle,
	}
	if err := store.InsertCoach(ctx, coach); err != nil {
		return nil, fmt.Errorf("persist coach: %w", err)
	}
	in.Coach = coach
	return in, nil
}

func PersistWelcome(ctx context.Context, in *StartState, store storex.Store, welcomeTemplate string) (*StartState, error) {
	if in == nil || in.Coach == nil {
		return nil, fmt.Errorf("%w: coach is missing from graph state", contractx.ErrValidation)
	}

	welcome := &storex.CoachMessage{
		CoachID: in.Coach.ID,
		Content: promptx.Render(welcomeTemplate, map[string]string{"name": in.Persona.Name}),
		Role:    storex.RoleCoach,
	}
	if err := store.InsertMessage(ctx, welcome); err != nil {
		return nil, fmt.Errorf("persist welcome message: %w", err)
	}
	return in, nil
}

func FinalizeCoach(in *StartState) (StartOutput, error) {
	if in == nil || in.Coach == nil {
		return StartOutput{}, fmt.Errorf("%w: coach is missing from graph state", contractx.ErrValidation)
	}
	return StartOutput{Coach: in.Coach}, nil
}
