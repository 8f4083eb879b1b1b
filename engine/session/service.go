package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog/log"

	contractx "github.com/chayanin/Summit-Goal-Coaching/engine/contract"
	nodex "github.com/chayanin/Summit-Goal-Coaching/engine/nodes"
	promptx "github.com/chayanin/Summit-Goal-Coaching/engine/prompt"
	storex "github.com/chayanin/Summit-Goal-Coaching/engine/store"
)

var (
	ErrInvalidGoal        = nodex.ErrInvalidGoal
	ErrInvalidUser        = nodex.ErrInvalidUser
	ErrInvalidDescription = nodex.ErrInvalidDescription
	ErrInvalidCoach       = nodex.ErrInvalidCoach
	ErrInvalidMessage     = nodex.ErrInvalidMessage
)

// Orchestrator coordinates the provisioning chain and the per-turn exchange
// into the engine's public operations. It holds no mutable state beyond its
// injected collaborators, so a single instance serves concurrent sessions.
type Orchestrator struct {
	store       storex.Store
	interviewer contractx.Interviewer
	synthesizer contractx.Synthesizer
	provisioner contractx.Provisioner
	runner      contractx.TurnRunner

	prompts promptx.PromptSet

	startRunner compose.Runnable[nodex.StartInput, nodex.StartOutput]
	sendRunner  compose.Runnable[nodex.SendInput, nodex.SendOutput]

	now func() time.Time
}

func New(
	store storex.Store,
	interviewer contractx.Interviewer,
	synthesizer contractx.Synthesizer,
	provisioner contractx.Provisioner,
	runner contractx.TurnRunner,
) (*Orchestrator, error) {
	if store == nil {
		return nil, errors.New("store is required")
	}
	if interviewer == nil {
		return nil, errors.New("interviewer is required")
	}
	if synthesizer == nil {
		return nil, errors.New("synthesizer is required")
	}
	if provisioner == nil {
		return nil, errors.New("provisioner is required")
	}
	if runner == nil {
		return nil, errors.New("turn runner is required")
	}

	o := &Orchestrator{
		store:       store,
		interviewer: interviewer,
		synthesizer: synthesizer,
		provisioner: provisioner,
		runner:      runner,
		prompts:     promptx.LoadPromptSet(),
		now:         time.Now,
	}

	startRunner, err := o.compileStartCoachingGraph(context.Background())
	if err != nil {
		return nil, err
	}
	o.startRunner = startRunner

	sendRunner, err := o.compileSendMessageGraph(context.Background())
	if err != nil {
		return nil, err
	}
	o.sendRunner = sendRunner

	return o, nil
}

// StartCoaching turns a goal description into a provisioned coach: interview,
// persona synthesis, agent provisioning, then the coach row and its welcome
// message. Any failure before the coach row is written leaves no trace.
func (o *Orchestrator) StartCoaching(ctx context.Context, goalID, userID, description string) (*storex.Coach, error) {
	out, err := o.startRunner.Invoke(ctx, nodex.StartInput{
		GoalID:      goalID,
		UserID:      userID,
		Description: description,
	})
	if err != nil {
		return nil, fmt.Errorf("start coaching: %w", err)
	}

	log.Info().
		Str("goal_id", out.Coach.GoalID).
		Str("coach_id", out.Coach.ID).
		Str("coach_name", out.Coach.Name).
		Msg("coach provisioned")
	return out.Coach, nil
}

// SendMessage persists the user turn, runs it against the coach's agent, and
// persists the reply. When the turn fails the user message stays in the log
// and the error surfaces unchanged; no placeholder reply is synthesized.
func (o *Orchestrator) SendMessage(ctx context.Context, coachID, text string) (storex.CoachMessage, storex.CoachMessage, error) {
	out, err := o.sendRunner.Invoke(ctx, nodex.SendInput{
		CoachID: coachID,
		Text:    text,
	})
	if err != nil {
		return storex.CoachMessage{}, storex.CoachMessage{}, fmt.Errorf("send message: %w", err)
	}
	return out.UserMessage, out.CoachMessage, nil
}

// GetMessages returns the coach's conversation log oldest-first. A coach
// with no messages yields an empty slice, not an error.
func (o *Orchestrator) GetMessages(ctx context.Context, coachID string) ([]storex.CoachMessage, error) {
	msgs, err := o.store.ListMessagesByCoachID(ctx, coachID)
	if err != nil {
		return nil, fmt.Errorf("get messages: %w", err)
	}
	return msgs, nil
}

// GetCoachForGoal resolves the coach provisioned for a goal, if any.
func (o *Orchestrator) GetCoachForGoal(ctx context.Context, goalID string) (*storex.Coach, error) {
	coach, err := o.store.GetCoachByGoalID(ctx, goalID)
	if err != nil {
		return nil, fmt.Errorf("get coach for goal: %w", err)
	}
	return coach, nil
}
