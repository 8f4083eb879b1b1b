package sessionnode

import (
	"context"
	"fmt"
	"strings"
	"time"

	contractx "github.com/chayanin/Summit-Goal-Coaching/engine/contract"
	storex "github.com/chayanin/Summit-Goal-Coaching/engine/store"
)

func ValidateSend(in SendInput, nowFn func() time.Time) (*SendState, error) {
	coachID := strings.TrimSpace(in.CoachID)
	if coachID == "" {
		return nil, ErrInvalidCoach
	}
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, ErrInvalidMessage
	}

	return &SendState{
		CoachID: coachID,
		Text:    text,
		Now:     nowFn().UTC(),
	}, nil
}

func ResolveCoach(ctx context.Context, in *SendState, store storex.Store) (*SendState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	coach, err := store.GetCoachByID(ctx, in.CoachID)
	if err != nil {
		return nil, fmt.Errorf("resolve coach: %w", err)
	}
	in.Coach = coach
	return in, nil
}

// PersistUserMessage writes the user turn before anything is submitted to
// the reasoning service, so a failed turn still leaves the attempt in the
// conversation log.
func PersistUserMessage(ctx context.Context, in *SendState, store storex.Store) (*SendState, error) {
	if in == nil || in.Coach == nil {
		return nil, fmt.Errorf("%w: coach is missing from graph state", contractx.ErrValidation)
	}

	msg := &storex.CoachMessage{
		CoachID: in.Coach.ID,
		Content: in.Text,
		Role:    storex.RoleUser,
	}
	if err := store.InsertMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("persist user message: %w", err)
	}
	in.UserMessage = *msg
	return in, nil
}

func RunTurn(ctx context.Context, in *SendState, runner contractx.TurnRunner) (*SendState, error) {
	if in == nil || in.Coach == nil {
		return nil, fmt.Errorf("%w: coach is missing from graph state", contractx.ErrValidation)
	}

	reply, err := runner.RunTurn(ctx, in.Coach.AgentHandle, in.Text)
	if err != nil {
		return nil, fmt.Errorf("turn: %w", err)
	}
	in.Reply = reply
	return in, nil
}

func PersistReply(ctx context.Context, in *SendState, store storex.Store) (*SendState, error) {
	if in == nil || in.Coach == nil {
		return nil, fmt.Errorf("%w: coach is missing from graph state", contractx.ErrValidation)
	}

	msg := &storex.CoachMessage{
		CoachID: in.Coach.ID,
		Content: in.Reply,
		Role:    storex.RoleCoach,
	}
	if err := store.InsertMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("persist coach message: %w", err)
	}
	in.CoachMessage = *msg
	return in, nil
}

func FinalizeMessages(in *SendState) (SendOutput, error) {
	if in == nil {
		return SendOutput{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if in.UserMessage.ID == "" || in.CoachMessage.ID == "" {
		return SendOutput{}, fmt.Errorf("%w: message pair is incomplete", contractx.ErrValidation)
	}
	return SendOutput{
		UserMessage:  in.UserMessage,
		CoachMessage: in.CoachMessage,
	}, nil
}
