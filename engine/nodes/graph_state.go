package sessionnode

import (
	"errors"
	"time"

	contractx "github.com/chayanin/Summit-Goal-Coaching/engine/contract"
	storex "github.com/chayanin/Summit-Goal-Coaching/engine/store"
)

var (
	ErrInvalidGoal        = errors.New("goal id is empty")
	ErrInvalidUser        = errors.New("user id is empty")
	ErrInvalidDescription = errors.New("goal description is empty")
	ErrInvalidCoach       = errors.New("coach id is empty")
	ErrInvalidMessage     = errors.New("message is empty")
)

type StartInput struct {
	GoalID      string
	UserID      string
	Description string
}

type StartOutput struct {
	Coach *storex.Coach
}

// StartState is threaded through the start-coaching graph; each node fills
// the field its step produces.
type StartState struct {
	GoalID      string
	UserID      string
	Description string
	Now         time.Time

	Transcript  string
	Persona     contractx.CoachPersona
	AgentHandle string
	Coach       *storex.Coach
}

type SendInput struct {
	CoachID string
	Text    string
}

type SendOutput struct {
	UserMessage  storex.CoachMessage
	CoachMessage storex.CoachMessage
}

// SendState is threaded through the send-message graph.
type SendState struct {
	CoachID string
	Text    string
	Now     time.Time

	Coach        *storex.Coach
	UserMessage  storex.CoachMessage
	Reply        string
	CoachMessage storex.CoachMessage
}
