package store

import (
	"strings"
	"time"

	"github.com/uptrace/bun"
)

type MessageRole string

const (
	RoleUser  MessageRole = "user"
	RoleCoach MessageRole = "coach"
)

func (r MessageRole) Valid() bool {
	return r == RoleUser || r == RoleCoach
}

// Coach is one provisioned coaching agent. At most one exists per goal, and
// a row is only ever written after the reasoning-service agent behind
// AgentHandle exists. Rows are immutable after insert.
type Coach struct {
	bun.BaseModel `bun:"table:coaches,alias:c"`

	ID            string    `bun:"id,pk" json:"id"`
	UserID        string    `bun:"user_id,notnull" json:"user_id"`
	GoalID        string    `bun:"goal_id,notnull,unique" json:"goal_id"`
	AgentHandle   string    `bun:"agent_handle,notnull" json:"agent_handle"`
	Name          string    `bun:"name,notnull" json:"name"`
	Expertise     []string  `bun:"expertise,array" json:"expertise"`
	Personality   string    `bun:"personality" json:"personality"`
	CoachingStyle string    `bun:"coaching_style" json:"coaching_style"`
	CreatedAt     time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

func (c *Coach) validate() error {
	if c == nil {
		return ErrNilCoach
	}
	if strings.TrimSpace(c.GoalID) == "" {
		return ErrEmptyGoalID
	}
	if strings.TrimSpace(c.AgentHandle) == "" {
		return ErrEmptyAgentHandle
	}
	return nil
}

// CoachMessage is one append-only conversation log entry. Seq is assigned by
// the database and breaks created_at ties so ordering matches insertion
// order.
type CoachMessage struct {
	bun.BaseModel `bun:"table:coach_messages,alias:cm"`

	ID        string      `bun:"id,pk" json:"id"`
	CoachID   string      `bun:"coach_id,notnull" json:"coach_id"`
	Content   string      `bun:"content,notnull" json:"content"`
	Role      MessageRole `bun:"role,notnull" json:"role"`
	Seq       int64       `bun:"seq,autoincrement" json:"-"`
	CreatedAt time.Time   `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

func (m *CoachMessage) validate() error {
	if m == nil {
		return ErrNilMessage
	}
	if strings.TrimSpace(m.CoachID) == "" {
		return ErrEmptyCoachID
	}
	if !m.Role.Valid() {
		return ErrInvalidRole
	}
	return nil
}
