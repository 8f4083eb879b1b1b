package contract

import (
	"fmt"
	"strings"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one prior message in a completion request.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// CompleteRequest is one free-form completion call. Model and Temperature
// are chosen per stage by the caller; zero Temperature means service
// default.
type CompleteRequest struct {
	SystemPrompt string
	Turns        []Turn
	Model        string
	Temperature  float64
}

// CoachPersona is the structured output of profile synthesis. It is never
// persisted standalone; its fields are copied onto the coach row once an
// agent has been provisioned for it.
type CoachPersona struct {
	Name          string   `json:"name"`
	Expertise     []string `json:"expertise"`
	Personality   string   `json:"personality"`
	CoachingStyle string   `json:"coaching_style"`
}

// Validate rejects a persona with any empty field. A persona that fails
// here must never reach agent provisioning.
func (p CoachPersona) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: persona name is empty", ErrPersonaSynthesis)
	}
	if len(p.Expertise) == 0 {
		return fmt.Errorf("%w: persona expertise is empty", ErrPersonaSynthesis)
	}
	for i, area := range p.Expertise {
		if strings.TrimSpace(area) == "" {
			return fmt.Errorf("%w: persona expertise[%d] is blank", ErrPersonaSynthesis, i)
		}
	}
	if strings.TrimSpace(p.Personality) == "" {
		return fmt.Errorf("%w: persona personality is empty", ErrPersonaSynthesis)
	}
	if strings.TrimSpace(p.CoachingStyle) == "" {
		return fmt.Errorf("%w: persona coaching style is empty", ErrPersonaSynthesis)
	}
	return nil
}

// AgentSpec describes the durable agent to create on the reasoning service.
type AgentSpec struct {
	Name         string
	Instructions string
	DocumentIDs  []string
	Model        string
}

// JobHandle addresses one asynchronous turn: the conversation scope it runs
// in plus the run itself. Opaque to everything but the reasoning client.
type JobHandle struct {
	Scope string
	Run   string
}

type JobState string

const (
	JobQueued     JobState = "queued"
	JobInProgress JobState = "in_progress"
	JobCompleted  JobState = "completed"
	JobFailed     JobState = "failed"
	JobExpired    JobState = "expired"
)

// Terminal reports whether polling can stop at this state.
func (s JobState) Terminal() bool {
	switch s {
	case JobCompleted, JobFailed, JobExpired:
		return true
	}
	return false
}

// JobStatus is one poll observation. Reason carries the service-reported
// failure detail when State is JobFailed.
type JobStatus struct {
	State  JobState
	Reason string
}
