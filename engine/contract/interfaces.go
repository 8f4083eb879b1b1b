package contract

import "context"

// ReasoningClient is the full capability surface the engine consumes from
// the external reasoning service. Constructed once at startup and passed
// explicitly into every component so tests can substitute doubles.
type ReasoningClient interface {
	// Complete runs one free-form completion over a system prompt plus
	// prior turns and returns the raw reply text.
	Complete(ctx context.Context, req CompleteRequest) (string, error)

	// UploadDocument stores content as a reference document and returns
	// its service-assigned handle.
	UploadDocument(ctx context.Context, content string, filename string) (string, error)

	// DeleteDocument removes an uploaded document. Used only to compensate
	// a failed agent creation.
	DeleteDocument(ctx context.Context, documentID string) error

	// CreateAgent creates a durable agent and returns its handle.
	CreateAgent(ctx context.Context, spec AgentSpec) (string, error)

	// SubmitTurn opens a fresh conversation scope, records userText in it,
	// and starts an asynchronous run against the agent.
	SubmitTurn(ctx context.Context, agentHandle string, userText string) (JobHandle, error)

	// PollJob reports the job's current status.
	PollJob(ctx context.Context, job JobHandle) (JobStatus, error)

	// FetchReply extracts the reply text of a completed job.
	FetchReply(ctx context.Context, job JobHandle) (string, error)
}

// Interviewer turns a goal description into an interview transcript.
type Interviewer interface {
	Conduct(ctx context.Context, goalDescription string) (string, error)
}

// Synthesizer derives a validated coach persona from a transcript.
type Synthesizer interface {
	Synthesize(ctx context.Context, transcript string) (CoachPersona, error)
}

// Provisioner creates a durable agent bound to a persona and its reference
// transcript, returning the agent handle.
type Provisioner interface {
	Provision(ctx context.Context, persona CoachPersona, referenceText string) (string, error)
}

// TurnRunner executes one conversational turn to completion.
type TurnRunner interface {
	RunTurn(ctx context.Context, agentHandle string, userText string) (string, error)
}
