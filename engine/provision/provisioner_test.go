package provision

import (
	"context"
	"errors"
	"strings"
	"testing"

	contractx "github.com/chayanin/Summit-Goal-Coaching/engine/contract"
)

type fakeClient struct {
	documentID string
	uploadErr  error
	uploads    int

	agentHandle string
	createErr   error
	lastSpec    contractx.AgentSpec
	creates     int

	deleteErr  error
	deletedIDs []string
}

func (f *fakeClient) Complete(ctx context.Context, req contractx.CompleteRequest) (string, error) {
	return "", errors.New("not used")
}

func (f *fakeClient) UploadDocument(ctx context.Context, content, filename string) (string, error) {
	f.uploads++
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	return f.documentID, nil
}

func (f *fakeClient) DeleteDocument(ctx context.Context, documentID string) error {
	f.deletedIDs = append(f.deletedIDs, documentID)
	return f.deleteErr
}

func (f *fakeClient) CreateAgent(ctx context.Context, spec contractx.AgentSpec) (string, error) {
	f.creates++
	f.lastSpec = spec
	if f.createErr != nil {
		return "", f.createErr
	}
	return f.agentHandle, nil
}

func (f *fakeClient) SubmitTurn(ctx context.Context, agentHandle, userText string) (contractx.JobHandle, error) {
	return contractx.JobHandle{}, errors.New("not used")
}

func (f *fakeClient) PollJob(ctx context.Context, job contractx.JobHandle) (contractx.JobStatus, error) {
	return contractx.JobStatus{}, errors.New("not used")
}

func (f *fakeClient) FetchReply(ctx context.Context, job contractx.JobHandle) (string, error) {
	return "", errors.New("not used")
}

const instructionsTemplate = "You are {name}, expert in {expertise}. " +
	"Personality: {personality}. Style: {coaching_style}."

func validPersona() contractx.CoachPersona {
	return contractx.CoachPersona{
		Name:          "Coach Dana",
		Expertise:     []string{"endurance training", "habit building"},
		Personality:   "Warm but direct",
		CoachingStyle: "Structured weekly check-ins",
	}
}

func newTestProvisioner(t *testing.T, client contractx.ReasoningClient) *AgentProvisioner {
	t.Helper()
	p, err := NewAgentProvisioner(client, "gpt-4-turbo-preview", instructionsTemplate)
	if err != nil {
		t.Fatalf("NewAgentProvisioner() error = %v", err)
	}
	return p
}

func TestProvisionCreatesAgent(t *testing.T) {
	t.Parallel()

	client := &fakeClient{documentID: "file-123", agentHandle: "asst-456"}
	p := newTestProvisioner(t, client)

	handle, err := p.Provision(context.Background(), validPersona(), "interview transcript")
	if err != nil {
		t.Fatalf("Provision() error = %v", err)
	}
	if handle != "asst-456" {
		t.Fatalf("handle = %q", handle)
	}
	if len(client.deletedIDs) != 0 {
		t.Fatalf("unexpected document deletes: %v", client.deletedIDs)
	}

	spec := client.lastSpec
	if spec.Name != "Coach Dana" {
		t.Fatalf("agent name = %q", spec.Name)
	}
	if spec.Model != "gpt-4-turbo-preview" {
		t.Fatalf("agent model = %q", spec.Model)
	}
	if len(spec.DocumentIDs) != 1 || spec.DocumentIDs[0] != "file-123" {
		t.Fatalf("document ids = %v", spec.DocumentIDs)
	}
	for _, want := range []string{
		"Coach Dana",
		"endurance training, habit building",
		"Warm but direct",
		"Structured weekly check-ins",
	} {
		if !strings.Contains(spec.Instructions, want) {
			t.Fatalf("instructions missing %q: %q", want, spec.Instructions)
		}
	}
	if strings.Contains(spec.Instructions, "{") {
		t.Fatalf("unrendered placeholder in instructions: %q", spec.Instructions)
	}
}

func TestProvisionInvalidPersona(t *testing.T) {
	t.Parallel()

	client := &fakeClient{documentID: "file-123", agentHandle: "asst-456"}
	p := newTestProvisioner(t, client)

	persona := validPersona()
	persona.Name = " "
	_, err := p.Provision(context.Background(), persona, "transcript")
	if !errors.Is(err, contractx.ErrPersonaSynthesis) {
		t.Fatalf("expected ErrPersonaSynthesis, got %v", err)
	}
	if client.uploads != 0 {
		t.Fatal("invalid persona must not upload")
	}
}

func TestProvisionEmptyReference(t *testing.T) {
	t.Parallel()

	p := newTestProvisioner(t, &fakeClient{})
	if _, err := p.Provision(context.Background(), validPersona(), "  "); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestProvisionUploadFailure(t *testing.T) {
	t.Parallel()

	client := &fakeClient{uploadErr: errors.New("disk full")}
	p := newTestProvisioner(t, client)

	_, err := p.Provision(context.Background(), validPersona(), "transcript")
	if !errors.Is(err, contractx.ErrProvisioning) {
		t.Fatalf("expected ErrProvisioning, got %v", err)
	}
	if client.creates != 0 {
		t.Fatal("failed upload must not create an agent")
	}
	if len(client.deletedIDs) != 0 {
		t.Fatal("nothing to compensate when upload failed")
	}
}

func TestProvisionCreateFailureDeletesDocument(t *testing.T) {
	t.Parallel()

	client := &fakeClient{documentID: "file-123", createErr: errors.New("quota exceeded")}
	p := newTestProvisioner(t, client)

	_, err := p.Provision(context.Background(), validPersona(), "transcript")
	if !errors.Is(err, contractx.ErrProvisioning) {
		t.Fatalf("expected ErrProvisioning, got %v", err)
	}
	if len(client.deletedIDs) != 1 || client.deletedIDs[0] != "file-123" {
		t.Fatalf("expected compensating delete of file-123, got %v", client.deletedIDs)
	}
}

func TestProvisionDeleteFailureStillReported(t *testing.T) {
	t.Parallel()

	client := &fakeClient{
		documentID: "file-123",
		createErr:  errors.New("quota exceeded"),
		deleteErr:  errors.New("already gone"),
	}
	p := newTestProvisioner(t, client)

	_, err := p.Provision(context.Background(), validPersona(), "transcript")
	if !errors.Is(err, contractx.ErrProvisioning) {
		t.Fatalf("expected ErrProvisioning despite delete failure, got %v", err)
	}
}

func TestProvisionEmptyHandle(t *testing.T) {
	t.Parallel()

	client := &fakeClient{documentID: "file-123", agentHandle: "  "}
	p := newTestProvisioner(t, client)

	_, err := p.Provision(context.Background(), validPersona(), "transcript")
	if !errors.Is(err, contractx.ErrProvisioning) {
		t.Fatalf("expected ErrProvisioning, got %v", err)
	}
}

func TestNewAgentProvisionerRequiresDependencies(t *testing.T) {
	t.Parallel()

	if _, err := NewAgentProvisioner(nil, "gpt-4", instructionsTemplate); err == nil {
		t.Fatal("expected error for nil client")
	}
	if _, err := NewAgentProvisioner(&fakeClient{}, " ", instructionsTemplate); err == nil {
		t.Fatal("expected error for blank model")
	}
	if _, err := NewAgentProvisioner(&fakeClient{}, "gpt-4", " "); err == nil {
		t.Fatal("expected error for blank template")
	}
}
