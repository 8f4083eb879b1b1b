package reasoning

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openaisdk "github.com/openai/openai-go"

	contractx "github.com/chayanin/Summit-Goal-Coaching/engine/contract"
)

// OpenAIClient implements the reasoning-service surface on the OpenAI API:
// chat completions for free-form text, files for reference documents,
// assistants for durable agents, and threads+runs for asynchronous turns.
type OpenAIClient struct {
	client *openaisdk.Client
}

var _ contractx.ReasoningClient = (*OpenAIClient)(nil)

func NewOpenAIClient(client *openaisdk.Client) (*OpenAIClient, error) {
	if client == nil {
		return nil, errors.New("openai client is required")
	}
	return &OpenAIClient{client: client}, nil
}

func (c *OpenAIClient) Complete(ctx context.Context, req contractx.CompleteRequest) (string, error) {
	messages := make([]openaisdk.ChatCompletionMessageParamUnion, 0, len(req.Turns)+1)
	messages = append(messages, openaisdk.SystemMessage(req.SystemPrompt))
	for _, turn := range req.Turns {
		switch turn.Role {
		case contractx.RoleAssistant:
			messages = append(messages, openaisdk.AssistantMessage(turn.Content))
		default:
			messages = append(messages, openaisdk.UserMessage(turn.Content))
		}
	}

	params := openaisdk.ChatCompletionNewParams{
		Model:    openaisdk.ChatModel(req.Model),
		Messages: messages,
	}
	if req.Temperature > 0 {
		params.Temperature = openaisdk.Float(req.Temperature)
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("%w: completion: %v", contractx.ErrReasoningService, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: completion returned no choices", contractx.ErrReasoningService)
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("%w: completion returned an empty body", contractx.ErrReasoningService)
	}
	return text, nil
}

func (c *OpenAIClient) UploadDocument(ctx context.Context, content string, filename string) (string, error) {
	file, err := c.client.Files.New(ctx, openaisdk.FileNewParams{
		File:    openaisdk.File(strings.NewReader(content), filename, "text/plain"),
		Purpose: openaisdk.FilePurposeAssistants,
	})
	if err != nil {
		return "", fmt.Errorf("%w: upload document: %v", contractx.ErrReasoningService, err)
	}
	return file.ID, nil
}

func (c *OpenAIClient) DeleteDocument(ctx context.Context, documentID string) error {
	if _, err := c.client.Files.Delete(ctx, documentID); err != nil {
		return fmt.Errorf("%w: delete document: %v", contractx.ErrReasoningService, err)
	}
	return nil
}

func (c *OpenAIClient) CreateAgent(ctx context.Context, spec contractx.AgentSpec) (string, error) {
	params := openaisdk.BetaAssistantNewParams{
		Model:        openaisdk.ChatModel(spec.Model),
		Name:         openaisdk.String(spec.Name),
		Instructions: openaisdk.String(spec.Instructions),
	}
	if len(spec.DocumentIDs) > 0 {
		params.Tools = []openaisdk.AssistantToolUnionParam{
			{OfFileSearch: &openaisdk.FileSearchToolParam{}},
		}
		params.ToolResources = openaisdk.BetaAssistantNewParamsToolResources{
			FileSearch: openaisdk.BetaAssistantNewParamsToolResourcesFileSearch{
				VectorStores: []openaisdk.BetaAssistantNewParamsToolResourcesFileSearchVectorStore{
					{FileIDs: spec.DocumentIDs},
				},
			},
		}
	}

	assistant, err := c.client.Beta.Assistants.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("%w: create agent: %v", contractx.ErrReasoningService, err)
	}
	return assistant.ID, nil
}

// SubmitTurn opens a fresh thread per turn. The agent's cross-turn memory is
// carried only by its instructions and reference documents, never by thread
// continuity.
func (c *OpenAIClient) SubmitTurn(ctx context.Context, agentHandle string, userText string) (contractx.JobHandle, error) {
	thread, err := c.client.Beta.Threads.New(ctx, openaisdk.BetaThreadNewParams{})
	if err != nil {
		return contractx.JobHandle{}, fmt.Errorf("%w: open conversation scope: %v", contractx.ErrReasoningService, err)
	}

	_, err = c.client.Beta.Threads.Messages.New(ctx, thread.ID, openaisdk.BetaThreadMessageNewParams{
		Role: openaisdk.BetaThreadMessageNewParamsRoleUser,
		Content: openaisdk.BetaThreadMessageNewParamsContentUnion{
			OfString: openaisdk.String(userText),
		},
	})
	if err != nil {
		return contractx.JobHandle{}, fmt.Errorf("%w: record user turn: %v", contractx.ErrReasoningService, err)
	}

	run, err := c.client.Beta.Threads.Runs.New(ctx, thread.ID, openaisdk.BetaThreadRunNewParams{
		AssistantID: agentHandle,
	})
	if err != nil {
		return contractx.JobHandle{}, fmt.Errorf("%w: start run: %v", contractx.ErrReasoningService, err)
	}

	return contractx.JobHandle{Scope: thread.ID, Run: run.ID}, nil
}

func (c *OpenAIClient) PollJob(ctx context.Context, job contractx.JobHandle) (contractx.JobStatus, error) {
	run, err := c.client.Beta.Threads.Runs.Get(ctx, job.Scope, job.Run)
	if err != nil {
		return contractx.JobStatus{}, fmt.Errorf("%w: poll run: %v", contractx.ErrReasoningService, err)
	}

	switch run.Status {
	case openaisdk.RunStatusQueued:
		return contractx.JobStatus{State: contractx.JobQueued}, nil
	case openaisdk.RunStatusCompleted:
		return contractx.JobStatus{State: contractx.JobCompleted}, nil
	case openaisdk.RunStatusExpired:
		return contractx.JobStatus{State: contractx.JobExpired}, nil
	case openaisdk.RunStatusFailed:
		reason := "run failed"
		if run.LastError.Message != "" {
			reason = run.LastError.Message
		}
		return contractx.JobStatus{State: contractx.JobFailed, Reason: reason}, nil
	case openaisdk.RunStatusCancelled, openaisdk.RunStatusCancelling:
		return contractx.JobStatus{State: contractx.JobFailed, Reason: "run cancelled"}, nil
	case openaisdk.RunStatusIncomplete:
		reason := "run incomplete"
		if run.IncompleteDetails.Reason != "" {
			reason = run.IncompleteDetails.Reason
		}
		return contractx.JobStatus{State: contractx.JobFailed, Reason: reason}, nil
	default:
		// in_progress and requires_action both mean keep waiting; the
		// coaching agents carry no callable tools, so requires_action
		// resolves service-side.
		return contractx.JobStatus{State: contractx.JobInProgress}, nil
	}
}

// FetchReply returns the newest message's first text content, or "" when the
// completed run produced no extractable text.
func (c *OpenAIClient) FetchReply(ctx context.Context, job contractx.JobHandle) (string, error) {
	page, err := c.client.Beta.Threads.Messages.List(ctx, job.Scope, openaisdk.BetaThreadMessageListParams{
		Order: openaisdk.BetaThreadMessageListParamsOrderDesc,
		Limit: openaisdk.Int(1),
	})
	if err != nil {
		return "", fmt.Errorf("%w: list replies: %v", contractx.ErrReasoningService, err)
	}
	if len(page.Data) == 0 {
		return "", nil
	}

	for _, part := range page.Data[0].Content {
		if text := strings.TrimSpace(part.Text.Value); text != "" {
			return text, nil
		}
	}
	return "", nil
}
