package reasoning

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	contractx "github.com/chayanin/Summit-Goal-Coaching/engine/contract"
)

func newTestClient(t *testing.T, handler http.Handler) *OpenAIClient {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	sdk := openaisdk.NewClient(
		option.WithBaseURL(srv.URL),
		option.WithAPIKey("test-key"),
		option.WithMaxRetries(0),
	)
	c, err := NewOpenAIClient(&sdk)
	if err != nil {
		t.Fatalf("NewOpenAIClient() error = %v", err)
	}
	return c
}

func writeJSON(t *testing.T, w http.ResponseWriter, body any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		t.Errorf("encode response: %v", err)
	}
}

func TestNewOpenAIClientRequiresSDK(t *testing.T) {
	t.Parallel()

	if _, err := NewOpenAIClient(nil); err == nil {
		t.Fatal("expected error for nil sdk client")
	}
}

func TestCompleteReturnsTrimmedText(t *testing.T) {
	t.Parallel()

	var gotBody map[string]any
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		writeJSON(t, w, map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"choices": []map[string]any{
				{
					"index":         0,
					"finish_reason": "stop",
					"message": map[string]any{
						"role":    "assistant",
						"content": "  Q1: What does success look like?  ",
					},
				},
			},
		})
	}))

	text, err := c.Complete(context.Background(), contractx.CompleteRequest{
		SystemPrompt: "system",
		Turns: []contractx.Turn{
			{Role: contractx.RoleUser, Content: "Run a marathon"},
		},
		Model:       "gpt-4",
		Temperature: 0.7,
	})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if text != "Q1: What does success look like?" {
		t.Fatalf("text = %q", text)
	}
	if gotBody["model"] != "gpt-4" {
		t.Fatalf("request model = %v", gotBody["model"])
	}
	if gotBody["temperature"] != 0.7 {
		t.Fatalf("request temperature = %v", gotBody["temperature"])
	}
	msgs, ok := gotBody["messages"].([]any)
	if !ok || len(msgs) != 2 {
		t.Fatalf("request messages = %v", gotBody["messages"])
	}
}

func TestCompleteEmptyChoices(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"choices": []any{},
		})
	}))

	_, err := c.Complete(context.Background(), contractx.CompleteRequest{Model: "gpt-4"})
	if !errors.Is(err, contractx.ErrReasoningService) {
		t.Fatalf("expected ErrReasoningService, got %v", err)
	}
}

func TestCompleteBlankBody(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"choices": []map[string]any{
				{"index": 0, "message": map[string]any{"role": "assistant", "content": "   "}},
			},
		})
	}))

	_, err := c.Complete(context.Background(), contractx.CompleteRequest{Model: "gpt-4"})
	if !errors.Is(err, contractx.ErrReasoningService) {
		t.Fatalf("expected ErrReasoningService for blank body, got %v", err)
	}
}

func TestCompleteServiceError(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"overloaded"}}`, http.StatusServiceUnavailable)
	}))

	_, err := c.Complete(context.Background(), contractx.CompleteRequest{Model: "gpt-4"})
	if !errors.Is(err, contractx.ErrReasoningService) {
		t.Fatalf("expected ErrReasoningService, got %v", err)
	}
}

func TestSubmitTurnOpensFreshScope(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /threads", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"id": "thread-1", "object": "thread"})
	})
	mux.HandleFunc("POST /threads/thread-1/messages", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"id": "msg-1", "object": "thread.message"})
	})
	mux.HandleFunc("POST /threads/thread-1/runs", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode run request: %v", err)
		}
		if body["assistant_id"] != "asst-1" {
			t.Errorf("assistant_id = %v", body["assistant_id"])
		}
		writeJSON(t, w, map[string]any{"id": "run-1", "object": "thread.run", "status": "queued"})
	})

	c := newTestClient(t, mux)

	job, err := c.SubmitTurn(context.Background(), "asst-1", "What should I do this week?")
	if err != nil {
		t.Fatalf("SubmitTurn() error = %v", err)
	}
	if job.Scope != "thread-1" || job.Run != "run-1" {
		t.Fatalf("job = %+v", job)
	}
}

func TestPollJobMapsRunStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		run        map[string]any
		wantState  contractx.JobState
		wantReason string
	}{
		{
			name:      "queued",
			run:       map[string]any{"status": "queued"},
			wantState: contractx.JobQueued,
		},
		{
			name:      "in progress",
			run:       map[string]any{"status": "in_progress"},
			wantState: contractx.JobInProgress,
		},
		{
			name:      "requires action treated as in progress",
			run:       map[string]any{"status": "requires_action"},
			wantState: contractx.JobInProgress,
		},
		{
			name:      "completed",
			run:       map[string]any{"status": "completed"},
			wantState: contractx.JobCompleted,
		},
		{
			name:      "expired",
			run:       map[string]any{"status": "expired"},
			wantState: contractx.JobExpired,
		},
		{
			name: "failed carries last error",
			run: map[string]any{
				"status":     "failed",
				"last_error": map[string]any{"code": "rate_limit_exceeded", "message": "rate limit hit"},
			},
			wantState:  contractx.JobFailed,
			wantReason: "rate limit hit",
		},
		{
			name:       "cancelled maps to failed",
			run:        map[string]any{"status": "cancelled"},
			wantState:  contractx.JobFailed,
			wantReason: "run cancelled",
		},
		{
			name: "incomplete carries detail",
			run: map[string]any{
				"status":             "incomplete",
				"incomplete_details": map[string]any{"reason": "max_completion_tokens"},
			},
			wantState:  contractx.JobFailed,
			wantReason: "max_completion_tokens",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			run := map[string]any{"id": "run-1", "object": "thread.run"}
			for k, v := range tt.run {
				run[k] = v
			}
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/threads/thread-1/runs/run-1" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				writeJSON(t, w, run)
			}))

			status, err := c.PollJob(context.Background(), contractx.JobHandle{Scope: "thread-1", Run: "run-1"})
			if err != nil {
				t.Fatalf("PollJob() error = %v", err)
			}
			if status.State != tt.wantState {
				t.Fatalf("state = %q, want %q", status.State, tt.wantState)
			}
			if tt.wantReason != "" && status.Reason != tt.wantReason {
				t.Fatalf("reason = %q, want %q", status.Reason, tt.wantReason)
			}
		})
	}
}

func TestFetchReplyReturnsNewestText(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("order") != "desc" {
			t.Errorf("order = %q, want desc", r.URL.Query().Get("order"))
		}
		writeJSON(t, w, map[string]any{
			"object": "list",
			"data": []map[string]any{
				{
					"id":   "msg-2",
					"role": "assistant",
					"content": []map[string]any{
						{"type": "text", "text": map[string]any{"value": "Start with a 3-mile run."}},
					},
				},
			},
		})
	}))

	reply, err := c.FetchReply(context.Background(), contractx.JobHandle{Scope: "thread-1", Run: "run-1"})
	if err != nil {
		t.Fatalf("FetchReply() error = %v", err)
	}
	if reply != "Start with a 3-mile run." {
		t.Fatalf("reply = %q", reply)
	}
}

func TestFetchReplyEmptyThread(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"object": "list", "data": []any{}})
	}))

	reply, err := c.FetchReply(context.Background(), contractx.JobHandle{Scope: "thread-1", Run: "run-1"})
	if err != nil {
		t.Fatalf("FetchReply() error = %v", err)
	}
	if reply != "" {
		t.Fatalf("reply = %q, want empty", reply)
	}
}

func TestUploadDocument(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/files" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		writeJSON(t, w, map[string]any{"id": "file-1", "object": "file"})
	}))

	id, err := c.UploadDocument(context.Background(), "interview transcript", "initial-interview.txt")
	if err != nil {
		t.Fatalf("UploadDocument() error = %v", err)
	}
	if id != "file-1" {
		t.Fatalf("id = %q", id)
	}
}

func TestCreateAgentAttachesDocuments(t *testing.T) {
	t.Parallel()

	var gotBody map[string]any
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/assistants" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		writeJSON(t, w, map[string]any{"id": "asst-1", "object": "assistant"})
	}))

	handle, err := c.CreateAgent(context.Background(), contractx.AgentSpec{
		Name:         "Coach Dana",
		Instructions: "You are Coach Dana.",
		DocumentIDs:  []string{"file-1"},
		Model:        "gpt-4-turbo-preview",
	})
	if err != nil {
		t.Fatalf("CreateAgent() error = %v", err)
	}
	if handle != "asst-1" {
		t.Fatalf("handle = %q", handle)
	}
	if gotBody["model"] != "gpt-4-turbo-preview" {
		t.Fatalf("model = %v", gotBody["model"])
	}
	if _, ok := gotBody["tool_resources"]; !ok {
		t.Fatal("tool_resources missing from request")
	}
}
