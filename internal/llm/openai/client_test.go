package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/NancyCima/Azure-Dashboard/internal/llm"
	"github.com/NancyCima/Azure-Dashboard/internal/shared/telemetry"
)

func newTestClient(t *testing.T, model string, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := NewClient("sk-test", model, telemetry.NewTestLogger(t), WithBaseURL(srv.URL+"/v1"))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

const okBody = `{"id":"chatcmpl-1","object":"chat.completion","model":"gpt-4",
"choices":[{"index":0,"message":{"role":"assistant","content":"  Suggested Acceptance Criteria:\n- A  "},"finish_reason":"stop"}],
"usage":{"prompt_tokens":10,"completion_tokens":5,"total_tokens":15}}`

func TestCompleteSendsPromptAndLimits(t *testing.T) {
	var payload map[string]any
	c := newTestClient(t, "gpt-4", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Errorf("unexpected auth header %q", r.Header.Get("Authorization"))
		}
		_ = json.NewDecoder(r.Body).Decode(&payload)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, okBody)
	})

	got, err := c.Complete(context.Background(), llm.Request{System: "sys", Prompt: "hola", MaxTokens: 1000, Temperature: 0.7})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "Suggested Acceptance Criteria:\n- A" {
		t.Fatalf("unexpected content %q", got)
	}
	if payload["max_tokens"] != float64(1000) {
		t.Fatalf("expected max_tokens=1000, got %v", payload["max_tokens"])
	}
	if temp, _ := payload["temperature"].(float64); temp < 0.69 || temp > 0.71 {
		t.Fatalf("expected temperature 0.7, got %v", payload["temperature"])
	}
	msgs := payload["messages"].([]any)
	if len(msgs) != 2 || msgs[0].(map[string]any)["content"] != "sys" || msgs[1].(map[string]any)["content"] != "hola" {
		t.Fatalf("unexpected messages %v", msgs)
	}
}

func TestCompleteInlinesImages(t *testing.T) {
	type part struct {
		Type     string `json:"type"`
		Text     string `json:"text"`
		ImageURL struct {
			URL string `json:"url"`
		} `json:"image_url"`
	}
	var payload struct {
		Messages []struct {
			Role    string          `json:"role"`
			Content json.RawMessage `json:"content"`
		} `json:"messages"`
	}
	c := newTestClient(t, "gpt-4o", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&payload)
		_, _ = io.WriteString(w, okBody)
	})

	_, err := c.Complete(context.Background(), llm.Request{Prompt: "mira", Images: []llm.Image{{MIMEType: "image/jpeg", Base64: "QUJD"}}})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if len(payload.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(payload.Messages))
	}
	var parts []part
	if err := json.Unmarshal(payload.Messages[1].Content, &parts); err != nil {
		t.Fatalf("expected multi-part user content: %v", err)
	}
	if len(parts) != 2 || parts[0].Text != "mira" || parts[1].ImageURL.URL != "data:image/jpeg;base64,QUJD" {
		t.Fatalf("unexpected parts %+v", parts)
	}
}

func TestCompleteReasoningModelUsesCompletionTokens(t *testing.T) {
	var payload map[string]any
	c := newTestClient(t, "gpt-5-mini", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&payload)
		_, _ = io.WriteString(w, okBody)
	})

	if _, err := c.Complete(context.Background(), llm.Request{Prompt: "x", MaxTokens: 500, Temperature: 0.7}); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if payload["max_completion_tokens"] != float64(500) {
		t.Fatalf("expected max_completion_tokens, got %v", payload)
	}
	if _, ok := payload["max_tokens"]; ok {
		t.Fatalf("max_tokens must be omitted for reasoning models")
	}
	if _, ok := payload["temperature"]; ok {
		t.Fatalf("temperature must be omitted for reasoning models")
	}
}

func TestCompleteClassifiesErrors(t *testing.T) {
	tests := []struct {
		status int
		want   llm.ErrorKind
	}{
		{http.StatusUnauthorized, llm.ErrorAuth},
		{http.StatusTooManyRequests, llm.ErrorRateLimit},
		{http.StatusBadRequest, llm.ErrorBadRequest},
		{http.StatusInternalServerError, llm.ErrorOther},
	}
	for _, tt := range tests {
		c := newTestClient(t, "gpt-4", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(tt.status)
			_, _ = io.WriteString(w, `{"error":{"message":"nope","type":"invalid_request_error"}}`)
		})
		_, err := c.Complete(context.Background(), llm.Request{Prompt: "x"})
		if llm.KindOf(err) != tt.want {
			t.Fatalf("status %d: expected %s, got %s (%v)", tt.status, tt.want, llm.KindOf(err), err)
		}
	}
}

func TestCompleteConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := NewClient("sk-test", "gpt-4", telemetry.NewNoOpLogger(), WithBaseURL(url))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	_, err = c.Complete(context.Background(), llm.Request{Prompt: "x"})
	if llm.KindOf(err) != llm.ErrorConnection {
		t.Fatalf("expected connection error, got %v", err)
	}
}

func TestNewClientValidates(t *testing.T) {
	if _, err := NewClient("", "gpt-4", nil); err == nil {
		t.Fatalf("expected error for missing key")
	}
	if _, err := NewClient("k", " ", nil); err == nil {
		t.Fatalf("expected error for missing model")
	}
}

func TestUsesCompletionTokens(t *testing.T) {
	tests := map[string]bool{"gpt-4": false, "gpt-4o": false, "o1-mini": true, "o3": true, " GPT-5 ": true, "": false}
	for model, want := range tests {
		if got := usesCompletionTokens(model); got != want {
			t.Fatalf("usesCompletionTokens(%q) = %v, want %v", model, got, want)
		}
	}
}
