package openaicompat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rhuss/recherche/pkg/provider"
)

func TestClient_Complete_TextResponse(t *testing.T) {
	chatResp := ChatCompletionResponse{
		ID:    "chatcmpl-test-123",
		Model: "test-model",
		Choices: []ChatChoice{
			{
				Index:        0,
				Message:      ChatMessage{Role: "assistant", Content: `{"questions":["Which region?"]}`},
				FinishReason: "stop",
			},
		},
		Usage: &ChatUsage{PromptTokens: 12, CompletionTokens: 9, TotalTokens: 21},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("expected path /v1/chat/completions, got %s", r.URL.Path)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("expected Content-Type application/json, got %s", r.Header.Get("Content-Type"))
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("Authorization = %q, want %q", got, "Bearer sk-test")
		}

		var chatReq ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&chatReq); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		if chatReq.Model != "test-model" {
			t.Errorf("expected model %q, got %q", "test-model", chatReq.Model)
		}
		if chatReq.N != 1 {
			t.Errorf("expected N=1, got %d", chatReq.N)
		}
		if chatReq.Stream {
			t.Error("expected stream to be false")
		}
		if chatReq.ResponseFormat == nil || chatReq.ResponseFormat.Type != "json_object" {
			t.Errorf("expected json_object response format, got %+v", chatReq.ResponseFormat)
		}
		if len(chatReq.Messages) != 2 || chatReq.Messages[0].Role != "system" || chatReq.Messages[1].Content != "hello" {
			t.Errorf("unexpected messages: %+v", chatReq.Messages)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatResp)
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL + "/", APIKey: "sk-test", Model: "test-model", JSONMode: true})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	defer c.Close()

	if c.Name() != "openai-compatible" {
		t.Errorf("Name() = %q", c.Name())
	}

	resp, err := c.Complete(context.Background(), &provider.Request{
		Messages: []provider.Message{
			{Role: provider.RoleSystem, Content: "be brief"},
			{Role: provider.RoleUser, Content: "hello"},
		},
		JSONMode: true,
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}

	if resp.Content != `{"questions":["Which region?"]}` {
		t.Errorf("content = %q", resp.Content)
	}
	if resp.FinishReason != "stop" {
		t.Errorf("finish reason = %q, want stop", resp.FinishReason)
	}
	want := provider.Usage{InputTokens: 12, OutputTokens: 9, TotalTokens: 21}
	if resp.Usage != want {
		t.Errorf("usage = %+v, want %+v", resp.Usage, want)
	}
}

func TestClient_Complete_JSONModeDisabled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]any
		json.NewDecoder(r.Body).Decode(&raw)
		if _, ok := raw["response_format"]; ok {
			t.Errorf("response_format must be omitted when JSON mode is disabled")
		}
		if raw["model"] != "override" {
			t.Errorf("model = %v, want the request override", raw["model"])
		}
		json.NewEncoder(w).Encode(ChatCompletionResponse{
			Choices: []ChatChoice{{Message: ChatMessage{Role: "assistant", Content: "ok"}}},
		})
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL, Model: "default"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := c.Complete(context.Background(), &provider.Request{
		Model:    "override",
		Messages: []provider.Message{{Role: provider.RoleUser, Content: "hi"}},
		JSONMode: true,
	}); err != nil {
		t.Fatalf("Complete: %v", err)
	}
}

func TestClient_Complete_HTTPErrors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{"backend message", http.StatusBadRequest, `{"error":{"message":"context length exceeded","type":"invalid_request_error"}}`, "context length exceeded"},
		{"unauthorized", http.StatusUnauthorized, ``, "backend authentication failed"},
		{"rate limit", http.StatusTooManyRequests, `not json`, "backend rate limit exceeded"},
		{"server error", http.StatusBadGateway, ``, "backend server error"},
		{"not found", http.StatusNotFound, ``, "backend resource not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c, _ := New(Config{BaseURL: srv.URL, Model: "m"})
			_, err := c.Complete(context.Background(), &provider.Request{
				Messages: []provider.Message{{Role: provider.RoleUser, Content: "x"}},
			})

			var be *provider.BackendError
			if !errors.As(err, &be) {
				t.Fatalf("expected *provider.BackendError, got %T (%v)", err, err)
			}
			if be.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", be.StatusCode, tt.status)
			}
			if be.Message != tt.wantMessage {
				t.Errorf("message = %q, want %q", be.Message, tt.wantMessage)
			}
		})
	}
}

func TestClient_Complete_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"x","choices":[]}`))
	}))
	defer srv.Close()

	c, _ := New(Config{BaseURL: srv.URL, Model: "m"})
	_, err := c.Complete(context.Background(), &provider.Request{})
	if err == nil || !strings.Contains(err.Error(), "no choices") {
		t.Errorf("expected no choices error, got %v", err)
	}
}

func TestClient_Complete_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c, _ := New(Config{BaseURL: url, Model: "m", Timeout: time.Second})
	_, err := c.Complete(context.Background(), &provider.Request{})
	if err == nil || !strings.HasPrefix(err.Error(), "backend connection error") {
		t.Errorf("expected connection error, got %v", err)
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(Config{Model: "m"}); err == nil {
		t.Error("expected error for missing BaseURL")
	}
	if _, err := New(Config{BaseURL: "http://x"}); err == nil {
		t.Error("expected error for missing Model")
	}
	c, err := New(Config{BaseURL: "http://x/", Model: "m"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.cfg.BaseURL != "http://x" {
		t.Errorf("BaseURL = %q, want trailing slash trimmed", c.cfg.BaseURL)
	}
	if c.cfg.Timeout != 120*time.Second {
		t.Errorf("Timeout = %v, want default 120s", c.cfg.Timeout)
	}
}
