package openaicompat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rhuss/recherche/pkg/debug"
	"github.com/rhuss/recherche/pkg/observability"
	"github.com/rhuss/recherche/pkg/provider"
)

// Config holds configuration for the Chat Completions client.
type Config struct {
	// BaseURL is the backend URL (e.g., "http://localhost:8000").
	BaseURL string

	// APIKey for backend authentication (optional).
	APIKey string

	// Model is used when a request does not name one.
	Model string

	// Timeout for individual HTTP requests. Defaults to 120s.
	Timeout time.Duration

	// JSONMode sends response_format=json_object for requests that ask
	// for JSON. Disable for backends that reject the field.
	JSONMode bool
}

// Client performs HTTP requests against an OpenAI-compatible Chat
// Completions backend.
type Client struct {
	httpClient *http.Client
	cfg        Config
}

// Ensure Client implements provider.Provider at compile time.
var _ provider.Provider = (*Client)(nil)

// New creates a new Client. Returns an error if the configuration is invalid.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("openaicompat: BaseURL is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("openaicompat: Model is required")
	}

	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
	}, nil
}

// Name returns the provider identifier.
func (c *Client) Name() string {
	return "openai-compatible"
}

// Complete performs non-streaming inference against the Chat Completions endpoint.
func (c *Client) Complete(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	chatReq := c.translateRequest(req)

	start := time.Now()
	resp, err := c.do(ctx, chatReq)
	var in, out int
	if resp != nil {
		in, out = resp.Usage.InputTokens, resp.Usage.OutputTokens
	}
	observability.ObserveLLM(chatReq.Model, time.Since(start), in, out, err)

	if err != nil {
		debug.Log("llm", "completion failed", "model", chatReq.Model, "error", err)
		return nil, err
	}
	debug.Log("llm", "completion done",
		"model", resp.Model, "finish_reason", resp.FinishReason,
		"input_tokens", in, "output_tokens", out,
		"duration", time.Since(start))
	return resp, nil
}

func (c *Client) do(ctx context.Context, chatReq *ChatCompletionRequest) (*provider.Response, error) {
	body, err := json.Marshal(chatReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.cfg.BaseURL + "/v1/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	debug.Log("llm", "request", "method", http.MethodPost, "url", url, "messages", len(chatReq.Messages))
	if debug.TraceIsEnabled("llm") {
		debug.Trace("llm", "request body", "body", debug.Truncate(string(body), 4096))
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, MapNetworkError(err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, MapHTTPError(httpResp)
	}

	var chatResp ChatCompletionResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("failed to parse backend response: %w", err)
	}

	return translateResponse(&chatResp)
}

func (c *Client) translateRequest(req *provider.Request) *ChatCompletionRequest {
	model := req.Model
	if model == "" {
		model = c.cfg.Model
	}

	chatReq := &ChatCompletionRequest{
		Model:       model,
		Messages:    make([]ChatMessage, len(req.Messages)),
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		N:           1,
	}
	for i, m := range req.Messages {
		chatReq.Messages[i] = ChatMessage{Role: m.Role, Content: m.Content}
	}
	if req.JSONMode && c.cfg.JSONMode {
		chatReq.ResponseFormat = &ResponseFormat{Type: "json_object"}
	}
	return chatReq
}

func translateResponse(resp *ChatCompletionResponse) (*provider.Response, error) {
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("backend returned no choices")
	}

	choice := resp.Choices[0]
	out := &provider.Response{
		Content:      choice.Message.Content,
		Model:        resp.Model,
		FinishReason: choice.FinishReason,
	}
	if resp.Usage != nil {
		out.Usage = provider.Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		}
	}
	return out, nil
}

// Close releases client resources.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
