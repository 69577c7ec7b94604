package provider

import "fmt"

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Request is the backend-facing request.
type Request struct {
	// Model overrides the provider's default model when set.
	Model       string
	Messages    []Message
	Temperature *float64
	MaxTokens   *int

	// JSONMode asks the backend to return a single JSON object.
	JSONMode bool
}

// Message is one chat turn.
type Message struct {
	Role    string
	Content string
}

// Response is the backend's complete non-streaming response.
type Response struct {
	Content      string
	Model        string
	FinishReason string
	Usage        Usage
}

// Usage holds token counts reported by the backend.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// BackendError is returned when the backend answered with a non-2xx status.
type BackendError struct {
	StatusCode int
	Message    string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("llm backend error (HTTP %d): %s", e.StatusCode, e.Message)
}
