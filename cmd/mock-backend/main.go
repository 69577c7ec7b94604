// Command mock-backend runs a deterministic Chat Completions server and a
// SearXNG-style search endpoint, so the gateway can run locally without
// real backends. Replies are chosen by the kind of prompt received.
//
// Configuration:
//
//	MOCK_PORT - Listen port (default: 9090)
//
// Point the gateway at it with RECHERCHE_LLM_URL=http://localhost:9090 and
// RECHERCHE_SEARCH_URL=http://localhost:9090.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"regexp"
	"strings"
	"syscall"
	"time"
)

func main() {
	port := os.Getenv("MOCK_PORT")
	if port == "" {
		port = "9090"
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/chat/completions", handleChatCompletions)
	mux.HandleFunc("GET /search", handleSearch)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})

	srv := &http.Server{Addr: ":" + port, Handler: mux}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("mock backend starting", "port", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("mock backend failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("mock backend shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx)
}

// --- Chat Completions ---

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
	Usage   chatUsage    `json:"usage"`
}

type chatChoice struct {
	Index        int         `json:"index"`
	Message      chatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

type chatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

var (
	queryTag  = regexp.MustCompile(`<query>(.*?)</query>`)
	promptTag = regexp.MustCompile(`(?s)<prompt>(.*?)</prompt>`)
)

func handleChatCompletions(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error": map[string]string{"message": "invalid request", "type": "invalid_request_error"},
		})
		return
	}

	prompt := lastUserMessage(&req)
	content, err := replyFor(prompt)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error": map[string]string{"message": err.Error(), "type": "invalid_request_error"},
		})
		return
	}

	promptTokens := len(strings.Fields(prompt))
	completionTokens := len(strings.Fields(content))
	writeJSON(w, http.StatusOK, chatResponse{
		ID:     fmt.Sprintf("chatcmpl-mock-%d", time.Now().UnixNano()),
		Object: "chat.completion",
		Model:  req.Model,
		Choices: []chatChoice{{
			Message:      chatMessage{Role: "assistant", Content: content},
			FinishReason: "stop",
		}},
		Usage: chatUsage{
			PromptTokens:     promptTokens,
			CompletionTokens: completionTokens,
			TotalTokens:      promptTokens + completionTokens,
		},
	})
}

// replyFor returns a JSON answer matching the kind of research prompt.
func replyFor(prompt string) (string, error) {
	var v any
	switch {
	case strings.Contains(prompt, "ask follow-up questions"):
		v = map[string]any{"questions": []string{
			"Which geographic region should the research focus on?",
			"What time frame is relevant?",
		}}

	case strings.Contains(prompt, "generate a list of web search queries"):
		topic := "topic"
		if m := promptTag.FindStringSubmatch(prompt); m != nil {
			topic = firstLine(m[1])
		}
		v = map[string]any{"queries": []map[string]string{
			{"query": topic + " overview", "researchGoal": "Establish the basics of " + topic},
			{"query": topic + " latest developments", "researchGoal": "Find recent changes in " + topic},
		}}

	case strings.Contains(prompt, "extract learnings"):
		q := "the query"
		if m := queryTag.FindStringSubmatch(prompt); m != nil {
			q = m[1]
		}
		v = map[string]any{
			"learnings":         []string{"Mock finding about " + q + "."},
			"followUpQuestions": []string{"What are the open problems in " + q + "?"},
		}

	case strings.Contains(prompt, "write a final report"):
		v = map[string]any{"reportMarkdown": "# Mock Research Report\n\nThis report was produced by the mock backend."}

	default:
		return "", fmt.Errorf("unrecognized prompt")
	}

	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// --- SearXNG ---

type searxngResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

func handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	slug := strings.ToLower(strings.Join(strings.Fields(q), "-"))

	writeJSON(w, http.StatusOK, map[string]any{
		"query": q,
		"results": []searxngResult{
			{Title: "<b>" + q + "</b>", URL: "https://example.com/" + slug, Content: "An article about <em>" + q + "</em>."},
			{Title: q + " (wiki)", URL: "https://wiki.example.org/" + slug, Content: "Encyclopedia entry on " + q + "."},
		},
	})
}

// --- Helpers ---

func lastUserMessage(req *chatRequest) string {
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == "user" {
			return req.Messages[i].Content
		}
	}
	return ""
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimPrefix(s, "Initial Query: ")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
