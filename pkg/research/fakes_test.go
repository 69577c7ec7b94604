package research

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/rhuss/recherche/pkg/provider"
	"github.com/rhuss/recherche/pkg/search"
)

var fixedNow = func() time.Time { return time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC) }

// fakeLLM answers each prompt with reply(userPrompt).
type fakeLLM struct {
	mu      sync.Mutex
	prompts []string
	reply   func(prompt string) (string, error)
}

func (f *fakeLLM) Name() string { return "fake" }
func (f *fakeLLM) Close() error { return nil }

func (f *fakeLLM) Complete(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	if !req.JSONMode {
		return nil, errors.New("expected JSON mode")
	}
	if len(req.Messages) != 2 || req.Messages[0].Role != provider.RoleSystem {
		return nil, fmt.Errorf("unexpected messages: %+v", req.Messages)
	}
	prompt := req.Messages[1].Content
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()

	content, err := f.reply(prompt)
	if err != nil {
		return nil, err
	}
	return &provider.Response{Content: content}, nil
}

func (f *fakeLLM) count(substr string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, p := range f.prompts {
		if strings.Contains(p, substr) {
			n++
		}
	}
	return n
}

// fakeSearch returns one result per query, keyed on the query text.
type fakeSearch struct {
	mu      sync.Mutex
	queries []string
	fail    map[string]bool
	empty   map[string]bool
}

func (f *fakeSearch) Search(ctx context.Context, query string, maxResults int) ([]search.Result, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()
	if f.fail[query] {
		return nil, errors.New("search backend returned status 503")
	}
	if f.empty[query] {
		return nil, nil
	}
	return []search.Result{
		{Title: query, URL: "https://src.example/" + slug(query), Snippet: "about " + query},
		{Title: "shared", URL: "https://shared.example", Snippet: "shared source"},
	}, nil
}

func slug(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), " ", "-")
}

var (
	queryTag   = regexp.MustCompile(`<query>(.*?)</query>`)
	maxQueries = regexp.MustCompile(`Return at most (\d+) queries`)
)

// scriptedReply is a deterministic LLM: level-1 queries are "q1".."qN",
// deeper queries append ".k", each query yields one learning named after it
// and one follow-up question.
func scriptedReply(prompt string) (string, error) {
	switch {
	case strings.Contains(prompt, "ask follow-up questions"):
		return `{"questions":["Which region?","Which years?","Which budget?","Extra?"]}`, nil

	case strings.Contains(prompt, "generate a list of web search queries"):
		var n int
		if m := maxQueries.FindStringSubmatch(prompt); m != nil {
			fmt.Sscanf(m[1], "%d", &n)
		}
		prefix := "q"
		if idx := strings.Index(prompt, "Follow-up research directions: \nfollow-up for "); idx >= 0 {
			rest := prompt[idx+len("Follow-up research directions: \nfollow-up for "):]
			prefix = strings.SplitN(rest, "<", 2)[0] + "."
		}
		parts := make([]string, 0, n+1)
		for i := 1; i <= n+1; i++ { // one more than asked
			parts = append(parts, fmt.Sprintf(`{"query":"%s%d","researchGoal":"goal %s%d"}`, prefix, i, prefix, i))
		}
		return `{"queries":[` + strings.Join(parts, ",") + `]}`, nil

	case strings.Contains(prompt, "extract learnings"):
		q := queryTag.FindStringSubmatch(prompt)[1]
		return fmt.Sprintf("```json\n{\"learnings\":[\"learned %s\",\"common fact\"],\"followUpQuestions\":[\"follow-up for %s\"]}\n```", q, q), nil

	case strings.Contains(prompt, "write a final report"):
		return `<think>planning</think>{"reportMarkdown":"# Report"}`, nil
	}
	return "", fmt.Errorf("unexpected prompt: %s", prompt)
}
