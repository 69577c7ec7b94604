package research

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rhuss/recherche/pkg/provider"
)

var thinkRegex = regexp.MustCompile(`(?s)<think>.*?</think>`)

// completeJSON sends one system+user exchange and decodes the reply into v.
func completeJSON(ctx context.Context, llm provider.Provider, now time.Time, prompt string, v any) error {
	resp, err := llm.Complete(ctx, &provider.Request{
		Messages: []provider.Message{
			{Role: provider.RoleSystem, Content: systemPrompt(now)},
			{Role: provider.RoleUser, Content: prompt},
		},
		JSONMode: true,
	})
	if err != nil {
		return err
	}
	return decodeJSONReply(resp.Content, v)
}

// decodeJSONReply extracts the outermost JSON object from an LLM reply.
func decodeJSONReply(content string, v any) error {
	s := strings.TrimSpace(thinkRegex.ReplaceAllString(content, ""))
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return fmt.Errorf("llm reply contains no JSON object: %q", truncate(s, 200))
	}
	if err := json.Unmarshal([]byte(s[start:end+1]), v); err != nil {
		return fmt.Errorf("decoding llm reply: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// compact drops blank entries and trims the rest.
func compact(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// firstN returns at most n leading elements of s.
func firstN[T any](s []T, n int) []T {
	if n < 0 {
		n = 0
	}
	if len(s) > n {
		return s[:n]
	}
	return s
}
