package research

import (
	"context"
	"fmt"
	"strings"

	"github.com/rhuss/recherche/pkg/debug"
	"github.com/rhuss/recherche/pkg/engine"
	"github.com/rhuss/recherche/pkg/provider"
)

const sourcesHeading = "\n\n## Sources\n\n"

// ReportWriter asks the LLM for the final markdown report and appends the
// list of visited sources.
type ReportWriter struct {
	llm provider.Provider
	cfg Config
}

var _ engine.ReportWriter = (*ReportWriter)(nil)

// NewReportWriter creates a ReportWriter backed by llm.
func NewReportWriter(llm provider.Provider, cfg Config) *ReportWriter {
	return &ReportWriter{llm: llm, cfg: cfg.withDefaults()}
}

// WriteFinalReport renders the report for prompt from the given learnings.
func (w *ReportWriter) WriteFinalReport(ctx context.Context, prompt string, learnings, visitedURLs []string) (string, error) {
	block := formatLearnings(learnings, w.cfg.MaxLearningChars)

	var reply struct {
		ReportMarkdown string `json:"reportMarkdown"`
	}
	if err := completeJSON(ctx, w.llm, w.cfg.Now(), buildReportPrompt(prompt, block), &reply); err != nil {
		return "", fmt.Errorf("writing final report: %w", err)
	}

	debug.Log("research", "report written",
		"chars", len(reply.ReportMarkdown), "learnings", len(learnings), "sources", len(visitedURLs))
	return reply.ReportMarkdown + sourcesSection(visitedURLs), nil
}

func sourcesSection(urls []string) string {
	lines := make([]string, len(urls))
	for i, u := range urls {
		lines[i] = "- " + u
	}
	return sourcesHeading + strings.Join(lines, "\n")
}
