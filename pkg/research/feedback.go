package research

import (
	"context"
	"fmt"

	"github.com/rhuss/recherche/pkg/debug"
	"github.com/rhuss/recherche/pkg/engine"
	"github.com/rhuss/recherche/pkg/provider"
)

// FeedbackGenerator asks the LLM for clarification questions.
type FeedbackGenerator struct {
	llm provider.Provider
	cfg Config
}

var _ engine.FeedbackGenerator = (*FeedbackGenerator)(nil)

// NewFeedbackGenerator creates a FeedbackGenerator backed by llm.
func NewFeedbackGenerator(llm provider.Provider, cfg Config) *FeedbackGenerator {
	return &FeedbackGenerator{llm: llm, cfg: cfg.withDefaults()}
}

// GenerateFeedback returns at most MaxQuestions questions for query.
func (g *FeedbackGenerator) GenerateFeedback(ctx context.Context, query string) ([]string, error) {
	var reply struct {
		Questions []string `json:"questions"`
	}
	if err := completeJSON(ctx, g.llm, g.cfg.Now(), buildFeedbackPrompt(query, g.cfg.MaxQuestions), &reply); err != nil {
		return nil, fmt.Errorf("generating follow-up questions: %w", err)
	}

	questions := firstN(compact(reply.Questions), g.cfg.MaxQuestions)
	debug.Log("research", "follow-up questions generated", "count", len(questions))
	return questions, nil
}
