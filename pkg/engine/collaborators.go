package engine

import "context"

// FeedbackGenerator produces clarification questions for an initial query.
type FeedbackGenerator interface {
	GenerateFeedback(ctx context.Context, query string) ([]string, error)
}

// ResearchParams are the inputs of one deep research run.
type ResearchParams struct {
	Query   string
	Breadth int
	Depth   int

	// Progress receives progress updates during the run. Implementations
	// must tolerate a nil Progress.
	Progress ProgressSink
}

// ResearchOutcome is what a research run produced. Order is preserved as
// the researcher emitted it.
type ResearchOutcome struct {
	Learnings   []string
	VisitedURLs []string
}

// Researcher runs an iterative research session.
type Researcher interface {
	DeepResearch(ctx context.Context, params ResearchParams) (*ResearchOutcome, error)
}

// ReportWriter turns a prompt and research outcome into a markdown report.
type ReportWriter interface {
	WriteFinalReport(ctx context.Context, prompt string, learnings, visitedURLs []string) (string, error)
}

// FeedbackGeneratorFunc adapts a function to FeedbackGenerator.
type FeedbackGeneratorFunc func(ctx context.Context, query string) ([]string, error)

// GenerateFeedback calls f(ctx, query).
func (f FeedbackGeneratorFunc) GenerateFeedback(ctx context.Context, query string) ([]string, error) {
	return f(ctx, query)
}

// ResearcherFunc adapts a function to Researcher.
type ResearcherFunc func(ctx context.Context, params ResearchParams) (*ResearchOutcome, error)

// DeepResearch calls f(ctx, params).
func (f ResearcherFunc) DeepResearch(ctx context.Context, params ResearchParams) (*ResearchOutcome, error) {
	return f(ctx, params)
}

// ReportWriterFunc adapts a function to ReportWriter.
type ReportWriterFunc func(ctx context.Context, prompt string, learnings, visitedURLs []string) (string, error)

// WriteFinalReport calls f(ctx, prompt, learnings, visitedURLs).
func (f ReportWriterFunc) WriteFinalReport(ctx context.Context, prompt string, learnings, visitedURLs []string) (string, error) {
	return f(ctx, prompt, learnings, visitedURLs)
}
