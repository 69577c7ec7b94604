package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rhuss/recherche/pkg/api"
	"github.com/rhuss/recherche/pkg/debug"
	"github.com/rhuss/recherche/pkg/observability"
	"github.com/rhuss/recherche/pkg/transport"
)

// Engine orchestrates a research request across the clarification,
// research and report collaborators. It implements transport.ResearchRunner.
type Engine struct {
	feedback FeedbackGenerator
	research Researcher
	report   ReportWriter
	cfg      Config
}

// Ensure Engine implements transport.ResearchRunner at compile time.
var _ transport.ResearchRunner = (*Engine)(nil)

// New creates a new Engine. All three collaborators are required.
func New(feedback FeedbackGenerator, research Researcher, report ReportWriter, cfg Config) (*Engine, error) {
	if feedback == nil {
		return nil, fmt.Errorf("engine: feedback generator must not be nil")
	}
	if research == nil {
		return nil, fmt.Errorf("engine: researcher must not be nil")
	}
	if report == nil {
		return nil, fmt.Errorf("engine: report writer must not be nil")
	}
	return &Engine{
		feedback: feedback,
		research: research,
		report:   report,
		cfg:      cfg,
	}, nil
}

// Research runs one request through all stages. Validation failures are
// returned before any collaborator is called. Any collaborator failure is
// returned as an orchestration *api.Error wrapping the original error.
func (e *Engine) Research(ctx context.Context, req *api.ResearchRequest) (*api.ResearchResult, error) {
	if apiErr := api.ValidateRequest(req); apiErr != nil {
		return nil, apiErr
	}

	observability.ResearchInFlight.Inc()
	defer observability.ResearchInFlight.Dec()

	query, err := e.composeQuery(ctx, req)
	if err != nil {
		return nil, err
	}

	var outcome *ResearchOutcome
	err = e.runStage(ctx, api.StageResearch, func() error {
		var err error
		outcome, err = e.research.DeepResearch(ctx, ResearchParams{
			Query:    query,
			Breadth:  *req.Breadth,
			Depth:    *req.Depth,
			Progress: e.cfg.progress(),
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	if outcome == nil {
		outcome = &ResearchOutcome{}
	}

	debug.Log("research", "research outcome",
		"learnings", len(outcome.Learnings), "visited_urls", len(outcome.VisitedURLs))
	if debug.TraceIsEnabled("research") {
		debug.Trace("research", "research outcome detail",
			"learnings", outcome.Learnings, "visited_urls", outcome.VisitedURLs)
	}

	var report string
	err = e.runStage(ctx, api.StageReport, func() error {
		var err error
		report, err = e.report.WriteFinalReport(ctx, query, outcome.Learnings, outcome.VisitedURLs)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &api.ResearchResult{
		ReportMarkdown: report,
		Learnings:      nonNil(outcome.Learnings),
		VisitedURLs:    nonNil(outcome.VisitedURLs),
	}, nil
}

// composeQuery builds the combined query, fetching clarification questions
// first when the client supplied follow-up answers.
func (e *Engine) composeQuery(ctx context.Context, req *api.ResearchRequest) (string, error) {
	if !req.HasFollowUpAnswers() {
		return ComposeQuery(req.InitialQuery), nil
	}

	var questions []string
	err := e.runStage(ctx, api.StageClarification, func() error {
		var err error
		questions, err = e.feedback.GenerateFeedback(ctx, req.InitialQuery)
		return err
	})
	if err != nil {
		return "", err
	}
	return ComposeClarifiedQuery(req.InitialQuery, questions, req.FollowUpAnswers), nil
}

// runStage executes fn as the named stage, recording its duration and
// wrapping any error.
func (e *Engine) runStage(ctx context.Context, stage api.Stage, fn func() error) error {
	requestID := transport.RequestIDFromContext(ctx)
	slog.InfoContext(ctx, "stage started", "request_id", requestID, "stage", string(stage))

	start := time.Now()
	err := fn()
	duration := time.Since(start)
	observability.ObserveStage(string(stage), duration, err)

	if err != nil {
		slog.ErrorContext(ctx, "stage failed",
			"request_id", requestID, "stage", string(stage),
			"duration", duration, "error", err.Error())
		return api.NewOrchestrationError(stage, err)
	}
	slog.InfoContext(ctx, "stage completed",
		"request_id", requestID, "stage", string(stage), "duration", duration)
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
