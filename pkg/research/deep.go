package research

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/rhuss/recherche/pkg/debug"
	"github.com/rhuss/recherche/pkg/engine"
	"github.com/rhuss/recherche/pkg/provider"
	"github.com/rhuss/recherche/pkg/search"
	"github.com/rhuss/recherche/pkg/transport"
)

// serpQuery is one search query planned by the LLM.
type serpQuery struct {
	Query        string `json:"query"`
	ResearchGoal string `json:"researchGoal"`
}

// serpFindings is what the LLM extracted from one query's results.
type serpFindings struct {
	Learnings         []string `json:"learnings"`
	FollowUpQuestions []string `json:"followUpQuestions"`
}

// Engine runs iterative breadth/depth research over a search backend.
type Engine struct {
	llm    provider.Provider
	search search.Adapter
	cfg    Config
}

var _ engine.Researcher = (*Engine)(nil)

// NewEngine creates a research Engine.
func NewEngine(llm provider.Provider, searcher search.Adapter, cfg Config) *Engine {
	return &Engine{llm: llm, search: searcher, cfg: cfg.withDefaults()}
}

// DeepResearch plans up to Breadth queries, researches them concurrently and
// recurses on each with half the breadth until Depth is used up. Learnings
// and URLs are returned in query order without duplicates.
func (e *Engine) DeepResearch(ctx context.Context, params engine.ResearchParams) (*engine.ResearchOutcome, error) {
	sink := params.Progress
	if sink == nil {
		sink = engine.DiscardProgress
	}
	learnings, urls, err := e.research(ctx, params.Query, params.Breadth, params.Depth, nil, nil, sink)
	if err != nil {
		return nil, err
	}
	return &engine.ResearchOutcome{
		Learnings:   dedup(learnings),
		VisitedURLs: dedup(urls),
	}, nil
}

type branchResult struct {
	learnings []string
	urls      []string
}

func (e *Engine) research(ctx context.Context, query string, breadth, depth int, learnings, urls []string, sink engine.ProgressSink) ([]string, []string, error) {
	if breadth <= 0 {
		return learnings, urls, nil
	}

	tracker := newProgressTracker(ctx, sink, engine.Progress{
		CurrentDepth:   depth,
		TotalDepth:     depth,
		CurrentBreadth: breadth,
		TotalBreadth:   breadth,
	})

	queries, err := e.planQueries(ctx, query, breadth, learnings)
	if err != nil {
		return nil, nil, err
	}

	var first string
	if len(queries) > 0 {
		first = queries[0].Query
	}
	tracker.update(func(p *engine.Progress) {
		p.TotalQueries = len(queries)
		p.CurrentQuery = first
	})

	results := make([]branchResult, len(queries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Concurrency)

	for i, q := range queries {
		g.Go(func() error {
			l, u, err := e.researchQuery(gctx, q, breadth, depth, learnings, urls, tracker)
			if err != nil {
				return err
			}
			results[i] = branchResult{learnings: l, urls: u}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var allLearnings, allURLs []string
	for _, r := range results {
		allLearnings = append(allLearnings, r.learnings...)
		allURLs = append(allURLs, r.urls...)
	}
	if len(queries) == 0 {
		allLearnings, allURLs = learnings, urls
	}
	return dedup(allLearnings), dedup(allURLs), nil
}

// researchQuery searches one query, extracts findings and, while depth
// remains, recurses with the follow-up questions.
func (e *Engine) researchQuery(ctx context.Context, q serpQuery, breadth, depth int, learnings, urls []string, tracker *progressTracker) ([]string, []string, error) {
	results, err := e.search.Search(ctx, q.Query, e.cfg.MaxResults)
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}
		slog.WarnContext(ctx, "search failed, skipping query",
			"request_id", transport.RequestIDFromContext(ctx),
			"query", q.Query, "error", err.Error())
		tracker.complete(q.Query, depth)
		return learnings, urls, nil
	}

	newURLs := make([]string, 0, len(results))
	for _, r := range results {
		newURLs = append(newURLs, r.URL)
	}
	allURLs := concat(urls, newURLs)

	if len(results) == 0 {
		debug.Log("research", "no search results", "query", q.Query)
		tracker.complete(q.Query, depth)
		return learnings, allURLs, nil
	}

	newBreadth := (breadth + 1) / 2
	newDepth := depth - 1

	findings, err := e.extractFindings(ctx, q.Query, results, newBreadth)
	if err != nil {
		return nil, nil, err
	}
	allLearnings := concat(learnings, findings.Learnings)

	debug.Log("research", "query researched",
		"query", q.Query, "results", len(results),
		"learnings", len(findings.Learnings), "follow_ups", len(findings.FollowUpQuestions))

	if newDepth <= 0 {
		tracker.complete(q.Query, 0)
		return allLearnings, allURLs, nil
	}

	tracker.update(func(p *engine.Progress) {
		p.CurrentDepth = newDepth
		p.CurrentBreadth = newBreadth
		p.CompletedQueries++
		p.CurrentQuery = q.Query
	})

	next := nextQuery(q.ResearchGoal, findings.FollowUpQuestions)
	return e.research(ctx, next, newBreadth, newDepth, allLearnings, allURLs, tracker.sink)
}

func (e *Engine) planQueries(ctx context.Context, query string, breadth int, learnings []string) ([]serpQuery, error) {
	var reply struct {
		Queries []serpQuery `json:"queries"`
	}
	if err := completeJSON(ctx, e.llm, e.cfg.Now(), buildSerpQueriesPrompt(query, breadth, learnings), &reply); err != nil {
		return nil, fmt.Errorf("generating search queries: %w", err)
	}

	queries := make([]serpQuery, 0, len(reply.Queries))
	for _, q := range reply.Queries {
		if strings.TrimSpace(q.Query) != "" {
			queries = append(queries, q)
		}
	}
	queries = firstN(queries, breadth)
	debug.Log("research", "search queries planned", "requested", breadth, "planned", len(queries))
	return queries, nil
}

func (e *Engine) extractFindings(ctx context.Context, query string, results []search.Result, numFollowUp int) (*serpFindings, error) {
	var f serpFindings
	if err := completeJSON(ctx, e.llm, e.cfg.Now(), buildLearningsPrompt(query, results, numFollowUp), &f); err != nil {
		return nil, fmt.Errorf("extracting learnings for %q: %w", query, err)
	}
	f.Learnings = firstN(compact(f.Learnings), learningsPerQuery)
	f.FollowUpQuestions = firstN(compact(f.FollowUpQuestions), numFollowUp)
	return &f, nil
}

// nextQuery builds the prompt for the next level from the research goal and
// the follow-up directions.
func nextQuery(goal string, followUps []string) string {
	var b strings.Builder
	b.WriteString("Previous research goal: ")
	b.WriteString(goal)
	b.WriteString("\nFollow-up research directions: ")
	for _, q := range followUps {
		b.WriteString("\n")
		b.WriteString(q)
	}
	return strings.TrimSpace(b.String())
}

// progressTracker serializes updates of one research level.
type progressTracker struct {
	ctx  context.Context
	sink engine.ProgressSink

	mu sync.Mutex
	p  engine.Progress
}

func newProgressTracker(ctx context.Context, sink engine.ProgressSink, initial engine.Progress) *progressTracker {
	return &progressTracker{ctx: ctx, sink: sink, p: initial}
}

func (t *progressTracker) update(fn func(p *engine.Progress)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fn(&t.p)
	t.sink.Report(t.ctx, t.p)
}

func (t *progressTracker) complete(query string, depth int) {
	t.update(func(p *engine.Progress) {
		p.CurrentDepth = depth
		p.CompletedQueries++
		p.CurrentQuery = query
	})
}

func concat(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

// dedup removes repeated entries, keeping the first occurrence.
func dedup(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
