package engine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/rhuss/recherche/pkg/api"
)

func intPtr(i int) *int { return &i }

// fakes records calls made to each collaborator.
type fakes struct {
	questions   []string
	feedbackErr error
	outcome     *ResearchOutcome
	researchErr error
	report      string
	reportErr   error

	feedbackCalls int
	researchCalls int
	reportCalls   int

	feedbackQuery string
	params        ResearchParams
	reportPrompt  string
	reportLearn   []string
	reportURLs    []string
}

func (f *fakes) engine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	e, err := New(
		FeedbackGeneratorFunc(func(ctx context.Context, query string) ([]string, error) {
			f.feedbackCalls++
			f.feedbackQuery = query
			return f.questions, f.feedbackErr
		}),
		ResearcherFunc(func(ctx context.Context, p ResearchParams) (*ResearchOutcome, error) {
			f.researchCalls++
			f.params = p
			if f.researchErr != nil {
				return nil, f.researchErr
			}
			return f.outcome, nil
		}),
		ReportWriterFunc(func(ctx context.Context, prompt string, learnings, urls []string) (string, error) {
			f.reportCalls++
			f.reportPrompt = prompt
			f.reportLearn = learnings
			f.reportURLs = urls
			return f.report, f.reportErr
		}),
		cfg,
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func TestNewRejectsNilCollaborators(t *testing.T) {
	fb := FeedbackGeneratorFunc(func(context.Context, string) ([]string, error) { return nil, nil })
	rs := ResearcherFunc(func(context.Context, ResearchParams) (*ResearchOutcome, error) { return nil, nil })
	rw := ReportWriterFunc(func(context.Context, string, []string, []string) (string, error) { return "", nil })

	if _, err := New(nil, rs, rw, Config{}); err == nil {
		t.Error("expected error for nil feedback generator")
	}
	if _, err := New(fb, nil, rw, Config{}); err == nil {
		t.Error("expected error for nil researcher")
	}
	if _, err := New(fb, rs, nil, Config{}); err == nil {
		t.Error("expected error for nil report writer")
	}
}

func TestResearchWithoutFollowUpSkipsClarification(t *testing.T) {
	f := &fakes{
		outcome: &ResearchOutcome{Learnings: []string{"L1"}, VisitedURLs: []string{"https://a"}},
		report:  "# R",
	}
	e := f.engine(t, Config{Progress: DiscardProgress})

	res, err := e.Research(context.Background(), &api.ResearchRequest{
		InitialQuery: "quantum sensors", Breadth: intPtr(4), Depth: intPtr(2),
	})
	if err != nil {
		t.Fatalf("Research: %v", err)
	}

	if f.feedbackCalls != 0 {
		t.Errorf("feedback called %d times, want 0", f.feedbackCalls)
	}
	if f.params.Query != "Initial Query: quantum sensors" {
		t.Errorf("research query = %q", f.params.Query)
	}
	if f.params.Breadth != 4 || f.params.Depth != 2 {
		t.Errorf("breadth/depth = %d/%d, want 4/2", f.params.Breadth, f.params.Depth)
	}
	if f.reportPrompt != f.params.Query {
		t.Errorf("report prompt = %q, want the combined query", f.reportPrompt)
	}
	if res.ReportMarkdown != "# R" {
		t.Errorf("report = %q", res.ReportMarkdown)
	}
}

func TestResearchWithFollowUpComposesAnswers(t *testing.T) {
	f := &fakes{
		questions: []string{"q1", "q2", "q3"},
		outcome:   &ResearchOutcome{},
		report:    "r",
	}
	e := f.engine(t, Config{Progress: DiscardProgress})

	_, err := e.Research(context.Background(), &api.ResearchRequest{
		InitialQuery:    "topic",
		Breadth:         intPtr(1),
		Depth:           intPtr(1),
		FollowUpAnswers: []string{"a1", "a2"},
	})
	if err != nil {
		t.Fatalf("Research: %v", err)
	}

	if f.feedbackCalls != 1 {
		t.Fatalf("feedback called %d times, want 1", f.feedbackCalls)
	}
	if f.feedbackQuery != "topic" {
		t.Errorf("feedback query = %q, want the raw initial query", f.feedbackQuery)
	}
	want := "Initial Query: topic\nFollow-up Questions and Answers:\n" +
		"Q: q1\nA: a1\nQ: q2\nA: a2\nQ: q3\nA: No Answer Provided"
	if f.params.Query != want {
		t.Errorf("combined query =\n%q\nwant\n%q", f.params.Query, want)
	}
}

func TestResearchEmptyFollowUpListStillClarifies(t *testing.T) {
	f := &fakes{questions: []string{"q1"}, outcome: &ResearchOutcome{}}
	e := f.engine(t, Config{Progress: DiscardProgress})

	_, err := e.Research(context.Background(), &api.ResearchRequest{
		InitialQuery: "topic", Breadth: intPtr(1), Depth: intPtr(1), FollowUpAnswers: []string{},
	})
	if err != nil {
		t.Fatalf("Research: %v", err)
	}
	if f.feedbackCalls != 1 {
		t.Errorf("feedback called %d times, want 1", f.feedbackCalls)
	}
	if !strings.HasSuffix(f.params.Query, "Q: q1\nA: No Answer Provided") {
		t.Errorf("combined query = %q", f.params.Query)
	}
}

func TestResearchValidationInvokesNoCollaborator(t *testing.T) {
	tests := []struct {
		name string
		req  *api.ResearchRequest
	}{
		{"nil request", nil},
		{"empty query", &api.ResearchRequest{Breadth: intPtr(1), Depth: intPtr(1)}},
		{"missing breadth", &api.ResearchRequest{InitialQuery: "q", Depth: intPtr(1)}},
		{"missing depth", &api.ResearchRequest{InitialQuery: "q", Breadth: intPtr(1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakes{}
			e := f.engine(t, Config{Progress: DiscardProgress})

			_, err := e.Research(context.Background(), tt.req)

			var apiErr *api.Error
			if !errors.As(err, &apiErr) || apiErr.Kind != api.KindValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
			if f.feedbackCalls+f.researchCalls+f.reportCalls != 0 {
				t.Errorf("collaborators invoked: feedback=%d research=%d report=%d",
					f.feedbackCalls, f.researchCalls, f.reportCalls)
			}
		})
	}
}

func TestResearchStageErrors(t *testing.T) {
	boom := errors.New("upstream exploded")

	tests := []struct {
		name        string
		fakes       *fakes
		answers     []string
		wantStage   api.Stage
		wantResCall int
		wantRepCall int
	}{
		{
			name:      "clarification failure",
			fakes:     &fakes{feedbackErr: boom},
			answers:   []string{"a"},
			wantStage: api.StageClarification,
		},
		{
			name:        "research failure skips report",
			fakes:       &fakes{researchErr: boom},
			wantStage:   api.StageResearch,
			wantResCall: 1,
		},
		{
			name:        "report failure",
			fakes:       &fakes{outcome: &ResearchOutcome{Learnings: []string{"x"}}, reportErr: boom},
			wantStage:   api.StageReport,
			wantResCall: 1,
			wantRepCall: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := tt.fakes.engine(t, Config{Progress: DiscardProgress})

			res, err := e.Research(context.Background(), &api.ResearchRequest{
				InitialQuery: "q", Breadth: intPtr(1), Depth: intPtr(1), FollowUpAnswers: tt.answers,
			})
			if res != nil {
				t.Errorf("expected no partial result, got %+v", res)
			}

			var apiErr *api.Error
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *api.Error, got %T (%v)", err, err)
			}
			if apiErr.Kind != api.KindOrchestration {
				t.Errorf("kind = %q, want %q", apiErr.Kind, api.KindOrchestration)
			}
			if apiErr.Stage != tt.wantStage {
				t.Errorf("stage = %q, want %q", apiErr.Stage, tt.wantStage)
			}
			if apiErr.Details() != "upstream exploded" {
				t.Errorf("details = %q, want the cause text verbatim", apiErr.Details())
			}
			if !errors.Is(err, boom) {
				t.Error("expected the cause to be reachable with errors.Is")
			}
			if tt.fakes.researchCalls != tt.wantResCall {
				t.Errorf("research calls = %d, want %d", tt.fakes.researchCalls, tt.wantResCall)
			}
			if tt.fakes.reportCalls != tt.wantRepCall {
				t.Errorf("report calls = %d, want %d", tt.fakes.reportCalls, tt.wantRepCall)
			}
		})
	}
}

func TestResearchPassesOutcomeThroughUnchanged(t *testing.T) {
	outcome := &ResearchOutcome{
		Learnings:   []string{"b", "a", "b"},
		VisitedURLs: []string{"https://z", "https://a", "https://z"},
	}
	f := &fakes{outcome: outcome, report: "# Report"}
	e := f.engine(t, Config{Progress: DiscardProgress})

	res, err := e.Research(context.Background(), &api.ResearchRequest{
		InitialQuery: "q", Breadth: intPtr(2), Depth: intPtr(1),
	})
	if err != nil {
		t.Fatalf("Research: %v", err)
	}

	want := &api.ResearchResult{
		ReportMarkdown: "# Report",
		Learnings:      outcome.Learnings,
		VisitedURLs:    outcome.VisitedURLs,
	}
	if diff := cmp.Diff(want, res); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(outcome.Learnings, f.reportLearn); diff != "" {
		t.Errorf("report learnings mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(outcome.VisitedURLs, f.reportURLs); diff != "" {
		t.Errorf("report urls mismatch (-want +got):\n%s", diff)
	}
}

func TestResearchNilOutcomeYieldsEmptySlices(t *testing.T) {
	f := &fakes{report: "empty"}
	e := f.engine(t, Config{Progress: DiscardProgress})

	res, err := e.Research(context.Background(), &api.ResearchRequest{
		InitialQuery: "q", Breadth: intPtr(1), Depth: intPtr(1),
	})
	if err != nil {
		t.Fatalf("Research: %v", err)
	}
	if res.Learnings == nil || res.VisitedURLs == nil {
		t.Errorf("expected non-nil empty slices, got %+v", res)
	}
}

func TestResearchProgressSinkPassed(t *testing.T) {
	var got []Progress
	sink := ProgressFunc(func(_ context.Context, p Progress) { got = append(got, p) })

	f := &fakes{outcome: &ResearchOutcome{}}
	e, err := New(
		FeedbackGeneratorFunc(func(context.Context, string) ([]string, error) { return nil, nil }),
		ResearcherFunc(func(ctx context.Context, p ResearchParams) (*ResearchOutcome, error) {
			f.researchCalls++
			p.Progress.Report(ctx, Progress{TotalDepth: 1, CompletedQueries: 1})
			return &ResearchOutcome{}, nil
		}),
		ReportWriterFunc(func(context.Context, string, []string, []string) (string, error) { return "", nil }),
		Config{Progress: sink},
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := e.Research(context.Background(), &api.ResearchRequest{
		InitialQuery: "q", Breadth: intPtr(1), Depth: intPtr(1),
	}); err != nil {
		t.Fatalf("Research: %v", err)
	}

	want := []Progress{{TotalDepth: 1, CompletedQueries: 1}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("progress mismatch (-want +got):\n%s", diff)
	}
}

func TestConfigDefaultProgress(t *testing.T) {
	if (Config{}).progress() == nil {
		t.Error("default progress sink must not be nil")
	}
}
