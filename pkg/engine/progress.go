package engine

import (
	"context"

	"github.com/rhuss/recherche/pkg/debug"
)

// Progress is a snapshot of a research run.
type Progress struct {
	CurrentDepth     int    `json:"currentDepth"`
	TotalDepth       int    `json:"totalDepth"`
	CurrentBreadth   int    `json:"currentBreadth"`
	TotalBreadth     int    `json:"totalBreadth"`
	CurrentQuery     string `json:"currentQuery,omitempty"`
	TotalQueries     int    `json:"totalQueries"`
	CompletedQueries int    `json:"completedQueries"`
}

// ProgressSink observes research progress. Report is called synchronously
// from the research goroutines, possibly concurrently, and must not block.
type ProgressSink interface {
	Report(ctx context.Context, p Progress)
}

// ProgressFunc adapts a function to ProgressSink.
type ProgressFunc func(ctx context.Context, p Progress)

// Report calls f(ctx, p).
func (f ProgressFunc) Report(ctx context.Context, p Progress) {
	f(ctx, p)
}

// DiscardProgress drops every update.
var DiscardProgress ProgressSink = ProgressFunc(func(context.Context, Progress) {})

// LogProgress writes updates to the server log under the "research" debug
// category. Progress never reaches the HTTP client.
var LogProgress ProgressSink = ProgressFunc(func(ctx context.Context, p Progress) {
	debug.Log("research", "research progress",
		"depth", p.CurrentDepth, "total_depth", p.TotalDepth,
		"breadth", p.CurrentBreadth, "total_breadth", p.TotalBreadth,
		"completed", p.CompletedQueries, "total", p.TotalQueries,
		"query", p.CurrentQuery,
	)
})
