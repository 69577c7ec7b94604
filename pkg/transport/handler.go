package transport

import (
	"context"

	"github.com/rhuss/recherche/pkg/api"
)

// ResearchRunner runs a research request to completion.
type ResearchRunner interface {
	Research(ctx context.Context, req *api.ResearchRequest) (*api.ResearchResult, error)
}

// ResearchRunnerFunc is an adapter that allows using an ordinary function
// as a ResearchRunner.
type ResearchRunnerFunc func(ctx context.Context, req *api.ResearchRequest) (*api.ResearchResult, error)

// Research calls f(ctx, req).
func (f ResearchRunnerFunc) Research(ctx context.Context, req *api.ResearchRequest) (*api.ResearchResult, error) {
	return f(ctx, req)
}
