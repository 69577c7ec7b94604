package transport

import (
	"context"

	"github.com/google/uuid"

	"github.com/rhuss/recherche/pkg/api"
)

// RequestID returns middleware that makes sure every request carries an ID.
// An ID already in the context (set by the HTTP adapter from X-Request-ID)
// is kept; otherwise a random UUID is assigned.
func RequestID() Middleware {
	return func(next ResearchRunner) ResearchRunner {
		return ResearchRunnerFunc(func(ctx context.Context, req *api.ResearchRequest) (*api.ResearchResult, error) {
			if RequestIDFromContext(ctx) == "" {
				ctx = ContextWithRequestID(ctx, NewRequestID())
			}
			return next.Research(ctx, req)
		})
	}
}

// NewRequestID returns a fresh request ID.
func NewRequestID() string {
	return uuid.NewString()
}
