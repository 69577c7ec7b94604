package transport

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/rhuss/recherche/pkg/api"
)

// Recovery returns middleware that converts a panic in the runner into an
// orchestration error. The server keeps accepting requests afterwards.
func Recovery() Middleware {
	return func(next ResearchRunner) ResearchRunner {
		return ResearchRunnerFunc(func(ctx context.Context, req *api.ResearchRequest) (res *api.ResearchResult, retErr error) {
			defer func() {
				if r := recover(); r != nil {
					slog.ErrorContext(ctx, "panic in research runner",
						"request_id", RequestIDFromContext(ctx),
						"panic", fmt.Sprint(r),
						"stack", string(debug.Stack()))
					res = nil
					retErr = api.NewOrchestrationError("", fmt.Errorf("internal server error: %v", r))
				}
			}()
			return next.Research(ctx, req)
		})
	}
}
