package transport

import (
	"context"
	"log/slog"
	"time"

	"github.com/rhuss/recherche/pkg/api"
)

// Logging returns middleware that emits one structured record when a
// research request starts and one when it finishes.
func Logging(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next ResearchRunner) ResearchRunner {
		return ResearchRunnerFunc(func(ctx context.Context, req *api.ResearchRequest) (*api.ResearchResult, error) {
			start := time.Now()
			requestID := RequestIDFromContext(ctx)

			attrs := []slog.Attr{
				slog.String("request_id", requestID),
				slog.String("query", req.InitialQuery),
				slog.Int("breadth", derefInt(req.Breadth)),
				slog.Int("depth", derefInt(req.Depth)),
				slog.Bool("follow_up", req.HasFollowUpAnswers()),
			}
			logger.LogAttrs(ctx, slog.LevelInfo, "research started", attrs...)

			res, err := next.Research(ctx, req)

			attrs = append(attrs, slog.Duration("duration", time.Since(start)))
			if err != nil {
				attrs = append(attrs, slog.String("error", err.Error()))
				logger.LogAttrs(ctx, slog.LevelError, "research failed", attrs...)
			} else {
				attrs = append(attrs,
					slog.Int("learnings", len(res.Learnings)),
					slog.Int("visited_urls", len(res.VisitedURLs)),
				)
				logger.LogAttrs(ctx, slog.LevelInfo, "research completed", attrs...)
			}
			return res, err
		})
	}
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
