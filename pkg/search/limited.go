package search

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/time/rate"
)

// Limited throttles calls to an underlying Adapter. Callers block until a
// token is available or their context ends.
type Limited struct {
	next    Adapter
	limiter *rate.Limiter
}

// NewLimited wraps next so that at most rps queries per second are issued.
func NewLimited(next Adapter, rps float64) *Limited {
	burst := max(1, int(math.Ceil(rps)))
	return &Limited{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Search waits for the limiter and then delegates.
func (l *Limited) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for search rate limit: %w", err)
	}
	return l.next.Search(ctx, query, maxResults)
}
