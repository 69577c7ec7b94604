package search

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Result holds a single search result.
type Result struct {
	Title   string
	URL     string
	Snippet string
}

// Adapter is the interface for pluggable search backends.
type Adapter interface {
	Search(ctx context.Context, query string, maxResults int) ([]Result, error)
}

// Config selects and configures a backend.
type Config struct {
	Backend           string
	URL               string
	RequestsPerSecond float64
	Timeout           time.Duration
}

// New builds the adapter named by cfg.Backend, wrapped in a rate limiter
// when cfg.RequestsPerSecond is positive.
func New(cfg Config) (Adapter, error) {
	backend := cfg.Backend
	if backend == "" {
		backend = "searxng"
	}

	var adapter Adapter
	switch backend {
	case "searxng":
		if cfg.URL == "" {
			return nil, fmt.Errorf("search: 'url' is required for searxng backend")
		}
		s := NewSearXNG(cfg.URL)
		if cfg.Timeout > 0 {
			s.HTTPClient = &http.Client{Timeout: cfg.Timeout}
		}
		adapter = s
	default:
		return nil, fmt.Errorf("search: unknown backend %q", backend)
	}

	if cfg.RequestsPerSecond > 0 {
		adapter = NewLimited(adapter, cfg.RequestsPerSecond)
	}
	return adapter, nil
}
