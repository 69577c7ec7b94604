package config

import (
	"errors"
	"fmt"
)

// Validate checks the configuration for required fields and valid values.
// Returns an error with a descriptive field path on failure.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 {
		errs = append(errs, fmt.Errorf("server.port must be > 0, got %d", c.Server.Port))
	}
	if c.Server.MaxBodySize <= 0 {
		errs = append(errs, fmt.Errorf("server.max_body_size must be > 0, got %d", c.Server.MaxBodySize))
	}

	if c.LLM.BackendURL == "" {
		errs = append(errs, fmt.Errorf("llm.backend_url is required"))
	}
	if c.LLM.Model == "" {
		errs = append(errs, fmt.Errorf("llm.model is required"))
	}

	switch c.Search.Backend {
	case "searxng":
		if c.Search.URL == "" {
			errs = append(errs, fmt.Errorf("search.url is required when search.backend is \"searxng\""))
		}
	default:
		errs = append(errs, fmt.Errorf("search.backend must be \"searxng\", got %q", c.Search.Backend))
	}
	if c.Search.MaxResults <= 0 {
		errs = append(errs, fmt.Errorf("search.max_results must be > 0, got %d", c.Search.MaxResults))
	}
	if c.Search.RequestsPerSecond < 0 {
		errs = append(errs, fmt.Errorf("search.requests_per_second must be >= 0, got %g", c.Search.RequestsPerSecond))
	}

	if c.Research.Concurrency <= 0 {
		errs = append(errs, fmt.Errorf("research.concurrency must be > 0, got %d", c.Research.Concurrency))
	}
	if c.Research.MaxQuestions <= 0 {
		errs = append(errs, fmt.Errorf("research.max_questions must be > 0, got %d", c.Research.MaxQuestions))
	}

	if c.Observability.Metrics.Enabled && c.Observability.Metrics.Path == "" {
		errs = append(errs, fmt.Errorf("observability.metrics.path is required when metrics are enabled"))
	}

	switch c.Logging.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be \"text\" or \"json\", got %q", c.Logging.Format))
	}

	return errors.Join(errs...)
}
