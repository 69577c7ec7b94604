// Command server runs the recherche deep research gateway.
//
// Configuration is read from a YAML file (see -config) and RECHERCHE_*
// environment variables. The most common overrides:
//
//	RECHERCHE_LLM_URL     - Chat Completions backend URL (required)
//	RECHERCHE_MODEL       - Model name (required)
//	RECHERCHE_SEARCH_URL  - SearXNG base URL (required)
//	RECHERCHE_PORT        - Listen port (default: 3000)
//	RECHERCHE_DEBUG       - Debug categories, e.g. "research,llm"
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rhuss/recherche/pkg/config"
	"github.com/rhuss/recherche/pkg/debug"
	"github.com/rhuss/recherche/pkg/engine"
	"github.com/rhuss/recherche/pkg/observability"
	"github.com/rhuss/recherche/pkg/provider/openaicompat"
	"github.com/rhuss/recherche/pkg/research"
	"github.com/rhuss/recherche/pkg/search"
	transporthttp "github.com/rhuss/recherche/pkg/transport/http"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	debug.Init(cfg.Logging.Debug, cfg.Logging.Level, cfg.Logging.Format)

	llm, err := openaicompat.New(openaicompat.Config{
		BaseURL:  cfg.LLM.BackendURL,
		APIKey:   cfg.LLM.APIKey,
		Model:    cfg.LLM.Model,
		Timeout:  cfg.LLM.Timeout,
		JSONMode: cfg.LLM.JSONMode,
	})
	if err != nil {
		return fmt.Errorf("creating provider: %w", err)
	}
	defer llm.Close()

	searcher, err := search.New(search.Config{
		Backend:           cfg.Search.Backend,
		URL:               cfg.Search.URL,
		RequestsPerSecond: cfg.Search.RequestsPerSecond,
		Timeout:           cfg.Search.Timeout,
	})
	if err != nil {
		return fmt.Errorf("creating search backend: %w", err)
	}

	rcfg := research.Config{
		Concurrency:      cfg.Research.Concurrency,
		MaxQuestions:     cfg.Research.MaxQuestions,
		MaxResults:       cfg.Search.MaxResults,
		MaxLearningChars: cfg.Research.MaxLearningChars,
	}

	eng, err := engine.New(
		research.NewFeedbackGenerator(llm, rcfg),
		research.NewEngine(llm, searcher, rcfg),
		research.NewReportWriter(llm, rcfg),
		engine.Config{Progress: engine.LogProgress},
	)
	if err != nil {
		return fmt.Errorf("creating engine: %w", err)
	}

	opts := []transporthttp.ServerOption{
		transporthttp.WithAddr(fmt.Sprintf(":%d", cfg.Server.Port)),
		transporthttp.WithMaxBodySize(cfg.Server.MaxBodySize),
		transporthttp.WithReadTimeout(cfg.Server.ReadTimeout),
		transporthttp.WithWriteTimeout(cfg.Server.WriteTimeout),
		transporthttp.WithShutdownTimeout(cfg.Server.ShutdownTimeout),
		transporthttp.WithLogger(slog.Default()),
	}
	if cfg.Observability.Metrics.Enabled {
		opts = append(opts, transporthttp.WithRouteMiddleware(observability.MetricsMiddleware))
	}

	srv := transporthttp.NewServer(eng, opts...)
	srv.Handle("GET /healthz", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	}))
	if cfg.Observability.Metrics.Enabled {
		srv.Handle("GET "+cfg.Observability.Metrics.Path, promhttp.Handler())
	}

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"llm_backend", cfg.LLM.BackendURL,
		"model", cfg.LLM.Model,
		"search_backend", cfg.Search.Backend,
		"search_url", cfg.Search.URL,
		"concurrency", rcfg.Concurrency,
		"metrics", cfg.Observability.Metrics.Enabled,
		"debug", debug.Categories())

	return srv.ListenAndServe()
}
