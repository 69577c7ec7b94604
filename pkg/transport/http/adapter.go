package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rhuss/recherche/pkg/api"
	"github.com/rhuss/recherche/pkg/transport"
)

// Adapter serves the research API over HTTP.
// It decodes requests, hands them to the runner and serializes the result.
type Adapter struct {
	runner transport.ResearchRunner
	mux    *http.ServeMux
	config Config
}

// RouteMiddleware wraps the handler registered for a single route. It runs
// after ServeMux matched the request, so r.Pattern is populated.
type RouteMiddleware func(http.Handler) http.Handler

// Config holds configuration for the HTTP adapter.
type Config struct {
	MaxBodySize int64
	// RouteMiddleware is applied to every route, including those added
	// later through Handle.
	RouteMiddleware []RouteMiddleware
}

// DefaultConfig returns the default adapter configuration.
func DefaultConfig() Config {
	return Config{
		MaxBodySize: 1 << 20, // 1 MiB
	}
}

// NewAdapter creates an HTTP adapter for the given runner.
// Middleware is applied to the runner in the given order.
func NewAdapter(runner transport.ResearchRunner, cfg Config, middlewares ...transport.Middleware) *Adapter {
	if len(middlewares) > 0 {
		runner = transport.Chain(middlewares...)(runner)
	}
	if cfg.MaxBodySize <= 0 {
		cfg.MaxBodySize = DefaultConfig().MaxBodySize
	}

	a := &Adapter{
		runner: runner,
		mux:    http.NewServeMux(),
		config: cfg,
	}

	a.Handle("POST /research", http.HandlerFunc(a.handleResearch))
	a.Handle("GET /{$}", http.HandlerFunc(a.handleLiveness))

	return a
}

// Handle registers an additional route on the adapter's mux. Route
// middleware from the config is applied.
func (a *Adapter) Handle(pattern string, h http.Handler) {
	for i := len(a.config.RouteMiddleware) - 1; i >= 0; i-- {
		h = a.config.RouteMiddleware[i](h)
	}
	a.mux.Handle(pattern, h)
}

// Handler returns the http.Handler for this adapter. Use this to integrate
// with an http.Server or test with httptest. The returned handler includes
// HTTP-level middleware for request ID propagation.
func (a *Adapter) Handler() http.Handler {
	return httpRequestIDMiddleware(a.mux)
}

// httpRequestIDMiddleware makes sure every request carries an ID in its
// context and echoes it in the X-Request-ID response header. A client
// supplied header wins over a generated one.
func httpRequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = transport.NewRequestID()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(transport.ContextWithRequestID(r.Context(), id)))
	})
}

// handleResearch handles POST /research.
func (a *Adapter) handleResearch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, a.config.MaxBodySize)

	var req api.ResearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			transport.WriteJSON(w, http.StatusRequestEntityTooLarge, api.ErrorResponse{
				Error: fmt.Sprintf("request body too large (max %d bytes)", a.config.MaxBodySize),
			})
			return
		}
		transport.WriteError(w, api.NewValidationError(fmt.Errorf("invalid JSON: %w", err)))
		return
	}

	if verr := api.ValidateRequest(&req); verr != nil {
		transport.WriteError(w, verr)
		return
	}

	// A client disconnect must not abort the outbound calls already in
	// flight; the result is dropped if the write fails.
	ctx := context.WithoutCancel(r.Context())

	res, err := a.runner.Research(ctx, &req)
	if err != nil {
		transport.WriteError(w, err)
		return
	}
	if res == nil {
		res = &api.ResearchResult{}
	}
	transport.WriteResult(w, res)
}

// handleLiveness handles GET /.
func (a *Adapter) handleLiveness(w http.ResponseWriter, _ *http.Request) {
	transport.WriteLiveness(w)
}
