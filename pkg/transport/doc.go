// Package transport defines the handler contract, middleware chain and
// response builders for the recherche HTTP transport.
//
// # Handler Interface
//
// ResearchRunner is the contract between the HTTP adapter and the
// orchestration engine: it takes a validated research request and returns
// either a result or an error. The adapter never inspects collaborator
// errors directly; it maps the returned error through WriteError.
//
// # Middleware
//
// The middleware chain wraps a ResearchRunner with cross-cutting concerns.
// Built-in middleware provides panic recovery, request ID assignment
// (X-Request-ID) and structured logging via log/slog.
//
// # Response Builders
//
// WriteResult emits the three-key success payload. WriteError emits the
// error envelope, deriving the status code from the error kind:
// validation errors become 400 without details, everything else becomes
// 500 with the underlying failure text in details.
package transport
