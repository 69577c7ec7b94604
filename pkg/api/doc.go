// Package api defines the wire types and error taxonomy for the recherche
// research gateway.
//
// The package has no external dependencies and performs no I/O. All types
// serialize to the JSON shapes accepted and produced by POST /research.
//
// Core types:
//   - [ResearchRequest]: client request carrying the query and research parameters
//   - [ResearchResult]: report markdown plus the learnings and URLs it was built from
//   - [Error]: tagged error distinguishing validation from orchestration failures
package api
