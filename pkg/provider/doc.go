// Package provider defines the protocol-agnostic interface for LLM inference
// backends used by the research collaborators. Each adapter handles its own
// backend protocol internally; callers only see Request and Response.
package provider
