// Package search provides pluggable web search backends for the research
// engine. SearXNG is the only backend today; Limited throttles any backend.
package search
