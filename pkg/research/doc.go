// Package research implements the LLM and web search backed collaborators
// used by the orchestration engine: a clarification question generator, an
// iterative breadth/depth research loop, and a markdown report writer.
//
// Every LLM exchange asks for a single JSON object. Replies are parsed
// leniently: reasoning blocks and code fences around the object are
// tolerated, anything else is an error.
package research
