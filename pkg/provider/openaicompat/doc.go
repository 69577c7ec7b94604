// Package openaicompat implements provider.Provider for any OpenAI-compatible
// Chat Completions backend (vLLM, LiteLLM, OpenAI). It handles request
// serialization, response parsing and error mapping.
package openaicompat
