// Package config provides unified configuration for the recherche gateway.
//
// Configuration is loaded with a layered approach:
//  1. Built-in defaults
//  2. YAML config file (discovered or explicitly specified)
//  3. Environment variable overrides (RECHERCHE_ prefix)
//  4. File reference resolution (_file suffix fields)
//  5. Validation
package config

import "time"

// Config holds all configuration for the recherche gateway.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	LLM           LLMConfig           `yaml:"llm"`
	Search        SearchConfig        `yaml:"search"`
	Research      ResearchConfig      `yaml:"research"`
	Observability ObservabilityConfig `yaml:"observability"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port"`             // default: 3000
	ReadTimeout     time.Duration `yaml:"read_timeout"`     // default: 30s
	WriteTimeout    time.Duration `yaml:"write_timeout"`    // default: 0 (research can run for minutes)
	MaxBodySize     int64         `yaml:"max_body_size"`    // default: 1 MiB
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"` // default: 30s
}

// LLMConfig holds settings for the Chat Completions backend used by the
// clarification, research and report collaborators.
type LLMConfig struct {
	BackendURL string        `yaml:"backend_url"`  // required
	APIKey     string        `yaml:"api_key"`      // optional
	APIKeyFile string        `yaml:"api_key_file"` // _file variant for api_key
	Model      string        `yaml:"model"`        // required
	Timeout    time.Duration `yaml:"timeout"`      // default: 120s
	JSONMode   bool          `yaml:"json_mode"`    // default: true
}

// SearchConfig holds web search backend settings.
type SearchConfig struct {
	Backend           string        `yaml:"backend"`             // "searxng", default: "searxng"
	URL               string        `yaml:"url"`                 // required
	MaxResults        int           `yaml:"max_results"`         // default: 5
	RequestsPerSecond float64       `yaml:"requests_per_second"` // 0 disables throttling
	Timeout           time.Duration `yaml:"timeout"`             // default: 30s
}

// ResearchConfig tunes the iterative research collaborators.
type ResearchConfig struct {
	Concurrency      int `yaml:"concurrency"`        // default: 2
	MaxQuestions     int `yaml:"max_questions"`      // default: 3
	MaxLearningChars int `yaml:"max_learning_chars"` // default: 25000
}

// ObservabilityConfig holds monitoring and instrumentation settings.
type ObservabilityConfig struct {
	Metrics MetricsConfig `yaml:"metrics"`
}

// MetricsConfig holds Prometheus metrics endpoint settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"` // default: true
	Path    string `yaml:"path"`    // default: "/metrics"
}

// LoggingConfig holds log level and debug category settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // default: "INFO"
	Debug  string `yaml:"debug"`  // comma-separated debug categories
	Format string `yaml:"format"` // "text" or "json", default: "text"
}

// Defaults returns a Config with all default values filled in.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:            3000,
			ReadTimeout:     30 * time.Second,
			MaxBodySize:     1 << 20,
			ShutdownTimeout: 30 * time.Second,
		},
		LLM: LLMConfig{
			Timeout:  120 * time.Second,
			JSONMode: true,
		},
		Search: SearchConfig{
			Backend:    "searxng",
			MaxResults: 5,
			Timeout:    30 * time.Second,
		},
		Research: ResearchConfig{
			Concurrency:      2,
			MaxQuestions:     3,
			MaxLearningChars: 25000,
		},
		Observability: ObservabilityConfig{
			Metrics: MetricsConfig{
				Enabled: true,
				Path:    "/metrics",
			},
		},
		Logging: LoggingConfig{
			Level:  "INFO",
			Format: "text",
		},
	}
}
