package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Load loads configuration from a layered set of sources.
//
// The loading order is:
//  1. Built-in defaults
//  2. YAML config file (explicit path, RECHERCHE_CONFIG env, ./config.yaml, /etc/recherche/config.yaml)
//  3. Environment variable overrides
//  4. File reference resolution (_file suffix)
//  5. Validation
func Load(configPath string) (*Config, error) {
	cfg := Defaults()

	filePath := discoverConfigFile(configPath)
	if filePath != "" {
		if err := loadYAMLFile(filePath, &cfg); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", filePath, err)
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, fmt.Errorf("applying environment overrides: %w", err)
	}

	if err := resolveFileReferences(&cfg); err != nil {
		return nil, fmt.Errorf("resolving file references: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return &cfg, nil
}

// discoverConfigFile finds the config file path using the discovery order:
// 1. Explicit configPath argument
// 2. RECHERCHE_CONFIG environment variable
// 3. ./config.yaml in the current directory
// 4. /etc/recherche/config.yaml
//
// Returns empty string if no config file is found.
func discoverConfigFile(configPath string) string {
	if configPath != "" {
		return configPath
	}

	if envPath := os.Getenv("RECHERCHE_CONFIG"); envPath != "" {
		return envPath
	}

	candidates := []string{
		"config.yaml",
		"/etc/recherche/config.yaml",
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// loadYAMLFile reads and parses a YAML file into the Config struct.
// Fields not present in the YAML retain their current (default) values.
func loadYAMLFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// applyEnvOverrides maps RECHERCHE_* environment variables to config fields.
// Malformed numeric or duration values are reported instead of ignored.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("RECHERCHE_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("RECHERCHE_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv("RECHERCHE_WRITE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("RECHERCHE_WRITE_TIMEOUT: %w", err)
		}
		cfg.Server.WriteTimeout = d
	}

	if v := os.Getenv("RECHERCHE_LLM_URL"); v != "" {
		cfg.LLM.BackendURL = v
	}
	if v := os.Getenv("RECHERCHE_LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("RECHERCHE_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("RECHERCHE_LLM_JSON_MODE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("RECHERCHE_LLM_JSON_MODE: %w", err)
		}
		cfg.LLM.JSONMode = b
	}

	if v := os.Getenv("RECHERCHE_SEARCH_BACKEND"); v != "" {
		cfg.Search.Backend = v
	}
	if v := os.Getenv("RECHERCHE_SEARCH_URL"); v != "" {
		cfg.Search.URL = v
	}
	if v := os.Getenv("RECHERCHE_SEARCH_MAX_RESULTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("RECHERCHE_SEARCH_MAX_RESULTS: %w", err)
		}
		cfg.Search.MaxResults = n
	}
	if v := os.Getenv("RECHERCHE_SEARCH_RPS"); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("RECHERCHE_SEARCH_RPS: %w", err)
		}
		cfg.Search.RequestsPerSecond = rps
	}

	if v := os.Getenv("RECHERCHE_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("RECHERCHE_CONCURRENCY: %w", err)
		}
		cfg.Research.Concurrency = n
	}

	if v := os.Getenv("RECHERCHE_METRICS_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("RECHERCHE_METRICS_ENABLED: %w", err)
		}
		cfg.Observability.Metrics.Enabled = b
	}

	if v := os.Getenv("RECHERCHE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("RECHERCHE_DEBUG"); v != "" {
		cfg.Logging.Debug = v
	}
	if v := os.Getenv("RECHERCHE_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}

	return nil
}

// resolveFileReferences reads _file fields and populates the corresponding value fields.
// An explicit value always wins over its _file variant.
func resolveFileReferences(cfg *Config) error {
	if cfg.LLM.APIKeyFile != "" && cfg.LLM.APIKey == "" {
		val, err := readSecretFile(cfg.LLM.APIKeyFile)
		if err != nil {
			return fmt.Errorf("llm.api_key_file: %w", err)
		}
		cfg.LLM.APIKey = val
	}
	return nil
}

// readSecretFile reads a file and returns its content with surrounding whitespace trimmed.
func readSecretFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
