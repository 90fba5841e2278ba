package llm

import (
	"os"
	"strconv"
	"strings"
)

// TaskType identifies the kind of LLM task being performed.
type TaskType string

const (
	TaskItinerary    TaskType = "itinerary"
	TaskRefine       TaskType = "refine"
	TaskEvents       TaskType = "events"
	TaskAlternatives TaskType = "alternatives"
)

// Provider selects the model backend.
type Provider string

const (
	ProviderOllama Provider = "ollama"
	ProviderOpenAI Provider = "openai"
)

// TaskConfig holds per-task LLM parameters.
type TaskConfig struct {
	Temperature float64
	MaxTokens   int
	TimeoutMs   int // overrides global if > 0
}

// LLMConfig holds all configuration for the LLM subsystem.
type LLMConfig struct {
	Enabled    bool
	LogCalls   bool
	Provider   Provider
	Endpoint   string
	Model      string
	APIKey     string
	TimeoutMs  int
	MaxRetries int
	Tasks      map[TaskType]TaskConfig
}

const (
	defaultOllamaEndpoint = "http://localhost:11434"
	defaultOllamaModel    = "llama3.2"
	defaultOpenAIModel    = "gpt-4o-mini"
)

// DefaultConfig returns an LLMConfig with sensible defaults.
// LLM is disabled by default.
func DefaultConfig() LLMConfig {
	return LLMConfig{
		Enabled:    false,
		LogCalls:   false,
		Provider:   ProviderOllama,
		Endpoint:   defaultOllamaEndpoint,
		Model:      defaultOllamaModel,
		TimeoutMs:  30000,
		MaxRetries: 1,
		Tasks: map[TaskType]TaskConfig{
			TaskItinerary:    {Temperature: 0.7, MaxTokens: 4096, TimeoutMs: 90000},
			TaskRefine:       {Temperature: 0.5, MaxTokens: 4096, TimeoutMs: 90000},
			TaskEvents:       {Temperature: 0.3, MaxTokens: 1024, TimeoutMs: 20000},
			TaskAlternatives: {Temperature: 0.6, MaxTokens: 512, TimeoutMs: 15000},
		},
	}
}

// LoadConfig reads LLM configuration from environment variables,
// falling back to defaults for any unset values. Setting OPENAI_API_KEY
// without ITINERA_LLM_PROVIDER selects and enables the OpenAI provider.
func LoadConfig() LLMConfig {
	cfg := DefaultConfig()

	cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	switch Provider(strings.ToLower(os.Getenv("ITINERA_LLM_PROVIDER"))) {
	case ProviderOpenAI:
		cfg.useOpenAI()
	case ProviderOllama:
	default:
		if cfg.APIKey != "" {
			cfg.useOpenAI()
			cfg.Enabled = true
		}
	}
	if cfg.Provider == ProviderOpenAI {
		if v := os.Getenv("OPENAI_MODEL"); v != "" {
			cfg.Model = v
		}
	}

	if v := os.Getenv("ITINERA_LLM_ENABLED"); v != "" {
		cfg.Enabled, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("ITINERA_LLM_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("ITINERA_LLM_ENDPOINT"); v != "" {
		cfg.Endpoint = strings.TrimRight(v, "/")
	}
	if v := os.Getenv("ITINERA_LLM_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("ITINERA_LLM_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("ITINERA_LLM_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxRetries = n
		}
	}

	applyTaskTimeoutEnv(&cfg, TaskItinerary, "ITINERA_LLM_ITINERARY_TIMEOUT_MS")
	applyTaskTimeoutEnv(&cfg, TaskRefine, "ITINERA_LLM_REFINE_TIMEOUT_MS")
	applyTaskTimeoutEnv(&cfg, TaskEvents, "ITINERA_LLM_EVENTS_TIMEOUT_MS")
	applyTaskTimeoutEnv(&cfg, TaskAlternatives, "ITINERA_LLM_ALTERNATIVES_TIMEOUT_MS")

	return cfg
}

// useOpenAI switches the provider defaults. The endpoint is left empty so
// the SDK's public base URL applies unless overridden.
func (c *LLMConfig) useOpenAI() {
	c.Provider = ProviderOpenAI
	c.Endpoint = ""
	c.Model = defaultOpenAIModel
}

// TaskTimeout returns the effective timeout for a given task type.
// Uses the task-specific timeout if set, otherwise the global timeout.
func (c LLMConfig) TaskTimeout(task TaskType) int {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return tc.TimeoutMs
	}
	return c.TimeoutMs
}

func applyTaskTimeoutEnv(cfg *LLMConfig, task TaskType, envName string) {
	v := os.Getenv(envName)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return
	}
	tc := cfg.Tasks[task]
	tc.TimeoutMs = n
	cfg.Tasks[task] = tc
}
