package llm

import (
	"os"
	"strconv"
	"strings"
)

// TaskType identifies the kind of LLM task being performed.
type TaskType string

const (
	// TaskPatch turns one chat utterance into a record patch.
	TaskPatch TaskType = "patch"
)

// Provider selects the model backend.
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderOllama Provider = "ollama"
)

// TaskConfig holds per-task LLM parameters.
type TaskConfig struct {
	Temperature float64
	MaxTokens   int
	TimeoutMs   int // overrides global if > 0
}

// LLMConfig holds all configuration for the LLM subsystem.
type LLMConfig struct {
	Provider   Provider
	LogCalls   bool
	Endpoint   string
	Model      string
	APIKey     string
	TimeoutMs  int
	MaxRetries int
	Tasks      map[TaskType]TaskConfig
}

const (
	defaultGeminiModel = "gemini-2.0-flash"
	defaultOllamaModel = "llama3.2"
)

// DefaultConfig returns an LLMConfig for the Gemini backend. Patch
// extraction runs at temperature 0.
func DefaultConfig() LLMConfig {
	return LLMConfig{
		Provider:   ProviderGemini,
		LogCalls:   false,
		Endpoint:   "",
		Model:      defaultGeminiModel,
		TimeoutMs:  20000,
		MaxRetries: 1,
		Tasks: map[TaskType]TaskConfig{
			TaskPatch: {Temperature: 0, MaxTokens: 2048, TimeoutMs: 20000},
		},
	}
}

// LoadConfig reads LLM configuration from environment variables,
// falling back to defaults for any unset values.
func LoadConfig() LLMConfig {
	cfg := DefaultConfig()

	if v := os.Getenv("INTAKE_LLM_PROVIDER"); v != "" {
		cfg.Provider = Provider(strings.ToLower(strings.TrimSpace(v)))
	}
	if cfg.Provider == ProviderOllama {
		cfg.Endpoint = "http://localhost:11434"
		cfg.Model = defaultOllamaModel
	}
	if v := os.Getenv("INTAKE_LLM_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("INTAKE_LLM_ENDPOINT"); v != "" {
		cfg.Endpoint = strings.TrimRight(v, "/")
	}
	if v := os.Getenv("INTAKE_LLM_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("INTAKE_LLM_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("INTAKE_LLM_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxRetries = n
		}
	}

	applyTaskTimeoutEnv(&cfg, TaskPatch, "INTAKE_LLM_PATCH_TIMEOUT_MS")

	return cfg
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
