package llm

import "fmt"

// TaskType identifies the kind of LLM task being performed.
type TaskType string

const (
	TaskRespond   TaskType = "respond"
	TaskSmalltalk TaskType = "smalltalk"
)

// Provider selects the backing model service.
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderOllama Provider = "ollama"
)

// TaskConfig holds per-task LLM parameters.
type TaskConfig struct {
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	TimeoutMs   int     `mapstructure:"timeout_ms"` // overrides global if > 0
}

// LLMConfig holds all configuration for the LLM subsystem.
type LLMConfig struct {
	Enabled    bool                    `mapstructure:"enabled"`
	LogCalls   bool                    `mapstructure:"log_calls"`
	Provider   Provider                `mapstructure:"provider"`
	Endpoint   string                  `mapstructure:"endpoint"`
	Model      string                  `mapstructure:"model"`
	APIKey     string                  `mapstructure:"api_key"`
	TimeoutMs  int                     `mapstructure:"timeout_ms"`
	MaxRetries int                     `mapstructure:"max_retries"`
	Tasks      map[TaskType]TaskConfig `mapstructure:"tasks"`
}

// DefaultConfig returns an LLMConfig with sensible defaults.
// LLM is disabled by default.
func DefaultConfig() LLMConfig {
	return LLMConfig{
		Enabled:    false,
		Provider:   ProviderGemini,
		Model:      "gemini-2.5-flash",
		TimeoutMs:  15000,
		MaxRetries: 1,
		Tasks: map[TaskType]TaskConfig{
			TaskRespond:   {Temperature: 0.3, MaxTokens: 1024, TimeoutMs: 15000},
			TaskSmalltalk: {Temperature: 0.7, MaxTokens: 256, TimeoutMs: 8000},
		},
	}
}

// TaskTimeout returns the effective timeout for a given task type.
// Uses the task-specific timeout if set, otherwise the global timeout.
func (c LLMConfig) TaskTimeout(task TaskType) int {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return tc.TimeoutMs
	}
	return c.TimeoutMs
}

// Validate reports configuration that cannot produce a working client.
func (c LLMConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	switch c.Provider {
	case ProviderGemini:
		// The genai SDK falls back to GEMINI_API_KEY / GOOGLE_API_KEY.
	case ProviderOllama:
		if c.Endpoint == "" {
			return fmt.Errorf("llm: ollama provider needs an endpoint")
		}
	default:
		return fmt.Errorf("llm: unknown provider %q", c.Provider)
	}
	if c.Model == "" {
		return fmt.Errorf("llm: model is required")
	}
	if c.TimeoutMs <= 0 {
		return fmt.Errorf("llm: timeout_ms must be positive")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("llm: max_retries must not be negative")
	}
	return nil
}
