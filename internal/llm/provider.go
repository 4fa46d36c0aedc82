package llm

// Provider is the text-generation backend contract. Failures never
// propagate past the analysis stages: callers convert any error into the
// deterministic fallback path.

import "context"

// Provider defines the interface for text-generation backends
type Provider interface {
	// Name returns the provider name
	Name() string

	// Generate produces text for a prompt using the requested model
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// IsAvailable checks if the provider is properly configured and reachable
	IsAvailable(ctx context.Context) bool
}

// GenerateRequest is one backend call
type GenerateRequest struct {
	// Model is the backend model identifier (provider default if empty)
	Model string

	// System is the system instruction
	System string

	// Prompt is the user prompt text
	Prompt string

	// MaxTokens limits the response length
	MaxTokens int
}

// GenerateResponse is the backend's reply plus token accounting for the
// budget ledger
type GenerateResponse struct {
	Text         string
	Model        string
	InputTokens  int
	OutputTokens int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model is the default model when a request names none
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests, in seconds
	Timeout int

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "", // Disabled by default
		Timeout:   30,
		MaxTokens: 2000,
	}
}
