package llm

import (
	"fmt"
	"os"
	"strings"

	"github.com/okarpov/turncoat/internal/model"
)

// NewProvider creates a new LLM provider based on configuration
func NewProvider(config Config) (Provider, error) {
	provider := strings.ToLower(config.Provider)

	switch provider {
	case "openai":
		return NewOpenAIProvider(config)

	case "anthropic", "claude":
		return NewAnthropicProvider(config)

	case "ollama":
		return NewOllamaProvider(config)

	case "":
		// No provider configured - return nil (backend disabled)
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, anthropic, ollama)", config.Provider)
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config, filling the API
// key from the environment when the config leaves it empty
func ConfigFromModel(mc model.LLMConfig) Config {
	cfg := Config{
		Provider:   mc.Provider,
		Model:      mc.SummaryModel,
		APIKey:     mc.APIKey,
		BaseURL:    mc.BaseURL,
		Timeout:    mc.Timeout,
		MaxTokens:  mc.MaxTokens,
		HTTPProxy:  mc.HTTPProxy,
		HTTPSProxy: mc.HTTPSProxy,
	}

	if cfg.APIKey == "" {
		switch strings.ToLower(mc.Provider) {
		case "openai":
			cfg.APIKey = os.Getenv("OPENAI_API_KEY")
		case "anthropic", "claude":
			cfg.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		case "ollama":
			if base := os.Getenv("OLLAMA_BASE_URL"); base != "" && cfg.BaseURL == "" {
				cfg.BaseURL = base
			}
		}
	}
	return cfg
}
