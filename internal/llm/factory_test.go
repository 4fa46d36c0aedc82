package llm

import (
	"testing"

	"github.com/okarpov/turncoat/internal/model"
)

func TestNewProvider_EmptyDisablesBackend(t *testing.T) {
	provider, err := NewProvider(Config{Provider: ""})
	if err != nil {
		t.Fatalf("Empty provider should not error: %v", err)
	}
	if provider != nil {
		t.Error("Empty provider should yield a nil backend")
	}
}

func TestNewProvider_Unknown(t *testing.T) {
	if _, err := NewProvider(Config{Provider: "bard"}); err == nil {
		t.Error("Expected an error for an unknown provider")
	}
}

func TestNewProvider_Names(t *testing.T) {
	tests := []struct {
		configured string
		want       string
	}{
		{"ollama", "ollama"},
		{"anthropic", "anthropic"},
		{"claude", "anthropic"},
		{"openai", "openai"},
	}
	for _, tt := range tests {
		provider, err := NewProvider(Config{Provider: tt.configured, APIKey: "test-key"})
		if err != nil {
			t.Fatalf("NewProvider(%q) failed: %v", tt.configured, err)
		}
		if provider.Name() != tt.want {
			t.Errorf("NewProvider(%q).Name() = %q, want %q", tt.configured, provider.Name(), tt.want)
		}
	}
}

func TestConfigFromModel_EnvFallback(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "env-key")

	cfg := ConfigFromModel(model.LLMConfig{Provider: "anthropic"})
	if cfg.APIKey != "env-key" {
		t.Errorf("Expected the env key to fill in, got %q", cfg.APIKey)
	}

	// An explicit key wins over the environment
	cfg = ConfigFromModel(model.LLMConfig{Provider: "anthropic", APIKey: "explicit"})
	if cfg.APIKey != "explicit" {
		t.Errorf("Expected the explicit key to win, got %q", cfg.APIKey)
	}
}

func TestConfigFromModel_OllamaBaseURL(t *testing.T) {
	t.Setenv("OLLAMA_BASE_URL", "http://gpu-box:11434")

	cfg := ConfigFromModel(model.LLMConfig{Provider: "ollama"})
	if cfg.BaseURL != "http://gpu-box:11434" {
		t.Errorf("Expected the env base URL, got %q", cfg.BaseURL)
	}
}
