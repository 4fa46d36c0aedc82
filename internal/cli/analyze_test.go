package cli

import (
	"testing"

	"github.com/okarpov/turncoat/internal/model"
)

// resetFlag restores a flag to its default and clears its changed state so
// tests sharing the package-level command don't leak into each other
func resetFlag(t *testing.T, name string) {
	t.Helper()
	f := analyzeCmd.Flags().Lookup(name)
	if f == nil {
		t.Fatalf("Unknown flag %q", name)
	}
	t.Cleanup(func() {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
}

func TestApplyFlags_DefaultsPreserveConfiguredValues(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Budget.SessionCap = 0.25 // as if set via config file or env
	cfg.Analysis.TopStatements = 40
	cfg.Analysis.MaxFindings = 5

	applyFlags(analyzeCmd, cfg)

	if cfg.Budget.SessionCap != 0.25 {
		t.Errorf("Unset --budget clobbered the configured cap: %.2f", cfg.Budget.SessionCap)
	}
	if cfg.Analysis.TopStatements != 40 {
		t.Errorf("Unset --top clobbered the configured value: %d", cfg.Analysis.TopStatements)
	}
	if cfg.Analysis.MaxFindings != 5 {
		t.Errorf("Unset --max-findings clobbered the configured value: %d", cfg.Analysis.MaxFindings)
	}
}

func TestApplyFlags_ExplicitFlagsWin(t *testing.T) {
	resetFlag(t, "budget")
	resetFlag(t, "top")
	resetFlag(t, "max-findings")
	if err := analyzeCmd.Flags().Set("budget", "0.50"); err != nil {
		t.Fatal(err)
	}
	if err := analyzeCmd.Flags().Set("top", "30"); err != nil {
		t.Fatal(err)
	}
	if err := analyzeCmd.Flags().Set("max-findings", "6"); err != nil {
		t.Fatal(err)
	}

	cfg := model.DefaultConfig()
	cfg.Budget.SessionCap = 0.25
	cfg.Analysis.TopStatements = 40
	cfg.Analysis.MaxFindings = 5

	applyFlags(analyzeCmd, cfg)

	if cfg.Budget.SessionCap != 0.50 {
		t.Errorf("--budget should override the config file, got %.2f", cfg.Budget.SessionCap)
	}
	if cfg.Analysis.TopStatements != 30 {
		t.Errorf("--top should override the config file, got %d", cfg.Analysis.TopStatements)
	}
	if cfg.Analysis.MaxFindings != 6 {
		t.Errorf("--max-findings should override the config file, got %d", cfg.Analysis.MaxFindings)
	}
}

func TestApplyFlags_ProviderAndModels(t *testing.T) {
	resetFlag(t, "llm-provider")
	resetFlag(t, "summary-model")
	if err := analyzeCmd.Flags().Set("llm-provider", "ollama"); err != nil {
		t.Fatal(err)
	}
	if err := analyzeCmd.Flags().Set("summary-model", "llama3.1:8b"); err != nil {
		t.Fatal(err)
	}

	cfg := model.DefaultConfig()
	applyFlags(analyzeCmd, cfg)

	if cfg.LLM.Provider != "ollama" {
		t.Errorf("Provider = %q", cfg.LLM.Provider)
	}
	if cfg.LLM.SummaryModel != "llama3.1:8b" {
		t.Errorf("SummaryModel = %q", cfg.LLM.SummaryModel)
	}
}
