package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/okarpov/turncoat/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage turncoat configuration",
	Long: `Manage turncoat configuration files and settings.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (TURNCOAT_*)
3. Config file (~/.turncoat/config.yaml)
4. Defaults`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := buildConfig()

		if configFile := viper.ConfigFileUsed(); configFile != "" {
			fmt.Fprintf(os.Stderr, "Configuration file: %s\n\n", configFile)
		} else {
			fmt.Fprintf(os.Stderr, "No configuration file found (using defaults)\n\n")
		}

		yamlData, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}
		fmt.Println(string(yamlData))

		fmt.Println("Configuration hierarchy (highest to lowest priority):")
		fmt.Println("  1. CLI flags")
		fmt.Println("  2. Environment variables (TURNCOAT_*, OPENAI_API_KEY, ANTHROPIC_API_KEY)")
		fmt.Println("  3. Config file (~/.turncoat/config.yaml)")
		fmt.Println("  4. Defaults")
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		configDir := stateDir()
		configPath := filepath.Join(configDir, "config.yaml")

		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("config file already exists: %s\nUse 'turncoat config show' to view it, or delete it first to recreate", configPath)
		}

		if err := os.MkdirAll(configDir, 0755); err != nil {
			return fmt.Errorf("error creating config directory: %w", err)
		}

		yamlData, err := yaml.Marshal(model.DefaultConfig())
		if err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}

		header := `# Turncoat configuration file
#
# Configuration hierarchy (highest to lowest priority):
#   1. CLI flags
#   2. Environment variables (TURNCOAT_*)
#   3. This config file
#   4. Built-in defaults

`
		footer := `
# API keys (recommended to use environment variables instead):
#   export OPENAI_API_KEY=sk-...
#   export ANTHROPIC_API_KEY=sk-ant-...
#   export OLLAMA_BASE_URL=http://localhost:11434
`
		content := append([]byte(header), yamlData...)
		content = append(content, []byte(footer)...)
		if err := os.WriteFile(configPath, content, 0644); err != nil {
			return fmt.Errorf("error writing config: %w", err)
		}

		fmt.Printf("Created default configuration: %s\n", configPath)
		fmt.Printf("\nTo view it:  turncoat config show\n")
		fmt.Printf("To edit it:  $EDITOR %s\n", configPath)
		return nil
	},
}

// applyViper overlays config-file and environment values onto cfg
func applyViper(cfg *model.Config) {
	if v := viper.GetString("source.base_url"); v != "" {
		cfg.Source.BaseURL = v
	}
	if v := viper.GetString("source.user_agent"); v != "" {
		cfg.Source.UserAgent = v
	}
	if v := viper.GetInt("source.max_pages"); v > 0 {
		cfg.Source.MaxPages = v
	}
	if v := viper.GetString("llm.provider"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := viper.GetString("llm.summary_model"); v != "" {
		cfg.LLM.SummaryModel = v
	}
	if v := viper.GetString("llm.analysis_model"); v != "" {
		cfg.LLM.AnalysisModel = v
	}
	if v := viper.GetString("llm.base_url"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := viper.GetFloat64("budget.session_cap"); v > 0 {
		cfg.Budget.SessionCap = v
	}
	if v := viper.GetDuration("cache.ttl"); v > 0 {
		cfg.Cache.TTL = v
	}
	if v := viper.GetInt("cache.max_entries"); v > 0 {
		cfg.Cache.MaxEntries = v
	}
	if viper.GetBool("output.verbose") {
		cfg.Output.Verbose = true
	}
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
