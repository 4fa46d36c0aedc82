package model

import "time"

// Config is the complete runtime configuration
type Config struct {
	Source   SourceConfig   `yaml:"source"`
	Analysis AnalysisConfig `yaml:"analysis"`
	LLM      LLMConfig      `yaml:"llm"`
	Budget   BudgetConfig   `yaml:"budget"`
	Cache    CacheConfig    `yaml:"cache"`
	Output   OutputConfig   `yaml:"output"`
}

// SourceConfig controls the statement source client
type SourceConfig struct {
	BaseURL      string        `yaml:"base_url"`
	UserAgent    string        `yaml:"user_agent"`
	Timeout      time.Duration `yaml:"timeout"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
	PageSize     int           `yaml:"page_size"`
	MaxPages     int           `yaml:"max_pages"`
	CheckRobots  bool          `yaml:"check_robots"`
	HTTPProxy    string        `yaml:"http_proxy,omitempty"`
	HTTPSProxy   string        `yaml:"https_proxy,omitempty"`
}

// AnalysisConfig holds the pipeline's heuristic knobs
type AnalysisConfig struct {
	MinStatementLength int           `yaml:"min_statement_length"`
	TopStatements      int           `yaml:"top_statements"`       // relevance top-K
	MaxCandidatePairs  int           `yaml:"max_candidate_pairs"`  // pair cap after potential ranking
	PairMinGap         time.Duration `yaml:"pair_min_gap"`         // floor below which pairs are contextual
	BatchTokenBudget   int           `yaml:"batch_token_budget"`   // estimated tokens per batch
	BatchDelay         time.Duration `yaml:"batch_delay"`          // inter-batch backpressure delay
	BatchConcurrency   int           `yaml:"batch_concurrency"`    // worker bound, 1 = sequential
	MaxFindings        int           `yaml:"max_findings"`
}

// LLMConfig holds language-model backend configuration
type LLMConfig struct {
	Provider       string `yaml:"provider"` // openai, anthropic, ollama, "" = disabled
	SummaryModel   string `yaml:"summary_model"`
	AnalysisModel  string `yaml:"analysis_model"`
	APIKey         string `yaml:"api_key,omitempty"`
	BaseURL        string `yaml:"base_url,omitempty"`
	Timeout        int    `yaml:"timeout"` // seconds
	MaxTokens      int    `yaml:"max_tokens"`
	HTTPProxy      string `yaml:"http_proxy,omitempty"`
	HTTPSProxy     string `yaml:"https_proxy,omitempty"`
}

// BudgetConfig controls the spend ledger
type BudgetConfig struct {
	SessionCap       float64 `yaml:"session_cap"`       // dollars
	WarningThreshold float64 `yaml:"warning_threshold"` // fraction of cap
	PersistPath      string  `yaml:"persist_path,omitempty"`
}

// CacheConfig controls the result cache
type CacheConfig struct {
	Enabled    bool          `yaml:"enabled"`
	Dir        string        `yaml:"dir,omitempty"`
	TTL        time.Duration `yaml:"ttl"`
	MaxEntries int           `yaml:"max_entries"`
}

// OutputConfig controls rendering
type OutputConfig struct {
	Verbose           bool `yaml:"verbose"`
	IncludeStatements bool `yaml:"include_statements"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			BaseURL:      "https://www.reddit.com",
			UserAgent:    "Turncoat/0.1 (+https://github.com/okarpov/turncoat)",
			Timeout:      30 * time.Second,
			MaxBodyBytes: 4_000_000,
			PageSize:     100,
			MaxPages:     4,
			CheckRobots:  true,
		},
		Analysis: AnalysisConfig{
			MinStatementLength: 20,
			TopStatements:      80,
			MaxCandidatePairs:  25,
			PairMinGap:         24 * time.Hour,
			BatchTokenBudget:   2200,
			BatchDelay:         2 * time.Second,
			BatchConcurrency:   1,
			MaxFindings:        12,
		},
		LLM: LLMConfig{
			Provider:      "", // disabled by default
			SummaryModel:  "",
			AnalysisModel: "",
			Timeout:       30,
			MaxTokens:     2000,
		},
		Budget: BudgetConfig{
			SessionCap:       1.00,
			WarningThreshold: 0.8,
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTL:        72 * time.Hour,
			MaxEntries: 200,
		},
		Output: OutputConfig{},
	}
}
