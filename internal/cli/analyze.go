package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/okarpov/turncoat/internal/model"
	"github.com/okarpov/turncoat/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	outJSON           string
	analyzeTimeout    time.Duration
	noCache           bool
	includeStatements bool
	llmProvider       string
	llmSummaryModel   string
	llmAnalysisModel  string
	budgetCap         float64
	topStatements     int
	maxFindings       int
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <username>",
	Short: "Analyze a user's posting history for opinion reversals",
	Long: `Analyze fetches a user's comment and post history, filters it down to
opinionated statements, summarizes them, and cross-compares the
summaries for genuine contradictions.

Without an LLM provider configured the whole analysis runs on
deterministic heuristics and says so in the report narrative.

Example:
  turncoat analyze spez
  turncoat analyze spez --llm-provider openai --summary-model gpt-4o-mini
  turncoat analyze spez --json report.json --no-cache`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&outJSON, "json", "", "write the full report JSON to this path")
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 5*time.Minute, "overall analysis timeout")
	analyzeCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache (force fresh analysis)")
	analyzeCmd.Flags().BoolVar(&includeStatements, "include-statements", false, "embed retained statements and summaries in the report")

	analyzeCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "LLM provider (openai, anthropic, ollama; empty = heuristics only)")
	analyzeCmd.Flags().StringVar(&llmSummaryModel, "summary-model", "", "model for the summarization stage")
	analyzeCmd.Flags().StringVar(&llmAnalysisModel, "analysis-model", "", "model for the contradiction stage (defaults to summary model)")

	analyzeCmd.Flags().Float64Var(&budgetCap, "budget", 1.00, "session spend cap in dollars")
	analyzeCmd.Flags().IntVar(&topStatements, "top", 80, "statements retained after relevance filtering")
	analyzeCmd.Flags().IntVar(&maxFindings, "max-findings", 12, "findings kept in the report")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	subject := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), analyzeTimeout)
	defer cancel()

	cfg := buildConfig()
	applyFlags(cmd, cfg)

	p, err := pipeline.NewFromConfig(cfg)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Analyzing: %s\n", subject)
		if cfg.LLM.Provider == "" {
			fmt.Fprintln(os.Stderr, "No LLM provider configured, running heuristics only")
		}
		fmt.Fprintln(os.Stderr)
	}

	rep, err := p.Analyze(ctx, subject)
	if err != nil && !errors.Is(err, pipeline.ErrSourceUnavailable) {
		return fmt.Errorf("analysis failed: %w", err)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	if cfg.Budget.PersistPath != "" {
		if saveErr := p.Ledger().Save(cfg.Budget.PersistPath); saveErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to save budget ledger: %v\n", saveErr)
		}
	}

	renderReport(rep)

	if outJSON != "" {
		data, mErr := json.MarshalIndent(rep, "", "  ")
		if mErr != nil {
			return fmt.Errorf("marshal report: %w", mErr)
		}
		if wErr := os.WriteFile(outJSON, data, 0644); wErr != nil {
			return fmt.Errorf("write report: %w", wErr)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "Wrote report: %s\n", outJSON)
		}
	}
	return nil
}

// applyFlags overlays explicitly passed flags onto cfg. Numeric flags
// carry non-zero defaults, so only flags the user actually set may
// override the config file and environment.
func applyFlags(cmd *cobra.Command, cfg *model.Config) {
	if noCache {
		cfg.Cache.Enabled = false
	}
	cfg.Output.IncludeStatements = includeStatements
	if llmProvider != "" {
		cfg.LLM.Provider = llmProvider
	}
	if llmSummaryModel != "" {
		cfg.LLM.SummaryModel = llmSummaryModel
	}
	if llmAnalysisModel != "" {
		cfg.LLM.AnalysisModel = llmAnalysisModel
	}
	if cmd.Flags().Changed("budget") {
		cfg.Budget.SessionCap = budgetCap
	}
	if cmd.Flags().Changed("top") {
		cfg.Analysis.TopStatements = topStatements
	}
	if cmd.Flags().Changed("max-findings") {
		cfg.Analysis.MaxFindings = maxFindings
	}
}

// renderReport prints a human-readable summary to stdout
func renderReport(rep *model.Report) {
	fmt.Printf("Subject:    %s\n", rep.Subject)
	fmt.Printf("Mode:       %s\n", rep.Mode)
	fmt.Printf("Statements: %d over %s\n", rep.Stats.TotalStatements, rep.Stats.TimespanLabel)
	if len(rep.Stats.TopVenues) > 0 {
		fmt.Printf("Top venues: %v\n", rep.Stats.TopVenues)
	}
	fmt.Printf("\n%s\n", rep.Narrative)

	if len(rep.Findings) > 0 {
		fmt.Printf("\nFindings:\n")
		for i, f := range rep.Findings {
			review := ""
			if f.RequiresReview {
				review = " [review]"
			}
			fmt.Printf("  %d. (%d%%%s, %s) %s\n", i+1, f.Confidence, review, f.Category, f.Description)
		}
	}
}

// buildConfig merges defaults with the config file and environment
func buildConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.Output.Verbose = verbose
	cfg.Cache.Dir = filepath.Join(stateDir(), "cache")
	cfg.Budget.PersistPath = filepath.Join(stateDir(), "budget.json")
	applyViper(cfg)
	return cfg
}
