package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/okarpov/turncoat/internal/budget"
	"github.com/spf13/cobra"
)

// budgetCmd represents the budget command
var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Inspect or reset the session spend ledger",
}

var budgetStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show spend against the session cap",
	RunE: func(cmd *cobra.Command, args []string) error {
		ledger, path, err := openLedger()
		if err != nil {
			return err
		}

		status := ledger.Status()
		fmt.Printf("Spent:     $%.4f\n", status.Spent)
		fmt.Printf("Cap:       $%.2f\n", status.Cap)
		fmt.Printf("Remaining: $%.4f (%.0f%% used)\n", status.Remaining, status.Percent)
		if status.Exceeded {
			fmt.Println("Status:    EXCEEDED - all analysis runs in fallback mode")
		} else if status.Warning {
			fmt.Println("Status:    warning - approaching the session cap")
		}

		if verbose {
			fmt.Fprintf(os.Stderr, "\nLedger file: %s\n", path)
			for _, e := range ledger.Entries() {
				fmt.Fprintf(os.Stderr, "  %s  %s  in=%d out=%d  $%.5f\n",
					e.Timestamp.Format("2006-01-02 15:04:05"), e.Model, e.InputUnits, e.OutputUnits, e.Cost)
			}
		}
		return nil
	},
}

var budgetResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset the spend ledger to zero",
	RunE: func(cmd *cobra.Command, args []string) error {
		ledger, path, err := openLedger()
		if err != nil {
			return err
		}
		ledger.Reset()
		if err := ledger.Save(path); err != nil {
			return fmt.Errorf("save ledger: %w", err)
		}
		fmt.Println("Budget ledger reset")
		return nil
	},
}

func openLedger() (*budget.Ledger, string, error) {
	cfg := buildConfig()
	path := cfg.Budget.PersistPath
	if path == "" {
		path = filepath.Join(stateDir(), "budget.json")
	}

	ledger := budget.NewLedger(cfg.Budget.SessionCap, cfg.Budget.WarningThreshold)
	if err := ledger.Load(path); err != nil {
		return nil, "", fmt.Errorf("load ledger: %w", err)
	}
	return ledger, path, nil
}

func init() {
	rootCmd.AddCommand(budgetCmd)
	budgetCmd.AddCommand(budgetStatusCmd)
	budgetCmd.AddCommand(budgetResetCmd)
}
