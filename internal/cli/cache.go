package cli

import (
	"fmt"
	"path/filepath"

	"github.com/okarpov/turncoat/internal/cache"
	"github.com/spf13/cobra"
)

// cacheCmd represents the cache command
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the analysis result cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache entry counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openCache()
		if err != nil {
			return err
		}
		stats := store.Stats()
		fmt.Printf("Entries: %d\n", stats.Entries)
		fmt.Printf("Schema:  %s\n", cache.SchemaVersion)
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear [username]",
	Short: "Clear all cached analyses, or just one subject's",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openCache()
		if err != nil {
			return err
		}
		if len(args) == 1 {
			if err := store.Delete(args[0]); err != nil {
				return fmt.Errorf("clear cache entry: %w", err)
			}
			fmt.Printf("Cleared cached analyses for %s\n", args[0])
			return nil
		}
		if err := store.Clear(); err != nil {
			return fmt.Errorf("clear cache: %w", err)
		}
		fmt.Println("Cleared all cached analyses")
		return nil
	},
}

func openCache() (*cache.ResultCache, error) {
	cfg := buildConfig()
	return cache.NewResultCache(filepath.Join(stateDir(), "cache"), cfg.Cache.TTL, cfg.Cache.MaxEntries)
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}
