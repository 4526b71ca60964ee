package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/samruben96/documine-sub012/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "documine",
	Short: "Insurance quote comparison engine",
	Long:  "Extracts structured coverage data from insurance quote documents via Claude, compares 2-4 quotes side by side, and flags coverage gaps and conflicting terms.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
