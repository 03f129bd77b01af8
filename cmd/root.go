package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aerolane/airmesh/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "airmesh",
	Short: "Routing engine for an aerial mobility network",
	Long:  "Maintains a directed graph of vertiports, vertipads and rooftop sites, answers shortest-path and reachability queries over it, and syncs the network with an external inventory.",
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
