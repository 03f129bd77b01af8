package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aerolane/airmesh/internal/inventory"
)

var loadFile string

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Replace the inventory with a YAML network file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		file := loadFile
		if file == "" {
			file = cfg.Network.File
		}
		if file == "" {
			return eris.New("network file is required (--file or AIRMESH_NETWORK_FILE)")
		}

		nodes, edges, err := inventory.ReadNetworkFile(file, cfg.Network.DefaultTimezone)
		if err != nil {
			return eris.Wrap(err, "read network file")
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if err := inventory.Replace(ctx, st, nodes, edges); err != nil {
			return eris.Wrap(err, "store network")
		}

		zap.L().Info("network loaded",
			zap.String("file", file),
			zap.Int("nodes", len(nodes)),
			zap.Int("edges", len(edges)),
		)
		return nil
	},
}

func init() {
	loadCmd.Flags().StringVar(&loadFile, "file", "", "path to YAML network file (default from config)")
	rootCmd.AddCommand(loadCmd)
}
