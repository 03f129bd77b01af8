package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aerolane/airmesh/internal/inventory"
	"github.com/aerolane/airmesh/internal/model"
)

var (
	importShpPath   string
	importKind      string
	importStatus    string
	importUIDField  string
	importUIDPrefix string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import sites from a shapefile into the inventory",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		nodes, err := inventory.ImportShapefile(importShpPath, inventory.ImportOptions{
			Kind:      model.NodeKind(importKind),
			Status:    model.NodeStatus(importStatus),
			UIDField:  importUIDField,
			UIDPrefix: importUIDPrefix,
		})
		if err != nil {
			return eris.Wrap(err, "import shapefile")
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		count, err := st.UpsertNodes(ctx, nodes)
		if err != nil {
			return eris.Wrap(err, "store imported sites")
		}

		zap.L().Info("sites imported",
			zap.String("shapefile", importShpPath),
			zap.Int64("upserted", count),
		)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importShpPath, "shp", "", "path to shapefile (required)")
	importCmd.Flags().StringVar(&importKind, "kind", "", "site kind to assign (vertiport|vertipad|rooftop|other)")
	importCmd.Flags().StringVar(&importStatus, "status", "", "site status to assign (active|closed)")
	importCmd.Flags().StringVar(&importUIDField, "uid-field", "", "attribute column holding site UIDs")
	importCmd.Flags().StringVar(&importUIDPrefix, "uid-prefix", "", "prefix for synthesized UIDs when no uid-field is set")
	_ = importCmd.MarkFlagRequired("shp")
	rootCmd.AddCommand(importCmd)
}
