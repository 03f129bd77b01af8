package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aerolane/airmesh/internal/inventory"
)

var (
	exportXLSX string
	exportYAML string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the stored network to an XLSX workbook or YAML file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if exportXLSX == "" && exportYAML == "" {
			return eris.New("at least one of --xlsx or --yaml is required")
		}

		// Hydrating an engine revalidates every record on the way out.
		eng, err := loadEngine(cmd.Context())
		if err != nil {
			return err
		}
		nodes, edges := eng.Nodes(), eng.Edges()

		if exportXLSX != "" {
			if err := inventory.ExportXLSX(exportXLSX, nodes, edges); err != nil {
				return eris.Wrap(err, "export xlsx")
			}
			zap.L().Info("workbook written", zap.String("path", exportXLSX))
		}

		if exportYAML != "" {
			if err := inventory.WriteNetworkFile(exportYAML, nodes, edges); err != nil {
				return eris.Wrap(err, "export yaml")
			}
			zap.L().Info("network file written", zap.String("path", exportYAML))
		}

		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportXLSX, "xlsx", "", "write an XLSX workbook to this path")
	exportCmd.Flags().StringVar(&exportYAML, "yaml", "", "write a YAML network file to this path")
	rootCmd.AddCommand(exportCmd)
}
