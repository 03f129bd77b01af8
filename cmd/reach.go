package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var (
	reachRadius        float64
	reachAt            string
	reachIncludeOrigin bool
)

var reachCmd = &cobra.Command{
	Use:   "reach <origin>",
	Short: "List sites reachable within a distance budget",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		eng, err := loadEngine(ctx)
		if err != nil {
			return err
		}

		opts, err := queryOpts(reachAt, reachIncludeOrigin)
		if err != nil {
			return err
		}

		results, err := eng.NodesWithinDistance(args[0], reachRadius, opts...)
		if err != nil {
			return eris.Wrapf(err, "reach from %s", args[0])
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	},
}

func init() {
	reachCmd.Flags().Float64Var(&reachRadius, "radius", 0, "distance budget in meters (required)")
	reachCmd.Flags().StringVar(&reachAt, "at", "", "evaluate availability windows at this RFC 3339 time")
	reachCmd.Flags().BoolVar(&reachIncludeOrigin, "include-origin", false, "include the origin site at distance zero")
	_ = reachCmd.MarkFlagRequired("radius")
	rootCmd.AddCommand(reachCmd)
}
