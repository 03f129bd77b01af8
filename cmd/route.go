package main

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/aerolane/airmesh/internal/engine"
	"github.com/aerolane/airmesh/internal/model"
)

var routeAt string

var routeCmd = &cobra.Command{
	Use:   "route <source> <target>",
	Short: "Compute the cheapest route between two sites",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		eng, err := loadEngine(ctx)
		if err != nil {
			return err
		}

		opts, err := queryOpts(routeAt, false)
		if err != nil {
			return err
		}

		path, err := eng.ShortestPath(args[0], args[1], opts...)
		if err != nil {
			return eris.Wrapf(err, "route %s -> %s", args[0], args[1])
		}

		return printRoute(os.Stdout, path)
	},
}

// routeResult is the payload printed by the route command and returned by
// the route endpoint.
type routeResult struct {
	Path                model.Path `json:"path"`
	EstimatedFlightTime string     `json:"estimated_flight_time"`
}

func newRouteResult(p model.Path) routeResult {
	return routeResult{
		Path:                p,
		EstimatedFlightTime: engine.EstimateFlightTime(p.Weight).String(),
	}
}

func printRoute(w io.Writer, p model.Path) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(newRouteResult(p))
}

// queryOpts translates the shared --at flag (RFC 3339) into query options.
func queryOpts(at string, includeOrigin bool) ([]engine.QueryOption, error) {
	var opts []engine.QueryOption
	if at != "" {
		t, err := time.Parse(time.RFC3339, at)
		if err != nil {
			return nil, eris.Wrapf(err, "parse --at %q", at)
		}
		opts = append(opts, engine.At(t))
	}
	if includeOrigin {
		opts = append(opts, engine.WithOrigin())
	}
	return opts, nil
}

func init() {
	routeCmd.Flags().StringVar(&routeAt, "at", "", "evaluate availability windows at this RFC 3339 time")
	rootCmd.AddCommand(routeCmd)
}
