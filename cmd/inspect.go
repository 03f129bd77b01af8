package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/aerolane/airmesh/internal/model"
)

// edgeView flattens an edge for display: the availability window, when one
// exists, shows up as its recurrence rule and timezone.
type edgeView struct {
	Source string   `json:"source"`
	Target string   `json:"target"`
	Weight *float64 `json:"weight,omitempty"`
	Rule   string   `json:"rule,omitempty"`
	Zone   string   `json:"zone,omitempty"`
}

func newEdgeView(e model.Edge) edgeView {
	v := edgeView{Source: e.Source, Target: e.Target, Weight: e.Weight}
	if e.Window != nil {
		v.Rule = e.Window.Rule()
		v.Zone = e.Window.Zone()
	}
	return v
}

func newEdgeViews(edges []model.Edge) []edgeView {
	views := make([]edgeView, 0, len(edges))
	for _, e := range edges {
		views = append(views, newEdgeView(e))
	}
	return views
}

// -- node --

var nodeCmd = &cobra.Command{
	Use:   "node <uid>",
	Short: "Show a site and its outgoing edges",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := loadEngine(cmd.Context())
		if err != nil {
			return err
		}

		n, ok := eng.NodeByUID(args[0])
		if !ok {
			return eris.Wrapf(model.ErrNodeNotFound, "node %s", args[0])
		}
		edges, err := eng.EdgesByNode(args[0])
		if err != nil {
			return eris.Wrapf(err, "node %s", args[0])
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Node  model.Node `json:"node"`
			Edges []edgeView `json:"edges"`
		}{Node: n, Edges: newEdgeViews(edges)})
	},
}

// -- edge --

var edgeCmd = &cobra.Command{
	Use:   "edge <source> <target>",
	Short: "Show one directed edge",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := loadEngine(cmd.Context())
		if err != nil {
			return err
		}

		edges, err := eng.EdgesByNode(args[0])
		if err != nil {
			return eris.Wrapf(err, "edge %s->%s", args[0], args[1])
		}
		for _, e := range edges {
			if e.Target == args[1] {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(newEdgeView(e))
			}
		}

		return eris.Wrapf(model.ErrEdgeNotFound, "edge %s->%s", args[0], args[1])
	},
}

// -- stats --

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show network size",
	RunE: func(cmd *cobra.Command, _ []string) error {
		eng, err := loadEngine(cmd.Context())
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(eng.Stats())
	},
}

func init() {
	rootCmd.AddCommand(nodeCmd)
	rootCmd.AddCommand(edgeCmd)
	rootCmd.AddCommand(statsCmd)
}
