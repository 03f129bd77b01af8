package model

import (
	"math"

	"github.com/rotisserie/eris"

	"github.com/aerolane/airmesh/internal/schedule"
)

// EdgeID identifies a directed edge by its ordered endpoint pair. At most
// one edge exists per pair.
type EdgeID struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// String renders the pair as "source->target" for logs and error context.
func (id EdgeID) String() string { return id.Source + "->" + id.Target }

// Edge is a directed route between two nodes. Edges are one-way; callers
// wanting a symmetric route insert the mirror edge explicitly.
//
// A nil Weight means the route costs its great-circle distance in meters,
// resolved at query time. A nil Window means the route is always available.
type Edge struct {
	Source string           `json:"source"`
	Target string           `json:"target"`
	Weight *float64         `json:"weight,omitempty"`
	Window *schedule.Window `json:"-"`
}

// ID returns the ordered-pair identity of the edge.
func (e Edge) ID() EdgeID { return EdgeID{Source: e.Source, Target: e.Target} }

// Validate checks endpoint UIDs, rejects self-loops, and bounds the explicit
// weight when one is set. Endpoint existence is the store's concern.
func (e Edge) Validate() error {
	if e.Source == "" || e.Target == "" {
		return eris.Errorf("model: edge %q has an empty endpoint", e.ID())
	}
	if e.Source == e.Target {
		return eris.Wrapf(ErrSelfLoop, "edge %s", e.ID())
	}
	if e.Weight != nil && !ValidWeight(*e.Weight) {
		return eris.Wrapf(ErrInvalidWeight, "edge %s weight %v", e.ID(), *e.Weight)
	}
	return nil
}

// ValidWeight reports whether w can serve as an edge weight or query radius:
// finite and non-negative.
func ValidWeight(w float64) bool {
	return !math.IsNaN(w) && !math.IsInf(w, 0) && w >= 0
}

// Path is one computed route: the node UIDs visited in order (source through
// target inclusive), the edges traversed, and the total weight. Paths are
// built per query and never alias engine state.
type Path struct {
	Nodes  []string `json:"nodes"`
	Edges  []EdgeID `json:"edges"`
	Weight float64  `json:"weight"`
}
