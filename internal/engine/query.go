package engine

import (
	"time"

	"github.com/rotisserie/eris"

	"github.com/aerolane/airmesh/internal/geodesy"
	"github.com/aerolane/airmesh/internal/model"
	"github.com/aerolane/airmesh/internal/pathfind"
)

// queryOptions collects the functional options a path query accepts.
type queryOptions struct {
	at         time.Time
	timed      bool
	withOrigin bool
}

// QueryOption adjusts how a single path query is evaluated.
type QueryOption func(*queryOptions)

// At restricts the query to edges whose availability window is active at t.
// Edges without a window are always active. The zero time is rejected.
func At(t time.Time) QueryOption {
	return func(o *queryOptions) {
		o.at = t
		o.timed = true
	}
}

// WithOrigin includes the origin node itself, at distance zero, in radius
// results.
func WithOrigin() QueryOption {
	return func(o *queryOptions) { o.withOrigin = true }
}

// Reach is one radius-query result: a reachable node and the cumulative
// path distance from the query origin.
type Reach struct {
	Node     model.Node `json:"node"`
	Distance float64    `json:"distance"`
}

// ShortestPath returns the cheapest route from source to target. An edge
// costs its explicit weight where one is set, else the great-circle
// distance between its endpoints in meters.
func (e *Engine) ShortestPath(source, target string, opts ...QueryOption) (model.Path, error) {
	o, err := collectOptions(opts)
	if err != nil {
		return model.Path{}, err
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	if !e.store.HasNode(source) {
		return model.Path{}, eris.Wrapf(model.ErrNodeNotFound, "engine: source %s", source)
	}
	if !e.store.HasNode(target) {
		return model.Path{}, eris.Wrapf(model.ErrNodeNotFound, "engine: target %s", target)
	}

	return pathfind.ShortestPath(e.store, source, target, e.cost, e.filter(o))
}

// NodesWithinDistance returns every node reachable from origin within the
// given weight budget, ascending by distance. The origin is excluded unless
// WithOrigin is passed; a zero radius therefore yields an empty result.
func (e *Engine) NodesWithinDistance(origin string, radius float64, opts ...QueryOption) ([]Reach, error) {
	o, err := collectOptions(opts)
	if err != nil {
		return nil, err
	}
	if !model.ValidWeight(radius) {
		return nil, eris.Wrapf(model.ErrInvalidWeight, "engine: radius %v", radius)
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	node, ok := e.store.NodeByUID(origin)
	if !ok {
		return nil, eris.Wrapf(model.ErrNodeNotFound, "engine: origin %s", origin)
	}

	visits := pathfind.ReachableWithin(e.store, origin, radius, e.cost, e.filter(o))

	out := make([]Reach, 0, len(visits)+1)
	if o.withOrigin {
		out = append(out, Reach{Node: node})
	}
	for _, v := range visits {
		n, _ := e.store.NodeByUID(v.UID)
		out = append(out, Reach{Node: n, Distance: v.Cost})
	}
	return out, nil
}

func collectOptions(opts []QueryOption) (queryOptions, error) {
	var o queryOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.timed && o.at.IsZero() {
		return o, eris.Wrap(model.ErrInvalidSchedule, "engine: query timestamp is zero")
	}
	return o, nil
}

// cost prices an edge: explicit weight when set, else great-circle meters.
// Endpoints always resolve while the edge exists, since node removal
// cascades to incident edges.
func (e *Engine) cost(edge model.Edge) float64 {
	if edge.Weight != nil {
		return *edge.Weight
	}
	a, _ := e.store.NodeByUID(edge.Source)
	b, _ := e.store.NodeByUID(edge.Target)
	return geodesy.Distance(a.Position, b.Position)
}

// filter folds node status and, for timed queries, edge availability.
// Closed nodes block traversal in either direction.
func (e *Engine) filter(o queryOptions) pathfind.FilterFunc {
	return func(edge model.Edge) bool {
		if src, ok := e.store.NodeByUID(edge.Source); !ok || src.Status == model.StatusClosed {
			return false
		}
		if dst, ok := e.store.NodeByUID(edge.Target); !ok || dst.Status == model.StatusClosed {
			return false
		}
		if o.timed && edge.Window != nil && !edge.Window.Active(o.at) {
			return false
		}
		return true
	}
}
