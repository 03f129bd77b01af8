// Package pathfind implements weighted shortest-path and bounded
// reachability queries over a read-only projection of the graph store.
//
// The algorithm is Dijkstra with a container/heap frontier and lazy
// deletion: superseded frontier entries are skipped on pop instead of
// decreased in place. Complexity is O((V+E) log V) over the subgraph the
// filter admits.
package pathfind

import (
	"container/heap"
	"slices"

	"github.com/rotisserie/eris"

	"github.com/aerolane/airmesh/internal/model"
)

// View is the read-only store projection the path finder walks. The query
// engine passes its store while holding the read lock.
type View interface {
	// Outgoing returns the outgoing edge keys of uid in insertion order.
	Outgoing(uid string) []model.EdgeID
	// Edge resolves an edge key to its record.
	Edge(id model.EdgeID) (model.Edge, bool)
}

// CostFunc prices an edge. Costs must be non-negative and finite: explicit
// weights are bounded at insertion and geodesic weights are by construction.
type CostFunc func(model.Edge) float64

// FilterFunc reports whether an edge is traversable. A nil filter admits
// every edge.
type FilterFunc func(model.Edge) bool

// Visit pairs a node UID with its cumulative cost from the query origin.
type Visit struct {
	UID  string
	Cost float64
}

// ShortestPath returns the cheapest path from source to target under cost,
// traversing only edges the filter admits. Between equal-cost paths the
// earliest discovered wins, so results are deterministic for a given
// insertion order. Endpoint existence is the caller's concern; a pair with
// no connecting route yields ErrNoPathFound. source == target is the
// zero-weight single-node path.
func ShortestPath(view View, source, target string, cost CostFunc, filter FilterFunc) (model.Path, error) {
	if source == target {
		return model.Path{Nodes: []string{source}}, nil
	}

	dist := map[string]float64{source: 0}
	cameFrom := make(map[string]model.EdgeID)
	settled := make(map[string]bool)

	var seq uint64
	pq := make(frontier, 0, 16)
	heap.Push(&pq, frontierItem{uid: source})

	for pq.Len() > 0 {
		item := heap.Pop(&pq).(frontierItem)
		if settled[item.uid] {
			continue
		}
		settled[item.uid] = true

		if item.uid == target {
			return buildPath(cameFrom, source, target, item.cost), nil
		}

		for _, id := range view.Outgoing(item.uid) {
			edge, ok := view.Edge(id)
			if !ok || settled[id.Target] {
				continue
			}
			if filter != nil && !filter(edge) {
				continue
			}
			next := item.cost + cost(edge)
			if old, seen := dist[id.Target]; seen && old <= next {
				continue
			}
			dist[id.Target] = next
			cameFrom[id.Target] = id
			seq++
			heap.Push(&pq, frontierItem{uid: id.Target, cost: next, seq: seq})
		}
	}

	return model.Path{}, eris.Wrapf(model.ErrNoPathFound, "pathfind: %s to %s", source, target)
}

// ReachableWithin returns every node whose cheapest path cost from origin is
// at most budget, ascending by cost with ties in discovery order. The origin
// itself is excluded. The walk stops as soon as the frontier minimum exceeds
// the budget. An empty neighborhood is an empty result, never an error.
func ReachableWithin(view View, origin string, budget float64, cost CostFunc, filter FilterFunc) []Visit {
	dist := map[string]float64{origin: 0}
	settled := make(map[string]bool)

	var out []Visit
	var seq uint64
	pq := make(frontier, 0, 16)
	heap.Push(&pq, frontierItem{uid: origin})

	for pq.Len() > 0 {
		item := heap.Pop(&pq).(frontierItem)
		if item.cost > budget {
			break // everything still queued is at least this far
		}
		if settled[item.uid] {
			continue
		}
		settled[item.uid] = true

		if item.uid != origin {
			out = append(out, Visit{UID: item.uid, Cost: item.cost})
		}

		for _, id := range view.Outgoing(item.uid) {
			edge, ok := view.Edge(id)
			if !ok || settled[id.Target] {
				continue
			}
			if filter != nil && !filter(edge) {
				continue
			}
			next := item.cost + cost(edge)
			if next > budget {
				continue
			}
			if old, seen := dist[id.Target]; seen && old <= next {
				continue
			}
			dist[id.Target] = next
			seq++
			heap.Push(&pq, frontierItem{uid: id.Target, cost: next, seq: seq})
		}
	}

	return out
}

// buildPath walks the predecessor table back from target, then reverses
// into source-first order.
func buildPath(cameFrom map[string]model.EdgeID, source, target string, weight float64) model.Path {
	var nodes []string
	var edges []model.EdgeID

	at := target
	for at != source {
		id := cameFrom[at]
		nodes = append(nodes, at)
		edges = append(edges, id)
		at = id.Source
	}
	nodes = append(nodes, source)

	slices.Reverse(nodes)
	slices.Reverse(edges)
	return model.Path{Nodes: nodes, Edges: edges, Weight: weight}
}
