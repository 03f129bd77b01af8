// Package engine exposes the routing engine: a graph store guarded by a
// single-writer/multi-reader mutex, geodesic default weights, and
// schedule-aware path queries.
//
// The engine is synchronous and does no I/O. The read lock spans exactly
// one query call and the write lock exactly one mutation; composite
// operations get no larger atomicity guarantee.
package engine

import (
	"sort"
	"sync"

	"github.com/rotisserie/eris"

	"github.com/aerolane/airmesh/internal/graph"
	"github.com/aerolane/airmesh/internal/model"
)

// Engine owns a graph store and serializes access to it. The zero value is
// not usable; construct with New.
type Engine struct {
	mu    sync.RWMutex
	store *graph.Store
}

// New returns an engine over an empty graph.
func New() *Engine {
	return &Engine{store: graph.NewStore()}
}

// AddNode validates and inserts a node.
func (e *Engine) AddNode(n model.Node) error {
	if err := n.Validate(); err != nil {
		return eris.Wrap(err, "engine: add node")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.AddNode(n)
}

// RemoveNode deletes a node and every edge incident to it.
func (e *Engine) RemoveNode(uid string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.RemoveNode(uid)
}

// AddEdge inserts a directed edge between existing nodes.
func (e *Engine) AddEdge(edge model.Edge) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.AddEdge(edge)
}

// RemoveEdge deletes the edge for the ordered pair (source, target).
func (e *Engine) RemoveEdge(source, target string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.RemoveEdge(source, target)
}

// UpdateWeight sets the explicit weight of an existing edge.
func (e *Engine) UpdateWeight(source, target string, w float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.UpdateWeight(source, target, w)
}

// NodeByUID returns the node record for uid.
func (e *Engine) NodeByUID(uid string) (model.Node, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.store.NodeByUID(uid)
}

// HasNode reports whether uid is in the graph.
func (e *Engine) HasNode(uid string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.store.HasNode(uid)
}

// EdgesByNode returns the outgoing edges of uid in insertion order.
func (e *Engine) EdgesByNode(uid string) ([]model.Edge, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.store.EdgesByNode(uid)
}

// HasEdge reports whether the ordered pair (source, target) is an edge.
func (e *Engine) HasEdge(source, target string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.store.HasEdge(source, target)
}

// Nodes returns a snapshot of every node, sorted by UID.
func (e *Engine) Nodes() []model.Node {
	e.mu.RLock()
	defer e.mu.RUnlock()
	nodes := e.store.Nodes()
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].UID < nodes[j].UID })
	return nodes
}

// Edges returns a snapshot of every edge, sorted by source then target.
func (e *Engine) Edges() []model.Edge {
	e.mu.RLock()
	defer e.mu.RUnlock()
	edges := e.store.Edges()
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Source != edges[j].Source {
			return edges[i].Source < edges[j].Source
		}
		return edges[i].Target < edges[j].Target
	})
	return edges
}

// Stats reports the current graph size.
type Stats struct {
	Nodes int `json:"nodes"`
	Edges int `json:"edges"`
}

// Stats returns node and edge counts.
func (e *Engine) Stats() Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return Stats{Nodes: e.store.NodeCount(), Edges: e.store.EdgeCount()}
}
