// Package graph holds the in-memory network: node and edge collections with
// incrementally maintained adjacency indexes.
//
// The store carries no lock of its own. The query engine serializes access
// with a single-writer/multi-reader mutex; anything else touching a Store
// directly must arrange the same discipline.
package graph

import (
	"github.com/rotisserie/eris"

	"github.com/aerolane/airmesh/internal/model"
)

// Store is the node/edge collection backing the query engine.
//
// Identity is arena-style: adjacency and inbound hold ordered-pair keys into
// the edges map, never pointers into sibling values. Every mutation
// validates before it writes, so a failed call leaves all four collections
// untouched.
type Store struct {
	nodes     map[string]model.Node
	edges     map[model.EdgeID]model.Edge
	adjacency map[string][]model.EdgeID // outgoing, insertion-ordered
	inbound   map[string][]model.EdgeID // incoming, for cascade removal
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		nodes:     make(map[string]model.Node),
		edges:     make(map[model.EdgeID]model.Edge),
		adjacency: make(map[string][]model.EdgeID),
		inbound:   make(map[string][]model.EdgeID),
	}
}

// AddNode inserts a node and its empty adjacency entry.
func (s *Store) AddNode(n model.Node) error {
	if _, ok := s.nodes[n.UID]; ok {
		return eris.Wrapf(model.ErrDuplicateNode, "graph: node %s", n.UID)
	}
	s.nodes[n.UID] = n
	s.adjacency[n.UID] = nil
	s.inbound[n.UID] = nil
	return nil
}

// RemoveNode deletes a node and every edge incident to it, in both
// directions.
func (s *Store) RemoveNode(uid string) error {
	if _, ok := s.nodes[uid]; !ok {
		return eris.Wrapf(model.ErrNodeNotFound, "graph: node %s", uid)
	}
	// Self-loops are rejected at insertion, so the outgoing and incoming
	// sets never share a pair key.
	for _, id := range s.adjacency[uid] {
		delete(s.edges, id)
		s.inbound[id.Target] = dropEdgeID(s.inbound[id.Target], id)
	}
	for _, id := range s.inbound[uid] {
		delete(s.edges, id)
		s.adjacency[id.Source] = dropEdgeID(s.adjacency[id.Source], id)
	}
	delete(s.adjacency, uid)
	delete(s.inbound, uid)
	delete(s.nodes, uid)
	return nil
}

// AddEdge inserts a directed edge. Shape checks (self-loop, weight bounds)
// come from Edge.Validate; the store adds endpoint existence and pair
// uniqueness.
func (s *Store) AddEdge(e model.Edge) error {
	if err := e.Validate(); err != nil {
		return eris.Wrap(err, "graph: add edge")
	}
	if _, ok := s.nodes[e.Source]; !ok {
		return eris.Wrapf(model.ErrNodeNotFound, "graph: edge source %s", e.Source)
	}
	if _, ok := s.nodes[e.Target]; !ok {
		return eris.Wrapf(model.ErrNodeNotFound, "graph: edge target %s", e.Target)
	}
	id := e.ID()
	if _, ok := s.edges[id]; ok {
		return eris.Wrapf(model.ErrDuplicateEdge, "graph: edge %s", id)
	}
	s.edges[id] = e
	s.adjacency[e.Source] = append(s.adjacency[e.Source], id)
	s.inbound[e.Target] = append(s.inbound[e.Target], id)
	return nil
}

// RemoveEdge deletes the edge for the ordered pair (source, target).
func (s *Store) RemoveEdge(source, target string) error {
	id := model.EdgeID{Source: source, Target: target}
	if _, ok := s.edges[id]; !ok {
		return eris.Wrapf(model.ErrEdgeNotFound, "graph: edge %s", id)
	}
	delete(s.edges, id)
	s.adjacency[source] = dropEdgeID(s.adjacency[source], id)
	s.inbound[target] = dropEdgeID(s.inbound[target], id)
	return nil
}

// UpdateWeight sets the explicit weight of an existing edge.
func (s *Store) UpdateWeight(source, target string, w float64) error {
	id := model.EdgeID{Source: source, Target: target}
	e, ok := s.edges[id]
	if !ok {
		return eris.Wrapf(model.ErrEdgeNotFound, "graph: edge %s", id)
	}
	if !model.ValidWeight(w) {
		return eris.Wrapf(model.ErrInvalidWeight, "graph: edge %s weight %v", id, w)
	}
	e.Weight = &w
	s.edges[id] = e
	return nil
}

// NodeByUID returns the node record for uid.
func (s *Store) NodeByUID(uid string) (model.Node, bool) {
	n, ok := s.nodes[uid]
	return n, ok
}

// HasNode reports whether uid is in the store.
func (s *Store) HasNode(uid string) bool {
	_, ok := s.nodes[uid]
	return ok
}

// Edge returns the edge record for the ordered pair.
func (s *Store) Edge(id model.EdgeID) (model.Edge, bool) {
	e, ok := s.edges[id]
	return e, ok
}

// HasEdge reports whether the ordered pair (source, target) is an edge.
func (s *Store) HasEdge(source, target string) bool {
	_, ok := s.edges[model.EdgeID{Source: source, Target: target}]
	return ok
}

// EdgesByNode returns the outgoing edges of uid in insertion order.
func (s *Store) EdgesByNode(uid string) ([]model.Edge, error) {
	if _, ok := s.nodes[uid]; !ok {
		return nil, eris.Wrapf(model.ErrNodeNotFound, "graph: node %s", uid)
	}
	ids := s.adjacency[uid]
	out := make([]model.Edge, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.edges[id])
	}
	return out, nil
}

// Outgoing returns the outgoing pair keys of uid in insertion order. The
// slice aliases store state: callers must not mutate it or hold it across
// mutations.
func (s *Store) Outgoing(uid string) []model.EdgeID {
	return s.adjacency[uid]
}

// Nodes returns a copy of every node record, in map order.
func (s *Store) Nodes() []model.Node {
	out := make([]model.Node, 0, len(s.nodes))
	for _, n := range s.nodes {
		out = append(out, n)
	}
	return out
}

// Edges returns a copy of every edge record, in map order.
func (s *Store) Edges() []model.Edge {
	out := make([]model.Edge, 0, len(s.edges))
	for _, e := range s.edges {
		out = append(out, e)
	}
	return out
}

// NodeCount returns the number of nodes.
func (s *Store) NodeCount() int { return len(s.nodes) }

// EdgeCount returns the number of edges.
func (s *Store) EdgeCount() int { return len(s.edges) }

// dropEdgeID removes id from ids preserving order.
func dropEdgeID(ids []model.EdgeID, id model.EdgeID) []model.EdgeID {
	for i := range ids {
		if ids[i] == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
