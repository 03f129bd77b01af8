// Package model defines the data shared by
// the graph store, the query engine, and the host surfaces: geodetic
// positions, network nodes and edges, computed paths, and the sentinel
// errors every layer matches against.
package model

import (
	"encoding/json"
	"math"

	"github.com/rotisserie/eris"
)

// NodeKind classifies a landing site.
type NodeKind string

const (
	KindVertiport NodeKind = "vertiport"
	KindVertipad  NodeKind = "vertipad"
	KindRooftop   NodeKind = "rooftop"
	KindOther     NodeKind = "other"
)

// Valid reports whether k is one of the known kinds.
func (k NodeKind) Valid() bool {
	switch k {
	case KindVertiport, KindVertipad, KindRooftop, KindOther:
		return true
	}
	return false
}

// NodeStatus is the operational state of a node. Closed nodes stay in the
// graph for topology queries but are skipped by path queries.
type NodeStatus string

const (
	StatusActive NodeStatus = "active"
	StatusClosed NodeStatus = "closed"
)

// Valid reports whether s is one of the known statuses.
func (s NodeStatus) Valid() bool {
	return s == StatusActive || s == StatusClosed
}

// Position is a geodetic coordinate in decimal degrees (WGS 84) with an
// optional altitude above mean sea level.
type Position struct {
	Latitude       float64  `json:"latitude"`
	Longitude      float64  `json:"longitude"`
	AltitudeMeters *float64 `json:"altitude_meters,omitempty"`
}

// Validate checks latitude and longitude ranges, rejects non-finite values,
// and requires a non-negative altitude when one is set.
func (p Position) Validate() error {
	if math.IsNaN(p.Latitude) || p.Latitude < -90 || p.Latitude > 90 {
		return eris.Wrapf(ErrInvalidPosition, "latitude %v outside [-90, 90]", p.Latitude)
	}
	if math.IsNaN(p.Longitude) || p.Longitude < -180 || p.Longitude > 180 {
		return eris.Wrapf(ErrInvalidPosition, "longitude %v outside [-180, 180]", p.Longitude)
	}
	if p.AltitudeMeters != nil && (math.IsNaN(*p.AltitudeMeters) || math.IsInf(*p.AltitudeMeters, 0) || *p.AltitudeMeters < 0) {
		return eris.Wrapf(ErrInvalidPosition, "altitude %v is negative or non-finite", *p.AltitudeMeters)
	}
	return nil
}

// Node is a landing/takeoff site in the network. UIDs are externally
// assigned (UUIDs in production, readable synthetic ids in fixtures) and
// unique per graph instance.
type Node struct {
	UID      string          `json:"uid"`
	Kind     NodeKind        `json:"kind"`
	Status   NodeStatus      `json:"status"`
	Position Position        `json:"position"`
	Metadata json.RawMessage `json:"metadata,omitempty"`
}

// Validate checks the fields the store itself does not police: a non-empty
// UID, known kind and status values, and an in-range position.
func (n Node) Validate() error {
	if n.UID == "" {
		return eris.New("model: node uid is required")
	}
	if !n.Kind.Valid() {
		return eris.Errorf("model: unknown node kind %q", n.Kind)
	}
	if !n.Status.Valid() {
		return eris.Errorf("model: unknown node status %q", n.Status)
	}
	if err := n.Position.Validate(); err != nil {
		return eris.Wrapf(err, "model: node %s", n.UID)
	}
	return nil
}
