package inventory

import (
	"encoding/json"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/aerolane/airmesh/internal/model"
	"github.com/aerolane/airmesh/internal/schedule"
)

// NetworkFile is the YAML document a network is authored in. It is the
// human-facing shape; the codec converts to and from model types.
type NetworkFile struct {
	DefaultTimezone string       `yaml:"default_timezone,omitempty"`
	Nodes           []NodeRecord `yaml:"nodes"`
	Edges           []EdgeRecord `yaml:"edges"`
}

// NodeRecord is the YAML form of a node. Kind defaults to "other" and
// status to "active".
type NodeRecord struct {
	UID       string   `yaml:"uid"`
	Kind      string   `yaml:"kind,omitempty"`
	Status    string   `yaml:"status,omitempty"`
	Lat       float64  `yaml:"lat"`
	Lon       float64  `yaml:"lon"`
	AltitudeM *float64 `yaml:"altitude_m,omitempty"`
	Metadata  any      `yaml:"metadata,omitempty"`
}

// EdgeRecord is the YAML form of an edge. bidirectional is codec sugar: it
// expands to the mirror edge on decode and is never stored; the store and
// engine only ever see directed edges.
type EdgeRecord struct {
	Source        string        `yaml:"source"`
	Target        string        `yaml:"target"`
	Weight        *float64      `yaml:"weight,omitempty"`
	Bidirectional bool          `yaml:"bidirectional,omitempty"`
	Window        *WindowRecord `yaml:"window,omitempty"`
}

// WindowRecord is the YAML form of an availability window. Zone falls back
// to the file's default_timezone, then to the configured default.
type WindowRecord struct {
	Rule       string        `yaml:"rule"`
	Zone       string        `yaml:"zone,omitempty"`
	ValidFrom  time.Time     `yaml:"valid_from"`
	ValidUntil time.Time     `yaml:"valid_until,omitempty"`
	Span       time.Duration `yaml:"span"`
}

// ReadNetworkFile parses a YAML network file into model nodes and edges.
// defaultZone seeds windows that name no zone of their own.
func ReadNetworkFile(path, defaultZone string) ([]model.Node, []model.Edge, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "inventory: read network file %s", path)
	}
	return DecodeNetwork(data, defaultZone)
}

// DecodeNetwork parses YAML network data. Bidirectional records expand to
// two directed edges; a mirror that collides with an explicitly declared
// edge surfaces as ErrDuplicateEdge at insertion, not here.
func DecodeNetwork(data []byte, defaultZone string) ([]model.Node, []model.Edge, error) {
	var nf NetworkFile
	if err := yaml.Unmarshal(data, &nf); err != nil {
		return nil, nil, eris.Wrap(err, "inventory: parse network file")
	}

	zone := nf.DefaultTimezone
	if zone == "" {
		zone = defaultZone
	}
	if zone == "" {
		zone = "UTC"
	}

	nodes := make([]model.Node, 0, len(nf.Nodes))
	for _, r := range nf.Nodes {
		n, err := r.toModel()
		if err != nil {
			return nil, nil, err
		}
		nodes = append(nodes, n)
	}

	edges := make([]model.Edge, 0, len(nf.Edges))
	for _, r := range nf.Edges {
		e, err := r.toModel(zone)
		if err != nil {
			return nil, nil, err
		}
		edges = append(edges, e)

		if r.Bidirectional {
			mirror := e
			mirror.Source, mirror.Target = e.Target, e.Source
			edges = append(edges, mirror)
		}
	}

	return nodes, edges, nil
}

// WriteNetworkFile renders the network back to YAML. Directed edges are
// written as-is; the codec never reconstructs bidirectional sugar.
func WriteNetworkFile(path string, nodes []model.Node, edges []model.Edge) error {
	data, err := EncodeNetwork(nodes, edges)
	if err != nil {
		return err
	}
	return eris.Wrapf(os.WriteFile(path, data, 0o644), "inventory: write network file %s", path)
}

// EncodeNetwork renders model nodes and edges as a YAML document.
func EncodeNetwork(nodes []model.Node, edges []model.Edge) ([]byte, error) {
	nf := NetworkFile{
		Nodes: make([]NodeRecord, 0, len(nodes)),
		Edges: make([]EdgeRecord, 0, len(edges)),
	}

	for _, n := range nodes {
		r := NodeRecord{
			UID:       n.UID,
			Kind:      string(n.Kind),
			Status:    string(n.Status),
			Lat:       n.Position.Latitude,
			Lon:       n.Position.Longitude,
			AltitudeM: n.Position.AltitudeMeters,
		}
		if len(n.Metadata) > 0 {
			var v any
			if err := json.Unmarshal(n.Metadata, &v); err != nil {
				return nil, eris.Wrapf(err, "inventory: node %s metadata", n.UID)
			}
			r.Metadata = v
		}
		nf.Nodes = append(nf.Nodes, r)
	}

	for _, e := range edges {
		r := EdgeRecord{
			Source: e.Source,
			Target: e.Target,
			Weight: e.Weight,
		}
		if w := e.Window; w != nil {
			r.Window = &WindowRecord{
				Rule:       w.Rule(),
				Zone:       w.Zone(),
				ValidFrom:  w.ValidFrom(),
				ValidUntil: w.ValidUntil(),
				Span:       w.Span(),
			}
		}
		nf.Edges = append(nf.Edges, r)
	}

	data, err := yaml.Marshal(&nf)
	if err != nil {
		return nil, eris.Wrap(err, "inventory: encode network")
	}
	return data, nil
}

func (r NodeRecord) toModel() (model.Node, error) {
	kind := r.Kind
	if kind == "" {
		kind = string(model.KindOther)
	}
	status := r.Status
	if status == "" {
		status = string(model.StatusActive)
	}

	n := model.Node{
		UID:    r.UID,
		Kind:   model.NodeKind(kind),
		Status: model.NodeStatus(status),
		Position: model.Position{
			Latitude:       r.Lat,
			Longitude:      r.Lon,
			AltitudeMeters: r.AltitudeM,
		},
	}

	if r.Metadata != nil {
		meta, err := json.Marshal(r.Metadata)
		if err != nil {
			return model.Node{}, eris.Wrapf(err, "inventory: node %s metadata", r.UID)
		}
		n.Metadata = meta
	}

	if err := n.Validate(); err != nil {
		return model.Node{}, eris.Wrapf(err, "inventory: node %s", r.UID)
	}
	return n, nil
}

func (r EdgeRecord) toModel(defaultZone string) (model.Edge, error) {
	e := model.Edge{
		Source: r.Source,
		Target: r.Target,
		Weight: r.Weight,
	}

	if r.Window != nil {
		zone := r.Window.Zone
		if zone == "" {
			zone = defaultZone
		}
		w, err := schedule.New(r.Window.Rule, zone, r.Window.ValidFrom, r.Window.ValidUntil, r.Window.Span)
		if err != nil {
			return model.Edge{}, eris.Wrapf(err, "inventory: edge %s->%s window", r.Source, r.Target)
		}
		e.Window = w
	}

	if err := e.Validate(); err != nil {
		return model.Edge{}, eris.Wrapf(err, "inventory: edge %s->%s", r.Source, r.Target)
	}
	return e, nil
}
