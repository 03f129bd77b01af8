package inventory

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"

	"github.com/aerolane/airmesh/internal/model"
)

// ImportOptions configures a shapefile import.
type ImportOptions struct {
	Kind      model.NodeKind   // kind assigned to imported sites; default "other"
	Status    model.NodeStatus // default "active"
	UIDField  string           // DBF field carrying the site id; empty = synthesize
	UIDPrefix string           // prefix for synthesized ids; default "site"
}

// ImportShapefile reads point and polygon records from a shapefile and
// returns them as nodes. Points map directly; polygons (rooftop footprints,
// landing zones) anchor at the center of their bounds. DBF attributes are
// decoded from Latin-1 and carried verbatim in node metadata.
func ImportShapefile(shpPath string, opts ImportOptions) ([]model.Node, error) {
	reader, err := shp.Open(shpPath)
	if err != nil {
		return nil, eris.Wrapf(err, "inventory: open shapefile %s", shpPath)
	}
	defer func() { _ = reader.Close() }()

	if opts.Kind == "" {
		opts.Kind = model.KindOther
	}
	if opts.Status == "" {
		opts.Status = model.StatusActive
	}
	if opts.UIDPrefix == "" {
		opts.UIDPrefix = "site"
	}
	if !opts.Kind.Valid() {
		return nil, eris.Errorf("inventory: unknown node kind %q", opts.Kind)
	}
	if !opts.Status.Valid() {
		return nil, eris.Errorf("inventory: unknown node status %q", opts.Status)
	}

	// Build field name → index map.
	fields := reader.Fields()
	fieldNames := make([]string, len(fields))
	fieldIdx := make(map[string]int, len(fields))
	for i, f := range fields {
		name := strings.TrimRight(f.String(), "\x00")
		fieldNames[i] = name
		fieldIdx[strings.ToLower(name)] = i
	}

	latin1 := charmap.ISO8859_1.NewDecoder()

	var nodes []model.Node
	var skipped int

	for reader.Next() {
		row, shape := reader.Shape()

		pos, ok := shapeAnchor(shape)
		if !ok {
			skipped++
			continue
		}

		// Carry every non-empty attribute into metadata.
		attrs := make(map[string]string, len(fields))
		for i, name := range fieldNames {
			raw := strings.TrimSpace(strings.TrimRight(reader.Attribute(i), "\x00"))
			if raw == "" {
				continue
			}
			if decoded, decErr := latin1.String(raw); decErr == nil {
				raw = decoded
			}
			attrs[name] = raw
		}

		uid := fmt.Sprintf("%s-%04d", opts.UIDPrefix, row)
		if opts.UIDField != "" {
			if idx, ok := fieldIdx[strings.ToLower(opts.UIDField)]; ok {
				if v := attrs[fieldNames[idx]]; v != "" {
					uid = v
				}
			}
		}

		n := model.Node{
			UID:      uid,
			Kind:     opts.Kind,
			Status:   opts.Status,
			Position: pos,
		}
		if len(attrs) > 0 {
			meta, marshalErr := json.Marshal(attrs)
			if marshalErr != nil {
				return nil, eris.Wrapf(marshalErr, "inventory: encode attributes for %s", uid)
			}
			n.Metadata = meta
		}

		if err := n.Validate(); err != nil {
			return nil, eris.Wrapf(err, "inventory: shapefile record %d", row)
		}
		nodes = append(nodes, n)
	}

	if skipped > 0 {
		zap.L().Debug("inventory: skipped shapefile records",
			zap.String("path", shpPath),
			zap.Int("skipped", skipped),
		)
	}

	return nodes, nil
}

// shapeAnchor resolves a shapefile geometry to a site position. Points map
// directly; a PointZ elevation is kept when positive (0 is the usual
// no-data marker). Polygons anchor at the center of their bounds.
func shapeAnchor(shape shp.Shape) (model.Position, bool) {
	switch s := shape.(type) {
	case *shp.Point:
		return model.Position{Latitude: s.Y, Longitude: s.X}, true

	case *shp.PointM:
		return model.Position{Latitude: s.Y, Longitude: s.X}, true

	case *shp.PointZ:
		pos := model.Position{Latitude: s.Y, Longitude: s.X}
		if s.Z > 0 {
			alt := s.Z
			pos.AltitudeMeters = &alt
		}
		return pos, true

	case *shp.Polygon:
		return polygonAnchor(s)

	default:
		return model.Position{}, false
	}
}

// polygonAnchor converts a shapefile polygon ring by ring and returns the
// center of the assembled geometry's bounds.
func polygonAnchor(p *shp.Polygon) (model.Position, bool) {
	if p == nil || p.NumParts == 0 || len(p.Points) == 0 {
		return model.Position{}, false
	}

	poly := geom.NewPolygon(geom.XY)

	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		var end int32
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		} else {
			end = int32(len(p.Points))
		}

		flat := make([]float64, 0, (end-start)*2)
		for j := start; j < end; j++ {
			flat = append(flat, p.Points[j].X, p.Points[j].Y)
		}

		ring := geom.NewLinearRingFlat(geom.XY, flat)
		if err := poly.Push(ring); err != nil {
			zap.L().Debug("inventory: skipping malformed polygon ring", zap.Int32("part", i), zap.Error(err))
			continue
		}
	}

	if poly.NumLinearRings() == 0 {
		return model.Position{}, false
	}

	b := poly.Bounds()
	return model.Position{
		Latitude:  (b.Min(1) + b.Max(1)) / 2,
		Longitude: (b.Min(0) + b.Max(0)) / 2,
	}, true
}
