// Package netgen synthesizes demo networks: random sites scattered around
// an origin on the unit sphere, and edges between every pair of sites an
// aircraft could actually fly.
package netgen

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/aerolane/airmesh/internal/geodesy"
	"github.com/aerolane/airmesh/internal/model"
)

// Options bounds a synthesized network.
type Options struct {
	Sites          int     // number of sites to scatter
	RadiusMeters   float64 // scatter radius around the origin
	MaxRangeMeters float64 // aircraft range; farther pairs stay unconnected
}

// siteKinds weights vertipads as the common case.
var siteKinds = []model.NodeKind{
	model.KindVertiport,
	model.KindVertipad,
	model.KindVertipad,
	model.KindRooftop,
}

// Sites scatters n random sites within radiusMeters of origin. Each site is
// the origin's unit vector rotated by a uniform angle in [0, radius/R]
// around a uniform random axis; the angular displacement never exceeds the
// rotation angle, so every site stays inside the radius.
func Sites(rng *rand.Rand, origin model.Position, radiusMeters float64, n int) ([]model.Node, error) {
	if err := origin.Validate(); err != nil {
		return nil, eris.Wrap(err, "netgen: origin")
	}
	if !model.ValidWeight(radiusMeters) || radiusMeters <= 0 {
		return nil, eris.Errorf("netgen: scatter radius %v must be positive", radiusMeters)
	}
	if n <= 0 {
		return nil, nil
	}

	maxAngle := radiusMeters / geodesy.EarthRadiusMeters
	center := geodesy.Vector(origin)

	nodes := make([]model.Node, 0, n)
	for i := 0; i < n; i++ {
		q := geodesy.Rotation(randomAxis(rng), rng.Float64()*maxAngle)
		pos := geodesy.LatLon(q.Rotate(center))

		nodes = append(nodes, model.Node{
			UID:      uuid.NewString(),
			Kind:     siteKinds[rng.IntN(len(siteKinds))],
			Status:   model.StatusActive,
			Position: pos,
			Metadata: json.RawMessage(fmt.Sprintf(`{"name":"Site %d"}`, i+1)),
		})
	}
	return nodes, nil
}

// ConnectWithin emits a directed edge for every ordered pair of sites whose
// great-circle separation is at most maxRangeMeters. Weights stay derived:
// the engine resolves them to geodesic distance at query time.
func ConnectWithin(nodes []model.Node, maxRangeMeters float64) []model.Edge {
	var edges []model.Edge
	for i := range nodes {
		for j := range nodes {
			if i == j {
				continue
			}
			if geodesy.Distance(nodes[i].Position, nodes[j].Position) <= maxRangeMeters {
				edges = append(edges, model.Edge{Source: nodes[i].UID, Target: nodes[j].UID})
			}
		}
	}
	return edges
}

// Generate scatters sites and connects the in-range pairs in one call.
func Generate(rng *rand.Rand, origin model.Position, opts Options) ([]model.Node, []model.Edge, error) {
	if !model.ValidWeight(opts.MaxRangeMeters) || opts.MaxRangeMeters <= 0 {
		return nil, nil, eris.Errorf("netgen: aircraft range %v must be positive", opts.MaxRangeMeters)
	}

	nodes, err := Sites(rng, origin, opts.RadiusMeters, opts.Sites)
	if err != nil {
		return nil, nil, err
	}
	return nodes, ConnectWithin(nodes, opts.MaxRangeMeters), nil
}

// randomAxis draws a unit vector uniformly from the sphere.
func randomAxis(rng *rand.Rand) geodesy.Vec3 {
	z := 2*rng.Float64() - 1
	theta := 2 * math.Pi * rng.Float64()
	r := math.Sqrt(1 - z*z)
	return geodesy.Vec3{X: r * math.Cos(theta), Y: r * math.Sin(theta), Z: z}
}
