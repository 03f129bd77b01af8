package netgen

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aerolane/airmesh/internal/geodesy"
	"github.com/aerolane/airmesh/internal/model"
)

var sanFrancisco = model.Position{Latitude: 37.7749, Longitude: -122.4194}

func TestSites_StayWithinRadius(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(1, 2))
	const radius = 25_000.0

	nodes, err := Sites(rng, sanFrancisco, radius, 200)
	require.NoError(t, err)
	require.Len(t, nodes, 200)

	for _, n := range nodes {
		d := geodesy.Distance(sanFrancisco, n.Position)
		assert.LessOrEqual(t, d, radius+1.0, "site %s is %vm out", n.UID, d)
		assert.NoError(t, n.Validate())
	}
}

func TestSites_UniqueUIDsAndKnownKinds(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(3, 4))
	nodes, err := Sites(rng, sanFrancisco, 10_000, 50)
	require.NoError(t, err)

	seen := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		assert.False(t, seen[n.UID], "duplicate uid %s", n.UID)
		seen[n.UID] = true

		assert.True(t, n.Kind.Valid(), "kind %q", n.Kind)
		assert.Equal(t, model.StatusActive, n.Status)
		assert.NotEmpty(t, n.Metadata)
	}
}

func TestSites_DeterministicPositionsForSeed(t *testing.T) {
	t.Parallel()

	first, err := Sites(rand.New(rand.NewPCG(7, 7)), sanFrancisco, 5_000, 20)
	require.NoError(t, err)
	second, err := Sites(rand.New(rand.NewPCG(7, 7)), sanFrancisco, 5_000, 20)
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		// UIDs are random per run; the geometry and kinds are seed-driven.
		assert.Equal(t, first[i].Position, second[i].Position)
		assert.Equal(t, first[i].Kind, second[i].Kind)
	}
}

func TestSites_Invalid(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(9, 9))

	_, err := Sites(rng, model.Position{Latitude: 91}, 1_000, 5)
	assert.ErrorIs(t, err, model.ErrInvalidPosition)

	_, err = Sites(rng, sanFrancisco, 0, 5)
	assert.ErrorContains(t, err, "must be positive")

	_, err = Sites(rng, sanFrancisco, -100, 5)
	assert.ErrorContains(t, err, "must be positive")

	nodes, err := Sites(rng, sanFrancisco, 1_000, 0)
	assert.NoError(t, err)
	assert.Empty(t, nodes)
}

func TestConnectWithin_RangeBound(t *testing.T) {
	t.Parallel()

	nodes := []model.Node{
		{UID: "a", Kind: model.KindVertiport, Status: model.StatusActive, Position: model.Position{Latitude: 37.7790, Longitude: -122.4194}},
		{UID: "b", Kind: model.KindVertipad, Status: model.StatusActive, Position: model.Position{Latitude: 37.7850, Longitude: -122.4194}},
		{UID: "far", Kind: model.KindVertipad, Status: model.StatusActive, Position: model.Position{Latitude: 40.7128, Longitude: -74.0060}},
	}

	edges := ConnectWithin(nodes, 1_000)
	require.Len(t, edges, 2)

	ids := []string{edges[0].ID().String(), edges[1].ID().String()}
	assert.ElementsMatch(t, []string{"a->b", "b->a"}, ids)

	for _, e := range edges {
		assert.Nil(t, e.Weight, "generated edges keep derived weights")
		assert.NotEqual(t, e.Source, e.Target)
	}
}

func TestConnectWithin_NoNodes(t *testing.T) {
	t.Parallel()

	assert.Empty(t, ConnectWithin(nil, 1_000))
	assert.Empty(t, ConnectWithin([]model.Node{{UID: "only"}}, 1_000))
}

func TestGenerate_WiresSitesAndEdges(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(11, 12))
	nodes, edges, err := Generate(rng, sanFrancisco, Options{
		Sites:          30,
		RadiusMeters:   10_000,
		MaxRangeMeters: 75_000,
	})
	require.NoError(t, err)
	require.Len(t, nodes, 30)

	// Every site sits within 10km of the origin, so a 75km range connects
	// all ordered pairs.
	assert.Len(t, edges, 30*29)

	byUID := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		byUID[n.UID] = true
	}
	for _, e := range edges {
		assert.True(t, byUID[e.Source], "edge source %s unknown", e.Source)
		assert.True(t, byUID[e.Target], "edge target %s unknown", e.Target)
	}
}

func TestGenerate_InvalidRange(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(13, 14))
	_, _, err := Generate(rng, sanFrancisco, Options{Sites: 5, RadiusMeters: 1_000})
	assert.ErrorContains(t, err, "aircraft range")
}
