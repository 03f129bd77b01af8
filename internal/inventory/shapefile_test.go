package inventory

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aerolane/airmesh/internal/model"
)

// writePointFixture builds a two-point shapefile with NAME and CODE
// attributes.
func writePointFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sites.shp")

	w, err := shp.Create(path, shp.POINT)
	require.NoError(t, err)

	require.NoError(t, w.SetFields([]shp.Field{
		shp.StringField("NAME", 32),
		shp.StringField("CODE", 8),
	}))

	w.Write(&shp.Point{X: -122.468207, Y: 37.777843})
	require.NoError(t, w.WriteAttribute(0, 0, "Downtown Helipad"))
	require.NoError(t, w.WriteAttribute(0, 1, "DTH"))

	w.Write(&shp.Point{X: -122.460395, Y: 37.778339})
	require.NoError(t, w.WriteAttribute(1, 0, "Midtown Pad"))
	require.NoError(t, w.WriteAttribute(1, 1, "MTP"))

	w.Close()

	// go-shp v0.1.1's Writer names the attribute file "<base>dbf" (missing
	// the dot), which its Reader never finds; move it to the standard
	// sidecar name.
	base := path[:len(path)-len(".shp")]
	require.NoError(t, os.Rename(base+"dbf", base+".dbf"))
	return path
}

func TestImportShapefile_Points(t *testing.T) {
	path := writePointFixture(t)

	nodes, err := ImportShapefile(path, ImportOptions{
		Kind:      model.KindVertipad,
		UIDPrefix: "pad",
	})
	require.NoError(t, err)
	require.Len(t, nodes, 2)

	first := nodes[0]
	assert.Equal(t, "pad-0000", first.UID)
	assert.Equal(t, model.KindVertipad, first.Kind)
	assert.Equal(t, model.StatusActive, first.Status)
	assert.InDelta(t, 37.777843, first.Position.Latitude, 1e-6)
	assert.InDelta(t, -122.468207, first.Position.Longitude, 1e-6)

	var attrs map[string]string
	require.NoError(t, json.Unmarshal(first.Metadata, &attrs))
	assert.Equal(t, "Downtown Helipad", attrs["NAME"])
	assert.Equal(t, "DTH", attrs["CODE"])

	assert.Equal(t, "pad-0001", nodes[1].UID)
}

func TestImportShapefile_UIDFromAttribute(t *testing.T) {
	path := writePointFixture(t)

	nodes, err := ImportShapefile(path, ImportOptions{UIDField: "code"})
	require.NoError(t, err)
	require.Len(t, nodes, 2)

	assert.Equal(t, "DTH", nodes[0].UID)
	assert.Equal(t, "MTP", nodes[1].UID)
	assert.Equal(t, model.KindOther, nodes[0].Kind)
}

func TestImportShapefile_PolygonAnchorsAtBoundsCenter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roofs.shp")

	w, err := shp.Create(path, shp.POLYGON)
	require.NoError(t, err)
	require.NoError(t, w.SetFields([]shp.Field{shp.StringField("NAME", 32)}))

	poly := &shp.Polygon{
		Box:       shp.Box{MinX: -122.44, MinY: 37.78, MaxX: -122.43, MaxY: 37.79},
		NumParts:  1,
		NumPoints: 5,
		Parts:     []int32{0},
		Points: []shp.Point{
			{X: -122.44, Y: 37.78},
			{X: -122.43, Y: 37.78},
			{X: -122.43, Y: 37.79},
			{X: -122.44, Y: 37.79},
			{X: -122.44, Y: 37.78}, // closed ring
		},
	}
	w.Write(poly)
	require.NoError(t, w.WriteAttribute(0, 0, "Tower Roof"))
	w.Close()

	nodes, err := ImportShapefile(path, ImportOptions{Kind: model.KindRooftop})
	require.NoError(t, err)
	require.Len(t, nodes, 1)

	assert.Equal(t, model.KindRooftop, nodes[0].Kind)
	assert.InDelta(t, 37.785, nodes[0].Position.Latitude, 1e-9)
	assert.InDelta(t, -122.435, nodes[0].Position.Longitude, 1e-9)
}

func TestImportShapefile_PointZKeepsElevation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "elevated.shp")

	w, err := shp.Create(path, shp.POINTZ)
	require.NoError(t, err)
	require.NoError(t, w.SetFields([]shp.Field{shp.StringField("NAME", 16)}))

	w.Write(&shp.PointZ{X: -122.45, Y: 37.77, Z: 85.0})
	require.NoError(t, w.WriteAttribute(0, 0, "High Pad"))
	w.Close()

	nodes, err := ImportShapefile(path, ImportOptions{})
	require.NoError(t, err)
	require.Len(t, nodes, 1)

	require.NotNil(t, nodes[0].Position.AltitudeMeters)
	assert.InDelta(t, 85.0, *nodes[0].Position.AltitudeMeters, 1e-9)
}

func TestImportShapefile_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := ImportShapefile(filepath.Join(t.TempDir(), "absent.shp"), ImportOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open shapefile")
}
