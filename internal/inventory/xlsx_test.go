package inventory

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/aerolane/airmesh/internal/model"
)

func TestExportXLSX_SheetShape(t *testing.T) {
	t.Parallel()

	alt := 30.0
	weight := 980.5
	nodes := []model.Node{
		{
			UID: "sfo-hub", Kind: model.KindVertiport, Status: model.StatusActive,
			Position: model.Position{Latitude: 37.777843, Longitude: -122.468207, AltitudeMeters: &alt},
			Metadata: []byte(`{"owner":"pa"}`),
		},
		testNode("oak-pad", 37.778339, -122.460395),
	}
	edges := []model.Edge{
		{Source: "sfo-hub", Target: "oak-pad", Weight: &weight, Window: testWindow(t)},
		{Source: "oak-pad", Target: "sfo-hub"},
	}

	path := filepath.Join(t.TempDir(), "network.xlsx")
	require.NoError(t, ExportXLSX(path, nodes, edges))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 2)
	assert.Equal(t, "Nodes", f.Sheets[0].Name)
	assert.Equal(t, "Edges", f.Sheets[1].Name)

	nodeSheet := f.Sheets[0]
	require.Len(t, nodeSheet.Rows, 3) // header + 2 nodes
	header := nodeSheet.Rows[0]
	assert.Equal(t, "uid", header.Cells[0].String())
	assert.Equal(t, "metadata", header.Cells[6].String())

	first := nodeSheet.Rows[1]
	assert.Equal(t, "sfo-hub", first.Cells[0].String())
	assert.Equal(t, "vertiport", first.Cells[1].String())
	lat, err := first.Cells[3].Float()
	require.NoError(t, err)
	assert.InDelta(t, 37.777843, lat, 1e-6)
	altCell, err := first.Cells[5].Float()
	require.NoError(t, err)
	assert.InDelta(t, 30.0, altCell, 1e-6)

	second := nodeSheet.Rows[2]
	assert.Equal(t, "oak-pad", second.Cells[0].String())
	assert.Equal(t, "", second.Cells[5].String()) // no altitude

	edgeSheet := f.Sheets[1]
	require.Len(t, edgeSheet.Rows, 3) // header + 2 edges
	withWindow := edgeSheet.Rows[1]
	assert.Equal(t, "sfo-hub", withWindow.Cells[0].String())
	w, err := withWindow.Cells[2].Float()
	require.NoError(t, err)
	assert.InDelta(t, 980.5, w, 1e-6)
	assert.Equal(t, "FREQ=DAILY;BYHOUR=9;BYMINUTE=0;BYSECOND=0", withWindow.Cells[3].String())
	assert.Equal(t, "America/New_York", withWindow.Cells[4].String())
	assert.Equal(t, (2 * time.Hour).String(), withWindow.Cells[7].String())

	derived := edgeSheet.Rows[2]
	assert.Equal(t, "", derived.Cells[2].String()) // derived weight
	assert.Equal(t, "", derived.Cells[3].String()) // no window
}

func TestExportXLSX_EmptyNetwork(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "empty.xlsx")
	require.NoError(t, ExportXLSX(path, nil, nil))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 2)
	assert.Len(t, f.Sheets[0].Rows, 1) // header only
	assert.Len(t, f.Sheets[1].Rows, 1)
}
