package inventory

import (
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/aerolane/airmesh/internal/model"
)

var (
	xlsxNodeHeader = []string{"uid", "kind", "status", "latitude", "longitude", "altitude_m", "metadata"}
	xlsxEdgeHeader = []string{"source", "target", "weight", "rule", "zone", "valid_from", "valid_until", "span"}
)

// ExportXLSX writes the network as a two-sheet workbook: Nodes and Edges.
// Derived-weight edges leave the weight cell empty; windows render their
// compiled fields.
func ExportXLSX(path string, nodes []model.Node, edges []model.Edge) error {
	f := xlsx.NewFile()

	nodeSheet, err := f.AddSheet("Nodes")
	if err != nil {
		return eris.Wrap(err, "inventory: add nodes sheet")
	}
	addHeaderRow(nodeSheet, xlsxNodeHeader)

	for _, n := range nodes {
		row := nodeSheet.AddRow()
		row.AddCell().SetString(n.UID)
		row.AddCell().SetString(string(n.Kind))
		row.AddCell().SetString(string(n.Status))
		row.AddCell().SetFloat(n.Position.Latitude)
		row.AddCell().SetFloat(n.Position.Longitude)
		if n.Position.AltitudeMeters != nil {
			row.AddCell().SetFloat(*n.Position.AltitudeMeters)
		} else {
			row.AddCell().SetString("")
		}
		row.AddCell().SetString(string(n.Metadata))
	}

	edgeSheet, err := f.AddSheet("Edges")
	if err != nil {
		return eris.Wrap(err, "inventory: add edges sheet")
	}
	addHeaderRow(edgeSheet, xlsxEdgeHeader)

	for _, e := range edges {
		row := edgeSheet.AddRow()
		row.AddCell().SetString(e.Source)
		row.AddCell().SetString(e.Target)
		if e.Weight != nil {
			row.AddCell().SetFloat(*e.Weight)
		} else {
			row.AddCell().SetString("")
		}
		if w := e.Window; w != nil {
			row.AddCell().SetString(w.Rule())
			row.AddCell().SetString(w.Zone())
			row.AddCell().SetString(w.ValidFrom().UTC().Format(time.RFC3339))
			if w.ValidUntil().IsZero() {
				row.AddCell().SetString("")
			} else {
				row.AddCell().SetString(w.ValidUntil().UTC().Format(time.RFC3339))
			}
			row.AddCell().SetString(w.Span().String())
		} else {
			for range 5 {
				row.AddCell().SetString("")
			}
		}
	}

	return eris.Wrapf(f.Save(path), "inventory: save workbook %s", path)
}

func addHeaderRow(sheet *xlsx.Sheet, header []string) {
	row := sheet.AddRow()
	for _, h := range header {
		row.AddCell().SetString(h)
	}
}
