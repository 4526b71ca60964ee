package export

import (
	"io"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/samruben96/documine-sub012/internal/model"
)

// WriteXLSX writes the comparison as a workbook with Comparison, Gaps,
// Conflicts, and Summary sheets.
func (e *Exporter) WriteXLSX(w io.Writer, result *model.ComparisonResult, docNames []string) error {
	f := xlsx.NewFile()

	sheets := []struct {
		name string
		rows [][]string
	}{
		{"Comparison", e.matrixRows(result, docNames)},
		{"Gaps", gapRows(result, docNames)},
		{"Conflicts", conflictRows(result)},
		{"Summary", summaryRows(result)},
	}

	for _, s := range sheets {
		sheet, err := f.AddSheet(s.name)
		if err != nil {
			return eris.Wrapf(err, "xlsx: add sheet %s", s.name)
		}
		for _, row := range s.rows {
			r := sheet.AddRow()
			for _, val := range row {
				r.AddCell().SetString(val)
			}
		}
	}

	return eris.Wrap(f.Write(w), "xlsx: write workbook")
}
