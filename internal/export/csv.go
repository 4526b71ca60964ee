package export

import (
	"encoding/csv"
	"io"

	"github.com/rotisserie/eris"

	"github.com/samruben96/documine-sub012/internal/model"
)

// WriteCSV writes the comparison as one CSV document: the coverage matrix,
// then gap, conflict, and summary sections separated by blank rows.
func (e *Exporter) WriteCSV(w io.Writer, result *model.ComparisonResult, docNames []string) error {
	cw := csv.NewWriter(w)

	sections := [][][]string{
		e.matrixRows(result, docNames),
		{{"Gaps"}},
		gapRows(result, docNames),
		{{"Conflicts"}},
		conflictRows(result),
		{{"Summary"}},
		summaryRows(result),
	}

	for i, section := range sections {
		if i > 0 && len(section) == 1 && len(section[0]) == 1 {
			// Section title: precede with a blank row.
			if err := cw.Write([]string{}); err != nil {
				return eris.Wrap(err, "csv: write separator")
			}
		}
		for _, row := range section {
			if err := cw.Write(row); err != nil {
				return eris.Wrap(err, "csv: write row")
			}
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "csv: flush")
}
