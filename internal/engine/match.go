package engine

import (
	"github.com/samruben96/documine-sub012/internal/model"
)

// buildRows aligns normalized documents into comparison rows: one row per
// canonical coverage type seen in at least one document, in the
// enumeration's declared order. A type absent from every document gets no
// row, so the result stays stable and render-ready.
func buildRows(docs []map[model.CoverageType]*model.CoverageItem) []model.ComparisonRow {
	seen := make(map[model.CoverageType]bool)
	for _, doc := range docs {
		for ct := range doc {
			seen[ct] = true
		}
	}

	var rows []model.ComparisonRow
	for _, ct := range model.AllCoverageTypes() {
		if !seen[ct] {
			continue
		}
		row := model.ComparisonRow{
			CoverageType: ct,
			Items:        make([]*model.CoverageItem, len(docs)),
		}
		for i, doc := range docs {
			row.Items[i] = doc[ct]
		}
		rows = append(rows, row)
	}
	return rows
}
