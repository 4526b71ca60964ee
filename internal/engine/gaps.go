package engine

import (
	"github.com/samruben96/documine-sub012/internal/model"
)

// detectGaps flags every coverage type that is present in at least one
// document but absent from at least one other. Absence from every document
// never produces a gap: there is nothing to be missing relative to (the
// matcher already drops such rows). One warning per row, missing indexes
// ascending.
func detectGaps(rows []model.ComparisonRow) []model.GapWarning {
	var gaps []model.GapWarning
	for i := range rows {
		row := &rows[i]
		missing := row.AbsentIndexes()
		if len(missing) == 0 || len(missing) == len(row.Items) {
			continue
		}
		gaps = append(gaps, model.GapWarning{
			CoverageType:     row.CoverageType,
			Field:            row.CoverageType.Label(),
			Severity:         gapSeverity(row.CoverageType),
			DocumentsMissing: missing,
		})
	}
	return gaps
}

// gapSeverity applies the fixed tier table: core coverage missing anywhere
// is high, recommended medium, everything else low.
func gapSeverity(ct model.CoverageType) model.Severity {
	switch ct.Tier() {
	case model.TierCore:
		return model.SeverityHigh
	case model.TierRecommended:
		return model.SeverityMedium
	default:
		return model.SeverityLow
	}
}
