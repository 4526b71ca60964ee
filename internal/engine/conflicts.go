package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samruben96/documine-sub012/internal/model"
)

// detectConflicts flags materially divergent terms on rows carried by two or
// more documents. A nil term on either side of a pair excludes that pair
// from the comparison for that term: not enough information is never
// fabricated into a finding. At most one warning per row and conflict kind,
// emitted in the fixed kind order so results are deterministic.
func detectConflicts(rows []model.ComparisonRow, docs []model.QuoteExtraction, cfg Config) []model.ConflictWarning {
	exclusions := make([]map[model.CoverageType]map[string]bool, len(docs))
	for i := range docs {
		exclusions[i] = exclusionsByType(&docs[i])
	}

	var conflicts []model.ConflictWarning
	for i := range rows {
		row := &rows[i]
		if len(row.PresentIndexes()) < 2 {
			continue
		}
		conflicts = append(conflicts, rowConflicts(row, exclusions, cfg)...)
	}
	return conflicts
}

func rowConflicts(row *model.ComparisonRow, exclusions []map[model.CoverageType]map[string]bool, cfg Config) []model.ConflictWarning {
	var out []model.ConflictWarning

	if w := numericConflict(row, "Limit", model.ConflictLimitMismatch, cfg,
		func(item *model.CoverageItem) *float64 { return item.Limit }); w != nil {
		out = append(out, *w)
	}
	if w := numericConflict(row, "Sublimit", model.ConflictLimitMismatch, cfg,
		func(item *model.CoverageItem) *float64 { return item.Sublimit }); w != nil {
		out = append(out, *w)
	}
	if w := numericConflict(row, "Deductible", model.ConflictDeductibleMismatch, cfg,
		func(item *model.CoverageItem) *float64 { return item.Deductible }); w != nil {
		out = append(out, *w)
	}
	if w := basisConflict(row); w != nil {
		out = append(out, *w)
	}
	if w := exclusionConflict(row, exclusions); w != nil {
		out = append(out, *w)
	}
	return out
}

// numericConflict compares one numeric term pairwise across the row's
// present items. The warning carries the widest observed divergence;
// severity follows the relative-delta bands.
func numericConflict(row *model.ComparisonRow, term string, kind model.ConflictKind, cfg Config, value func(*model.CoverageItem) *float64) *model.ConflictWarning {
	type docValue struct {
		doc int
		val float64
	}
	var values []docValue
	for i, item := range row.Items {
		if item == nil {
			continue
		}
		if v := value(item); v != nil {
			values = append(values, docValue{doc: i, val: *v})
		}
	}
	if len(values) < 2 {
		return nil
	}

	var maxDelta float64
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v.val < lo.val {
			lo = v
		}
		if v.val > hi.val {
			hi = v
		}
	}
	for i := 0; i < len(values); i++ {
		for j := i + 1; j < len(values); j++ {
			if d := relativeDelta(values[i].val, values[j].val); d > maxDelta {
				maxDelta = d
			}
		}
	}
	if maxDelta <= cfg.Tolerance {
		return nil
	}

	return &model.ConflictWarning{
		CoverageType: row.CoverageType,
		Field:        term,
		ConflictType: kind,
		Description: fmt.Sprintf("%s %s ranges from %s (quote %d) to %s (quote %d)",
			row.CoverageType.Label(), strings.ToLower(term),
			formatAmount(lo.val), lo.doc+1, formatAmount(hi.val), hi.doc+1),
		Severity: deltaSeverity(maxDelta, cfg),
	}
}

// basisConflict reports categorically different limit bases. Always high
// severity: per-occurrence versus aggregate changes how protection applies
// regardless of the stated amounts.
func basisConflict(row *model.ComparisonRow) *model.ConflictWarning {
	var distinct []model.LimitBasis
	seen := make(map[model.LimitBasis]bool)
	for _, item := range row.Items {
		if item == nil || item.LimitBasis == nil {
			continue
		}
		if !seen[*item.LimitBasis] {
			seen[*item.LimitBasis] = true
			distinct = append(distinct, *item.LimitBasis)
		}
	}
	if len(distinct) < 2 {
		return nil
	}

	labels := make([]string, len(distinct))
	for i, b := range distinct {
		labels[i] = string(b)
	}
	return &model.ConflictWarning{
		CoverageType: row.CoverageType,
		Field:        "Limit Basis",
		ConflictType: model.ConflictBasisMismatch,
		Description: fmt.Sprintf("%s limit basis differs across quotes: %s",
			row.CoverageType.Label(), strings.Join(labels, " vs ")),
		Severity: model.SeverityHigh,
	}
}

// exclusionConflict reports divergent exclusion terms for the row's coverage
// type between documents that both carry the coverage.
func exclusionConflict(row *model.ComparisonRow, exclusions []map[model.CoverageType]map[string]bool) *model.ConflictWarning {
	present := row.PresentIndexes()
	for a := 0; a < len(present); a++ {
		for b := a + 1; b < len(present); b++ {
			setA := exclusions[present[a]][row.CoverageType]
			setB := exclusions[present[b]][row.CoverageType]
			if exclusionSetsDiffer(setA, setB) {
				return &model.ConflictWarning{
					CoverageType: row.CoverageType,
					Field:        "Exclusions",
					ConflictType: model.ConflictExclusionDivergence,
					Description: fmt.Sprintf("%s exclusion terms differ between quote %d and quote %d",
						row.CoverageType.Label(), present[a]+1, present[b]+1),
					Severity: model.SeverityMedium,
				}
			}
		}
	}
	return nil
}

func exclusionSetsDiffer(a, b map[string]bool) bool {
	if len(a) != len(b) {
		return true
	}
	for k := range a {
		if !b[k] {
			return true
		}
	}
	return false
}

// exclusionsByType indexes a document's exclusions by coverage type with
// normalized descriptions, so wording differences in case and spacing do
// not count as divergence.
func exclusionsByType(doc *model.QuoteExtraction) map[model.CoverageType]map[string]bool {
	byType := make(map[model.CoverageType]map[string]bool)
	for i := range doc.Exclusions {
		exc := &doc.Exclusions[i]
		norm := strings.Join(strings.Fields(strings.ToLower(exc.Description)), " ")
		if norm == "" {
			continue
		}
		if byType[exc.CoverageType] == nil {
			byType[exc.CoverageType] = make(map[string]bool)
		}
		byType[exc.CoverageType][norm] = true
	}
	return byType
}

// deltaSeverity maps a relative divergence to a severity band. A doubled
// limit measures 0.5 of the larger value, so the high band is inclusive.
func deltaSeverity(delta float64, cfg Config) model.Severity {
	switch {
	case delta >= cfg.HighDelta:
		return model.SeverityHigh
	case delta >= cfg.MediumDelta:
		return model.SeverityMedium
	default:
		return model.SeverityLow
	}
}

// formatAmount renders a monetary value without trailing noise.
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
