package engine

import (
	"github.com/samruben96/documine-sub012/internal/model"
)

// normalizeDocument canonicalizes one validated extraction so it contributes
// at most one CoverageItem per canonical type to the matcher. Duplicate
// entries for a type (double extraction, alias names) collapse to the most
// complete one; entries from the standalone deductible schedule fill in a
// missing deductible on the surviving item. The input is not modified.
func normalizeDocument(doc *model.QuoteExtraction) map[model.CoverageType]*model.CoverageItem {
	byType := make(map[model.CoverageType]*model.CoverageItem)

	for i := range doc.Coverages {
		item := doc.Coverages[i]
		current, exists := byType[item.CoverageType]
		if !exists {
			copied := item
			byType[item.CoverageType] = &copied
			continue
		}
		// Keep the more complete entry. Insertion order wins ties, so the
		// incumbent stays unless the challenger is strictly better.
		if moreComplete(&item, current) {
			copied := item
			byType[item.CoverageType] = &copied
		}
	}

	for i := range doc.Deductibles {
		ded := doc.Deductibles[i]
		if ded.Amount == nil {
			continue
		}
		item, exists := byType[ded.CoverageType]
		if exists && item.Deductible == nil {
			amount := *ded.Amount
			item.Deductible = &amount
			if len(item.SourcePages) == 0 && len(ded.SourcePages) > 0 {
				item.SourcePages = append([]int(nil), ded.SourcePages...)
			}
		}
	}

	return byType
}

// moreComplete reports whether a should replace b: strictly more populated
// fields, or equal fields but strictly more source-page citations.
func moreComplete(a, b *model.CoverageItem) bool {
	ac, bc := completeness(a), completeness(b)
	if ac != bc {
		return ac > bc
	}
	return len(a.SourcePages) > len(b.SourcePages)
}

// completeness counts the populated fields of a coverage item.
func completeness(item *model.CoverageItem) int {
	n := 0
	if item.Name != "" {
		n++
	}
	if item.Description != "" {
		n++
	}
	if item.Limit != nil {
		n++
	}
	if item.Sublimit != nil {
		n++
	}
	if item.LimitBasis != nil {
		n++
	}
	if item.Deductible != nil {
		n++
	}
	return n
}
