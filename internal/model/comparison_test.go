package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComparisonRowIndexes(t *testing.T) {
	row := ComparisonRow{
		CoverageType: CoverageProperty,
		Items: []*CoverageItem{
			{CoverageType: CoverageProperty},
			nil,
			{CoverageType: CoverageProperty},
			nil,
		},
	}

	assert.Equal(t, []int{0, 2}, row.PresentIndexes())
	assert.Equal(t, []int{1, 3}, row.AbsentIndexes())
}

func TestConflictKindOrder(t *testing.T) {
	assert.Less(t, ConflictLimitMismatch.OrderIndex(), ConflictDeductibleMismatch.OrderIndex())
	assert.Less(t, ConflictDeductibleMismatch.OrderIndex(), ConflictBasisMismatch.OrderIndex())
	assert.Less(t, ConflictBasisMismatch.OrderIndex(), ConflictExclusionDivergence.OrderIndex())
}

func TestCarrierFallback(t *testing.T) {
	name := "Hartford"
	assert.Equal(t, "Hartford", (&QuoteExtraction{CarrierName: &name}).Carrier())
	assert.Equal(t, "Unknown Carrier", (&QuoteExtraction{}).Carrier())
}
