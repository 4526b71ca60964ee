package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samruben96/documine-sub012/internal/model"
)

func glItem(name string, limit *float64, pages ...int) model.CoverageItem {
	return model.CoverageItem{
		CoverageType: model.CoverageGeneralLiability,
		Name:         name,
		Limit:        limit,
		SourcePages:  pages,
	}
}

func TestNormalizeDocumentKeepsMostComplete(t *testing.T) {
	basis := model.BasisPerOccurrence
	doc := &model.QuoteExtraction{
		Coverages: []model.CoverageItem{
			glItem("CGL sparse", nil),
			{
				CoverageType: model.CoverageGeneralLiability,
				Name:         "CGL full",
				Limit:        ptrFloat64(1000000),
				LimitBasis:   &basis,
				Deductible:   ptrFloat64(5000),
			},
		},
	}

	byType := normalizeDocument(doc)
	require.Len(t, byType, 1)
	assert.Equal(t, "CGL full", byType[model.CoverageGeneralLiability].Name)
}

func TestNormalizeDocumentTieBreakBySourcePages(t *testing.T) {
	doc := &model.QuoteExtraction{
		Coverages: []model.CoverageItem{
			glItem("one page", ptrFloat64(1000000), 3),
			glItem("two pages", ptrFloat64(1000000), 3, 4),
		},
	}

	byType := normalizeDocument(doc)
	assert.Equal(t, "two pages", byType[model.CoverageGeneralLiability].Name)
}

func TestNormalizeDocumentTieBreakByInsertionOrder(t *testing.T) {
	doc := &model.QuoteExtraction{
		Coverages: []model.CoverageItem{
			glItem("first", ptrFloat64(1000000), 3),
			glItem("second", ptrFloat64(2000000), 4),
		},
	}

	byType := normalizeDocument(doc)
	assert.Equal(t, "first", byType[model.CoverageGeneralLiability].Name)
}

func TestNormalizeDocumentMergesDeductibleSchedule(t *testing.T) {
	doc := &model.QuoteExtraction{
		Coverages: []model.CoverageItem{
			glItem("CGL", ptrFloat64(1000000)),
		},
		Deductibles: []model.DeductibleItem{
			{CoverageType: model.CoverageGeneralLiability, Amount: ptrFloat64(2500), SourcePages: []int{9}},
			{CoverageType: model.CoverageProperty, Amount: ptrFloat64(10000)},
		},
	}

	byType := normalizeDocument(doc)
	item := byType[model.CoverageGeneralLiability]
	require.NotNil(t, item.Deductible)
	assert.InDelta(t, 2500, *item.Deductible, 0.001)
	assert.Equal(t, []int{9}, item.SourcePages)

	// Schedule entries never create coverage rows on their own.
	_, hasProperty := byType[model.CoverageProperty]
	assert.False(t, hasProperty)
}

func TestNormalizeDocumentScheduleNeverOverridesItemDeductible(t *testing.T) {
	doc := &model.QuoteExtraction{
		Coverages: []model.CoverageItem{
			{CoverageType: model.CoverageGeneralLiability, Deductible: ptrFloat64(5000)},
		},
		Deductibles: []model.DeductibleItem{
			{CoverageType: model.CoverageGeneralLiability, Amount: ptrFloat64(999)},
		},
	}

	byType := normalizeDocument(doc)
	assert.InDelta(t, 5000, *byType[model.CoverageGeneralLiability].Deductible, 0.001)
}

func TestNormalizeDocumentDoesNotMutateInput(t *testing.T) {
	doc := &model.QuoteExtraction{
		Coverages: []model.CoverageItem{
			glItem("CGL", ptrFloat64(1000000)),
		},
		Deductibles: []model.DeductibleItem{
			{CoverageType: model.CoverageGeneralLiability, Amount: ptrFloat64(2500)},
		},
	}

	_ = normalizeDocument(doc)
	assert.Nil(t, doc.Coverages[0].Deductible)
}
