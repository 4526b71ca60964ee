package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samruben96/documine-sub012/internal/model"
)

func docWith(types ...model.CoverageType) map[model.CoverageType]*model.CoverageItem {
	m := make(map[model.CoverageType]*model.CoverageItem)
	for _, ct := range types {
		m[ct] = &model.CoverageItem{CoverageType: ct}
	}
	return m
}

func TestBuildRowsDeclaredOrder(t *testing.T) {
	// First-seen order is umbrella before GL; rows must follow the
	// enumeration's declared order instead.
	docs := []map[model.CoverageType]*model.CoverageItem{
		docWith(model.CoverageUmbrella),
		docWith(model.CoverageGeneralLiability, model.CoverageCyber),
	}

	rows := buildRows(docs)
	require.Len(t, rows, 3)
	assert.Equal(t, model.CoverageGeneralLiability, rows[0].CoverageType)
	assert.Equal(t, model.CoverageUmbrella, rows[1].CoverageType)
	assert.Equal(t, model.CoverageCyber, rows[2].CoverageType)
}

func TestBuildRowsAbsenceMapping(t *testing.T) {
	docs := []map[model.CoverageType]*model.CoverageItem{
		docWith(model.CoverageGeneralLiability),
		docWith(),
		docWith(model.CoverageGeneralLiability),
	}

	rows := buildRows(docs)
	require.Len(t, rows, 1)
	row := rows[0]
	require.Len(t, row.Items, 3)
	assert.NotNil(t, row.Items[0])
	assert.Nil(t, row.Items[1])
	assert.NotNil(t, row.Items[2])
	assert.Equal(t, []int{0, 2}, row.PresentIndexes())
	assert.Equal(t, []int{1}, row.AbsentIndexes())
}

func TestBuildRowsNoRowForUniversallyAbsentType(t *testing.T) {
	docs := []map[model.CoverageType]*model.CoverageItem{
		docWith(model.CoverageProperty),
		docWith(model.CoverageProperty),
	}

	rows := buildRows(docs)
	require.Len(t, rows, 1)
	assert.Equal(t, model.CoverageProperty, rows[0].CoverageType)
}
