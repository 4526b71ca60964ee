package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samruben96/documine-sub012/internal/model"
)

func rowFor(ct model.CoverageType, presence ...bool) model.ComparisonRow {
	row := model.ComparisonRow{
		CoverageType: ct,
		Items:        make([]*model.CoverageItem, len(presence)),
	}
	for i, present := range presence {
		if present {
			row.Items[i] = &model.CoverageItem{CoverageType: ct}
		}
	}
	return row
}

func TestDetectGaps(t *testing.T) {
	tests := []struct {
		name        string
		row         model.ComparisonRow
		wantMissing []int
		wantSev     model.Severity
	}{
		{
			"core coverage missing from one",
			rowFor(model.CoverageGeneralLiability, true, true, false),
			[]int{2}, model.SeverityHigh,
		},
		{
			"recommended coverage missing from two",
			rowFor(model.CoverageUmbrella, true, false, false),
			[]int{1, 2}, model.SeverityMedium,
		},
		{
			"optional coverage missing",
			rowFor(model.CoverageInlandMarine, false, true),
			[]int{0}, model.SeverityLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gaps := detectGaps([]model.ComparisonRow{tt.row})
			require.Len(t, gaps, 1)
			gap := gaps[0]
			assert.Equal(t, tt.row.CoverageType, gap.CoverageType)
			assert.Equal(t, tt.row.CoverageType.Label(), gap.Field)
			assert.Equal(t, tt.wantMissing, gap.DocumentsMissing)
			assert.Equal(t, tt.wantSev, gap.Severity)
		})
	}
}

func TestDetectGapsNoneWhenPresentEverywhere(t *testing.T) {
	gaps := detectGaps([]model.ComparisonRow{
		rowFor(model.CoverageProperty, true, true, true),
	})
	assert.Empty(t, gaps)
}

func TestGapSeverityTiers(t *testing.T) {
	assert.Equal(t, model.SeverityHigh, gapSeverity(model.CoverageAutoLiability))
	assert.Equal(t, model.SeverityMedium, gapSeverity(model.CoverageCyber))
	assert.Equal(t, model.SeverityLow, gapSeverity(model.CoverageCrime))
	assert.Equal(t, model.SeverityLow, gapSeverity(model.CoverageOther))
}
