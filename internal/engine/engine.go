// Package engine implements the multi-quote comparison core: it aligns
// coverage terms across 2-4 extracted quotes, detects coverage gaps and
// conflicting terms, classifies finding severity, and rolls everything into
// an aggregate risk score. The engine is a pure, deterministic, synchronous
// function of its inputs: no I/O, no shared state, identical input yields
// byte-identical output.
package engine

import (
	"github.com/rotisserie/eris"

	"github.com/samruben96/documine-sub012/internal/model"
)

// Config tunes the conflict-detection thresholds. The defaults are the
// normative values; they are configurable because the exact constants come
// from observed product behavior rather than written domain rules.
type Config struct {
	// Tolerance is the relative delta (fraction of the larger value) below
	// which two amounts are considered equal. Strictly-greater differences
	// conflict.
	Tolerance float64 `yaml:"tolerance" mapstructure:"tolerance"`
	// HighDelta and MediumDelta are the inclusive lower bounds of the high
	// and medium severity bands for numeric mismatches.
	HighDelta   float64 `yaml:"high_delta" mapstructure:"high_delta"`
	MediumDelta float64 `yaml:"medium_delta" mapstructure:"medium_delta"`
}

// DefaultConfig returns the normative thresholds: 10% equality tolerance,
// severity bands at 20% and 50%.
func DefaultConfig() Config {
	return Config{
		Tolerance:   0.10,
		HighDelta:   0.50,
		MediumDelta: 0.20,
	}
}

// FromConfig converts configured threshold values to a Config, falling back
// to the normative defaults for unset values.
func FromConfig(tolerance, highDelta, mediumDelta float64) Config {
	cfg := DefaultConfig()
	if tolerance > 0 {
		cfg.Tolerance = tolerance
	}
	if highDelta > 0 {
		cfg.HighDelta = highDelta
	}
	if mediumDelta > 0 {
		cfg.MediumDelta = mediumDelta
	}
	return cfg
}

// Compare runs the full analysis over validated extractions. Fewer than two
// documents is the degenerate case and yields an empty result, not an error.
func Compare(docs []model.QuoteExtraction, cfg Config) *model.ComparisonResult {
	result := &model.ComparisonResult{
		Rows:      []model.ComparisonRow{},
		Gaps:      []model.GapWarning{},
		Conflicts: []model.ConflictWarning{},
		RiskLevel: model.RiskLow,
	}
	if len(docs) < 2 {
		return result
	}

	normalized := make([]map[model.CoverageType]*model.CoverageItem, len(docs))
	for i := range docs {
		normalized[i] = normalizeDocument(&docs[i])
	}

	result.Rows = buildRows(normalized)
	if gaps := detectGaps(result.Rows); gaps != nil {
		result.Gaps = gaps
	}
	if conflicts := detectConflicts(result.Rows, docs, cfg); conflicts != nil {
		result.Conflicts = conflicts
	}
	result.RiskScore = Score(result.Gaps, result.Conflicts)
	result.RiskLevel = Level(result.RiskScore)

	return result
}

// CompareRaw validates each raw record and runs Compare. The first
// structurally invalid record aborts the comparison with a single typed
// error naming the offending document.
func CompareRaw(raws []any, cfg Config) (*model.ComparisonResult, error) {
	docs := make([]model.QuoteExtraction, 0, len(raws))
	for i, raw := range raws {
		doc, err := ValidateRecord(raw)
		if err != nil {
			return nil, eris.Wrapf(err, "engine: document %d", i+1)
		}
		docs = append(docs, *doc)
	}
	return Compare(docs, cfg), nil
}
