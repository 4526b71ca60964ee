package model

// Severity ranks how much a finding should worry the reviewer.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// ConflictKind identifies which coverage term diverged.
type ConflictKind string

const (
	ConflictLimitMismatch       ConflictKind = "limit-mismatch"
	ConflictDeductibleMismatch  ConflictKind = "deductible-mismatch"
	ConflictBasisMismatch       ConflictKind = "basis-mismatch"
	ConflictExclusionDivergence ConflictKind = "exclusion-divergence"
)

// conflictKindOrder fixes the emission order of conflicts within one row.
var conflictKindOrder = map[ConflictKind]int{
	ConflictLimitMismatch:       0,
	ConflictDeductibleMismatch:  1,
	ConflictBasisMismatch:       2,
	ConflictExclusionDivergence: 3,
}

// OrderIndex returns the conflict kind's position in the fixed emission order.
func (k ConflictKind) OrderIndex() int {
	return conflictKindOrder[k]
}

// ComparisonRow aligns one coverage type across all compared documents.
// Items is indexed by document position; a nil entry means the document has
// no coverage of this type. Derived, never persisted on its own.
type ComparisonRow struct {
	CoverageType CoverageType    `json:"coverage_type" yaml:"coverage_type"`
	Items        []*CoverageItem `json:"items" yaml:"items"`
}

// PresentIndexes returns the document indexes that carry this coverage, ascending.
func (r *ComparisonRow) PresentIndexes() []int {
	var idx []int
	for i, item := range r.Items {
		if item != nil {
			idx = append(idx, i)
		}
	}
	return idx
}

// AbsentIndexes returns the document indexes missing this coverage, ascending.
func (r *ComparisonRow) AbsentIndexes() []int {
	var idx []int
	for i, item := range r.Items {
		if item == nil {
			idx = append(idx, i)
		}
	}
	return idx
}

// GapWarning flags a coverage type present in at least one document but
// absent from at least one other.
type GapWarning struct {
	CoverageType     CoverageType `json:"coverage_type" yaml:"coverage_type"`
	Field            string       `json:"field" yaml:"field"`
	Severity         Severity     `json:"severity" yaml:"severity"`
	DocumentsMissing []int        `json:"documents_missing" yaml:"documents_missing"`
}

// ConflictWarning flags materially divergent terms for a coverage type
// present in two or more documents.
type ConflictWarning struct {
	CoverageType CoverageType `json:"coverage_type" yaml:"coverage_type"`
	Field        string       `json:"field" yaml:"field"`
	ConflictType ConflictKind `json:"conflict_type" yaml:"conflict_type"`
	Description  string       `json:"description" yaml:"description"`
	Severity     Severity     `json:"severity" yaml:"severity"`
}

// RiskLevel buckets an aggregate risk score.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// ComparisonResult is the engine's sole output: one fresh, immutable value
// per comparison request.
type ComparisonResult struct {
	Rows      []ComparisonRow   `json:"rows" yaml:"rows"`
	Gaps      []GapWarning      `json:"gaps" yaml:"gaps"`
	Conflicts []ConflictWarning `json:"conflicts" yaml:"conflicts"`
	RiskScore int               `json:"risk_score" yaml:"risk_score"`
	RiskLevel RiskLevel         `json:"risk_level" yaml:"risk_level"`
}
