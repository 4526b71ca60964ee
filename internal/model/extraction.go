package model

import "time"

// SchemaVersionCurrent is the extraction schema revision this build produces
// and understands natively. Older records are up-converted at validation.
const SchemaVersionCurrent = 3

// LimitBasis describes how a limit applies.
type LimitBasis string

const (
	BasisPerOccurrence LimitBasis = "per_occurrence"
	BasisPerClaim      LimitBasis = "per_claim"
	BasisAggregate     LimitBasis = "aggregate"
)

// CoverageItem is one extracted coverage entry. Every term field is nullable:
// a nil value means the source document did not state it, which downstream
// detectors treat as "not enough information", never as zero.
type CoverageItem struct {
	CoverageType CoverageType `json:"coverage_type" yaml:"coverage_type"`
	Name         string       `json:"name,omitempty" yaml:"name,omitempty"`
	Description  string       `json:"description,omitempty" yaml:"description,omitempty"`
	Limit        *float64     `json:"limit,omitempty" yaml:"limit,omitempty"`
	LimitText    string       `json:"limit_text,omitempty" yaml:"limit_text,omitempty"`
	Sublimit     *float64     `json:"sublimit,omitempty" yaml:"sublimit,omitempty"`
	SublimitText string       `json:"sublimit_text,omitempty" yaml:"sublimit_text,omitempty"`
	LimitBasis   *LimitBasis  `json:"limit_basis,omitempty" yaml:"limit_basis,omitempty"`
	Deductible   *float64     `json:"deductible,omitempty" yaml:"deductible,omitempty"`
	SourcePages  []int        `json:"source_pages,omitempty" yaml:"source_pages,omitempty"`
}

// ExclusionItem is one extracted policy exclusion, keyed to the coverage it
// restricts.
type ExclusionItem struct {
	CoverageType CoverageType `json:"coverage_type" yaml:"coverage_type"`
	Description  string       `json:"description" yaml:"description"`
	SourcePages  []int        `json:"source_pages,omitempty" yaml:"source_pages,omitempty"`
}

// DeductibleItem is one entry from a quote's standalone deductible schedule.
// The normalizer merges these into the coverage item for the same type when
// that item carries no deductible of its own.
type DeductibleItem struct {
	CoverageType CoverageType `json:"coverage_type" yaml:"coverage_type"`
	Amount       *float64     `json:"amount,omitempty" yaml:"amount,omitempty"`
	SourcePages  []int        `json:"source_pages,omitempty" yaml:"source_pages,omitempty"`
}

// QuoteExtraction is the structured representation of one insurance quote
// document. Produced once by the upstream extraction step and treated as
// immutable by the comparison engine.
type QuoteExtraction struct {
	CarrierName    *string          `json:"carrier_name,omitempty" yaml:"carrier_name,omitempty"`
	PolicyNumber   *string          `json:"policy_number,omitempty" yaml:"policy_number,omitempty"`
	NamedInsured   *string          `json:"named_insured,omitempty" yaml:"named_insured,omitempty"`
	EffectiveDate  *string          `json:"effective_date,omitempty" yaml:"effective_date,omitempty"`
	ExpirationDate *string          `json:"expiration_date,omitempty" yaml:"expiration_date,omitempty"`
	AnnualPremium  *float64         `json:"annual_premium,omitempty" yaml:"annual_premium,omitempty"`
	Coverages      []CoverageItem   `json:"coverages" yaml:"coverages"`
	Exclusions     []ExclusionItem  `json:"exclusions" yaml:"exclusions"`
	Deductibles    []DeductibleItem `json:"deductibles" yaml:"deductibles"`
	SchemaVersion  int              `json:"schema_version" yaml:"schema_version"`
}

// Carrier returns the carrier name or a placeholder for display.
func (q *QuoteExtraction) Carrier() string {
	if q.CarrierName != nil && *q.CarrierName != "" {
		return *q.CarrierName
	}
	return "Unknown Carrier"
}

// StoredQuote wraps an extraction persisted by the store.
type StoredQuote struct {
	ID         string          `json:"id" yaml:"id"`
	SourceFile string          `json:"source_file,omitempty" yaml:"source_file,omitempty"`
	Extraction QuoteExtraction `json:"extraction" yaml:"extraction"`
	CreatedAt  time.Time       `json:"created_at" yaml:"created_at"`
}

// StoredComparison wraps a comparison result persisted by the store.
type StoredComparison struct {
	ID        string           `json:"id" yaml:"id"`
	QuoteIDs  []string         `json:"quote_ids" yaml:"quote_ids"`
	Result    ComparisonResult `json:"result" yaml:"result"`
	CreatedAt time.Time        `json:"created_at" yaml:"created_at"`
}
