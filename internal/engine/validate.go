package engine

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/samruben96/documine-sub012/internal/model"
)

// ValidationError reports a structurally invalid extraction record. Missing
// data is never a ValidationError; only malformed shape is.
type ValidationError struct {
	Detail string
}

func (e *ValidationError) Error() string {
	return "engine: invalid extraction record: " + e.Detail
}

func validationErrorf(format string, args ...any) error {
	return &ValidationError{Detail: fmt.Sprintf(format, args...)}
}

// ValidateRecord normalizes a raw, untyped record into a QuoteExtraction.
// Every optional field degrades to nil or empty rather than failing; the
// record is rejected only when it is not a well-formed object or a section
// entry has the wrong shape. Older schema versions are up-converted first.
func ValidateRecord(raw any) (*model.QuoteExtraction, error) {
	rec, ok := raw.(map[string]any)
	if !ok || rec == nil {
		return nil, validationErrorf("record is not an object")
	}

	rec, err := migrateRecord(rec)
	if err != nil {
		return nil, err
	}

	q := &model.QuoteExtraction{
		SchemaVersion: model.SchemaVersionCurrent,
		Coverages:     []model.CoverageItem{},
		Exclusions:    []model.ExclusionItem{},
		Deductibles:   []model.DeductibleItem{},
	}

	q.CarrierName = optString(rec, "carrier_name", "carrierName")
	q.PolicyNumber = optString(rec, "policy_number", "policyNumber")
	q.NamedInsured = optString(rec, "named_insured", "namedInsured")
	q.EffectiveDate = optString(rec, "effective_date", "effectiveDate")
	q.ExpirationDate = optString(rec, "expiration_date", "expirationDate")
	q.AnnualPremium, _ = parseAmount(field(rec, "annual_premium", "annualPremium"))

	coverages, err := section(rec, "coverages")
	if err != nil {
		return nil, err
	}
	for i, entry := range coverages {
		item, err := validateCoverageItem(entry, i)
		if err != nil {
			return nil, err
		}
		q.Coverages = append(q.Coverages, *item)
	}

	exclusions, err := section(rec, "exclusions")
	if err != nil {
		return nil, err
	}
	for i, entry := range exclusions {
		item, err := validateExclusionItem(entry, i)
		if err != nil {
			return nil, err
		}
		q.Exclusions = append(q.Exclusions, *item)
	}

	deductibles, err := section(rec, "deductibles")
	if err != nil {
		return nil, err
	}
	for i, entry := range deductibles {
		item, err := validateDeductibleItem(entry, i)
		if err != nil {
			return nil, err
		}
		q.Deductibles = append(q.Deductibles, *item)
	}

	return q, nil
}

func validateCoverageItem(entry any, idx int) (*model.CoverageItem, error) {
	m, ok := entry.(map[string]any)
	if !ok {
		return nil, validationErrorf("coverage entry %d is not an object", idx)
	}

	ct, err := coverageTypeOf(m, fmt.Sprintf("coverage entry %d", idx))
	if err != nil {
		return nil, err
	}

	item := &model.CoverageItem{
		CoverageType: ct,
		Name:         stringOr(m, "", "name"),
		Description:  stringOr(m, "", "description"),
		SourcePages:  pageList(m, "source_pages", "sourcePages"),
	}
	item.Limit, item.LimitText = parseAmount(field(m, "limit"))
	item.Sublimit, item.SublimitText = parseAmount(field(m, "sublimit"))
	item.Deductible, _ = parseAmount(field(m, "deductible"))
	item.LimitBasis = parseLimitBasis(field(m, "limit_basis", "limitBasis"))

	return item, nil
}

func validateExclusionItem(entry any, idx int) (*model.ExclusionItem, error) {
	m, ok := entry.(map[string]any)
	if !ok {
		return nil, validationErrorf("exclusion entry %d is not an object", idx)
	}
	ct, err := coverageTypeOf(m, fmt.Sprintf("exclusion entry %d", idx))
	if err != nil {
		return nil, err
	}
	return &model.ExclusionItem{
		CoverageType: ct,
		Description:  stringOr(m, "", "description"),
		SourcePages:  pageList(m, "source_pages", "sourcePages"),
	}, nil
}

func validateDeductibleItem(entry any, idx int) (*model.DeductibleItem, error) {
	m, ok := entry.(map[string]any)
	if !ok {
		return nil, validationErrorf("deductible entry %d is not an object", idx)
	}
	ct, err := coverageTypeOf(m, fmt.Sprintf("deductible entry %d", idx))
	if err != nil {
		return nil, err
	}
	item := &model.DeductibleItem{
		CoverageType: ct,
		SourcePages:  pageList(m, "source_pages", "sourcePages"),
	}
	item.Amount, _ = parseAmount(field(m, "amount"))
	return item, nil
}

// coverageTypeOf resolves an entry's coverage type. A missing field or an
// unrecognized label degrades to CoverageOther; a present field that is not
// a string is a structural error.
func coverageTypeOf(m map[string]any, where string) (model.CoverageType, error) {
	raw, present := lookup(m, "coverage_type", "coverageType")
	if !present || raw == nil {
		return model.CoverageOther, nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", validationErrorf("%s has non-string coverage_type", where)
	}
	return model.ResolveCoverageType(s), nil
}

// section returns a record's list section. Absent or null sections degrade
// to empty; a present section of the wrong shape is a structural error.
func section(rec map[string]any, key string) ([]any, error) {
	raw, present := lookup(rec, key)
	if !present || raw == nil {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, validationErrorf("%s is not a list", key)
	}
	return list, nil
}

// lookup fetches the first present key from the record.
func lookup(m map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			return v, true
		}
	}
	return nil, false
}

func field(m map[string]any, keys ...string) any {
	v, _ := lookup(m, keys...)
	return v
}

// optString returns a trimmed string field, nil when absent, null, empty, or
// not a string.
func optString(m map[string]any, keys ...string) *string {
	v, _ := lookup(m, keys...)
	s, ok := v.(string)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func stringOr(m map[string]any, fallback string, keys ...string) string {
	if s := optString(m, keys...); s != nil {
		return *s
	}
	return fallback
}

// pageList extracts source page citations, keeping only sensible page numbers.
func pageList(m map[string]any, keys ...string) []int {
	raw, _ := lookup(m, keys...)
	list, ok := raw.([]any)
	if !ok {
		return nil
	}
	var pages []int
	for _, v := range list {
		if f, ok := numberOf(v); ok && f >= 1 {
			pages = append(pages, int(f))
		}
	}
	return pages
}

// numberOf coerces a decoded JSON number whether or not the decoder was in
// UseNumber mode.
func numberOf(raw any) (float64, bool) {
	switch n := raw.(type) {
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// parseLimitBasis normalizes basis terminology onto the categorical set.
// Unknown phrasing degrades to nil rather than guessing.
func parseLimitBasis(raw any) *model.LimitBasis {
	s, ok := raw.(string)
	if !ok {
		return nil
	}
	norm := strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(s))), " ")
	norm = strings.ReplaceAll(norm, "-", " ")
	norm = strings.ReplaceAll(norm, "_", " ")

	var basis model.LimitBasis
	switch norm {
	case "per occurrence", "occurrence", "each occurrence", "per occ":
		basis = model.BasisPerOccurrence
	case "per claim", "each claim", "claims made", "claim":
		basis = model.BasisPerClaim
	case "aggregate", "annual aggregate", "general aggregate", "agg":
		basis = model.BasisAggregate
	default:
		return nil
	}
	return &basis
}
