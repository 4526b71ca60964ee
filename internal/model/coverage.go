package model

import "strings"

// CoverageType represents a canonical coverage category.
type CoverageType string

const (
	CoverageGeneralLiability      CoverageType = "general_liability"
	CoverageProperty              CoverageType = "property"
	CoverageAutoLiability         CoverageType = "auto_liability"
	CoverageAutoPhysicalDamage    CoverageType = "auto_physical_damage"
	CoverageWorkersComp           CoverageType = "workers_comp"
	CoverageUmbrella              CoverageType = "umbrella"
	CoverageExcessLiability       CoverageType = "excess_liability"
	CoverageCyber                 CoverageType = "cyber"
	CoverageEPLI                  CoverageType = "epli"
	CoverageDirectorsOfficers     CoverageType = "directors_officers"
	CoverageProfessionalLiability CoverageType = "professional_liability"
	CoverageCrime                 CoverageType = "crime"
	CoverageFiduciary             CoverageType = "fiduciary"
	CoveragePollution             CoverageType = "pollution"
	CoverageInlandMarine          CoverageType = "inland_marine"
	CoverageOceanMarine           CoverageType = "ocean_marine"
	CoverageCargo                 CoverageType = "cargo"
	CoverageBuildersRisk          CoverageType = "builders_risk"
	CoverageEquipmentBreakdown    CoverageType = "equipment_breakdown"
	CoverageBusinessInterruption  CoverageType = "business_interruption"
	CoverageProductLiability      CoverageType = "product_liability"
	CoverageLiquorLiability       CoverageType = "liquor_liability"
	CoverageGarageLiability       CoverageType = "garage_liability"
	CoverageEmploymentPractices   CoverageType = "employment_practices"
	CoverageKidnapRansom          CoverageType = "kidnap_ransom"
	CoverageTerrorism             CoverageType = "terrorism"
	CoverageFlood                 CoverageType = "flood"
	CoverageEarthquake            CoverageType = "earthquake"
	CoverageWindHail              CoverageType = "wind_hail"
	CoverageMedicalMalpractice    CoverageType = "medical_malpractice"
	CoverageAviation              CoverageType = "aviation"
	CoverageSurety                CoverageType = "surety"
	CoverageOther                 CoverageType = "other"
)

// AllCoverageTypes returns every canonical coverage type in declared order.
// Comparison rows are emitted in this order, so it also fixes result ordering.
func AllCoverageTypes() []CoverageType {
	return []CoverageType{
		CoverageGeneralLiability,
		CoverageProperty,
		CoverageAutoLiability,
		CoverageAutoPhysicalDamage,
		CoverageWorkersComp,
		CoverageUmbrella,
		CoverageExcessLiability,
		CoverageCyber,
		CoverageEPLI,
		CoverageDirectorsOfficers,
		CoverageProfessionalLiability,
		CoverageCrime,
		CoverageFiduciary,
		CoveragePollution,
		CoverageInlandMarine,
		CoverageOceanMarine,
		CoverageCargo,
		CoverageBuildersRisk,
		CoverageEquipmentBreakdown,
		CoverageBusinessInterruption,
		CoverageProductLiability,
		CoverageLiquorLiability,
		CoverageGarageLiability,
		CoverageEmploymentPractices,
		CoverageKidnapRansom,
		CoverageTerrorism,
		CoverageFlood,
		CoverageEarthquake,
		CoverageWindHail,
		CoverageMedicalMalpractice,
		CoverageAviation,
		CoverageSurety,
		CoverageOther,
	}
}

// CoverageTier classifies how important a coverage type is to a typical insured.
type CoverageTier string

const (
	TierCore        CoverageTier = "core"
	TierRecommended CoverageTier = "recommended"
	TierOptional    CoverageTier = "optional"
)

// coverageTiers is the fixed severity-tier lookup. Core coverage missing from
// a quote is a high-severity gap, recommended is medium, everything else low.
var coverageTiers = map[CoverageType]CoverageTier{
	CoverageGeneralLiability: TierCore,
	CoverageProperty:         TierCore,
	CoverageAutoLiability:    TierCore,
	CoverageUmbrella:         TierRecommended,
	CoverageEPLI:             TierRecommended,
	CoverageCyber:            TierRecommended,
}

// Tier returns the severity tier for the coverage type.
func (c CoverageType) Tier() CoverageTier {
	if t, ok := coverageTiers[c]; ok {
		return t
	}
	return TierOptional
}

// coverageLabels maps canonical types to human-readable labels for findings
// and exports.
var coverageLabels = map[CoverageType]string{
	CoverageGeneralLiability:      "General Liability",
	CoverageProperty:              "Property",
	CoverageAutoLiability:         "Auto Liability",
	CoverageAutoPhysicalDamage:    "Auto Physical Damage",
	CoverageWorkersComp:           "Workers' Compensation",
	CoverageUmbrella:              "Umbrella",
	CoverageExcessLiability:       "Excess Liability",
	CoverageCyber:                 "Cyber",
	CoverageEPLI:                  "Employment Practices Liability",
	CoverageDirectorsOfficers:     "Directors & Officers",
	CoverageProfessionalLiability: "Professional Liability (E&O)",
	CoverageCrime:                 "Crime",
	CoverageFiduciary:             "Fiduciary",
	CoveragePollution:             "Pollution",
	CoverageInlandMarine:          "Inland Marine",
	CoverageOceanMarine:           "Ocean Marine",
	CoverageCargo:                 "Cargo",
	CoverageBuildersRisk:          "Builders Risk",
	CoverageEquipmentBreakdown:    "Equipment Breakdown",
	CoverageBusinessInterruption:  "Business Interruption",
	CoverageProductLiability:      "Product Liability",
	CoverageLiquorLiability:       "Liquor Liability",
	CoverageGarageLiability:       "Garage Liability",
	CoverageEmploymentPractices:   "Employment Practices",
	CoverageKidnapRansom:          "Kidnap & Ransom",
	CoverageTerrorism:             "Terrorism",
	CoverageFlood:                 "Flood",
	CoverageEarthquake:            "Earthquake",
	CoverageWindHail:              "Wind & Hail",
	CoverageMedicalMalpractice:    "Medical Malpractice",
	CoverageAviation:              "Aviation",
	CoverageSurety:                "Surety",
	CoverageOther:                 "Other Coverage",
}

// Label returns the human-readable label for the coverage type.
func (c CoverageType) Label() string {
	if l, ok := coverageLabels[c]; ok {
		return l
	}
	return string(c)
}

// coverageAliases maps carrier terminology and legacy schema labels onto
// canonical types. Keys are normalized (lowercase, spaces collapsed).
var coverageAliases = map[string]CoverageType{
	"gl":                      CoverageGeneralLiability,
	"cgl":                     CoverageGeneralLiability,
	"liability":               CoverageGeneralLiability,
	"general liability":       CoverageGeneralLiability,
	"commercial property":     CoverageProperty,
	"building & contents":     CoverageProperty,
	"commercial auto":         CoverageAutoLiability,
	"business auto":           CoverageAutoLiability,
	"auto":                    CoverageAutoLiability,
	"comp & collision":        CoverageAutoPhysicalDamage,
	"workers compensation":    CoverageWorkersComp,
	"work comp":               CoverageWorkersComp,
	"wc":                      CoverageWorkersComp,
	"commercial umbrella":     CoverageUmbrella,
	"excess":                  CoverageExcessLiability,
	"cyber liability":         CoverageCyber,
	"data breach":             CoverageCyber,
	"employment practices":    CoverageEPLI,
	"d&o":                     CoverageDirectorsOfficers,
	"directors and officers":  CoverageDirectorsOfficers,
	"e&o":                     CoverageProfessionalLiability,
	"errors & omissions":      CoverageProfessionalLiability,
	"errors and omissions":    CoverageProfessionalLiability,
	"professional indemnity":  CoverageProfessionalLiability,
	"employee dishonesty":     CoverageCrime,
	"fidelity":                CoverageCrime,
	"environmental liability": CoveragePollution,
	"business income":         CoverageBusinessInterruption,
	"bi":                      CoverageBusinessInterruption,
	"products":                CoverageProductLiability,
	"products/completed ops":  CoverageProductLiability,
	"boiler & machinery":      CoverageEquipmentBreakdown,
	"med mal":                 CoverageMedicalMalpractice,
	"bond":                    CoverageSurety,
}

// canonicalTypes indexes the enumeration for membership checks.
var canonicalTypes = func() map[CoverageType]bool {
	m := make(map[CoverageType]bool)
	for _, c := range AllCoverageTypes() {
		m[c] = true
	}
	return m
}()

// IsCanonicalCoverageType reports whether the value is a member of the
// closed enumeration.
func IsCanonicalCoverageType(s string) bool {
	return canonicalTypes[CoverageType(s)]
}

// ResolveCoverageType maps a raw coverage label to a canonical type.
// Canonical values pass through; known aliases resolve; anything else
// degrades to CoverageOther so unexpected carrier terminology stays visible.
func ResolveCoverageType(raw string) CoverageType {
	norm := strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(raw))), " ")
	if norm == "" {
		return CoverageOther
	}
	if canonicalTypes[CoverageType(norm)] {
		return CoverageType(norm)
	}
	// Canonical values sometimes arrive with spaces instead of underscores.
	underscored := strings.ReplaceAll(norm, " ", "_")
	if canonicalTypes[CoverageType(underscored)] {
		return CoverageType(underscored)
	}
	if c, ok := coverageAliases[norm]; ok {
		return c
	}
	return CoverageOther
}

// coverageOrder indexes declared order for sorting comparison rows.
var coverageOrder = func() map[CoverageType]int {
	m := make(map[CoverageType]int)
	for i, c := range AllCoverageTypes() {
		m[c] = i
	}
	return m
}()

// OrderIndex returns the coverage type's position in the declared
// enumeration order. Unknown values sort last.
func (c CoverageType) OrderIndex() int {
	if i, ok := coverageOrder[c]; ok {
		return i
	}
	return len(coverageOrder)
}
