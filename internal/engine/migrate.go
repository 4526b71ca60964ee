package engine

// Schema-version up-conversion. Each migration bridges exactly one version
// gap and runs on a copy of the raw record, so older stored extractions stay
// comparable without re-running the upstream AI extraction.

import (
	"github.com/samruben96/documine-sub012/internal/model"
)

// migrations chains per-gap converters: migrations[0] is v1→v2, and so on.
var migrations = []func(map[string]any){
	migrateV1toV2,
	migrateV2toV3,
}

// migrateRecord up-converts a raw record to the current schema version.
// Records without a schema_version field are treated as v1 (versioning was
// introduced in v2). Versions newer than this build understands are a
// structural error: fields could carry meanings we would misread.
func migrateRecord(rec map[string]any) (map[string]any, error) {
	version := schemaVersionOf(rec)
	if version < 1 {
		version = 1
	}
	if version > model.SchemaVersionCurrent {
		return nil, validationErrorf("schema version %d is newer than supported version %d",
			version, model.SchemaVersionCurrent)
	}

	out := copyRecord(rec)
	for v := version; v < model.SchemaVersionCurrent; v++ {
		migrations[v-1](out)
	}
	out["schema_version"] = float64(model.SchemaVersionCurrent)
	return out, nil
}

func schemaVersionOf(rec map[string]any) int {
	raw, ok := lookup(rec, "schema_version", "schemaVersion")
	if !ok {
		return 1
	}
	if f, ok := numberOf(raw); ok {
		return int(f)
	}
	return 1
}

// migrateV1toV2 null-fills the fields v2 introduced on coverage entries
// (limit_basis, source_pages) and rewrites v1's legacy coverage labels.
// Label rewriting is nominally redundant with alias resolution but keeps the
// migration self-contained for records that are re-persisted post-migration.
func migrateV1toV2(rec map[string]any) {
	for _, entry := range listSection(rec, "coverages") {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		if _, present := lookup(m, "limit_basis", "limitBasis"); !present {
			m["limit_basis"] = nil
		}
		if _, present := lookup(m, "source_pages", "sourcePages"); !present {
			m["source_pages"] = []any{}
		}
		if s, ok := field(m, "coverage_type", "coverageType").(string); ok {
			m["coverage_type"] = string(model.ResolveCoverageType(s))
			delete(m, "coverageType")
		}
	}
}

// migrateV2toV3 adds the standalone deductible schedule, null-fills the
// sublimit field, and keys legacy exclusions (which carried no coverage
// type) to the catch-all bucket.
func migrateV2toV3(rec map[string]any) {
	if _, present := lookup(rec, "deductibles"); !present {
		rec["deductibles"] = []any{}
	}
	for _, entry := range listSection(rec, "coverages") {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		if _, present := lookup(m, "sublimit"); !present {
			m["sublimit"] = nil
		}
	}
	for _, entry := range listSection(rec, "exclusions") {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		if _, present := lookup(m, "coverage_type", "coverageType"); !present {
			m["coverage_type"] = string(model.CoverageOther)
		}
	}
}

func listSection(rec map[string]any, key string) []any {
	list, _ := field(rec, key).([]any)
	return list
}

// copyRecord deep-copies the map/list/scalar shape produced by JSON decoding
// so migrations never mutate the caller's record.
func copyRecord(rec map[string]any) map[string]any {
	out := make(map[string]any, len(rec))
	for k, v := range rec {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return copyRecord(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = copyValue(e)
		}
		return out
	default:
		return v
	}
}
