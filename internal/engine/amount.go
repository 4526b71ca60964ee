package engine

import (
	"encoding/json"
	"strconv"
	"strings"
)

// parseAmount normalizes a raw monetary value into a float. Extractions carry
// amounts as JSON numbers or as carrier-formatted strings ("$1,000,000",
// "1.5M", "500k"). Returns the parsed value plus the original display text;
// unparseable or empty input yields (nil, text) so the caller degrades to
// "unknown" rather than failing.
func parseAmount(raw any) (*float64, string) {
	switch v := raw.(type) {
	case nil:
		return nil, ""
	case float64:
		val := v
		return &val, ""
	case int:
		val := float64(v)
		return &val, ""
	case int64:
		val := float64(v)
		return &val, ""
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return &f, v.String()
		}
		return nil, v.String()
	case string:
		return parseAmountString(v)
	default:
		return nil, ""
	}
}

// amountMultipliers maps magnitude suffixes to their scale.
var amountMultipliers = map[string]float64{
	"k":  1e3,
	"m":  1e6,
	"mm": 1e6,
	"b":  1e9,
}

func parseAmountString(s string) (*float64, string) {
	text := strings.TrimSpace(s)
	if text == "" {
		return nil, ""
	}

	norm := strings.ToLower(text)
	norm = strings.TrimPrefix(norm, "$")
	norm = strings.TrimSuffix(norm, "usd")
	norm = strings.ReplaceAll(norm, ",", "")
	norm = strings.TrimSpace(norm)

	multiplier := 1.0
	for _, suffix := range []string{"mm", "k", "m", "b"} {
		if strings.HasSuffix(norm, suffix) {
			multiplier = amountMultipliers[suffix]
			norm = strings.TrimSpace(strings.TrimSuffix(norm, suffix))
			break
		}
	}

	f, err := strconv.ParseFloat(norm, 64)
	if err != nil {
		return nil, text
	}
	val := f * multiplier
	return &val, text
}

// relativeDelta returns |a-b| as a fraction of the larger magnitude.
// Both values equal (or both zero) yields 0.
func relativeDelta(a, b float64) float64 {
	if a == b {
		return 0
	}
	larger := a
	if b > larger {
		larger = b
	}
	if larger == 0 {
		// Both non-positive; compare against the larger magnitude instead.
		larger = -a
		if -b > larger {
			larger = -b
		}
		if larger == 0 {
			return 0
		}
	}
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff / larger
}
