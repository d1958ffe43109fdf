// Package industry links Census microdata industries to BLS industry records
// via NAICS codes: code normalization, multi-code expansion, and the
// cross-source left join.
package industry

import (
	"strings"
	"unicode"

	"go.uber.org/zap"
)

// NoCodeSentinel marks a BLS industry record with no NAICS code (an
// aggregated category). Such records cannot participate in any match.
const NoCodeSentinel = "-"

// multiCodeDelimiter separates the base code from trailing-digit variants in
// compact multi-NAICS notation, e.g. "21221,3,9" → 21221, 21223, 21229.
const multiCodeDelimiter = ","

// Share is one microdata industry with its weighted worker counts.
type Share struct {
	IndustryCode         string  `csv:"industry_code"`
	TotalWorkers         float64 `csv:"total_workers"`
	NoncitizenWorkers    float64 `csv:"noncitizen_workers"`
	NoncitizenPercentage float64 `csv:"noncitizen_percentage"`
}

// BLSIndustry is one row of the BLS industry code mapping (ce.industry).
type BLSIndustry struct {
	IndustryCode     string `csv:"industry_code"`
	NaicsCode        string `csv:"naics_code"`
	IndustryName     string `csv:"industry_name"`
	DisplayLevel     string `csv:"display_level"`
	PublishingStatus string `csv:"publishing_status"`
}

// Normalize produces the canonical comparable form of a raw industry code.
// Normalizing an already-normalized code returns it unchanged.
func Normalize(raw string) string {
	return strings.TrimSpace(raw)
}

// ExpandCode expands compact multi-NAICS notation into concrete codes, base
// code first. Each numeric suffix replaces the trailing digits of the base
// code; suffix length determines how many digits are replaced. Non-numeric
// suffixes and suffixes longer than the base are skipped.
func ExpandCode(code string) []string {
	code = Normalize(code)
	if !strings.Contains(code, multiCodeDelimiter) {
		return []string{code}
	}

	parts := strings.Split(code, multiCodeDelimiter)
	base := Normalize(parts[0])
	out := []string{base}

	for _, suffix := range parts[1:] {
		suffix = Normalize(suffix)
		if !isDigits(suffix) || len(suffix) > len(base) {
			continue
		}
		out = append(out, base[:len(base)-len(suffix)]+suffix)
	}
	return out
}

// ExpandAll normalizes and expands BLS industry rows for matching. Rows with
// the no-code sentinel are excluded; rows with multi-NAICS codes produce one
// row per concrete code, all other fields copied unchanged.
func ExpandAll(rows []BLSIndustry) []BLSIndustry {
	out := make([]BLSIndustry, 0, len(rows))
	for _, row := range rows {
		code := Normalize(row.NaicsCode)
		if code == "" || code == NoCodeSentinel {
			continue
		}
		for _, expanded := range ExpandCode(code) {
			r := row
			r.NaicsCode = expanded
			out = append(out, r)
		}
	}
	zap.L().Info("expanded BLS industry codes",
		zap.Int("input_rows", len(rows)),
		zap.Int("output_rows", len(out)),
	)
	return out
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
