package industry

import (
	"sort"

	"go.uber.org/zap"
)

// Matched is one microdata industry joined (or not) to a BLS industry record.
type Matched struct {
	IndustryCode         string  `csv:"industry_code"`
	TotalWorkers         float64 `csv:"total_workers"`
	NoncitizenWorkers    float64 `csv:"noncitizen_workers"`
	NoncitizenPercentage float64 `csv:"noncitizen_percentage"`
	BLSIndustryCode      string  `csv:"bls_industry_code"`
	BLSIndustryName      string  `csv:"bls_industry_name"`
	Matched              bool    `csv:"matched"`
}

// MatchStats summarizes a join pass.
type MatchStats struct {
	Total     int
	Matched   int
	Unmatched int
	Conflicts int
}

// MatchedPct returns the matched share of all input rows, in percent.
func (s MatchStats) MatchedPct() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Matched) / float64(s.Total) * 100
}

// Match left-joins microdata shares to expanded BLS industry rows by
// normalized NAICS code. Every share produces exactly one output row in input
// order; shares with no BLS counterpart are kept with Matched=false. When
// several BLS rows carry the same code the first wins and the rest are counted
// as conflicts.
func Match(shares []Share, blsRows []BLSIndustry) ([]Matched, MatchStats) {
	byCode := make(map[string]BLSIndustry, len(blsRows))
	stats := MatchStats{Total: len(shares)}

	for _, row := range blsRows {
		code := Normalize(row.NaicsCode)
		if prev, ok := byCode[code]; ok {
			stats.Conflicts++
			zap.L().Warn("duplicate NAICS code in BLS mapping",
				zap.String("naics_code", code),
				zap.String("kept", prev.IndustryCode),
				zap.String("dropped", row.IndustryCode),
			)
			continue
		}
		byCode[code] = row
	}

	out := make([]Matched, 0, len(shares))
	for _, share := range shares {
		m := Matched{
			IndustryCode:         share.IndustryCode,
			TotalWorkers:         share.TotalWorkers,
			NoncitizenWorkers:    share.NoncitizenWorkers,
			NoncitizenPercentage: share.NoncitizenPercentage,
		}
		if bls, ok := byCode[Normalize(share.IndustryCode)]; ok {
			m.BLSIndustryCode = bls.IndustryCode
			m.BLSIndustryName = bls.IndustryName
			m.Matched = true
			stats.Matched++
		} else {
			stats.Unmatched++
		}
		out = append(out, m)
	}

	zap.L().Info("matched industries",
		zap.Int("total", stats.Total),
		zap.Int("matched", stats.Matched),
		zap.Int("unmatched", stats.Unmatched),
		zap.Int("conflicts", stats.Conflicts),
		zap.Float64("matched_pct", stats.MatchedPct()),
	)
	return out, stats
}

// TopUnmatched returns up to n unmatched rows ordered by descending worker
// count, for diagnostic logging.
func TopUnmatched(rows []Matched, n int) []Matched {
	unmatched := make([]Matched, 0, len(rows))
	for _, r := range rows {
		if !r.Matched {
			unmatched = append(unmatched, r)
		}
	}
	sort.SliceStable(unmatched, func(i, j int) bool {
		return unmatched[i].TotalWorkers > unmatched[j].TotalWorkers
	})
	if len(unmatched) > n {
		unmatched = unmatched[:n]
	}
	return unmatched
}
