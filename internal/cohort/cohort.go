// Package cohort splits industries into a high noncitizen-share group and the
// remainder, and compares their growth trajectories.
package cohort

import (
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/sells-group/econlink/internal/series"
)

// OtherLabel names the complement of the top cohort.
const OtherLabel = "All Other Industries"

// TopLabel renders the top cohort label for a percentile cutoff, e.g. 0.9
// yields "Top 10% Immigration".
func TopLabel(percentile float64) string {
	return fmt.Sprintf("Top %.0f%% Immigration", (1-percentile)*100)
}

// Threshold computes the percentile cutoff over the distinct per-industry
// noncitizen percentages using linear interpolation between order statistics.
// Returns NaN when no industries are present.
func Threshold(records []series.AnalysisRecord, percentile float64) float64 {
	seen := make(map[string]bool)
	var percents []float64
	for _, r := range records {
		if seen[r.IndustryCode] {
			continue
		}
		seen[r.IndustryCode] = true
		percents = append(percents, r.NoncitizenPercentage)
	}
	if len(percents) == 0 {
		return math.NaN()
	}

	sort.Float64s(percents)
	h := float64(len(percents)-1) * percentile
	lo := int(math.Floor(h))
	if lo >= len(percents)-1 {
		return percents[len(percents)-1]
	}
	frac := h - float64(lo)
	cutoff := percents[lo] + frac*(percents[lo+1]-percents[lo])

	zap.L().Info("computed cohort threshold",
		zap.Int("industries", len(percents)),
		zap.Float64("percentile", percentile),
		zap.Float64("threshold", cutoff),
	)
	return cutoff
}

// GroupedRecord is an analysis record with its cohort assignment.
type GroupedRecord struct {
	series.AnalysisRecord
	Group string `csv:"group"`
}

// AssignGroups labels each record by comparing its industry's noncitizen
// percentage to the threshold; at or above the cutoff joins the top cohort.
func AssignGroups(records []series.AnalysisRecord, threshold float64, topLabel, otherLabel string) []GroupedRecord {
	out := make([]GroupedRecord, 0, len(records))
	topIndustries := make(map[string]bool)
	for _, r := range records {
		g := GroupedRecord{AnalysisRecord: r, Group: otherLabel}
		if r.NoncitizenPercentage >= threshold {
			g.Group = topLabel
			topIndustries[r.IndustryCode] = true
		}
		out = append(out, g)
	}
	zap.L().Info("assigned cohort groups",
		zap.Int("records", len(records)),
		zap.Int("top_industries", len(topIndustries)),
	)
	return out
}

// GroupSeries is the aligned per-month mean annualized growth of the two
// cohorts for one measure. Months with no data in a cohort hold NaN.
type GroupSeries struct {
	Measure series.Measure
	Periods []string
	Top     []float64
	Other   []float64
}

// BuildGroupSeries averages annualized growth per month within each cohort
// for the given measure. Periods are sorted ascending and shared by both
// cohorts.
func BuildGroupSeries(records []GroupedRecord, measure series.Measure, topLabel string) GroupSeries {
	type sums struct {
		top, topN     float64
		other, otherN float64
	}
	byPeriod := make(map[string]*sums)
	for _, r := range records {
		if r.Measure != measure {
			continue
		}
		s := byPeriod[r.YearMonth]
		if s == nil {
			s = &sums{}
			byPeriod[r.YearMonth] = s
		}
		if r.Group == topLabel {
			s.top += r.AnnualizedGrowth
			s.topN++
		} else {
			s.other += r.AnnualizedGrowth
			s.otherN++
		}
	}

	periods := make([]string, 0, len(byPeriod))
	for p := range byPeriod {
		periods = append(periods, p)
	}
	sort.Strings(periods)

	gs := GroupSeries{
		Measure: measure,
		Periods: periods,
		Top:     make([]float64, len(periods)),
		Other:   make([]float64, len(periods)),
	}
	for i, p := range periods {
		s := byPeriod[p]
		gs.Top[i] = math.NaN()
		gs.Other[i] = math.NaN()
		if s.topN > 0 {
			gs.Top[i] = s.top / s.topN
		}
		if s.otherN > 0 {
			gs.Other[i] = s.other / s.otherN
		}
	}
	return gs
}

// Tail returns the series restricted to its last n periods.
func (gs GroupSeries) Tail(n int) GroupSeries {
	if n >= len(gs.Periods) {
		return gs
	}
	start := len(gs.Periods) - n
	return GroupSeries{
		Measure: gs.Measure,
		Periods: gs.Periods[start:],
		Top:     gs.Top[start:],
		Other:   gs.Other[start:],
	}
}

// GroupAverages returns the NaN-ignoring mean growth of each cohort over the
// last lookback periods.
func GroupAverages(gs GroupSeries, lookback int) (top, other float64) {
	tail := gs.Tail(lookback)
	return nanMean(tail.Top), nanMean(tail.Other)
}

// Correlation is the Pearson correlation between the two cohort series over
// months where both hold values. Returns NaN with fewer than two such months.
func (gs GroupSeries) Correlation() float64 {
	var xs, ys []float64
	for i := range gs.Periods {
		if math.IsNaN(gs.Top[i]) || math.IsNaN(gs.Other[i]) {
			continue
		}
		xs = append(xs, gs.Top[i])
		ys = append(ys, gs.Other[i])
	}
	if len(xs) < 2 {
		return math.NaN()
	}
	return stat.Correlation(xs, ys, nil)
}

// Sector is one industry ranked by noncitizen share.
type Sector struct {
	IndustryCode         string  `csv:"industry_code"`
	BLSIndustryName      string  `csv:"bls_industry_name"`
	NoncitizenPercentage float64 `csv:"noncitizen_percentage"`
}

// TopSectors lists the distinct top-cohort industries ordered by descending
// noncitizen percentage, capped at n.
func TopSectors(records []GroupedRecord, topLabel string, n int) []Sector {
	seen := make(map[string]bool)
	var sectors []Sector
	for _, r := range records {
		if r.Group != topLabel || seen[r.IndustryCode] {
			continue
		}
		seen[r.IndustryCode] = true
		sectors = append(sectors, Sector{
			IndustryCode:         r.IndustryCode,
			BLSIndustryName:      r.BLSIndustryName,
			NoncitizenPercentage: r.NoncitizenPercentage,
		})
	}
	sort.SliceStable(sectors, func(i, j int) bool {
		return sectors[i].NoncitizenPercentage > sectors[j].NoncitizenPercentage
	})
	if len(sectors) > n {
		sectors = sectors[:n]
	}
	return sectors
}

func nanMean(xs []float64) float64 {
	var sum float64
	var n int
	for _, x := range xs {
		if math.IsNaN(x) {
			continue
		}
		sum += x
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}
