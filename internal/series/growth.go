package series

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// Observation is one monthly data point from the CE flat files (ce.data).
type Observation struct {
	SeriesID string  `csv:"series_id"`
	Year     int     `csv:"year"`
	Period   string  `csv:"period"`
	Value    float64 `csv:"value"`
}

// YearMonth renders the observation period as "YYYY-MM". Periods M01..M12 map
// to calendar months; anything else is returned empty.
func (o Observation) YearMonth() string {
	if len(o.Period) != 3 || o.Period[0] != 'M' {
		return ""
	}
	month := o.Period[1:]
	if month < "01" || month > "12" {
		return ""
	}
	return fmt.Sprintf("%04d-%s", o.Year, month)
}

// GrowthPoint is one observation with its derived growth rates.
type GrowthPoint struct {
	SeriesID         string  `csv:"series_id"`
	YearMonth        string  `csv:"year_month"`
	Value            float64 `csv:"value"`
	PrevValue        float64 `csv:"prev_value"`
	MoMGrowth        float64 `csv:"mom_growth"`
	AnnualizedGrowth float64 `csv:"annualized_growth"`
}

// FilterObservations keeps observations for the given series ids at or after
// startMonth ("YYYY-MM"). Observations with an unparseable period are dropped.
func FilterObservations(obs []Observation, ids []string, startMonth string) []Observation {
	if len(ids) == 0 {
		zap.L().Warn("no series ids to filter observations by")
		return nil
	}
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[strings.TrimSpace(id)] = true
	}

	out := make([]Observation, 0, len(obs))
	for _, o := range obs {
		ym := o.YearMonth()
		if ym == "" || ym < startMonth || !wanted[strings.TrimSpace(o.SeriesID)] {
			continue
		}
		out = append(out, o)
	}
	return out
}

// ComputeGrowth derives month-over-month and annualized growth per series.
// Observations are grouped by series id and sorted by month ascending. The
// first observation of each series has no prior month and is excluded, as is
// any observation whose prior value is zero or missing. Annualized growth
// beyond threshold (absolute, in percent) is logged but kept.
func ComputeGrowth(obs []Observation, threshold float64) []GrowthPoint {
	bySeries := make(map[string][]Observation)
	var order []string
	for _, o := range obs {
		id := strings.TrimSpace(o.SeriesID)
		if o.YearMonth() == "" {
			continue
		}
		if _, ok := bySeries[id]; !ok {
			order = append(order, id)
		}
		bySeries[id] = append(bySeries[id], o)
	}
	sort.Strings(order)

	var out []GrowthPoint
	anomalies := 0
	for _, id := range order {
		points := bySeries[id]
		sort.Slice(points, func(i, j int) bool {
			return points[i].YearMonth() < points[j].YearMonth()
		})

		for i := 1; i < len(points); i++ {
			prev := points[i-1].Value
			if prev == 0 || math.IsNaN(prev) {
				continue
			}
			cur := points[i]
			mom := cur.Value/prev - 1
			annualized := (math.Pow(1+mom, 12) - 1) * 100

			if math.Abs(annualized) > threshold {
				anomalies++
				zap.L().Warn("anomalous growth rate",
					zap.String("series_id", id),
					zap.String("year_month", cur.YearMonth()),
					zap.Float64("annualized_growth", annualized),
				)
			}
			out = append(out, GrowthPoint{
				SeriesID:         id,
				YearMonth:        cur.YearMonth(),
				Value:            cur.Value,
				PrevValue:        prev,
				MoMGrowth:        mom,
				AnnualizedGrowth: annualized,
			})
		}
	}

	if len(out) == 0 && len(obs) > 0 {
		zap.L().Error("no growth points computed", zap.Int("observations", len(obs)))
	}
	zap.L().Info("computed growth rates",
		zap.Int("observations", len(obs)),
		zap.Int("series", len(bySeries)),
		zap.Int("growth_points", len(out)),
		zap.Int("anomalies", anomalies),
	)
	return out
}

// AnalysisRecord is one growth point joined back to its industry mapping, the
// unit the cohort analysis consumes.
type AnalysisRecord struct {
	IndustryCode         string  `csv:"industry_code"`
	BLSIndustryCode      string  `csv:"bls_industry_code"`
	BLSIndustryName      string  `csv:"bls_industry_name"`
	TotalWorkers         float64 `csv:"total_workers"`
	NoncitizenWorkers    float64 `csv:"noncitizen_workers"`
	NoncitizenPercentage float64 `csv:"noncitizen_percentage"`
	Measure              Measure `csv:"measure"`
	SeriesID             string  `csv:"series_id"`
	YearMonth            string  `csv:"year_month"`
	Value                float64 `csv:"value"`
	AnnualizedGrowth     float64 `csv:"annualized_growth"`
}

// BuildAnalysis joins growth points to mappings, emitting one record per
// mapping, measure, and month. A series shared by several mappings contributes
// to each of them.
func BuildAnalysis(mappings []Mapping, growth []GrowthPoint) []AnalysisRecord {
	bySeries := make(map[string][]GrowthPoint)
	for _, g := range growth {
		bySeries[g.SeriesID] = append(bySeries[g.SeriesID], g)
	}

	var out []AnalysisRecord
	for _, m := range mappings {
		for _, mm := range []struct {
			measure Measure
			id      string
		}{
			{MeasureEmployment, m.EmploymentSeriesID},
			{MeasureEarnings, m.EarningsSeriesID},
		} {
			for _, g := range bySeries[mm.id] {
				out = append(out, AnalysisRecord{
					IndustryCode:         m.IndustryCode,
					BLSIndustryCode:      m.BLSIndustryCode,
					BLSIndustryName:      m.BLSIndustryName,
					TotalWorkers:         m.TotalWorkers,
					NoncitizenWorkers:    m.NoncitizenWorkers,
					NoncitizenPercentage: m.NoncitizenPercentage,
					Measure:              mm.measure,
					SeriesID:             mm.id,
					YearMonth:            g.YearMonth,
					Value:                g.Value,
					AnnualizedGrowth:     g.AnnualizedGrowth,
				})
			}
		}
	}

	zap.L().Info("built analysis records",
		zap.Int("mappings", len(mappings)),
		zap.Int("records", len(out)),
	)
	return out
}
