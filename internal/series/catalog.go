// Package series resolves BLS CE time-series identifiers for matched
// industries and computes month-over-month and annualized growth rates.
package series

import (
	"go.uber.org/zap"

	"github.com/sells-group/econlink/internal/industry"
)

// Measure names the two CE data types carried through the pipeline.
type Measure string

const (
	MeasureEmployment Measure = "employment"
	MeasureEarnings   Measure = "earnings"
)

// CatalogEntry is one row of the CE series catalogue (ce.series).
type CatalogEntry struct {
	SeriesID        string `csv:"series_id"`
	SupersectorCode string `csv:"supersector_code"`
	IndustryCode    string `csv:"industry_code"`
	DataTypeCode    string `csv:"data_type_code"`
	SeasonalCode    string `csv:"seasonal_code"`
	SeriesTitle     string `csv:"series_title"`
}

// Mapping ties a matched microdata industry to its resolved CE series ids.
// At least one of the two series ids is always non-empty.
type Mapping struct {
	IndustryCode         string  `csv:"industry_code"`
	BLSIndustryCode      string  `csv:"bls_industry_code"`
	BLSIndustryName      string  `csv:"bls_industry_name"`
	TotalWorkers         float64 `csv:"total_workers"`
	NoncitizenWorkers    float64 `csv:"noncitizen_workers"`
	NoncitizenPercentage float64 `csv:"noncitizen_percentage"`
	EmploymentSeriesID   string  `csv:"employment_series_id"`
	EarningsSeriesID     string  `csv:"earnings_series_id"`
}

// ResolveOptions selects which catalogue rows qualify for resolution.
type ResolveOptions struct {
	Seasonal       string
	EmploymentType string
	EarningsType   string
}

// DefaultResolveOptions matches seasonally adjusted all-employee counts and
// average hourly earnings.
func DefaultResolveOptions() ResolveOptions {
	return ResolveOptions{Seasonal: "S", EmploymentType: "01", EarningsType: "03"}
}

// Resolve finds the employment and earnings series for each matched industry.
// Only matched rows participate. Catalogue rows outside the requested seasonal
// adjustment and data types are ignored. The two data types resolve
// independently: the first catalogue entry per industry and type wins, so an
// employment series under one supersector and an earnings series under
// another both resolve. A second candidate for the same type is a
// supersector conflict, logged and ignored. Rows where neither series
// resolves are dropped.
func Resolve(matched []industry.Matched, catalog []CatalogEntry, opts ResolveOptions) []Mapping {
	type candidate struct {
		seriesID    string
		supersector string
	}
	type resolved struct {
		employment candidate
		earnings   candidate
	}
	byIndustry := make(map[string]*resolved)

	take := func(code string, c *candidate, entry CatalogEntry) {
		if c.seriesID == "" {
			c.seriesID = entry.SeriesID
			c.supersector = entry.SupersectorCode
			return
		}
		zap.L().Warn("multiple series for industry and data type",
			zap.String("industry_code", code),
			zap.String("data_type_code", entry.DataTypeCode),
			zap.String("kept", c.seriesID),
			zap.String("kept_supersector", c.supersector),
			zap.String("ignored", entry.SeriesID),
			zap.String("ignored_supersector", entry.SupersectorCode),
		)
	}

	for _, entry := range catalog {
		if entry.SeasonalCode != opts.Seasonal {
			continue
		}
		if entry.DataTypeCode != opts.EmploymentType && entry.DataTypeCode != opts.EarningsType {
			continue
		}

		code := industry.Normalize(entry.IndustryCode)
		r := byIndustry[code]
		if r == nil {
			r = &resolved{}
			byIndustry[code] = r
		}

		switch entry.DataTypeCode {
		case opts.EmploymentType:
			take(code, &r.employment, entry)
		case opts.EarningsType:
			take(code, &r.earnings, entry)
		}
	}

	mappings := make([]Mapping, 0, len(matched))
	dropped := 0
	for _, m := range matched {
		if !m.Matched {
			continue
		}
		r := byIndustry[industry.Normalize(m.BLSIndustryCode)]
		if r == nil || (r.employment.seriesID == "" && r.earnings.seriesID == "") {
			dropped++
			zap.L().Warn("no series resolved for industry",
				zap.String("industry_code", m.IndustryCode),
				zap.String("bls_industry_code", m.BLSIndustryCode),
			)
			continue
		}
		mappings = append(mappings, Mapping{
			IndustryCode:         m.IndustryCode,
			BLSIndustryCode:      m.BLSIndustryCode,
			BLSIndustryName:      m.BLSIndustryName,
			TotalWorkers:         m.TotalWorkers,
			NoncitizenWorkers:    m.NoncitizenWorkers,
			NoncitizenPercentage: m.NoncitizenPercentage,
			EmploymentSeriesID:   r.employment.seriesID,
			EarningsSeriesID:     r.earnings.seriesID,
		})
	}

	if len(mappings) == 0 && len(matched) > 0 {
		zap.L().Error("no series mappings resolved", zap.Int("matched_industries", len(matched)))
	}
	zap.L().Info("resolved series mappings",
		zap.Int("matched_industries", len(matched)),
		zap.Int("mappings", len(mappings)),
		zap.Int("dropped", dropped),
	)
	return mappings
}

// SeriesIDs collects the distinct non-empty series ids across mappings,
// employment first, preserving mapping order.
func SeriesIDs(mappings []Mapping) []string {
	seen := make(map[string]bool)
	var ids []string
	add := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, m := range mappings {
		add(m.EmploymentSeriesID)
	}
	for _, m := range mappings {
		add(m.EarningsSeriesID)
	}
	return ids
}
