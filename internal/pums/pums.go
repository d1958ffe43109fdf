// Package pums aggregates Census PUMS person records into weighted
// noncitizen-share statistics per industry.
package pums

import (
	"sort"

	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/econlink/internal/industry"
)

// CitizenshipNonCitizen is the CIT code for "not a citizen of the U.S.".
const CitizenshipNonCitizen = 5

// PersonRecord is one person row from the PUMS API: NAICS industry worked in,
// citizenship status, and person weight.
type PersonRecord struct {
	Industry    string `csv:"naicsp"`
	Citizenship int    `csv:"cit"`
	Weight      int    `csv:"pwgtp"`
}

// ComputeShares aggregates person records by industry code, summing person
// weights overall and for noncitizens, and derives the noncitizen percentage.
// Records with an empty or sentinel industry code or a non-positive weight are
// skipped. Results are sorted by noncitizen percentage descending, then by
// industry code for determinism.
func ComputeShares(records []PersonRecord) []industry.Share {
	type agg struct {
		total      float64
		noncitizen float64
	}
	byIndustry := make(map[string]*agg)

	skipped := 0
	for _, rec := range records {
		code := industry.Normalize(rec.Industry)
		if code == "" || code == industry.NoCodeSentinel || rec.Weight <= 0 {
			skipped++
			continue
		}
		a := byIndustry[code]
		if a == nil {
			a = &agg{}
			byIndustry[code] = a
		}
		a.total += float64(rec.Weight)
		if rec.Citizenship == CitizenshipNonCitizen {
			a.noncitizen += float64(rec.Weight)
		}
	}

	shares := make([]industry.Share, 0, len(byIndustry))
	var totalWorkers, totalNoncitizen float64
	for code, a := range byIndustry {
		shares = append(shares, industry.Share{
			IndustryCode:         code,
			TotalWorkers:         a.total,
			NoncitizenWorkers:    a.noncitizen,
			NoncitizenPercentage: a.noncitizen / a.total * 100,
		})
		totalWorkers += a.total
		totalNoncitizen += a.noncitizen
	}

	sort.Slice(shares, func(i, j int) bool {
		if shares[i].NoncitizenPercentage != shares[j].NoncitizenPercentage {
			return shares[i].NoncitizenPercentage > shares[j].NoncitizenPercentage
		}
		return shares[i].IndustryCode < shares[j].IndustryCode
	})

	p := message.NewPrinter(language.English)
	zap.L().Info("computed noncitizen shares",
		zap.Int("person_records", len(records)),
		zap.Int("skipped", skipped),
		zap.Int("industries", len(shares)),
		zap.String("total_workers", p.Sprintf("%.0f", totalWorkers)),
		zap.String("noncitizen_workers", p.Sprintf("%.0f", totalNoncitizen)),
	)
	return shares
}
