package report

import (
	"encoding/csv"
	"math"
	"os"
	"strconv"

	"github.com/gocarina/gocsv"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/econlink/internal/cohort"
	"github.com/sells-group/econlink/internal/series"
)

// GroupSummary is one cohort's average growth for one measure over the
// lookback window.
type GroupSummary struct {
	Measure        series.Measure `csv:"measure"`
	Group          string         `csv:"group"`
	LookbackMonths int            `csv:"lookback_months"`
	AvgGrowth      float64        `csv:"avg_annualized_growth"`
}

// WriteGroupSummary writes cohort summary rows as CSV.
func WriteGroupSummary(path string, rows []GroupSummary) error {
	return writeCSV(path, &rows)
}

// WriteTopSectors writes the ranked top-cohort industry list as CSV.
func WriteTopSectors(path string, sectors []cohort.Sector) error {
	return writeCSV(path, &sectors)
}

func writeCSV(path string, rows any) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "report: create %s", path)
	}
	defer f.Close() //nolint:errcheck

	if err := gocsv.MarshalFile(rows, f); err != nil {
		return eris.Wrapf(err, "report: write %s", path)
	}
	zap.L().Info("wrote summary", zap.String("path", path))
	return nil
}

// WriteChartData writes the period-aligned series behind a chart as CSV, one
// row per period and one column per series. NaN renders as an empty cell, so
// spreadsheet tools read the gaps as missing rather than text.
func WriteChartData(path string, periods []string, columns []string, values [][]float64) error {
	if len(columns) != len(values) {
		return eris.Errorf("report: %d columns but %d value series", len(columns), len(values))
	}

	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "report: create %s", path)
	}
	defer f.Close() //nolint:errcheck

	w := csv.NewWriter(f)
	if err := w.Write(append([]string{"year_month"}, columns...)); err != nil {
		return eris.Wrapf(err, "report: write header %s", path)
	}
	for i, period := range periods {
		row := make([]string, 0, len(columns)+1)
		row = append(row, period)
		for _, col := range values {
			if math.IsNaN(col[i]) {
				row = append(row, "")
			} else {
				row = append(row, strconv.FormatFloat(col[i], 'f', 6, 64))
			}
		}
		if err := w.Write(row); err != nil {
			return eris.Wrapf(err, "report: write row %s", path)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrapf(err, "report: flush %s", path)
	}
	zap.L().Info("wrote chart data", zap.String("path", path), zap.Int("periods", len(periods)))
	return nil
}
