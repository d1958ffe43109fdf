package report

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/econlink/internal/cohort"
	"github.com/sells-group/econlink/internal/series"
)

func TestNewSession(t *testing.T) {
	root := t.TempDir()
	now := time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)

	s, err := NewSession(root, "growth", now)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "growth", "2024-03-15_093000"), s.Dir)
	assert.DirExists(t, s.Dir)
	assert.Equal(t, filepath.Join(s.Dir, "chart.png"), s.Path("chart.png"))
}

func TestGroupChart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "growth.png")
	gs := cohort.GroupSeries{
		Measure: series.MeasureEmployment,
		Periods: []string{"2023-01", "2023-02", "2023-03"},
		Top:     []float64{1.5, math.NaN(), 2.5},
		Other:   []float64{0.5, 0.7, 0.9},
	}

	require.NoError(t, GroupChart(path, "Employment growth", "Annualized growth (%)", gs, cohort.TopLabel(0.9), cohort.OtherLabel))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestCorrelationChart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corr.png")
	periods := []string{"2023-01", "2023-02", "2023-03", "2023-04"}
	corr := []float64{math.NaN(), math.NaN(), 0.8, -0.2}

	require.NoError(t, CorrelationChart(path, "Rolling correlation", periods, corr))
	assert.FileExists(t, path)
}

func TestGroupChart_BadPeriod(t *testing.T) {
	gs := cohort.GroupSeries{Periods: []string{"bogus"}, Top: []float64{1}, Other: []float64{2}}
	err := GroupChart(filepath.Join(t.TempDir(), "x.png"), "t", "y", gs, "Top", cohort.OtherLabel)
	assert.Error(t, err)
}

func TestWriteGroupSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.csv")
	rows := []GroupSummary{
		{Measure: series.MeasureEmployment, Group: "Top 10% Immigration", LookbackMonths: 12, AvgGrowth: 3.2},
		{Measure: series.MeasureEmployment, Group: cohort.OtherLabel, LookbackMonths: 12, AvgGrowth: 1.1},
	}
	require.NoError(t, WriteGroupSummary(path, rows))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Top 10% Immigration")
	assert.Contains(t, string(data), "avg_annualized_growth")
}

func TestWriteChartData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	periods := []string{"2023-01", "2023-02"}
	values := [][]float64{{1.5, math.NaN()}, {0.25, 0.5}}

	require.NoError(t, WriteChartData(path, periods, []string{"top", "other"}, values))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "year_month,top,other", lines[0])
	// NaN renders empty.
	assert.Equal(t, "2023-02,,0.500000", lines[2])
}

func TestWriteChartData_ColumnMismatch(t *testing.T) {
	err := WriteChartData(filepath.Join(t.TempDir(), "x.csv"), nil, []string{"a"}, nil)
	assert.Error(t, err)
}
