package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/econlink/internal/config"
	"github.com/sells-group/econlink/internal/pums"
	"github.com/sells-group/econlink/internal/series"
	"github.com/sells-group/econlink/internal/stage"
)

func testApp(t *testing.T) *app {
	t.Helper()
	root := t.TempDir()
	return &app{cfg: &config.Config{
		Data: config.DataConfig{
			RawDir:       filepath.Join(root, "raw"),
			ProcessedDir: filepath.Join(root, "processed"),
			OutputDir:    filepath.Join(root, "output"),
		},
		Analysis: config.AnalysisConfig{
			StartMonth:                "2023-01",
			TopPercentile:             0.5,
			LookbackMonths:            12,
			CorrelationLookbackMonths: 24,
			RollingWindow:             3,
			CorrelationWindow:         6,
			GrowthAnomalyThreshold:    200,
		},
	}}
}

// seedRawFiles writes the raw stage files the fetch step would produce: two
// industries, one noncitizen-heavy, each with employment and earnings series.
func seedRawFiles(t *testing.T, a *app) {
	t.Helper()

	persons := []pums.PersonRecord{
		{Industry: "2361", Citizenship: 5, Weight: 30},
		{Industry: "2361", Citizenship: 1, Weight: 70},
		{Industry: "5411", Citizenship: 5, Weight: 10},
		{Industry: "5411", Citizenship: 1, Weight: 90},
	}
	require.NoError(t, stage.Save(a.rawPath(stage.FilePersons), persons))

	blsRows := []struct {
		IndustryCode     string `csv:"industry_code"`
		NaicsCode        string `csv:"naics_code"`
		IndustryName     string `csv:"industry_name"`
		DisplayLevel     string `csv:"display_level"`
		PublishingStatus string `csv:"publishing_status"`
	}{
		{"20236100", "2361", "Residential building", "4", "A"},
		{"60541100", "5411", "Legal services", "4", "A"},
	}
	require.NoError(t, stage.Save(a.rawPath(stage.FileBLSIndustry), blsRows))

	catalog := []series.CatalogEntry{
		{SeriesID: "CES2023610001", SupersectorCode: "20", IndustryCode: "20236100", DataTypeCode: "01", SeasonalCode: "S"},
		{SeriesID: "CES2023610003", SupersectorCode: "20", IndustryCode: "20236100", DataTypeCode: "03", SeasonalCode: "S"},
		{SeriesID: "CES6054110001", SupersectorCode: "60", IndustryCode: "60541100", DataTypeCode: "01", SeasonalCode: "S"},
		{SeriesID: "CES6054110003", SupersectorCode: "60", IndustryCode: "60541100", DataTypeCode: "03", SeasonalCode: "S"},
	}
	require.NoError(t, stage.Save(a.rawPath(stage.FileCatalog), catalog))

	var obs []series.Observation
	for _, id := range []string{"CES2023610001", "CES2023610003", "CES6054110001", "CES6054110003"} {
		value := 100.0
		for month := 1; month <= 12; month++ {
			obs = append(obs, series.Observation{
				SeriesID: id, Year: 2023, Period: fmt.Sprintf("M%02d", month), Value: value,
			})
			value *= 1.01 + 0.005*float64(month%3)
		}
	}
	require.NoError(t, stage.Save(a.rawPath(stage.FileObservations), obs))
}

func TestBuildSteps_Order(t *testing.T) {
	a := testApp(t)
	steps := a.buildSteps()
	require.Len(t, steps, 3)
	assert.Equal(t, stepFetch, steps[0].Name)
	assert.Equal(t, stepProcess, steps[1].Name)
	assert.Equal(t, stepAnalyze, steps[2].Name)
}

func TestRunProcess(t *testing.T) {
	a := testApp(t)
	seedRawFiles(t, a)

	require.NoError(t, a.runProcess(context.Background()))

	mappings, err := stage.Load[series.Mapping](a.processedPath(stage.FileMappings), stepProcess)
	require.NoError(t, err)
	require.Len(t, mappings, 2)

	byCode := map[string]series.Mapping{}
	for _, m := range mappings {
		byCode[m.IndustryCode] = m
	}
	assert.Equal(t, "CES2023610001", byCode["2361"].EmploymentSeriesID)
	assert.Equal(t, "CES2023610003", byCode["2361"].EarningsSeriesID)
	assert.InDelta(t, 30, byCode["2361"].NoncitizenPercentage, 1e-9)
	assert.InDelta(t, 10, byCode["5411"].NoncitizenPercentage, 1e-9)
}

func TestRunProcess_MissingRawFails(t *testing.T) {
	a := testApp(t)
	err := a.runProcess(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `run "fetch" first`)
}

func TestRunAnalyze(t *testing.T) {
	a := testApp(t)
	seedRawFiles(t, a)
	require.NoError(t, a.runProcess(context.Background()))

	require.NoError(t, a.runAnalyze(context.Background()))

	growth, err := stage.Load[series.GrowthPoint](a.processedPath(stage.FileGrowth), stepAnalyze)
	require.NoError(t, err)
	// 4 series, 12 months each, first month has no prior.
	assert.Len(t, growth, 4*11)

	// One session directory with the summary outputs.
	sessions, err := os.ReadDir(filepath.Join(a.cfg.Data.OutputDir, "cohort"))
	require.NoError(t, err)
	require.Len(t, sessions, 1)

	sessionDir := filepath.Join(a.cfg.Data.OutputDir, "cohort", sessions[0].Name())
	assert.FileExists(t, filepath.Join(sessionDir, "group_summary.csv"))
	assert.FileExists(t, filepath.Join(sessionDir, "top_sectors.csv"))
	assert.FileExists(t, filepath.Join(sessionDir, "employment_growth.png"))
	assert.FileExists(t, filepath.Join(sessionDir, "employment_growth.csv"))
	assert.FileExists(t, filepath.Join(sessionDir, "earnings_growth.png"))
	assert.FileExists(t, filepath.Join(sessionDir, "employment_correlation.png"))
	assert.FileExists(t, filepath.Join(sessionDir, "employment_correlation.csv"))
}

func TestRunAnalyze_ConfiguredLabels(t *testing.T) {
	a := testApp(t)
	a.cfg.Analysis.TopLabel = "High Immigration Cohort"
	a.cfg.Analysis.OtherLabel = "Remaining Industries"
	seedRawFiles(t, a)
	require.NoError(t, a.runProcess(context.Background()))

	require.NoError(t, a.runAnalyze(context.Background()))

	sessions, err := os.ReadDir(filepath.Join(a.cfg.Data.OutputDir, "cohort"))
	require.NoError(t, err)
	require.Len(t, sessions, 1)

	summary, err := os.ReadFile(filepath.Join(a.cfg.Data.OutputDir, "cohort", sessions[0].Name(), "group_summary.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(summary), "High Immigration Cohort")
	assert.Contains(t, string(summary), "Remaining Industries")
	assert.NotContains(t, string(summary), "All Other Industries")
}
