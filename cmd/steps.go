package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/econlink/internal/industry"
	"github.com/sells-group/econlink/internal/pipeline"
	"github.com/sells-group/econlink/internal/pums"
	"github.com/sells-group/econlink/internal/series"
	"github.com/sells-group/econlink/internal/stage"
)

// Step names, shared between the subcommands and the step log.
const (
	stepFetch   = "fetch"
	stepProcess = "process"
	stepAnalyze = "analyze"
)

// buildSteps assembles the full run in order.
func (a *app) buildSteps() []pipeline.Step {
	return []pipeline.Step{
		{Name: stepFetch, Run: a.runFetch},
		{Name: stepProcess, Run: a.runProcess},
		{Name: stepAnalyze, Run: a.runAnalyze},
	}
}

// runFetch downloads the PUMS microdata and the three CE flat files and
// writes them as raw stage files.
func (a *app) runFetch(ctx context.Context) error {
	persons, err := a.census.FetchPUMS(ctx, a.cfg.Fetch.PUMSYear)
	if err != nil {
		return err
	}
	if err := stage.Save(a.rawPath(stage.FilePersons), persons); err != nil {
		return err
	}

	industries, err := a.bls.Industries(ctx)
	if err != nil {
		return err
	}
	if err := stage.Save(a.rawPath(stage.FileBLSIndustry), industries); err != nil {
		return err
	}

	catalog, err := a.bls.Series(ctx)
	if err != nil {
		return err
	}
	if err := stage.Save(a.rawPath(stage.FileCatalog), catalog); err != nil {
		return err
	}

	obs, err := a.bls.Observations(ctx)
	if err != nil {
		return err
	}
	return stage.Save(a.rawPath(stage.FileObservations), obs)
}

// runProcess computes noncitizen shares, joins them to BLS industries, and
// resolves the employment and earnings series for each match.
func (a *app) runProcess(ctx context.Context) error {
	persons, err := stage.Load[pums.PersonRecord](a.rawPath(stage.FilePersons), stepFetch)
	if err != nil {
		return err
	}
	shares := pums.ComputeShares(persons)
	if err := stage.Save(a.processedPath(stage.FileShares), shares); err != nil {
		return err
	}

	blsRows, err := stage.Load[industry.BLSIndustry](a.rawPath(stage.FileBLSIndustry), stepFetch)
	if err != nil {
		return err
	}
	matched, stats := industry.Match(shares, industry.ExpandAll(blsRows))
	for _, m := range industry.TopUnmatched(matched, 10) {
		zap.L().Warn("unmatched industry",
			zap.String("industry_code", m.IndustryCode),
			zap.Float64("total_workers", m.TotalWorkers),
		)
	}
	zap.L().Info("match rate", zap.Float64("pct", stats.MatchedPct()))
	if err := stage.Save(a.processedPath(stage.FileMatched), matched); err != nil {
		return err
	}

	catalog, err := stage.Load[series.CatalogEntry](a.rawPath(stage.FileCatalog), stepFetch)
	if err != nil {
		return err
	}
	mappings := series.Resolve(matched, catalog, series.DefaultResolveOptions())
	return stage.Save(a.processedPath(stage.FileMappings), mappings)
}

// runAnalyze computes growth rates, splits industries into cohorts, and
// writes charts and summary tables into a fresh report session.
func (a *app) runAnalyze(ctx context.Context) error {
	mappings, err := stage.Load[series.Mapping](a.processedPath(stage.FileMappings), stepProcess)
	if err != nil {
		return err
	}
	obs, err := stage.Load[series.Observation](a.rawPath(stage.FileObservations), stepFetch)
	if err != nil {
		return err
	}

	filtered := series.FilterObservations(obs, series.SeriesIDs(mappings), a.cfg.Analysis.StartMonth)
	growth := series.ComputeGrowth(filtered, a.cfg.Analysis.GrowthAnomalyThreshold)
	if err := stage.Save(a.processedPath(stage.FileGrowth), growth); err != nil {
		return err
	}

	records := series.BuildAnalysis(mappings, growth)
	if err := stage.Save(a.processedPath(stage.FileAnalysis), records); err != nil {
		return err
	}

	return a.report(records)
}
