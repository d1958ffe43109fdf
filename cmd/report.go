package main

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/econlink/internal/cohort"
	"github.com/sells-group/econlink/internal/report"
	"github.com/sells-group/econlink/internal/series"
)

// report runs the cohort analysis and writes charts, summaries, and chart
// data into a timestamped session directory.
func (a *app) report(records []series.AnalysisRecord) error {
	cutoff := cohort.Threshold(records, a.cfg.Analysis.TopPercentile)
	topLabel := a.cfg.Analysis.TopLabel
	if topLabel == "" {
		topLabel = cohort.TopLabel(a.cfg.Analysis.TopPercentile)
	}
	otherLabel := a.cfg.Analysis.OtherLabel
	if otherLabel == "" {
		otherLabel = cohort.OtherLabel
	}
	grouped := cohort.AssignGroups(records, cutoff, topLabel, otherLabel)

	session, err := report.NewSession(a.cfg.Data.OutputDir, "cohort", time.Now())
	if err != nil {
		return err
	}

	var summaries []report.GroupSummary
	for _, measure := range []series.Measure{series.MeasureEmployment, series.MeasureEarnings} {
		gs := cohort.BuildGroupSeries(grouped, measure, topLabel)
		if len(gs.Periods) == 0 {
			zap.L().Warn("no data for measure", zap.String("measure", string(measure)))
			continue
		}

		smoothed := cohort.GroupSeries{
			Measure: measure,
			Periods: gs.Periods,
			Top:     cohort.RollingMean(gs.Top, a.cfg.Analysis.RollingWindow),
			Other:   cohort.RollingMean(gs.Other, a.cfg.Analysis.RollingWindow),
		}

		lookback := a.cfg.Analysis.LookbackMonths
		window := gs.Tail(lookback)
		chartTitle := fmt.Sprintf("Annualized %s growth, last %d months", measure, lookback)
		if err := report.GroupChart(
			session.Path(fmt.Sprintf("%s_growth.png", measure)),
			chartTitle, "Annualized growth (%)",
			smoothed.Tail(lookback), topLabel, otherLabel,
		); err != nil {
			return err
		}
		if err := report.WriteChartData(
			session.Path(fmt.Sprintf("%s_growth.csv", measure)),
			window.Periods,
			[]string{"top", "other", "top_smoothed", "other_smoothed"},
			[][]float64{
				window.Top, window.Other,
				smoothed.Tail(lookback).Top, smoothed.Tail(lookback).Other,
			},
		); err != nil {
			return err
		}

		topAvg, otherAvg := cohort.GroupAverages(gs, lookback)
		summaries = append(summaries,
			report.GroupSummary{Measure: measure, Group: topLabel, LookbackMonths: lookback, AvgGrowth: topAvg},
			report.GroupSummary{Measure: measure, Group: otherLabel, LookbackMonths: lookback, AvgGrowth: otherAvg},
		)
	}
	if err := report.WriteGroupSummary(session.Path("group_summary.csv"), summaries); err != nil {
		return err
	}

	if err := report.WriteTopSectors(
		session.Path("top_sectors.csv"),
		cohort.TopSectors(grouped, topLabel, 25),
	); err != nil {
		return err
	}

	return a.correlationReport(grouped, topLabel, session)
}

// correlationReport compares employment growth of the two cohorts over the
// longer correlation lookback.
func (a *app) correlationReport(grouped []cohort.GroupedRecord, topLabel string, session *report.Session) error {
	gs := cohort.BuildGroupSeries(grouped, series.MeasureEmployment, topLabel)
	window := gs.Tail(a.cfg.Analysis.CorrelationLookbackMonths)
	if len(window.Periods) == 0 {
		zap.L().Warn("no employment data for correlation analysis")
		return nil
	}

	overall := window.Correlation()
	rolling := cohort.RollingCorrelation(window.Top, window.Other, a.cfg.Analysis.CorrelationWindow)
	zap.L().Info("cohort correlation",
		zap.Float64("overall", overall),
		zap.Int("periods", len(window.Periods)),
	)

	title := fmt.Sprintf("Employment growth correlation (overall %.2f)", overall)
	if err := report.CorrelationChart(session.Path("employment_correlation.png"), title, window.Periods, rolling); err != nil {
		return err
	}
	return report.WriteChartData(
		session.Path("employment_correlation.csv"),
		window.Periods,
		[]string{"top", "other", "rolling_correlation"},
		[][]float64{window.Top, window.Other, rolling},
	)
}
