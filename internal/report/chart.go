package report

import (
	"image/color"
	"math"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/sells-group/econlink/internal/cohort"
)

var (
	topColor   = color.RGBA{R: 0x4e, G: 0x81, B: 0xbd, A: 255}
	otherColor = color.RGBA{R: 0xca, G: 0xbd, B: 0x8f, A: 255}
	zeroColor  = color.RGBA{R: 120, G: 120, B: 120, A: 255}
)

// periodTime parses a "YYYY-MM" period into its first day.
func periodTime(period string) (time.Time, error) {
	t, err := time.Parse("2006-01", period)
	if err != nil {
		return time.Time{}, eris.Wrapf(err, "chart: parse period %q", period)
	}
	return t, nil
}

// seriesPoints converts a period-aligned series to XY points, skipping NaN.
func seriesPoints(periods []string, values []float64) (plotter.XYs, error) {
	pts := make(plotter.XYs, 0, len(periods))
	for i, p := range periods {
		if math.IsNaN(values[i]) {
			continue
		}
		t, err := periodTime(p)
		if err != nil {
			return nil, err
		}
		pts = append(pts, plotter.XY{X: float64(t.Unix()), Y: values[i]})
	}
	return pts, nil
}

func newTimePlot(title, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Tick.Marker = plot.TimeTicks{Format: "Jan-06"}
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())
	return p
}

func addLine(p *plot.Plot, pts plotter.XYs, label string, c color.Color) error {
	line, err := plotter.NewLine(pts)
	if err != nil {
		return eris.Wrap(err, "chart: new line")
	}
	line.Color = c
	line.Width = vg.Points(2)
	p.Add(line)
	p.Legend.Add(label, line)
	return nil
}

func addZeroLine(p *plot.Plot, periods []string) error {
	if len(periods) == 0 {
		return nil
	}
	first, err := periodTime(periods[0])
	if err != nil {
		return err
	}
	last, err := periodTime(periods[len(periods)-1])
	if err != nil {
		return err
	}
	zero, err := plotter.NewLine(plotter.XYs{
		{X: float64(first.Unix()), Y: 0},
		{X: float64(last.Unix()), Y: 0},
	})
	if err != nil {
		return eris.Wrap(err, "chart: zero line")
	}
	zero.Color = zeroColor
	zero.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	p.Add(zero)
	return nil
}

// GroupChart renders the two cohort series as a line chart with a dashed zero
// line and saves it to path.
func GroupChart(path, title, yLabel string, gs cohort.GroupSeries, topLabel, otherLabel string) error {
	p := newTimePlot(title, yLabel)
	p.Legend.Top = true

	topPts, err := seriesPoints(gs.Periods, gs.Top)
	if err != nil {
		return err
	}
	otherPts, err := seriesPoints(gs.Periods, gs.Other)
	if err != nil {
		return err
	}
	if err := addLine(p, topPts, topLabel, topColor); err != nil {
		return err
	}
	if err := addLine(p, otherPts, otherLabel, otherColor); err != nil {
		return err
	}
	if err := addZeroLine(p, gs.Periods); err != nil {
		return err
	}

	if err := p.Save(10*vg.Inch, 6*vg.Inch, path); err != nil {
		return eris.Wrapf(err, "chart: save %s", path)
	}
	zap.L().Info("wrote chart", zap.String("path", path))
	return nil
}

// CorrelationChart renders a rolling correlation series bounded to [-1, 1].
func CorrelationChart(path, title string, periods []string, corr []float64) error {
	p := newTimePlot(title, "Correlation")
	p.Y.Min = -1
	p.Y.Max = 1

	pts, err := seriesPoints(periods, corr)
	if err != nil {
		return err
	}
	if err := addLine(p, pts, "Rolling correlation", topColor); err != nil {
		return err
	}
	if err := addZeroLine(p, periods); err != nil {
		return err
	}

	if err := p.Save(10*vg.Inch, 6*vg.Inch, path); err != nil {
		return eris.Wrapf(err, "chart: save %s", path)
	}
	zap.L().Info("wrote chart", zap.String("path", path))
	return nil
}
