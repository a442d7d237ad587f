package main

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	scierr "github.com/parsearch/parsearch/pkg/errors"
)

// writeTimingChart renders the benchmarked strategies as a bar chart of
// elapsed seconds.
func writeTimingChart(path string, timings []timing) error {
	if len(timings) == 0 {
		return scierr.NewValueError("writeTimingChart", "nothing to plot")
	}

	p := plot.New()
	p.Title.Text = "Hyper-parameter search timing"
	p.Y.Label.Text = "elapsed (s)"

	values := make(plotter.Values, len(timings))
	labels := make([]string, len(timings))
	for i, t := range timings {
		values[i] = t.Elapsed.Seconds()
		labels[i] = t.Label
	}

	bars, err := plotter.NewBarChart(values, vg.Points(30))
	if err != nil {
		return scierr.Wrap(err, "build bar chart")
	}
	bars.LineStyle.Width = 0

	p.Add(bars)
	p.NominalX(labels...)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return scierr.Wrap(err, "save chart")
	}
	return nil
}
