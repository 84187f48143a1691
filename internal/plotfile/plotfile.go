// Package plotfile writes archival PNG trend plots for a report run, one per
// metric. Useful when runs are kept on disk next to the board rather than
// viewed live.
package plotfile

import (
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/harbor-data/model.report/internal/metrics"
	"github.com/harbor-data/model.report/internal/monitoring"
)

// WriteTrends writes one line plot per metric into dir and returns the
// created file paths. Rows must already be in window order, as produced by
// the rolling calculator.
func WriteTrends(dir string, rows []metrics.WindowRow) ([]string, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no metric rows to plot")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create plot directory: %w", err)
	}

	byMetric := make(map[string][]metrics.WindowRow)
	var order []string
	for _, row := range rows {
		if _, seen := byMetric[row.Metric]; !seen {
			order = append(order, row.Metric)
		}
		byMetric[row.Metric] = append(byMetric[row.Metric], row)
	}

	logf := monitoring.Prefixed("plotfile")
	var paths []string
	for _, name := range order {
		path := filepath.Join(dir, name+".png")
		if err := writeTrend(path, name, byMetric[name]); err != nil {
			return nil, err
		}
		logf("wrote %s (%d windows)", path, len(byMetric[name]))
		paths = append(paths, path)
	}
	return paths, nil
}

func writeTrend(path, name string, rows []metrics.WindowRow) error {
	p := plot.New()
	p.Title.Text = name + " by window"
	p.X.Label.Text = "window end"
	p.Y.Label.Text = name
	p.Y.Min, p.Y.Max = 0, 1
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}

	pts := make(plotter.XYs, len(rows))
	for i, row := range rows {
		pts[i].X = float64(row.End.Unix())
		pts[i].Y = row.Value
	}

	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return fmt.Errorf("failed to build %s plot: %w", name, err)
	}
	p.Add(line, points)

	if err := p.Save(8*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save %s plot: %w", name, err)
	}
	return nil
}
