package dashboard

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/harbor-data/model.report/internal/httputil"
)

const timeAxisFormat = "2006-01-02"

// handleMetricsChart renders one line per metric across the rolling windows,
// X axis labelled by each window's end date.
func (s *Server) handleMetricsChart(w http.ResponseWriter, r *http.Request) {
	rep := s.report()

	names := rep.MetricNames()
	if len(names) == 0 {
		httputil.NotFound(w, "no metric rows to chart")
		return
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Metrics over time", Width: "100%", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Model performance by window",
			Subtitle: fmt.Sprintf("period=%s windows=%d", rep.Period, len(rep.RowsFor(names[0]))),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Min: 0, Max: 1, Name: "value"}),
	)

	first := rep.RowsFor(names[0])
	x := make([]string, len(first))
	for i, row := range first {
		x[i] = row.End.Format(timeAxisFormat)
	}
	line.SetXAxis(x)

	for _, name := range names {
		rows := rep.RowsFor(name)
		data := make([]opts.LineData, len(rows))
		for i, row := range rows {
			data[i] = opts.LineData{Value: row.Value}
		}
		line.AddSeries(name, data,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)
	}

	renderChart(w, line)
}

// handleCountsChart renders a bar chart of how many observations landed in
// each window.
func (s *Server) handleCountsChart(w http.ResponseWriter, r *http.Request) {
	rep := s.report()

	names := rep.MetricNames()
	if len(names) == 0 {
		httputil.NotFound(w, "no metric rows to chart")
		return
	}
	rows := rep.RowsFor(names[0])

	x := make([]string, len(rows))
	y := make([]opts.BarData, len(rows))
	for i, row := range rows {
		x[i] = row.End.Format(timeAxisFormat)
		y[i] = opts.BarData{Value: row.Count}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Window sizes", Width: "100%", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{Title: "Observations per window", Subtitle: fmt.Sprintf("total=%d", rep.RecordCount)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(x).
		AddSeries("observations", y,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)

	renderChart(w, bar)
}

// handleScoresChart renders raw observation scores over time, colored by
// whether the prediction matched the truth.
func (s *Server) handleScoresChart(w http.ResponseWriter, r *http.Request) {
	rep := s.report()
	if len(rep.Results) == 0 {
		httputil.NotFound(w, "no scored observations to chart")
		return
	}

	var hits, misses []opts.ScatterData
	for _, res := range rep.Results {
		pt := opts.ScatterData{Value: []interface{}{res.Timestamp.Format(time.RFC3339), res.Score}}
		if res.Predicted == res.Truth {
			hits = append(hits, pt)
		} else {
			misses = append(misses, pt)
		}
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Scores", Width: "100%", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Prediction scores",
			Subtitle: fmt.Sprintf("n=%d mean=%.3f", rep.RecordCount, rep.Scores.Mean),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "time"}),
		charts.WithYAxisOpts(opts.YAxis{Min: 0, Max: 1, Name: "score"}),
	)
	scatter.AddSeries("correct", hits,
		charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 6}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: "#35b779"}))
	scatter.AddSeries("mispredicted", misses,
		charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 8}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: "#ff5252"}))

	renderChart(w, scatter)
}

// renderable is what every go-echarts chart exposes for HTML rendering.
type renderable interface {
	Render(w io.Writer) error
}

func renderChart(w http.ResponseWriter, c renderable) {
	var buf bytes.Buffer
	if err := c.Render(&buf); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to render chart: %v", err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
