// Package report runs one monitoring pass: resolve the model and dataset
// pins, predict, encode labels, compute rolling metrics, and assemble
// everything the dashboard displays. The run is synchronous and pure apart
// from the two board reads; every failure propagates to the caller.
package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gonum.org/v1/gonum/stat"

	"github.com/harbor-data/model.report/internal/board"
	"github.com/harbor-data/model.report/internal/config"
	"github.com/harbor-data/model.report/internal/metrics"
	"github.com/harbor-data/model.report/internal/model"
	"github.com/harbor-data/model.report/internal/monitoring"
	"github.com/harbor-data/model.report/internal/obs"
	"github.com/harbor-data/model.report/internal/predict"
	"github.com/harbor-data/model.report/internal/timeutil"
)

var (
	runsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "modelreport_runs_total",
		Help: "Total number of completed report runs.",
	})
	runsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "modelreport_runs_failed_total",
		Help: "Total number of failed report runs.",
	})
	runDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "modelreport_run_duration_seconds",
		Help:    "Duration of a full report run.",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
	})
)

// ScoreSummary aggregates the model's scores over the batch.
type ScoreSummary struct {
	Mean float64 `json:"mean"`
	P50  float64 `json:"p50"`
	P90  float64 `json:"p90"`
}

// Report is everything one monitoring run hands to the presentation layer.
type Report struct {
	GeneratedAt time.Time `json:"generated_at"`

	// Model value boxes.
	ModelName        string    `json:"model_name"`
	ModelDescription string    `json:"model_description"`
	ModelVersion     string    `json:"model_version"`
	ModelCreated     time.Time `json:"model_created"`
	ModelAgeDays     int       `json:"model_age_days"`

	DatasetVersion string `json:"dataset_version"`
	RecordCount    int    `json:"record_count"`

	Period time.Duration `json:"period_nanos"`

	// One row per (window, metric); the table and charts render these.
	Rows []metrics.WindowRow `json:"rows"`

	// Per-observation predictions for the raw-data chart.
	Results []predict.Result `json:"results"`

	Scores ScoreSummary `json:"scores"`

	// Raw dataset for ad hoc charting.
	Observations *obs.Dataset `json:"-"`

	DocsURL string `json:"docs_url"`
}

// Run executes one monitoring pass against the given board.
func Run(ctx context.Context, cfg *config.Config, resolver board.Resolver, clock timeutil.Clock) (rep *Report, err error) {
	logf := monitoring.Prefixed("report")
	started := time.Now()
	defer func() {
		if err != nil {
			runsFailed.Inc()
			return
		}
		runsTotal.Inc()
		runDuration.Observe(time.Since(started).Seconds())
	}()

	modelPayload, modelMeta, err := resolver.Resolve(ctx, cfg.GetModelPin())
	if err != nil {
		return nil, fmt.Errorf("failed to resolve model pin: %w", err)
	}
	scorer, err := model.Decode(modelPayload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode model %q: %w", modelMeta.Name, err)
	}

	dataPayload, dataMeta, err := resolver.Resolve(ctx, cfg.GetDatasetPin())
	if err != nil {
		return nil, fmt.Errorf("failed to resolve dataset pin: %w", err)
	}
	ds, err := obs.Decode(dataPayload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode dataset %q: %w", dataMeta.Name, err)
	}
	logf("resolved model %s (version %s) and %d observations",
		modelMeta.Name, modelMeta.Version, len(ds.Observations))

	results, err := predict.Apply(scorer, ds)
	if err != nil {
		return nil, err
	}

	mapping := cfg.GetLabels()
	truthLabels := make([]string, len(results))
	predLabels := make([]string, len(results))
	for i, r := range results {
		truthLabels[i] = r.Truth
		predLabels[i] = r.Predicted
	}
	truth, err := mapping.Encode(truthLabels)
	if err != nil {
		return nil, fmt.Errorf("truth labels: %w", err)
	}
	pred, err := mapping.Encode(predLabels)
	if err != nil {
		return nil, fmt.Errorf("predicted labels: %w", err)
	}

	ms, err := metrics.ByName(cfg.GetMetrics())
	if err != nil {
		return nil, err
	}
	samples := make([]metrics.Sample, len(results))
	for i, r := range results {
		samples[i] = metrics.Sample{Time: r.Timestamp, Truth: truth[i], Pred: pred[i]}
	}
	rows, err := metrics.Rolling(samples, cfg.GetPeriod(), ms)
	if err != nil {
		return nil, err
	}
	logf("computed %d metric rows over %d windows", len(rows), len(rows)/len(ms))

	now := clock.Now()
	return &Report{
		GeneratedAt:      now,
		ModelName:        modelMeta.Name,
		ModelDescription: modelMeta.Description,
		ModelVersion:     modelMeta.Version,
		ModelCreated:     modelMeta.Created,
		ModelAgeDays:     model.AgeDays(modelMeta.Created, now),
		DatasetVersion:   dataMeta.Version,
		RecordCount:      len(results),
		Period:           cfg.GetPeriod(),
		Rows:             rows,
		Results:          results,
		Scores:           summariseScores(results),
		Observations:     ds,
		DocsURL:          cfg.GetDocsURL(),
	}, nil
}

func summariseScores(results []predict.Result) ScoreSummary {
	if len(results) == 0 {
		return ScoreSummary{}
	}
	scores := make([]float64, len(results))
	for i, r := range results {
		scores[i] = r.Score
	}
	mean := stat.Mean(scores, nil)
	sort.Float64s(scores)
	return ScoreSummary{
		Mean: mean,
		P50:  stat.Quantile(0.5, stat.Empirical, scores, nil),
		P90:  stat.Quantile(0.9, stat.Empirical, scores, nil),
	}
}

// MetricNames returns the distinct metric names in first-appearance order,
// which matches the configured declaration order.
func (r *Report) MetricNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, row := range r.Rows {
		if !seen[row.Metric] {
			seen[row.Metric] = true
			names = append(names, row.Metric)
		}
	}
	return names
}

// RowsFor returns the rows for one metric, preserving window order.
func (r *Report) RowsFor(metric string) []metrics.WindowRow {
	var out []metrics.WindowRow
	for _, row := range r.Rows {
		if row.Metric == metric {
			out = append(out, row)
		}
	}
	return out
}
