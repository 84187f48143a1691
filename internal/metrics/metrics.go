// Package metrics computes classification performance metrics over rolling
// time windows. Windows are anchored backward from the most recent
// observation rather than to calendar boundaries, so the newest window always
// ends at the latest data point.
package metrics

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// Sample is one scored observation: a timestamp plus the numerically encoded
// truth and predicted labels.
type Sample struct {
	Time  time.Time
	Truth float64
	Pred  float64
}

// Func maps parallel truth/prediction sequences to a scalar value.
// Implementations must not mutate their arguments.
type Func func(truth, pred []float64) float64

// Metric pairs a Func with the name it is reported under.
type Metric struct {
	Name string
	Fn   Func
}

// WindowRow is one computed (window, metric) cell. Start is exclusive and End
// is inclusive: the row covers samples with Start < t <= End.
type WindowRow struct {
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Metric string    `json:"metric"`
	Value  float64   `json:"value"`
	Count  int       `json:"count"`
}

var (
	// ErrInvalidConfig reports an unusable period or metric list.
	ErrInvalidConfig = errors.New("invalid metrics configuration")

	// ErrEmptyInput reports that there were no samples to bucket.
	ErrEmptyInput = errors.New("no samples to bucket")
)

// Rolling partitions samples into consecutive windows of length period,
// walking backward from the maximum timestamp, and evaluates every metric
// over each non-empty window.
//
// The window containing the maximum timestamp has that timestamp as its upper
// edge. A sample falling exactly on an interior boundary belongs to the older
// window (intervals are (start, end]). Windows with no samples produce no
// rows. Rows are ordered by ascending Start, then by the declaration order of
// metrics, and the same input always yields the same rows.
func Rolling(samples []Sample, period time.Duration, metrics []Metric) ([]WindowRow, error) {
	if len(metrics) == 0 {
		return nil, fmt.Errorf("%w: metric list is empty", ErrInvalidConfig)
	}
	for _, m := range metrics {
		if m.Name == "" || m.Fn == nil {
			return nil, fmt.Errorf("%w: metric %q has no function", ErrInvalidConfig, m.Name)
		}
	}
	if period <= 0 {
		return nil, fmt.Errorf("%w: period must be positive, got %v", ErrInvalidConfig, period)
	}
	if len(samples) == 0 {
		return nil, ErrEmptyInput
	}

	latest := samples[0].Time
	for _, s := range samples[1:] {
		if s.Time.After(latest) {
			latest = s.Time
		}
	}

	// Window index counts back from the latest sample: index i covers
	// (latest-(i+1)*period, latest-i*period]. Integer division of the
	// nanosecond gap puts a sample at exactly latest-i*period into window i,
	// which keeps the intervals half-open on the older side.
	type group struct {
		truth []float64
		pred  []float64
	}
	groups := make(map[int]*group)
	for _, s := range samples {
		idx := int(latest.Sub(s.Time) / period)
		g, ok := groups[idx]
		if !ok {
			g = &group{}
			groups[idx] = g
		}
		g.truth = append(g.truth, s.Truth)
		g.pred = append(g.pred, s.Pred)
	}

	indices := make([]int, 0, len(groups))
	for idx := range groups {
		indices = append(indices, idx)
	}
	// Larger index = older window, so descending index is ascending Start.
	sort.Sort(sort.Reverse(sort.IntSlice(indices)))

	rows := make([]WindowRow, 0, len(indices)*len(metrics))
	for _, idx := range indices {
		g := groups[idx]
		end := latest.Add(-time.Duration(idx) * period)
		start := end.Add(-period)
		for _, m := range metrics {
			rows = append(rows, WindowRow{
				Start:  start,
				End:    end,
				Metric: m.Name,
				Value:  m.Fn(g.truth, g.pred),
				Count:  len(g.truth),
			})
		}
	}
	return rows, nil
}
