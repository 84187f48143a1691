package report

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harbor-data/model.report/internal/board"
	"github.com/harbor-data/model.report/internal/config"
	"github.com/harbor-data/model.report/internal/labels"
	"github.com/harbor-data/model.report/internal/metrics"
	"github.com/harbor-data/model.report/internal/model"
	"github.com/harbor-data/model.report/internal/monitoring"
	"github.com/harbor-data/model.report/internal/obs"
	"github.com/harbor-data/model.report/internal/predict"
	"github.com/harbor-data/model.report/internal/timeutil"
)

func init() {
	monitoring.SetLogger(nil)
}

// fakeResolver serves pins from memory.
type fakeResolver struct {
	pins map[string]struct {
		payload []byte
		meta    board.Meta
	}
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{pins: make(map[string]struct {
		payload []byte
		meta    board.Meta
	})}
}

func (f *fakeResolver) add(name string, created time.Time, description string, payload []byte) {
	f.pins[name] = struct {
		payload []byte
		meta    board.Meta
	}{payload, board.Meta{
		Name:        name,
		Version:     fmt.Sprintf("v-%s", name),
		Created:     created,
		Description: description,
		ContentType: "application/json",
	}}
}

func (f *fakeResolver) Resolve(_ context.Context, name string) ([]byte, board.Meta, error) {
	p, ok := f.pins[name]
	if !ok {
		return nil, board.Meta{}, fmt.Errorf("%w: %q", board.ErrPinNotFound, name)
	}
	return p.payload, p.meta, nil
}

var (
	testNow     = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	testCreated = time.Date(2026, 7, 2, 12, 0, 0, 0, time.UTC)
)

func strPtr(s string) *string { return &s }

// testModel is a scorer whose prediction is fully determined by the single
// "risk" feature: above 0 predicts FAIL.
func testModelPayload(t *testing.T) []byte {
	t.Helper()
	proto := model.Prototype{{Name: "risk", Kind: "float"}}
	raw, err := model.Encode(proto, []float64{10}, 0, 0.5, "FAIL", "PASS")
	require.NoError(t, err)
	return raw
}

func testDatasetPayload(t *testing.T) []byte {
	t.Helper()
	ds := &obs.Dataset{
		Schema: []string{"risk"},
		Observations: []obs.Observation{
			// Latest window: both correct FAILs.
			{ID: "a", Timestamp: testNow, Result: "FAIL", Features: []float64{2}},
			{ID: "b", Timestamp: testNow.Add(-24 * time.Hour), Result: "FAIL", Features: []float64{3}},
			// Older window: a PASS mispredicted as FAIL.
			{ID: "c", Timestamp: testNow.Add(-40 * 24 * time.Hour), Result: "PASS", Features: []float64{1}},
		},
	}
	payload, err := ds.Encode()
	require.NoError(t, err)
	return payload
}

func testConfig() *config.Config {
	return &config.Config{
		Period:  strPtr("672h"), // 28 days
		Metrics: []string{"accuracy", "recall"},
	}
}

func TestRunAssemblesReport(t *testing.T) {
	t.Parallel()

	resolver := newFakeResolver()
	resolver.add("inspection-model", testCreated, "demo model", testModelPayload(t))
	resolver.add("inspections-latest", testNow, "new data", testDatasetPayload(t))

	rep, err := Run(context.Background(), testConfig(), resolver, timeutil.FakeClock{T: testNow})
	require.NoError(t, err)

	assert.Equal(t, "inspection-model", rep.ModelName)
	assert.Equal(t, "demo model", rep.ModelDescription)
	assert.Equal(t, 30, rep.ModelAgeDays)
	assert.Equal(t, 3, rep.RecordCount)
	assert.True(t, rep.GeneratedAt.Equal(testNow))

	// Two windows x two metrics, older window first.
	require.Len(t, rep.Rows, 4)
	assert.Equal(t, []string{"accuracy", "recall"}, rep.MetricNames())

	older := rep.Rows[0]
	assert.Equal(t, "accuracy", older.Metric)
	assert.Equal(t, 0.0, older.Value)
	assert.Equal(t, 1, older.Count)

	latest := rep.Rows[2]
	assert.Equal(t, "accuracy", latest.Metric)
	assert.Equal(t, 1.0, latest.Value)
	assert.Equal(t, 2, latest.Count)
	assert.True(t, latest.End.Equal(testNow))

	accRows := rep.RowsFor("accuracy")
	require.Len(t, accRows, 2)
	assert.True(t, accRows[0].Start.Before(accRows[1].Start))

	// All three rows predicted FAIL, so scores sit above the threshold.
	assert.Greater(t, rep.Scores.Mean, 0.5)
	assert.GreaterOrEqual(t, rep.Scores.P90, rep.Scores.P50)
}

func TestRunFailsOnMissingPins(t *testing.T) {
	t.Parallel()

	resolver := newFakeResolver()
	_, err := Run(context.Background(), testConfig(), resolver, timeutil.FakeClock{T: testNow})
	assert.ErrorIs(t, err, board.ErrPinNotFound)

	resolver.add("inspection-model", testCreated, "", testModelPayload(t))
	_, err = Run(context.Background(), testConfig(), resolver, timeutil.FakeClock{T: testNow})
	assert.ErrorIs(t, err, board.ErrPinNotFound)
}

func TestRunSurfacesSchemaMismatch(t *testing.T) {
	t.Parallel()

	ds := &obs.Dataset{
		Schema: []string{"risk_score"}, // renamed since the model was trained
		Observations: []obs.Observation{
			{ID: "a", Timestamp: testNow, Result: "FAIL", Features: []float64{2}},
		},
	}
	payload, err := ds.Encode()
	require.NoError(t, err)

	resolver := newFakeResolver()
	resolver.add("inspection-model", testCreated, "", testModelPayload(t))
	resolver.add("inspections-latest", testNow, "", payload)

	_, err = Run(context.Background(), testConfig(), resolver, timeutil.FakeClock{T: testNow})
	assert.ErrorIs(t, err, predict.ErrSchemaMismatch)
}

func TestRunSurfacesUnknownLabel(t *testing.T) {
	t.Parallel()

	ds := &obs.Dataset{
		Schema: []string{"risk"},
		Observations: []obs.Observation{
			{ID: "a", Timestamp: testNow, Result: "CONDITIONAL", Features: []float64{2}},
		},
	}
	payload, err := ds.Encode()
	require.NoError(t, err)

	resolver := newFakeResolver()
	resolver.add("inspection-model", testCreated, "", testModelPayload(t))
	resolver.add("inspections-latest", testNow, "", payload)

	_, err = Run(context.Background(), testConfig(), resolver, timeutil.FakeClock{T: testNow})
	assert.ErrorIs(t, err, labels.ErrUnknownLabel)
}

func TestRunSurfacesEmptyInput(t *testing.T) {
	t.Parallel()

	ds := &obs.Dataset{Schema: []string{"risk"}}
	payload, err := ds.Encode()
	require.NoError(t, err)

	resolver := newFakeResolver()
	resolver.add("inspection-model", testCreated, "", testModelPayload(t))
	resolver.add("inspections-latest", testNow, "", payload)

	_, err = Run(context.Background(), testConfig(), resolver, timeutil.FakeClock{T: testNow})
	assert.ErrorIs(t, err, metrics.ErrEmptyInput)
}

func TestRunSurfacesInvalidMetricConfig(t *testing.T) {
	t.Parallel()

	resolver := newFakeResolver()
	resolver.add("inspection-model", testCreated, "", testModelPayload(t))
	resolver.add("inspections-latest", testNow, "", testDatasetPayload(t))

	cfg := testConfig()
	cfg.Metrics = []string{"f1"}
	_, err := Run(context.Background(), cfg, resolver, timeutil.FakeClock{T: testNow})
	assert.ErrorIs(t, err, metrics.ErrInvalidConfig)
}
