package board

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/harbor-data/model.report/internal/model"
	"github.com/harbor-data/model.report/internal/obs"
)

// Demo pin names seeded by SeedDemo and used as configuration defaults.
const (
	DemoModelPin   = "inspection-model"
	DemoDatasetPin = "inspections-latest"
)

// SeedDemo pins a demo inspection model and a synthetic labeled dataset onto
// the board. Used by dev mode and the gen-board tool so a fresh checkout can
// render a dashboard without real artifacts.
func SeedDemo(ctx context.Context, b *Board, now time.Time) error {
	proto := model.Prototype{
		{Name: "facility_age_years", Kind: "float"},
		{Name: "prior_violations", Kind: "float"},
		{Name: "days_since_last_inspection", Kind: "float"},
	}
	coefficients := []float64{0.08, 0.9, 0.004}
	const intercept = -2.4

	modelPayload, err := model.Encode(proto, coefficients, intercept, 0.5, "FAIL", "PASS")
	if err != nil {
		return fmt.Errorf("failed to encode demo model: %w", err)
	}
	if _, err := b.Write(ctx, DemoModelPin, "Logistic pass/fail model for facility inspections",
		"application/json", now.Add(-90*24*time.Hour), modelPayload); err != nil {
		return err
	}

	ds := demoDataset(now)
	dataPayload, err := ds.Encode()
	if err != nil {
		return fmt.Errorf("failed to encode demo dataset: %w", err)
	}
	if _, err := b.Write(ctx, DemoDatasetPin, "Inspections collected since the model was published",
		"application/json", now, dataPayload); err != nil {
		return err
	}
	return nil
}

// demoDataset generates a deterministic batch of labeled inspections over the
// 84 days before now, so the default 28-day period yields three windows.
func demoDataset(now time.Time) *obs.Dataset {
	rng := rand.New(rand.NewSource(42))
	ds := &obs.Dataset{
		Schema: []string{"facility_age_years", "prior_violations", "days_since_last_inspection"},
	}
	for i := 0; i < 240; i++ {
		age := 1 + rng.Float64()*24
		violations := float64(rng.Intn(6))
		gap := 30 + rng.Float64()*300

		// Ground truth loosely follows the demo model's risk surface with
		// noise, so metrics land below 1.0 but above chance.
		risk := 0.08*age + 0.9*violations + 0.004*gap - 2.4 + rng.NormFloat64()*1.2
		result := "PASS"
		if risk > 0 {
			result = "FAIL"
		}

		ds.Observations = append(ds.Observations, obs.Observation{
			ID:        fmt.Sprintf("insp-%04d", i+1),
			Timestamp: now.Add(-time.Duration(rng.Intn(84*24)) * time.Hour),
			Result:    result,
			Features:  []float64{age, violations, gap},
		})
	}
	return ds
}
