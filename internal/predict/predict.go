// Package predict applies a loaded model to a batch of observations. The
// dataset's declared feature schema is validated against the model prototype
// up front so drift surfaces as a named column, not an opaque inference
// failure.
package predict

import (
	"errors"
	"fmt"
	"time"

	"github.com/harbor-data/model.report/internal/model"
	"github.com/harbor-data/model.report/internal/obs"
)

// ErrSchemaMismatch reports that the dataset's feature columns do not match
// the model's declared input prototype.
var ErrSchemaMismatch = errors.New("dataset schema does not match model prototype")

// Result is one observation with its prediction attached. The original
// record is untouched; truth and prediction travel side by side.
type Result struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Truth     string    `json:"truth"`
	Predicted string    `json:"predicted"`
	Score     float64   `json:"score"`
}

// ValidateSchema checks the dataset's declared feature columns against the
// model prototype, by name and position.
func ValidateSchema(proto model.Prototype, schema []string) error {
	if len(schema) != len(proto) {
		return fmt.Errorf("%w: dataset has %d feature columns, model expects %d",
			ErrSchemaMismatch, len(schema), len(proto))
	}
	for i, f := range proto {
		if schema[i] != f.Name {
			return fmt.Errorf("%w: column %d is %q, model expects %q",
				ErrSchemaMismatch, i, schema[i], f.Name)
		}
	}
	return nil
}

// Apply validates the dataset against the scorer's prototype and predicts
// every observation in arrival order.
func Apply(s *model.Scorer, ds *obs.Dataset) ([]Result, error) {
	if err := ValidateSchema(s.Prototype(), ds.Schema); err != nil {
		return nil, err
	}
	results := make([]Result, len(ds.Observations))
	for i, o := range ds.Observations {
		label, score, err := s.Predict(o.Features)
		if err != nil {
			return nil, fmt.Errorf("prediction failed for row %d (%s): %w", i, o.ID, err)
		}
		results[i] = Result{
			ID:        o.ID,
			Timestamp: o.Timestamp,
			Truth:     o.Result,
			Predicted: label,
			Score:     score,
		}
	}
	return results, nil
}
