// Package obs defines the typed observation records a monitoring run scores.
// The feature schema is declared in the dataset payload rather than inferred
// from rows, so schema drift is caught at the decoding boundary.
package obs

import (
	"encoding/json"
	"fmt"
	"time"
)

// Observation is one timestamped real-world event: a ground-truth outcome
// plus the feature vector the model consumes. Features are ordered by the
// dataset's declared schema.
type Observation struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Result    string    `json:"result"`
	Features  []float64 `json:"features"`
}

// Dataset is a batch of observations with their declared feature schema.
// Arrival order is preserved; it is not necessarily time order.
type Dataset struct {
	Schema       []string      `json:"schema"`
	Observations []Observation `json:"rows"`
}

// Decode parses a dataset pin payload. Every row's feature count must match
// the declared schema; a short or long row is a decoding error, not a later
// metric surprise.
func Decode(payload []byte) (*Dataset, error) {
	var ds Dataset
	if err := json.Unmarshal(payload, &ds); err != nil {
		return nil, fmt.Errorf("failed to parse dataset payload: %w", err)
	}
	if len(ds.Schema) == 0 {
		return nil, fmt.Errorf("dataset payload declares no feature schema")
	}
	for i, row := range ds.Observations {
		if len(row.Features) != len(ds.Schema) {
			return nil, fmt.Errorf("row %d (%s) has %d features, schema declares %d",
				i, row.ID, len(row.Features), len(ds.Schema))
		}
		if row.Timestamp.IsZero() {
			return nil, fmt.Errorf("row %d (%s) has no timestamp", i, row.ID)
		}
	}
	return &ds, nil
}

// Encode serialises a dataset for pinning.
func (d *Dataset) Encode() ([]byte, error) {
	return json.Marshal(d)
}

// Results returns the truth labels in arrival order.
func (d *Dataset) Results() []string {
	out := make([]string, len(d.Observations))
	for i, o := range d.Observations {
		out[i] = o.Result
	}
	return out
}
