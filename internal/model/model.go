// Package model decodes pinned model artifacts and runs their inference
// function. The only supported artifact today is a binary logistic scorer;
// the prototype travels with the artifact so callers can validate feature
// schemas before asking for predictions.
package model

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"
)

// Field is one entry of a model's input prototype.
type Field struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// Prototype is the ordered input schema a model was trained against.
type Prototype []Field

// Names returns the prototype's field names in declared order.
func (p Prototype) Names() []string {
	out := make([]string, len(p))
	for i, f := range p {
		out[i] = f.Name
	}
	return out
}

// payload is the pinned JSON form of a logistic scorer.
type payload struct {
	Type         string    `json:"type"`
	Prototype    Prototype `json:"prototype"`
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
	Threshold    float64   `json:"threshold"`
	Positive     string    `json:"positive_label"`
	Negative     string    `json:"negative_label"`
}

// Scorer is a loaded logistic model. It is immutable once decoded and safe
// for concurrent use.
type Scorer struct {
	prototype Prototype
	weights   *mat.VecDense
	intercept float64
	threshold float64
	positive  string
	negative  string
}

// Decode parses a model pin payload into a Scorer.
func Decode(raw []byte) (*Scorer, error) {
	var p payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("failed to parse model payload: %w", err)
	}
	if p.Type != "logistic" {
		return nil, fmt.Errorf("unsupported model type %q", p.Type)
	}
	if len(p.Prototype) == 0 {
		return nil, fmt.Errorf("model payload declares no input prototype")
	}
	if len(p.Coefficients) != len(p.Prototype) {
		return nil, fmt.Errorf("model has %d coefficients for %d prototype fields",
			len(p.Coefficients), len(p.Prototype))
	}
	if p.Positive == "" || p.Negative == "" {
		return nil, fmt.Errorf("model payload must declare positive and negative labels")
	}
	threshold := p.Threshold
	if threshold == 0 {
		threshold = 0.5
	}
	return &Scorer{
		prototype: p.Prototype,
		weights:   mat.NewVecDense(len(p.Coefficients), p.Coefficients),
		intercept: p.Intercept,
		threshold: threshold,
		positive:  p.Positive,
		negative:  p.Negative,
	}, nil
}

// Encode serialises a scorer for pinning. Used by the fixture generator and
// tests; real models arrive already pinned.
func Encode(prototype Prototype, coefficients []float64, intercept, threshold float64, positive, negative string) ([]byte, error) {
	return json.Marshal(payload{
		Type:         "logistic",
		Prototype:    prototype,
		Coefficients: coefficients,
		Intercept:    intercept,
		Threshold:    threshold,
		Positive:     positive,
		Negative:     negative,
	})
}

// Prototype returns the model's declared input schema.
func (s *Scorer) Prototype() Prototype {
	return s.prototype
}

// Labels returns the positive and negative output labels.
func (s *Scorer) Labels() (positive, negative string) {
	return s.positive, s.negative
}

// Score returns the positive-class probability for one feature vector.
func (s *Scorer) Score(features []float64) (float64, error) {
	if len(features) != s.weights.Len() {
		return 0, fmt.Errorf("got %d features, model expects %d", len(features), s.weights.Len())
	}
	x := mat.NewVecDense(len(features), features)
	z := mat.Dot(s.weights, x) + s.intercept
	return 1 / (1 + math.Exp(-z)), nil
}

// Predict scores one feature vector and applies the decision threshold.
func (s *Scorer) Predict(features []float64) (label string, score float64, err error) {
	score, err = s.Score(features)
	if err != nil {
		return "", 0, err
	}
	if score >= s.threshold {
		return s.positive, score, nil
	}
	return s.negative, score, nil
}

// AgeDays reports whole days elapsed since the artifact was created. Shown
// as a dashboard value box so stale models are obvious at a glance.
func AgeDays(created, now time.Time) int {
	if now.Before(created) {
		return 0
	}
	return int(now.Sub(created).Hours() / 24)
}
