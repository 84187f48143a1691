// Package labels maps categorical outcome labels onto the numeric codes the
// metric functions operate on. The mapping is always declared explicitly in
// configuration; values outside it are an error, never coerced to a default.
package labels

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownLabel reports a label value outside the declared mapping.
var ErrUnknownLabel = errors.New("label not in declared mapping")

// Mapping is a declared label -> numeric code table.
type Mapping map[string]float64

// Default is the conventional pass/fail encoding used by the demo
// inspection model: FAIL is the positive class.
func Default() Mapping {
	return Mapping{"PASS": 0, "FAIL": 1}
}

// Encode translates labels into their declared codes, preserving order.
func (m Mapping) Encode(values []string) ([]float64, error) {
	codes := make([]float64, len(values))
	for i, v := range values {
		code, ok := m[v]
		if !ok {
			return nil, fmt.Errorf("%w: %q (declared: %v)", ErrUnknownLabel, v, m.Labels())
		}
		codes[i] = code
	}
	return codes, nil
}

// EncodeOne translates a single label.
func (m Mapping) EncodeOne(value string) (float64, error) {
	code, ok := m[value]
	if !ok {
		return 0, fmt.Errorf("%w: %q (declared: %v)", ErrUnknownLabel, value, m.Labels())
	}
	return code, nil
}

// Labels returns the declared label values in sorted order, for error
// messages and the dashboard.
func (m Mapping) Labels() []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Validate rejects empty mappings and duplicate codes. Two labels sharing a
// code would make predictions indistinguishable in the metrics.
func (m Mapping) Validate() error {
	if len(m) == 0 {
		return errors.New("label mapping must not be empty")
	}
	seen := make(map[float64]string, len(m))
	for label, code := range m {
		if prev, dup := seen[code]; dup {
			return fmt.Errorf("labels %q and %q share code %v", prev, label, code)
		}
		seen[code] = label
	}
	return nil
}
