package metrics

import "fmt"

// Built-in metric names accepted by ByName.
const (
	NameAccuracy  = "accuracy"
	NameRecall    = "recall"
	NamePrecision = "precision"
)

// Accuracy is the fraction of samples whose prediction equals the truth.
// Returns 0 for an empty window; Rolling never produces one.
func Accuracy(truth, pred []float64) float64 {
	if len(truth) == 0 {
		return 0
	}
	correct := 0
	for i := range truth {
		if truth[i] == pred[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(truth))
}

// Recall is tp/(tp+fn) treating code 1 as the positive class. A window with
// no positive truths has no defined recall; we report 0 rather than NaN so
// downstream tables and charts stay numeric.
func Recall(truth, pred []float64) float64 {
	var tp, fn float64
	for i := range truth {
		if truth[i] == 1 {
			if pred[i] == 1 {
				tp++
			} else {
				fn++
			}
		}
	}
	if tp+fn == 0 {
		return 0
	}
	return tp / (tp + fn)
}

// Precision is tp/(tp+fp) treating code 1 as the positive class, with the
// same zero-positive convention as Recall.
func Precision(truth, pred []float64) float64 {
	var tp, fp float64
	for i := range pred {
		if pred[i] == 1 {
			if truth[i] == 1 {
				tp++
			} else {
				fp++
			}
		}
	}
	if tp+fp == 0 {
		return 0
	}
	return tp / (tp + fp)
}

// ByName resolves metric names from configuration into Metric values,
// preserving the declared order.
func ByName(names []string) ([]Metric, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: metric list is empty", ErrInvalidConfig)
	}
	out := make([]Metric, 0, len(names))
	for _, name := range names {
		switch name {
		case NameAccuracy:
			out = append(out, Metric{Name: name, Fn: Accuracy})
		case NameRecall:
			out = append(out, Metric{Name: name, Fn: Recall})
		case NamePrecision:
			out = append(out, Metric{Name: name, Fn: Precision})
		default:
			return nil, fmt.Errorf("%w: unknown metric %q", ErrInvalidConfig, name)
		}
	}
	return out, nil
}
