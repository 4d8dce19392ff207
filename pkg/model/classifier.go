package model

import "math"

// Classifier is a binary classifier producing positive-class probabilities.
// Importances returns per-feature weights summing to one; their semantics are
// model-dependent (impurity decrease for trees, standardized coefficient
// magnitudes for the linear baseline) and are not comparable across types.
type Classifier interface {
	Name() string
	Params() map[string]string
	Fit(X [][]float64, y []int) error
	PredictProba(X [][]float64) []float64
	Importances() []float64
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

func labelsToFloats(y []int) []float64 {
	out := make([]float64, len(y))
	for i, v := range y {
		out[i] = float64(v)
	}
	return out
}
