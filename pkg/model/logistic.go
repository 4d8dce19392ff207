package model

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/pkg/errors"
)

// LogisticRegression is the baseline classifier: full-batch gradient descent
// on features standardized with training-set statistics.
type LogisticRegression struct {
	LearningRate float64
	Epochs       int
	Seed         int64

	weights []float64
	bias    float64
	scaler  *Scaler
}

// NewLogisticRegression returns a baseline model with sensible defaults.
func NewLogisticRegression(seed int64) *LogisticRegression {
	return &LogisticRegression{
		LearningRate: 0.1,
		Epochs:       200,
		Seed:         seed,
	}
}

func (m *LogisticRegression) Name() string { return "logistic_regression" }

func (m *LogisticRegression) Params() map[string]string {
	return map[string]string{
		"learning_rate": fmt.Sprintf("%g", m.LearningRate),
		"epochs":        fmt.Sprintf("%d", m.Epochs),
		"seed":          fmt.Sprintf("%d", m.Seed),
	}
}

// Fit trains by full-batch gradient descent on the log loss.
func (m *LogisticRegression) Fit(X [][]float64, y []int) error {
	if len(X) == 0 {
		return errors.New("logistic: empty X")
	}
	if len(y) != len(X) {
		return errors.New("logistic: X and y length mismatch")
	}

	m.scaler = FitScaler(X)
	Xs := m.scaler.Transform(X)

	p := len(Xs[0])
	rnd := rand.New(rand.NewSource(m.Seed))
	m.weights = make([]float64, p)
	for j := range m.weights {
		// Small random init to break symmetry.
		m.weights[j] = rnd.NormFloat64() * 0.01
	}
	m.bias = 0

	n := float64(len(Xs))
	grad := make([]float64, p)

	for ep := 0; ep < m.Epochs; ep++ {
		for j := range grad {
			grad[j] = 0
		}
		var gradBias float64

		for i, row := range Xs {
			z := m.bias
			for j, v := range row {
				z += m.weights[j] * v
			}
			d := sigmoid(z) - float64(y[i])
			for j, v := range row {
				grad[j] += d * v
			}
			gradBias += d
		}

		for j := range m.weights {
			m.weights[j] -= m.LearningRate * grad[j] / n
		}
		m.bias -= m.LearningRate * gradBias / n
	}
	return nil
}

// PredictProba returns positive-class probabilities for each row.
func (m *LogisticRegression) PredictProba(X [][]float64) []float64 {
	Xs := m.scaler.Transform(X)
	out := make([]float64, len(Xs))
	for i, row := range Xs {
		z := m.bias
		for j, v := range row {
			z += m.weights[j] * v
		}
		out[i] = sigmoid(z)
	}
	return out
}

// Importances reports normalized standardized-coefficient magnitudes.
func (m *LogisticRegression) Importances() []float64 {
	out := make([]float64, len(m.weights))
	var total float64
	for _, w := range m.weights {
		total += math.Abs(w)
	}
	if total == 0 {
		return out
	}
	for j, w := range m.weights {
		out[j] = math.Abs(w) / total
	}
	return out
}
