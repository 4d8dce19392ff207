package model

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

// Boost is a boosted-tree ensemble: shallow regression trees fitted
// sequentially to the log-loss pseudo-residuals, combined with shrinkage.
// Fitting is deterministic for a given seed.
type Boost struct {
	Trees        int
	MaxDepth     int
	LearningRate float64
	Seed         int64

	trees []*Tree
	base  float64 // initial log-odds
}

// NewBoost returns a boosted ensemble with sensible defaults.
func NewBoost(seed int64) *Boost {
	return &Boost{
		Trees:        100,
		MaxDepth:     3,
		LearningRate: 0.1,
		Seed:         seed,
	}
}

func (m *Boost) Name() string { return "gradient_boosting" }

func (m *Boost) Params() map[string]string {
	return map[string]string{
		"trees":         fmt.Sprintf("%d", m.Trees),
		"max_depth":     fmt.Sprintf("%d", m.MaxDepth),
		"learning_rate": fmt.Sprintf("%g", m.LearningRate),
		"seed":          fmt.Sprintf("%d", m.Seed),
	}
}

// Fit builds the additive model stage by stage.
func (m *Boost) Fit(X [][]float64, y []int) error {
	if len(X) == 0 {
		return errors.New("boost: empty X")
	}
	if len(y) != len(X) {
		return errors.New("boost: X and y length mismatch")
	}

	n := len(X)
	pos := 0
	for _, v := range y {
		pos += v
	}
	// Degenerate single-class training sets still fit: the base log-odds is
	// clamped and every stage sees zero residuals.
	p := (float64(pos) + 0.5) / (float64(n) + 1)
	m.base = math.Log(p / (1 - p))

	score := make([]float64, n)
	for i := range score {
		score[i] = m.base
	}

	residual := make([]float64, n)
	m.trees = make([]*Tree, 0, m.Trees)

	for stage := 0; stage < m.Trees; stage++ {
		for i := range residual {
			residual[i] = float64(y[i]) - sigmoid(score[i])
		}

		tree := &Tree{
			MaxDepth:        m.MaxDepth,
			MinSamplesSplit: 2,
			Criterion:       CriterionVariance,
			Seed:            m.Seed + int64(stage),
		}
		if err := tree.Fit(X, residual, nil); err != nil {
			return err
		}
		m.trees = append(m.trees, tree)

		for i, x := range X {
			score[i] += m.LearningRate * tree.PredictRow(x)
		}
	}
	return nil
}

// PredictProba returns the sigmoid of the additive score.
func (m *Boost) PredictProba(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i, x := range X {
		z := m.base
		for _, tree := range m.trees {
			z += m.LearningRate * tree.PredictRow(x)
		}
		out[i] = sigmoid(z)
	}
	return out
}

// Importances sums the per-stage impurity importances, normalized.
func (m *Boost) Importances() []float64 {
	if len(m.trees) == 0 {
		return nil
	}
	out := make([]float64, len(m.trees[0].importances))
	var total float64
	for _, tree := range m.trees {
		for j, v := range tree.importances {
			out[j] += v
			total += v
		}
	}
	if total == 0 {
		return out
	}
	for j := range out {
		out[j] /= total
	}
	return out
}
