package model

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Forest is a bagged-tree ensemble: bootstrap-sampled gini trees with
// per-split feature subsampling, fitted in parallel. Each tree derives its
// seed from the forest seed, so the ensemble is reproducible regardless of
// goroutine scheduling.
type Forest struct {
	Trees           int
	MaxDepth        int
	MinSamplesSplit int
	MaxFeatures     int // 0 => sqrt of feature count
	Seed            int64

	trees []*Tree
}

// NewForest returns a bagged ensemble with sensible defaults.
func NewForest(seed int64) *Forest {
	return &Forest{
		Trees:           100,
		MaxDepth:        8,
		MinSamplesSplit: 2,
		Seed:            seed,
	}
}

func (m *Forest) Name() string { return "random_forest" }

func (m *Forest) Params() map[string]string {
	return map[string]string{
		"trees":             fmt.Sprintf("%d", m.Trees),
		"max_depth":         fmt.Sprintf("%d", m.MaxDepth),
		"min_samples_split": fmt.Sprintf("%d", m.MinSamplesSplit),
		"seed":              fmt.Sprintf("%d", m.Seed),
	}
}

// Fit grows the forest. Bootstrap samples are index slices, never copies.
func (m *Forest) Fit(X [][]float64, y []int) error {
	if len(X) == 0 {
		return errors.New("forest: empty X")
	}
	if len(y) != len(X) {
		return errors.New("forest: X and y length mismatch")
	}

	n := len(X)
	p := len(X[0])
	maxFeatures := m.MaxFeatures
	if maxFeatures == 0 {
		maxFeatures = int(math.Sqrt(float64(p)))
		if maxFeatures < 1 {
			maxFeatures = 1
		}
	}

	yf := labelsToFloats(y)
	m.trees = make([]*Tree, m.Trees)

	var g errgroup.Group
	for i := 0; i < m.Trees; i++ {
		i := i
		g.Go(func() error {
			treeSeed := m.Seed + int64(i)
			rnd := rand.New(rand.NewSource(treeSeed))
			sample := make([]int, n)
			for j := range sample {
				sample[j] = rnd.Intn(n)
			}

			tree := &Tree{
				MaxDepth:        m.MaxDepth,
				MinSamplesSplit: m.MinSamplesSplit,
				MaxFeatures:     maxFeatures,
				Criterion:       CriterionGini,
				Seed:            treeSeed,
			}
			if err := tree.Fit(X, yf, sample); err != nil {
				return err
			}
			m.trees[i] = tree
			return nil
		})
	}
	return g.Wait()
}

// PredictProba averages the per-tree leaf probabilities.
func (m *Forest) PredictProba(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for _, tree := range m.trees {
		for i, p := range tree.Predict(X) {
			out[i] += p
		}
	}
	for i := range out {
		out[i] /= float64(len(m.trees))
	}
	return out
}

// Importances averages the per-tree impurity importances, renormalized.
func (m *Forest) Importances() []float64 {
	if len(m.trees) == 0 {
		return nil
	}
	out := make([]float64, len(m.trees[0].importances))
	var total float64
	for _, tree := range m.trees {
		for j, v := range tree.Importances() {
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
