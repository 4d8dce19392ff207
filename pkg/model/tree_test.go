package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// separable returns a two-feature dataset where the second feature carries
// all the signal: x1 < 0 => class 0, x1 > 0 => class 1.
func separable(n int) (X [][]float64, y []int) {
	for i := 0; i < n; i++ {
		if i%2 == 0 {
			X = append(X, []float64{float64(i), -1 - float64(i)*0.01})
			y = append(y, 0)
		} else {
			X = append(X, []float64{float64(i), 1 + float64(i)*0.01})
			y = append(y, 1)
		}
	}
	return X, y
}

func TestTree_FitsSeparableData(t *testing.T) {
	X, y := separable(40)

	tree := &Tree{MaxDepth: 3, Criterion: CriterionGini, Seed: 1}
	require.NoError(t, tree.Fit(X, labelsToFloats(y), nil))

	for i, x := range X {
		p := tree.PredictRow(x)
		if y[i] == 1 {
			assert.Greater(t, p, 0.5)
		} else {
			assert.Less(t, p, 0.5)
		}
	}
}

func TestTree_ImportancesSumToOne(t *testing.T) {
	X, y := separable(40)

	tree := &Tree{MaxDepth: 3, Criterion: CriterionGini, Seed: 1}
	require.NoError(t, tree.Fit(X, labelsToFloats(y), nil))

	imp := tree.Importances()
	require.Len(t, imp, 2)
	var total float64
	for _, v := range imp {
		total += v
	}
	assert.InDelta(t, 1.0, total, 1e-9)
	// The signal feature should dominate.
	assert.Greater(t, imp[1], imp[0])
}

func TestTree_PureTargetsYieldLeaf(t *testing.T) {
	X := [][]float64{{1}, {2}, {3}}
	y := []float64{1, 1, 1}

	tree := &Tree{Criterion: CriterionGini, Seed: 1}
	require.NoError(t, tree.Fit(X, y, nil))

	assert.InDelta(t, 1.0, tree.PredictRow([]float64{99}), 1e-9)
	var total float64
	for _, v := range tree.Importances() {
		total += v
	}
	assert.Zero(t, total)
}

func TestTree_VarianceCriterionFitsMeans(t *testing.T) {
	X := [][]float64{{0}, {1}, {10}, {11}}
	y := []float64{1, 2, 101, 102}

	tree := &Tree{MaxDepth: 1, Criterion: CriterionVariance, Seed: 1}
	require.NoError(t, tree.Fit(X, y, nil))

	assert.InDelta(t, 1.5, tree.PredictRow([]float64{0.5}), 1e-9)
	assert.InDelta(t, 101.5, tree.PredictRow([]float64{10.5}), 1e-9)
}

func TestTree_IndexSubsetFit(t *testing.T) {
	X, y := separable(40)
	// Train only on the first half; the tree must still classify it.
	idx := make([]int, 20)
	for i := range idx {
		idx[i] = i
	}

	tree := &Tree{MaxDepth: 3, Criterion: CriterionGini, Seed: 1}
	require.NoError(t, tree.Fit(X, labelsToFloats(y), idx))

	for _, i := range idx {
		p := tree.PredictRow(X[i])
		if y[i] == 1 {
			assert.Greater(t, p, 0.5)
		} else {
			assert.Less(t, p, 0.5)
		}
	}
}

func TestTree_InvalidInput(t *testing.T) {
	tree := &Tree{}
	assert.Error(t, tree.Fit(nil, nil, nil))
	assert.Error(t, tree.Fit([][]float64{{1}}, []float64{1, 2}, nil))
}
