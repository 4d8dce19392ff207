package model

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfusion_Counts(t *testing.T) {
	yTrue := []int{1, 1, 0, 0, 1, 0}
	yPred := []int{1, 0, 0, 1, 1, 0}

	c := NewConfusion(yTrue, yPred)
	assert.Equal(t, 2, c.TP)
	assert.Equal(t, 1, c.FP)
	assert.Equal(t, 2, c.TN)
	assert.Equal(t, 1, c.FN)
	assert.Equal(t, 6, c.Total())
}

func TestConfusion_DerivedMetricsMatchDefinitions(t *testing.T) {
	c := Confusion{TP: 684, FP: 39, TN: 2131, FN: 173}

	precision := float64(c.TP) / float64(c.TP+c.FP)
	recall := float64(c.TP) / float64(c.TP+c.FN)
	f1 := 2 * precision * recall / (precision + recall)

	assert.InDelta(t, precision, c.Precision(), 1e-6)
	assert.InDelta(t, recall, c.Recall(), 1e-6)
	assert.InDelta(t, f1, c.F1(), 1e-6)
}

// The source dashboard reported 76.13% accuracy next to this confusion
// matrix; recomputing from the matrix itself gives ~93%, so accuracy must
// always be derived, never quoted.
func TestConfusion_AccuracyRecomputedFromMatrix(t *testing.T) {
	c := Confusion{TN: 2131, FP: 39, FN: 173, TP: 684}

	acc := c.Accuracy()
	assert.InDelta(t, float64(2131+684)/3027, acc, 1e-9)
	assert.InDelta(t, 0.93, acc, 0.001)
	assert.Greater(t, math.Abs(acc-0.7613), 0.05)
}

func TestConfusion_EmptyAndDegenerate(t *testing.T) {
	var c Confusion
	assert.Zero(t, c.Accuracy())
	assert.Zero(t, c.Precision())
	assert.Zero(t, c.Recall())
	assert.Zero(t, c.F1())
}

func TestLabels_Threshold(t *testing.T) {
	got := Labels([]float64{0.1, 0.5, 0.49, 0.9})
	assert.Equal(t, []int{0, 1, 0, 1}, got)
}

func TestROCAUC_PerfectSeparation(t *testing.T) {
	yTrue := []int{0, 0, 0, 1, 1, 1}
	scores := []float64{0.1, 0.2, 0.3, 0.7, 0.8, 0.9}

	auc, err := ROCAUC(yTrue, scores)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, auc, 1e-9)
}

func TestROCAUC_Reversed(t *testing.T) {
	yTrue := []int{1, 1, 1, 0, 0, 0}
	scores := []float64{0.1, 0.2, 0.3, 0.7, 0.8, 0.9}

	auc, err := ROCAUC(yTrue, scores)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, auc, 1e-9)
}

func TestROCAUC_TiedScores(t *testing.T) {
	yTrue := []int{0, 1, 0, 1}
	scores := []float64{0.5, 0.5, 0.5, 0.5}

	auc, err := ROCAUC(yTrue, scores)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, auc, 1e-9)
}

func TestROCAUC_SingleClassUndefined(t *testing.T) {
	_, err := ROCAUC([]int{1, 1, 1}, []float64{0.1, 0.2, 0.3})
	assert.True(t, errors.Is(err, ErrUndefinedMetric))

	_, err = ROCAUC([]int{0, 0}, []float64{0.1, 0.2})
	assert.True(t, errors.Is(err, ErrUndefinedMetric))
}

func TestROCAUC_LengthMismatch(t *testing.T) {
	_, err := ROCAUC([]int{1, 0}, []float64{0.5})
	assert.Error(t, err)
}
