package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeDataset(n int) *Dataset {
	ds := &Dataset{Names: []string{"x"}}
	for i := 0; i < n; i++ {
		ds.X = append(ds.X, []float64{float64(i)})
		ds.Y = append(ds.Y, i%2)
	}
	return ds
}

func TestTrainTestSplit_Sizes(t *testing.T) {
	ds := makeDataset(100)
	train, test, err := TrainTestSplit(ds, 0.3, 42)
	require.NoError(t, err)
	assert.Equal(t, 30, test.Len())
	assert.Equal(t, 70, train.Len())
}

func TestTrainTestSplit_DeterministicForSeed(t *testing.T) {
	ds := makeDataset(50)

	train1, test1, err := TrainTestSplit(ds, 0.3, 7)
	require.NoError(t, err)
	train2, test2, err := TrainTestSplit(ds, 0.3, 7)
	require.NoError(t, err)

	assert.Equal(t, train1.X, train2.X)
	assert.Equal(t, train1.Y, train2.Y)
	assert.Equal(t, test1.X, test2.X)
	assert.Equal(t, test1.Y, test2.Y)
}

func TestTrainTestSplit_SeedChangesMembership(t *testing.T) {
	ds := makeDataset(50)

	_, test1, err := TrainTestSplit(ds, 0.3, 1)
	require.NoError(t, err)
	_, test2, err := TrainTestSplit(ds, 0.3, 2)
	require.NoError(t, err)

	assert.NotEqual(t, test1.X, test2.X)
}

func TestTrainTestSplit_PreservesAllRows(t *testing.T) {
	ds := makeDataset(20)
	train, test, err := TrainTestSplit(ds, 0.3, 11)
	require.NoError(t, err)

	seen := make(map[float64]bool)
	for _, row := range train.X {
		seen[row[0]] = true
	}
	for _, row := range test.X {
		seen[row[0]] = true
	}
	assert.Len(t, seen, 20)
}

func TestTrainTestSplit_InvalidInput(t *testing.T) {
	_, _, err := TrainTestSplit(nil, 0.3, 1)
	assert.Error(t, err)

	_, _, err = TrainTestSplit(makeDataset(10), 0, 1)
	assert.Error(t, err)

	_, _, err = TrainTestSplit(makeDataset(10), 1, 1)
	assert.Error(t, err)
}
