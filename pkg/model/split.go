package model

import (
	"math/rand"

	"github.com/pkg/errors"
)

// TrainTestSplit partitions the dataset by a permutation drawn from the given
// seed. The same seed and input always yield the same row membership in each
// partition.
func TrainTestSplit(ds *Dataset, testRatio float64, seed int64) (train, test *Dataset, err error) {
	if ds == nil || ds.Len() == 0 {
		return nil, nil, errors.New("empty dataset")
	}
	if testRatio <= 0 || testRatio >= 1 {
		return nil, nil, errors.Errorf("test ratio must be in (0,1), got %v", testRatio)
	}

	n := ds.Len()
	perm := rand.New(rand.NewSource(seed)).Perm(n)
	nTest := int(float64(n) * testRatio)
	if nTest == 0 {
		nTest = 1
	}

	train = &Dataset{Names: ds.Names}
	test = &Dataset{Names: ds.Names}
	for i, idx := range perm {
		if i < nTest {
			test.X = append(test.X, ds.X[idx])
			test.Y = append(test.Y, ds.Y[idx])
		} else {
			train.X = append(train.X, ds.X[idx])
			train.Y = append(train.Y, ds.Y[idx])
		}
	}
	return train, test, nil
}
