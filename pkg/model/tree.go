package model

import (
	"math/rand"
	"sort"

	"github.com/pkg/errors"
)

const (
	// CriterionGini grows classification trees on binary 0/1 targets.
	CriterionGini = "gini"
	// CriterionVariance grows regression trees (used for boosting residuals).
	CriterionVariance = "variance"
)

// Tree is a CART tree over float64 targets. With the gini criterion a leaf
// value is the positive-class fraction; with variance it is the target mean.
type Tree struct {
	MaxDepth        int    // 0 => no depth limit
	MinSamplesSplit int    // minimum samples to attempt a split
	MaxFeatures     int    // 0 => consider all features at each split
	Criterion       string // CriterionGini (default) or CriterionVariance
	Seed            int64

	root        *treeNode
	importances []float64
	nTotal      int
}

type treeNode struct {
	leaf      bool
	feature   int
	threshold float64 // x <= threshold goes left
	left      *treeNode
	right     *treeNode
	value     float64
}

// nodeStats accumulate enough to compute both impurity criteria.
type nodeStats struct {
	n     int
	sum   float64
	sumSq float64
}

func (s nodeStats) add(v float64) nodeStats {
	return nodeStats{n: s.n + 1, sum: s.sum + v, sumSq: s.sumSq + v*v}
}

func (s nodeStats) mean() float64 {
	if s.n == 0 {
		return 0
	}
	return s.sum / float64(s.n)
}

func (s nodeStats) impurity(criterion string) float64 {
	if s.n == 0 {
		return 0
	}
	m := s.mean()
	if criterion == CriterionVariance {
		return s.sumSq/float64(s.n) - m*m
	}
	// Binary gini with targets in {0,1}: mean is the positive fraction.
	return 2 * m * (1 - m)
}

// Fit grows the tree on the rows of X selected by idx. A nil idx uses all
// rows, so bootstrap samples are index slices, never data copies.
func (t *Tree) Fit(X [][]float64, y []float64, idx []int) error {
	if len(X) == 0 {
		return errors.New("tree: empty X")
	}
	if len(y) != len(X) {
		return errors.New("tree: X and y length mismatch")
	}
	if t.Criterion == "" {
		t.Criterion = CriterionGini
	}
	if t.MinSamplesSplit < 2 {
		t.MinSamplesSplit = 2
	}

	if idx == nil {
		idx = make([]int, len(X))
		for i := range idx {
			idx[i] = i
		}
	}

	p := len(X[0])
	t.importances = make([]float64, p)
	t.nTotal = len(idx)
	rnd := rand.New(rand.NewSource(t.Seed))
	t.root = t.build(X, y, idx, 0, rnd)
	return nil
}

func (t *Tree) build(X [][]float64, y []float64, idx []int, depth int, rnd *rand.Rand) *treeNode {
	var stats nodeStats
	for _, i := range idx {
		stats = stats.add(y[i])
	}

	node := &treeNode{leaf: true, value: stats.mean()}
	if len(idx) < t.MinSamplesSplit ||
		(t.MaxDepth > 0 && depth >= t.MaxDepth) ||
		stats.impurity(t.Criterion) == 0 {
		return node
	}

	feature, threshold, decrease, ok := t.bestSplit(X, y, idx, stats, rnd)
	if !ok {
		return node
	}

	left := make([]int, 0, len(idx))
	right := make([]int, 0, len(idx))
	for _, i := range idx {
		if X[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return node
	}

	t.importances[feature] += float64(len(idx)) / float64(t.nTotal) * decrease

	node.leaf = false
	node.feature = feature
	node.threshold = threshold
	node.left = t.build(X, y, left, depth+1, rnd)
	node.right = t.build(X, y, right, depth+1, rnd)
	return node
}

// bestSplit scans candidate features for the threshold with the largest
// impurity decrease. Features are subsampled without replacement when
// MaxFeatures is set.
func (t *Tree) bestSplit(X [][]float64, y []float64, idx []int, parent nodeStats, rnd *rand.Rand) (feature int, threshold, decrease float64, ok bool) {
	p := len(X[0])
	features := make([]int, p)
	for j := range features {
		features[j] = j
	}
	if t.MaxFeatures > 0 && t.MaxFeatures < p {
		rnd.Shuffle(p, func(a, b int) { features[a], features[b] = features[b], features[a] })
		features = features[:t.MaxFeatures]
		sort.Ints(features)
	}

	parentImp := parent.impurity(t.Criterion)
	order := make([]int, len(idx))

	for _, j := range features {
		copy(order, idx)
		sort.Slice(order, func(a, b int) bool { return X[order[a]][j] < X[order[b]][j] })

		var left nodeStats
		right := parent
		for k := 0; k < len(order)-1; k++ {
			v := y[order[k]]
			left = left.add(v)
			right = nodeStats{n: right.n - 1, sum: right.sum - v, sumSq: right.sumSq - v*v}

			cur, next := X[order[k]][j], X[order[k+1]][j]
			if cur == next {
				continue
			}

			weighted := (float64(left.n)*left.impurity(t.Criterion) +
				float64(right.n)*right.impurity(t.Criterion)) / float64(parent.n)
			d := parentImp - weighted
			if d > decrease {
				feature = j
				threshold = (cur + next) / 2
				decrease = d
				ok = true
			}
		}
	}
	return feature, threshold, decrease, ok
}

// PredictRow returns the leaf value for a single row.
func (t *Tree) PredictRow(x []float64) float64 {
	node := t.root
	for node != nil && !node.leaf {
		if x[node.feature] <= node.threshold {
			node = node.left
		} else {
			node = node.right
		}
	}
	if node == nil {
		return 0
	}
	return node.value
}

// Predict returns the leaf values for all rows.
func (t *Tree) Predict(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i, x := range X {
		out[i] = t.PredictRow(x)
	}
	return out
}

// Importances returns the accumulated impurity decrease per feature,
// normalized to sum to one. Zero everywhere if the tree is a single leaf.
func (t *Tree) Importances() []float64 {
	out := make([]float64, len(t.importances))
	var total float64
	for _, v := range t.importances {
		total += v
	}
	if total == 0 {
		return out
	}
	for j, v := range t.importances {
		out[j] = v / total
	}
	return out
}
