package model

import (
	"sort"

	"github.com/pkg/errors"
)

// ErrUndefinedMetric is returned when a metric cannot be computed because the
// held-out set lacks one of the two classes. Callers must surface it, never
// substitute a default value.
var ErrUndefinedMetric = errors.New("metric undefined: held-out set lacks both classes")

// Confusion is the binary confusion matrix at the 0.5 decision threshold.
type Confusion struct {
	TP int `json:"tp"`
	FP int `json:"fp"`
	TN int `json:"tn"`
	FN int `json:"fn"`
}

// NewConfusion counts prediction outcomes against the true labels.
func NewConfusion(yTrue, yPred []int) Confusion {
	var c Confusion
	for i := range yTrue {
		switch {
		case yPred[i] == 1 && yTrue[i] == 1:
			c.TP++
		case yPred[i] == 1 && yTrue[i] == 0:
			c.FP++
		case yPred[i] == 0 && yTrue[i] == 0:
			c.TN++
		default:
			c.FN++
		}
	}
	return c
}

func (c Confusion) Total() int { return c.TP + c.FP + c.TN + c.FN }

func (c Confusion) Accuracy() float64 {
	if c.Total() == 0 {
		return 0
	}
	return float64(c.TP+c.TN) / float64(c.Total())
}

func (c Confusion) Precision() float64 {
	if c.TP+c.FP == 0 {
		return 0
	}
	return float64(c.TP) / float64(c.TP+c.FP)
}

func (c Confusion) Recall() float64 {
	if c.TP+c.FN == 0 {
		return 0
	}
	return float64(c.TP) / float64(c.TP+c.FN)
}

func (c Confusion) F1() float64 {
	p, r := c.Precision(), c.Recall()
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}

// Labels thresholds probability scores at 0.5.
func Labels(scores []float64) []int {
	out := make([]int, len(scores))
	for i, p := range scores {
		if p >= 0.5 {
			out[i] = 1
		}
	}
	return out
}

// ROCAUC computes the area under the ROC curve by sweeping the decision
// threshold over the distinct score values, trapezoidal between points.
// Tied scores advance TPR and FPR together.
func ROCAUC(yTrue []int, scores []float64) (float64, error) {
	if len(yTrue) != len(scores) {
		return 0, errors.New("labels and scores length mismatch")
	}

	pos, neg := 0, 0
	for _, y := range yTrue {
		if y == 1 {
			pos++
		} else {
			neg++
		}
	}
	if pos == 0 || neg == 0 {
		return 0, ErrUndefinedMetric
	}

	idx := make([]int, len(scores))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return scores[idx[a]] > scores[idx[b]] })

	var auc, tp, fp, prevTPR, prevFPR float64
	i := 0
	for i < len(idx) {
		threshold := scores[idx[i]]
		for i < len(idx) && scores[idx[i]] == threshold {
			if yTrue[idx[i]] == 1 {
				tp++
			} else {
				fp++
			}
			i++
		}
		tpr := tp / float64(pos)
		fpr := fp / float64(neg)
		auc += (fpr - prevFPR) * (tpr + prevTPR) / 2
		prevTPR, prevFPR = tpr, fpr
	}
	return auc, nil
}
