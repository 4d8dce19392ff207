// Package model implements the in-process classifiers trained on the
// engineered loan features: a logistic-regression baseline, a bagged-tree
// ensemble, and a boosted-tree ensemble, plus their shared evaluation
// machinery. All randomness is derived from an explicit seed so that runs
// are reproducible.
package model

import (
	"github.com/lendwatch/lendctl/pkg/data"
)

// FeatureNames lists the model features in column order.
var FeatureNames = []string{
	"ltv",
	"loan_to_income_ratio",
	"dtir1",
	"loan_amount",
	"income",
	"credit_score",
	"risk_score",
}

// Dataset is a dense feature matrix with binary labels.
type Dataset struct {
	Names []string
	X     [][]float64
	Y     []int
}

// NewDataset builds the training matrix from silver-layer records.
func NewDataset(list []data.EngineeredRecord) *Dataset {
	ds := &Dataset{
		Names: FeatureNames,
		X:     make([][]float64, 0, len(list)),
		Y:     make([]int, 0, len(list)),
	}
	for _, r := range list {
		ds.X = append(ds.X, []float64{
			r.LTV,
			r.LoanToIncomeRatio,
			r.DTIR1,
			r.LoanAmount,
			r.Income,
			float64(r.CreditScore),
			r.RiskScore,
		})
		ds.Y = append(ds.Y, r.Status)
	}
	return ds
}

// Len returns the number of rows.
func (d *Dataset) Len() int { return len(d.X) }
