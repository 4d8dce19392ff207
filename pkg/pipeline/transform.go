// Package pipeline implements the bronze-to-silver refinement stages:
// cleaning raw loan records and deriving the engineered risk features.
// Every stage is a pure function over records, so a refresh is idempotent
// and reproducible by construction.
package pipeline

import (
	"math"

	"github.com/lendwatch/lendctl/pkg/data"
)

const (
	BandPoor      = "Poor"
	BandFair      = "Fair"
	BandGood      = "Good"
	BandExcellent = "Excellent"

	creditScoreMin = 300
	creditScoreMax = 850
)

// Weights are the risk score component weights. The credit component is the
// inverted, rescaled credit score; DTI and LTV enter as raw percentages.
type Weights struct {
	Credit float64 `yaml:"credit"`
	DTI    float64 `yaml:"dti"`
	LTV    float64 `yaml:"ltv"`
}

// DefaultWeights returns the documented 0.4 credit / 0.3 DTI weighting, with
// the remaining 0.3 assigned to LTV.
func DefaultWeights() Weights {
	return Weights{Credit: 0.4, DTI: 0.3, LTV: 0.3}
}

// Bands holds the lower cut points of the Fair, Good, and Excellent credit
// bands. Intervals are half-open, so every score in [300,850] maps to
// exactly one band.
type Bands struct {
	Fair      int `yaml:"fair"`
	Good      int `yaml:"good"`
	Excellent int `yaml:"excellent"`
}

// DefaultBands returns the conventional cut points: scores below 580 are
// Poor, [580,670) Fair, [670,740) Good, and 740 up Excellent.
func DefaultBands() Bands {
	return Bands{Fair: 580, Good: 670, Excellent: 740}
}

// CreditBand maps a credit score to its band name.
func (b Bands) CreditBand(score int) string {
	switch {
	case score < b.Fair:
		return BandPoor
	case score < b.Good:
		return BandFair
	case score < b.Excellent:
		return BandGood
	default:
		return BandExcellent
	}
}

// Clean drops records that violate the ratio-feature invariants: missing or
// non-positive income, missing loan amount, or a credit score outside
// [300,850]. Offending rows are counted, never failed on. Missing DTI, LTV,
// and property values on surviving rows are zero-filled.
func Clean(list []data.LoanRecord) (kept []data.LoanRecord, dropped int) {
	kept = make([]data.LoanRecord, 0, len(list))
	for _, r := range list {
		if math.IsNaN(r.Income) || r.Income <= 0 ||
			math.IsNaN(r.LoanAmount) ||
			r.CreditScore < creditScoreMin || r.CreditScore > creditScoreMax {
			dropped++
			continue
		}
		if math.IsNaN(r.DTIR1) {
			r.DTIR1 = 0
		}
		if math.IsNaN(r.LTV) {
			r.LTV = 0
		}
		if math.IsNaN(r.PropertyValue) {
			r.PropertyValue = 0
		}
		kept = append(kept, r)
	}
	return kept, dropped
}

// RiskScore computes the weighted composite of the inverted credit score,
// debt-to-income, and loan-to-value percentages.
func RiskScore(r data.LoanRecord, w Weights) float64 {
	credit := 100 - float64(r.CreditScore)/10
	return credit*w.Credit + r.DTIR1*w.DTI + r.LTV*w.LTV
}

// Engineer derives the silver-layer record for each cleaned loan. Input
// records must already satisfy the Clean invariants (income > 0 in
// particular); the mapping itself has no side effects and no error paths.
func Engineer(list []data.LoanRecord, w Weights, b Bands) []data.EngineeredRecord {
	out := make([]data.EngineeredRecord, 0, len(list))
	for _, r := range list {
		e := data.EngineeredRecord{
			LoanRecord:        r,
			LoanToIncomeRatio: r.LoanAmount / r.Income,
			RiskScore:         RiskScore(r, w),
			CreditBand:        b.CreditBand(r.CreditScore),
		}
		// Collateral-free purposes carry no property value; the ratio is
		// degenerate there, not a data-quality failure.
		if r.PropertyValue > 0 {
			e.LoanToPropertyRatio = r.LoanAmount / r.PropertyValue
		}
		out = append(out, e)
	}
	return out
}

// Transform runs the full bronze-to-silver stage sequence and reports the
// dropped-row count alongside the engineered records.
func Transform(list []data.LoanRecord, w Weights, b Bands) ([]data.EngineeredRecord, int) {
	kept, dropped := Clean(list)
	return Engineer(kept, w, b), dropped
}
