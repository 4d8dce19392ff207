package pipeline

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lendwatch/lendctl/pkg/data"
)

func TestRiskScore_DocumentedScenario(t *testing.T) {
	r := data.LoanRecord{
		LoanAmount:  240000,
		Income:      100000,
		CreditScore: 650,
		DTIR1:       40,
		LTV:         0,
	}

	out := Engineer([]data.LoanRecord{r}, DefaultWeights(), DefaultBands())
	require.Len(t, out, 1)

	assert.InDelta(t, 2.4, out[0].LoanToIncomeRatio, 1e-9)
	// (100 - 650/10)*0.4 + 40*0.3 = 14 + 12
	assert.InDelta(t, 26.0, out[0].RiskScore, 1e-9)
	assert.Equal(t, BandFair, out[0].CreditBand)
}

func TestCreditBand_TotalAndNonOverlapping(t *testing.T) {
	b := DefaultBands()
	counts := map[string]int{}
	for score := 300; score <= 850; score++ {
		counts[b.CreditBand(score)]++
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	assert.Equal(t, 551, total)
	assert.Len(t, counts, 4)
}

func TestCreditBand_Boundaries(t *testing.T) {
	b := DefaultBands()
	tests := []struct {
		score int
		band  string
	}{
		{300, BandPoor},
		{579, BandPoor},
		{580, BandFair},
		{669, BandFair},
		{670, BandGood},
		{739, BandGood},
		{740, BandExcellent},
		{850, BandExcellent},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.band, b.CreditBand(tc.score), "score %d", tc.score)
	}
}

func TestClean_DropsInvalidRecords(t *testing.T) {
	list := []data.LoanRecord{
		{LoanAmount: 100000, Income: 50000, CreditScore: 700},
		{LoanAmount: 100000, Income: 0, CreditScore: 700},               // zero income
		{LoanAmount: 100000, Income: math.NaN(), CreditScore: 700},     // missing income
		{LoanAmount: math.NaN(), Income: 50000, CreditScore: 700},      // missing amount
		{LoanAmount: 100000, Income: 50000, CreditScore: 0},            // missing score
		{LoanAmount: 100000, Income: -1, CreditScore: 700},             // negative income
		{LoanAmount: 200000, Income: 80000, CreditScore: 850},
	}

	kept, dropped := Clean(list)
	assert.Len(t, kept, 2)
	assert.Equal(t, 5, dropped)
}

func TestClean_ZeroFillsOptionalFields(t *testing.T) {
	list := []data.LoanRecord{
		{LoanAmount: 100000, Income: 50000, CreditScore: 700,
			DTIR1: math.NaN(), LTV: math.NaN(), PropertyValue: math.NaN()},
	}

	kept, dropped := Clean(list)
	require.Len(t, kept, 1)
	assert.Zero(t, dropped)
	assert.Zero(t, kept[0].DTIR1)
	assert.Zero(t, kept[0].LTV)
	assert.Zero(t, kept[0].PropertyValue)
}

func TestEngineer_PropertyRatio(t *testing.T) {
	list := []data.LoanRecord{
		{LoanAmount: 150000, Income: 60000, CreditScore: 720, PropertyValue: 300000},
		{LoanAmount: 150000, Income: 60000, CreditScore: 720, PropertyValue: 0},
	}

	out := Engineer(list, DefaultWeights(), DefaultBands())
	require.Len(t, out, 2)
	assert.InDelta(t, 0.5, out[0].LoanToPropertyRatio, 1e-9)
	assert.Zero(t, out[1].LoanToPropertyRatio)
}

func TestTransform_Idempotent(t *testing.T) {
	list := []data.LoanRecord{
		{LoanAmount: 240000, Income: 100000, CreditScore: 650, DTIR1: 40, LTV: 75, PropertyValue: 320000, Region: "south", Status: 1},
		{LoanAmount: 100000, Income: 0, CreditScore: 700},
		{LoanAmount: 90000, Income: 45000, CreditScore: 810, DTIR1: 20, LTV: 60, PropertyValue: 150000, Region: "north"},
	}

	first, droppedFirst := Transform(list, DefaultWeights(), DefaultBands())
	second, droppedSecond := Transform(list, DefaultWeights(), DefaultBands())

	assert.Equal(t, droppedFirst, droppedSecond)
	assert.Equal(t, first, second)
}

func TestTransform_CountsDroppedRows(t *testing.T) {
	list := []data.LoanRecord{
		{LoanAmount: 100000, Income: 0, CreditScore: 700},
		{LoanAmount: 100000, Income: 50000, CreditScore: 700},
	}

	out, dropped := Transform(list, DefaultWeights(), DefaultBands())
	assert.Len(t, out, 1)
	assert.Equal(t, 1, dropped)
	for _, r := range out {
		assert.Positive(t, r.Income)
	}
}
