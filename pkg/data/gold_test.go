package data

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedGoldData(t *testing.T, db *sql.DB) {
	t.Helper()
	features := []EngineeredRecord{
		{LoanRecord: LoanRecord{ID: 1, LoanAmount: 100000, Income: 50000, CreditScore: 550,
			LoanPurpose: "p1", Region: "south", Status: 1},
			LoanToIncomeRatio: 2, RiskScore: 60, CreditBand: "Poor"},
		{LoanRecord: LoanRecord{ID: 2, LoanAmount: 200000, Income: 80000, CreditScore: 700,
			LoanPurpose: "p1", Region: "south", Status: 0},
			LoanToIncomeRatio: 2.5, RiskScore: 30, CreditBand: "Good"},
		{LoanRecord: LoanRecord{ID: 3, LoanAmount: 150000, Income: 90000, CreditScore: 800,
			LoanPurpose: "p2", Region: "north", Status: 0},
			LoanToIncomeRatio: 1.7, RiskScore: 20, CreditBand: "Excellent"},
	}
	require.NoError(t, ReplaceFeatures(db, features))

	gst := []GSTRecord{
		{State: "KA", Year: 2023, Revenue: 1200},
		{State: "MH", Year: 2023, Revenue: 2100},
		{State: "KA", Year: 2024, Revenue: 1500},
	}
	require.NoError(t, InsertGST(db, gst))
}

func TestRefreshGold_RegionRisk(t *testing.T) {
	db := setupTestDB(t)
	seedGoldData(t, db)
	require.NoError(t, RefreshGold(db))

	regions, err := GetRegionRisk(db)
	require.NoError(t, err)
	require.Len(t, regions, 2)

	// Riskiest region first.
	assert.Equal(t, "south", regions[0].Region)
	assert.Equal(t, 2, regions[0].Loans)
	assert.Equal(t, 1, regions[0].Defaults)
	assert.InDelta(t, 0.5, regions[0].DefaultRate, 1e-9)
	assert.InDelta(t, 45, regions[0].AvgRiskScore, 1e-9)

	assert.Equal(t, "north", regions[1].Region)
	assert.Zero(t, regions[1].Defaults)
}

func TestRefreshGold_PurposeRisk(t *testing.T) {
	db := setupTestDB(t)
	seedGoldData(t, db)
	require.NoError(t, RefreshGold(db))

	purposes, err := GetPurposeRisk(db)
	require.NoError(t, err)
	require.Len(t, purposes, 2)
	assert.Equal(t, "p1", purposes[0].LoanPurpose)
	assert.InDelta(t, 150000, purposes[0].AvgLoanAmount, 1e-9)
}

func TestRefreshGold_BandDistribution(t *testing.T) {
	db := setupTestDB(t)
	seedGoldData(t, db)
	require.NoError(t, RefreshGold(db))

	bands, err := GetBandDistribution(db)
	require.NoError(t, err)
	require.Len(t, bands, 3)

	// Ordered worst band first.
	assert.Equal(t, "Poor", bands[0].CreditBand)
	assert.InDelta(t, 1.0, bands[0].DefaultRate, 1e-9)
	assert.Equal(t, "Excellent", bands[2].CreditBand)
}

func TestRefreshGold_GSTRanking(t *testing.T) {
	db := setupTestDB(t)
	seedGoldData(t, db)
	require.NoError(t, RefreshGold(db))

	year := 2023
	ranking, err := GetGSTRanking(db, &year, 10)
	require.NoError(t, err)
	require.Len(t, ranking, 2)

	assert.Equal(t, "MH", ranking[0].State)
	assert.Equal(t, 1, ranking[0].RevenueRank)
	assert.Equal(t, "KA", ranking[1].State)
	assert.Equal(t, 2, ranking[1].RevenueRank)

	all, err := GetGSTRanking(db, nil, 10)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRefreshGold_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	seedGoldData(t, db)
	require.NoError(t, RefreshGold(db))
	require.NoError(t, RefreshGold(db))

	regions, err := GetRegionRisk(db)
	require.NoError(t, err)
	assert.Len(t, regions, 2)
}

func TestGold_NilDB(t *testing.T) {
	assert.Error(t, RefreshGold(nil))
	_, err := GetRegionRisk(nil)
	assert.Error(t, err)
	_, err = GetGSTRanking(nil, nil, 1)
	assert.Error(t, err)
}
