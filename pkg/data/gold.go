package data

import (
	"database/sql"

	"github.com/pkg/errors"
)

const (
	// Gold refresh statements. Each rebuilds one business-ready aggregate
	// from the silver layer inside the caller's transaction.
	refreshRegionRiskSQL = `INSERT INTO gold_region_risk
		SELECT
			region,
			COUNT(*) AS loans,
			SUM(status) AS defaults,
			CAST(SUM(status) AS REAL) / COUNT(*) AS default_rate,
			AVG(risk_score) AS avg_risk_score
		FROM loan_feature
		GROUP BY region`

	refreshPurposeRiskSQL = `INSERT INTO gold_purpose_risk
		SELECT
			loan_purpose,
			COUNT(*) AS loans,
			SUM(status) AS defaults,
			CAST(SUM(status) AS REAL) / COUNT(*) AS default_rate,
			AVG(loan_amount) AS avg_loan_amount
		FROM loan_feature
		GROUP BY loan_purpose`

	refreshBandDistributionSQL = `INSERT INTO gold_band_distribution
		SELECT
			credit_band,
			COUNT(*) AS loans,
			SUM(status) AS defaults,
			CAST(SUM(status) AS REAL) / COUNT(*) AS default_rate
		FROM loan_feature
		GROUP BY credit_band`

	refreshGSTStateYearSQL = `INSERT INTO gold_gst_state_year
		SELECT
			state,
			year,
			SUM(revenue) AS revenue,
			RANK() OVER (
				PARTITION BY year
				ORDER BY SUM(revenue) DESC
			) AS revenue_rank
		FROM gst_raw
		GROUP BY state, year`

	selectRegionRiskSQL = `SELECT region, loans, defaults, default_rate, avg_risk_score
		FROM gold_region_risk
		ORDER BY default_rate DESC, region`

	selectPurposeRiskSQL = `SELECT loan_purpose, loans, defaults, default_rate, avg_loan_amount
		FROM gold_purpose_risk
		ORDER BY default_rate DESC, loan_purpose`

	selectBandDistributionSQL = `SELECT credit_band, loans, defaults, default_rate
		FROM gold_band_distribution
		ORDER BY CASE credit_band
			WHEN 'Poor' THEN 0
			WHEN 'Fair' THEN 1
			WHEN 'Good' THEN 2
			ELSE 3
		END`

	selectGSTRankingSQL = `SELECT state, year, revenue, revenue_rank
		FROM gold_gst_state_year
		WHERE year = COALESCE(?, year)
		ORDER BY year, revenue_rank
		LIMIT ?`
)

type RegionRisk struct {
	Region       string  `json:"region"`
	Loans        int     `json:"loans"`
	Defaults     int     `json:"defaults"`
	DefaultRate  float64 `json:"default_rate"`
	AvgRiskScore float64 `json:"avg_risk_score"`
}

type PurposeRisk struct {
	LoanPurpose   string  `json:"loan_purpose"`
	Loans         int     `json:"loans"`
	Defaults      int     `json:"defaults"`
	DefaultRate   float64 `json:"default_rate"`
	AvgLoanAmount float64 `json:"avg_loan_amount"`
}

type BandDistribution struct {
	CreditBand  string  `json:"credit_band"`
	Loans       int     `json:"loans"`
	Defaults    int     `json:"defaults"`
	DefaultRate float64 `json:"default_rate"`
}

type GSTRanking struct {
	State       string  `json:"state"`
	Year        int     `json:"year"`
	Revenue     float64 `json:"revenue"`
	RevenueRank int     `json:"revenue_rank"`
}

// RefreshGold rebuilds all gold aggregates from silver and bronze in a single
// transaction.
func RefreshGold(db *sql.DB) error {
	if db == nil {
		return errDBNotInitialized
	}

	tx, err := db.Begin()
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}

	stmts := []struct {
		clear   string
		refresh string
	}{
		{"DELETE FROM gold_region_risk", refreshRegionRiskSQL},
		{"DELETE FROM gold_purpose_risk", refreshPurposeRiskSQL},
		{"DELETE FROM gold_band_distribution", refreshBandDistributionSQL},
		{"DELETE FROM gold_gst_state_year", refreshGSTStateYearSQL},
	}

	for _, s := range stmts {
		if _, err = tx.Exec(s.clear); err == nil {
			_, err = tx.Exec(s.refresh)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				return errors.Wrap(rbErr, "failed to rollback transaction")
			}
			return errors.Wrap(err, "failed to refresh gold table")
		}
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	return nil
}

// GetRegionRisk returns the per-region default aggregate, riskiest first.
func GetRegionRisk(db *sql.DB) ([]RegionRisk, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	rows, err := db.Query(selectRegionRiskSQL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query region risk")
	}
	defer rows.Close()

	list := make([]RegionRisk, 0)
	for rows.Next() {
		var r RegionRisk
		if err := rows.Scan(&r.Region, &r.Loans, &r.Defaults, &r.DefaultRate, &r.AvgRiskScore); err != nil {
			return nil, errors.Wrap(err, "failed to scan region risk")
		}
		list = append(list, r)
	}
	return list, rows.Err()
}

// GetPurposeRisk returns the per-purpose default aggregate, riskiest first.
func GetPurposeRisk(db *sql.DB) ([]PurposeRisk, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	rows, err := db.Query(selectPurposeRiskSQL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query purpose risk")
	}
	defer rows.Close()

	list := make([]PurposeRisk, 0)
	for rows.Next() {
		var r PurposeRisk
		if err := rows.Scan(&r.LoanPurpose, &r.Loans, &r.Defaults, &r.DefaultRate, &r.AvgLoanAmount); err != nil {
			return nil, errors.Wrap(err, "failed to scan purpose risk")
		}
		list = append(list, r)
	}
	return list, rows.Err()
}

// GetBandDistribution returns loan counts and default rates per credit band.
func GetBandDistribution(db *sql.DB) ([]BandDistribution, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	rows, err := db.Query(selectBandDistributionSQL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query band distribution")
	}
	defer rows.Close()

	list := make([]BandDistribution, 0)
	for rows.Next() {
		var r BandDistribution
		if err := rows.Scan(&r.CreditBand, &r.Loans, &r.Defaults, &r.DefaultRate); err != nil {
			return nil, errors.Wrap(err, "failed to scan band distribution")
		}
		list = append(list, r)
	}
	return list, rows.Err()
}

// GetGSTRanking returns state revenue rankings, optionally filtered by year.
func GetGSTRanking(db *sql.DB, year *int, limit int) ([]GSTRanking, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	rows, err := db.Query(selectGSTRankingSQL, year, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query gst ranking")
	}
	defer rows.Close()

	list := make([]GSTRanking, 0)
	for rows.Next() {
		var r GSTRanking
		if err := rows.Scan(&r.State, &r.Year, &r.Revenue, &r.RevenueRank); err != nil {
			return nil, errors.Wrap(err, "failed to scan gst ranking")
		}
		list = append(list, r)
	}
	return list, rows.Err()
}
