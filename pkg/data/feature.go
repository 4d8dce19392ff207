package data

import (
	"database/sql"

	"github.com/pkg/errors"
)

const (
	insertFeatureSQL = `INSERT INTO loan_feature (
			id, loan_amount, income, credit_score, dtir1, ltv,
			property_value, loan_purpose, region, status,
			loan_to_income_ratio, loan_to_property_ratio, risk_score, credit_band
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	selectFeatureSQL = `SELECT
			id, loan_amount, income, credit_score, dtir1, ltv,
			property_value, loan_purpose, region, status,
			loan_to_income_ratio, loan_to_property_ratio, risk_score, credit_band
		FROM loan_feature
		ORDER BY id`
)

// EngineeredRecord is a silver-layer loan row: the cleaned raw fields plus
// the derived ratio, risk score, and credit band columns.
type EngineeredRecord struct {
	LoanRecord
	LoanToIncomeRatio   float64 `json:"loan_to_income_ratio"`
	LoanToPropertyRatio float64 `json:"loan_to_property_ratio"`
	RiskScore           float64 `json:"risk_score"`
	CreditBand          string  `json:"credit_band"`
}

// ReplaceFeatures swaps the entire silver table for the given records in one
// transaction. A failed refresh leaves the previous table intact, so a run
// never publishes a half-written derived table.
func ReplaceFeatures(db *sql.DB, list []EngineeredRecord) error {
	if db == nil {
		return errDBNotInitialized
	}

	stmt, err := db.Prepare(insertFeatureSQL)
	if err != nil {
		return errors.Wrap(err, "failed to prepare feature insert statement")
	}
	defer stmt.Close()

	tx, err := db.Begin()
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}

	rollback := func(cause error, msg string) error {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Wrap(rbErr, "failed to rollback transaction")
		}
		return errors.Wrap(cause, msg)
	}

	if _, err = tx.Exec("DELETE FROM loan_feature"); err != nil {
		return rollback(err, "failed to clear feature table")
	}

	for _, r := range list {
		_, err = tx.Stmt(stmt).Exec(
			r.ID, r.LoanAmount, r.Income, r.CreditScore, r.DTIR1, r.LTV,
			r.PropertyValue, r.LoanPurpose, r.Region, r.Status,
			r.LoanToIncomeRatio, r.LoanToPropertyRatio, r.RiskScore, r.CreditBand)
		if err != nil {
			return rollback(err, "failed to insert feature record")
		}
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	return nil
}

// ListFeatures returns all silver records ordered by source row id.
func ListFeatures(db *sql.DB) ([]EngineeredRecord, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	rows, err := db.Query(selectFeatureSQL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query feature records")
	}
	defer rows.Close()

	list := make([]EngineeredRecord, 0)
	for rows.Next() {
		var r EngineeredRecord
		if err := rows.Scan(&r.ID, &r.LoanAmount, &r.Income, &r.CreditScore,
			&r.DTIR1, &r.LTV, &r.PropertyValue, &r.LoanPurpose, &r.Region,
			&r.Status, &r.LoanToIncomeRatio, &r.LoanToPropertyRatio,
			&r.RiskScore, &r.CreditBand); err != nil {
			return nil, errors.Wrap(err, "failed to scan feature record")
		}
		list = append(list, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error iterating feature records")
	}
	return list, nil
}
