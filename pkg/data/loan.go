package data

import (
	"database/sql"
	"fmt"
	"math"

	"github.com/pkg/errors"
)

const (
	insertLoanSQL = `INSERT INTO loan_raw (
			loan_amount, income, credit_score, dtir1, ltv,
			property_value, loan_purpose, region, status
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	selectLoanSQL = `SELECT
			id, loan_amount, income, credit_score, dtir1, ltv,
			property_value, loan_purpose, region, status
		FROM loan_raw
		ORDER BY id`
)

// LoanRecord is a raw (bronze) loan application row. Numeric fields missing
// in the source file are NaN (floats) or 0 (credit score); the cleaning stage
// is responsible for dropping them.
type LoanRecord struct {
	ID            int64   `json:"id,omitempty"`
	LoanAmount    float64 `json:"loan_amount"`
	Income        float64 `json:"income"`
	CreditScore   int     `json:"credit_score"`
	DTIR1         float64 `json:"dtir1"`
	LTV           float64 `json:"ltv"`
	PropertyValue float64 `json:"property_value"`
	LoanPurpose   string  `json:"loan_purpose,omitempty"`
	Region        string  `json:"region,omitempty"`
	Status        int     `json:"status"`
}

// SchemaMismatchError indicates an input file whose column set does not match
// the expected record schema. Fatal for the ingestion run, never coerced.
type SchemaMismatchError struct {
	Want []string
	Got  []string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("schema mismatch: want columns %v, got %v", e.Want, e.Got)
}

// nullable maps NaN to a SQL NULL so missing values survive the bronze layer.
func nullable(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: !math.IsNaN(v)}
}

func nullableInt(v int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(v), Valid: v != 0}
}

func fromNullable(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}

// InsertLoans saves raw loan records in a single transaction.
func InsertLoans(db *sql.DB, list []LoanRecord) error {
	if db == nil {
		return errDBNotInitialized
	}

	stmt, err := db.Prepare(insertLoanSQL)
	if err != nil {
		return errors.Wrap(err, "failed to prepare loan insert statement")
	}
	defer stmt.Close()

	tx, err := db.Begin()
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}

	for _, r := range list {
		_, err = tx.Stmt(stmt).Exec(
			nullable(r.LoanAmount), nullable(r.Income), nullableInt(r.CreditScore),
			nullable(r.DTIR1), nullable(r.LTV), nullable(r.PropertyValue),
			r.LoanPurpose, r.Region, r.Status)
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				return errors.Wrap(rbErr, "failed to rollback transaction")
			}
			return errors.Wrap(err, "failed to insert loan record")
		}
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	return nil
}

// ListLoans returns all bronze loan records in insertion order.
func ListLoans(db *sql.DB) ([]LoanRecord, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	rows, err := db.Query(selectLoanSQL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query loan records")
	}
	defer rows.Close()

	list := make([]LoanRecord, 0)
	for rows.Next() {
		var r LoanRecord
		var amount, income, dtir1, ltv, prop sql.NullFloat64
		var score sql.NullInt64
		if err := rows.Scan(&r.ID, &amount, &income, &score, &dtir1, &ltv,
			&prop, &r.LoanPurpose, &r.Region, &r.Status); err != nil {
			return nil, errors.Wrap(err, "failed to scan loan record")
		}
		r.LoanAmount = fromNullable(amount)
		r.Income = fromNullable(income)
		r.CreditScore = int(score.Int64)
		r.DTIR1 = fromNullable(dtir1)
		r.LTV = fromNullable(ltv)
		r.PropertyValue = fromNullable(prop)
		list = append(list, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error iterating loan records")
	}
	return list, nil
}

// CountLoans returns the number of bronze loan rows.
func CountLoans(db *sql.DB) (int, error) {
	if db == nil {
		return 0, errDBNotInitialized
	}
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM loan_raw").Scan(&n); err != nil {
		return 0, errors.Wrap(err, "failed to count loan records")
	}
	return n, nil
}
