package data

import (
	"database/sql"

	"github.com/pkg/errors"
)

const (
	insertGSTSQL = `INSERT INTO gst_raw (state, year, revenue) VALUES (?, ?, ?)`

	selectGSTSQL = `SELECT id, state, year, revenue FROM gst_raw ORDER BY id`
)

// GSTRecord is a raw (bronze) state-year tax revenue row.
type GSTRecord struct {
	ID      int64   `json:"id,omitempty"`
	State   string  `json:"state"`
	Year    int     `json:"year"`
	Revenue float64 `json:"revenue"`
}

// InsertGST saves raw GST records in a single transaction.
func InsertGST(db *sql.DB, list []GSTRecord) error {
	if db == nil {
		return errDBNotInitialized
	}

	stmt, err := db.Prepare(insertGSTSQL)
	if err != nil {
		return errors.Wrap(err, "failed to prepare gst insert statement")
	}
	defer stmt.Close()

	tx, err := db.Begin()
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}

	for _, r := range list {
		if _, err = tx.Stmt(stmt).Exec(r.State, r.Year, r.Revenue); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				return errors.Wrap(rbErr, "failed to rollback transaction")
			}
			return errors.Wrap(err, "failed to insert gst record")
		}
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	return nil
}

// ListGST returns all bronze GST records in insertion order.
func ListGST(db *sql.DB) ([]GSTRecord, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	rows, err := db.Query(selectGSTSQL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query gst records")
	}
	defer rows.Close()

	list := make([]GSTRecord, 0)
	for rows.Next() {
		var r GSTRecord
		if err := rows.Scan(&r.ID, &r.State, &r.Year, &r.Revenue); err != nil {
			return nil, errors.Wrap(err, "failed to scan gst record")
		}
		list = append(list, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error iterating gst records")
	}
	return list, nil
}
