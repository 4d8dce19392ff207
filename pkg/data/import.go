package data

import (
	"database/sql"
	"encoding/csv"
	"math"
	"os"
	"sort"
	"strconv"

	"github.com/pkg/errors"
)

var (
	loanColumns = []string{
		"loan_amount", "income", "credit_score", "dtir1", "ltv",
		"property_value", "loan_purpose", "region", "status",
	}

	gstColumns = []string{"state", "year", "revenue"}
)

// checkSchema verifies the header carries exactly the expected column set.
// Order is free, extra or missing columns are fatal for the run.
func checkSchema(want, got []string) (map[string]int, error) {
	index := make(map[string]int, len(got))
	for i, name := range got {
		index[name] = i
	}

	match := len(got) == len(want)
	for _, name := range want {
		if _, ok := index[name]; !ok {
			match = false
			break
		}
	}
	if !match {
		gotSorted := append([]string(nil), got...)
		sort.Strings(gotSorted)
		return nil, &SchemaMismatchError{Want: want, Got: gotSorted}
	}
	return index, nil
}

// parseFloat maps empty cells to NaN so missing values reach the bronze
// layer as NULLs for the cleaning stage to judge.
func parseFloat(s string) (float64, error) {
	if s == "" {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}

// ImportLoanCSV reads a loan dataset file into the bronze loan table.
// Nothing is committed when any row fails to parse.
func ImportLoanCSV(db *sql.DB, path string) (int, error) {
	records, err := readCSV(path)
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, errors.Errorf("empty input file: %s", path)
	}

	index, err := checkSchema(loanColumns, records[0])
	if err != nil {
		return 0, err
	}

	list := make([]LoanRecord, 0, len(records)-1)
	for n, row := range records[1:] {
		r, err := parseLoanRow(row, index)
		if err != nil {
			return 0, errors.Wrapf(err, "invalid loan row %d", n+2)
		}
		list = append(list, r)
	}

	if err := InsertLoans(db, list); err != nil {
		return 0, err
	}
	return len(list), nil
}

func parseLoanRow(row []string, index map[string]int) (LoanRecord, error) {
	var r LoanRecord
	var err error

	if r.LoanAmount, err = parseFloat(row[index["loan_amount"]]); err != nil {
		return r, errors.Wrap(err, "loan_amount")
	}
	if r.Income, err = parseFloat(row[index["income"]]); err != nil {
		return r, errors.Wrap(err, "income")
	}
	if v := row[index["credit_score"]]; v != "" {
		if r.CreditScore, err = strconv.Atoi(v); err != nil {
			return r, errors.Wrap(err, "credit_score")
		}
	}
	if r.DTIR1, err = parseFloat(row[index["dtir1"]]); err != nil {
		return r, errors.Wrap(err, "dtir1")
	}
	if r.LTV, err = parseFloat(row[index["ltv"]]); err != nil {
		return r, errors.Wrap(err, "ltv")
	}
	if r.PropertyValue, err = parseFloat(row[index["property_value"]]); err != nil {
		return r, errors.Wrap(err, "property_value")
	}
	r.LoanPurpose = row[index["loan_purpose"]]
	r.Region = row[index["region"]]
	if r.Status, err = strconv.Atoi(row[index["status"]]); err != nil {
		return r, errors.Wrap(err, "status")
	}
	if r.Status != 0 && r.Status != 1 {
		return r, errors.Errorf("status must be 0 or 1, got %d", r.Status)
	}
	return r, nil
}

// ImportGSTCSV reads a GST dataset file into the bronze gst table.
func ImportGSTCSV(db *sql.DB, path string) (int, error) {
	records, err := readCSV(path)
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, errors.Errorf("empty input file: %s", path)
	}

	index, err := checkSchema(gstColumns, records[0])
	if err != nil {
		return 0, err
	}

	list := make([]GSTRecord, 0, len(records)-1)
	for n, row := range records[1:] {
		var r GSTRecord
		r.State = row[index["state"]]
		if r.Year, err = strconv.Atoi(row[index["year"]]); err != nil {
			return 0, errors.Wrapf(err, "invalid gst row %d: year", n+2)
		}
		if r.Revenue, err = strconv.ParseFloat(row[index["revenue"]], 64); err != nil {
			return 0, errors.Wrapf(err, "invalid gst row %d: revenue", n+2)
		}
		list = append(list, r)
	}

	if err := InsertGST(db, list); err != nil {
		return 0, err
	}
	return len(list), nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open file: %s", path)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse csv file: %s", path)
	}
	return records, nil
}
