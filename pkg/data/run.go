package data

import (
	"database/sql"

	"github.com/pkg/errors"
)

const (
	insertRunSQL = `INSERT INTO model_run (
			id, name, trained_at, tp, fp, tn, fn,
			accuracy, precision, recall, f1, roc_auc
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	insertRunParamSQL = `INSERT INTO model_run_param (run_id, name, value) VALUES (?, ?, ?)`

	insertImportanceSQL = `INSERT INTO feature_importance (run_id, feature, weight) VALUES (?, ?, ?)`

	selectRunSQL = `SELECT
			id, name, trained_at, tp, fp, tn, fn,
			accuracy, precision, recall, f1, roc_auc
		FROM model_run
		ORDER BY roc_auc DESC, accuracy DESC`

	selectRunParamsSQL = `SELECT name, value FROM model_run_param WHERE run_id = ?`

	selectImportancesSQL = `SELECT feature, weight FROM feature_importance WHERE run_id = ? ORDER BY weight DESC`
)

// ModelRun is a persisted experiment record: one trained model variant with
// its held-out confusion matrix, derived metrics, hyperparameters, and
// feature importances.
type ModelRun struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	TrainedAt   string             `json:"trained_at"`
	TP          int                `json:"tp"`
	FP          int                `json:"fp"`
	TN          int                `json:"tn"`
	FN          int                `json:"fn"`
	Accuracy    float64            `json:"accuracy"`
	Precision   float64            `json:"precision"`
	Recall      float64            `json:"recall"`
	F1          float64            `json:"f1"`
	ROCAUC      float64            `json:"roc_auc"`
	Params      map[string]string  `json:"params,omitempty"`
	Importances map[string]float64 `json:"importances,omitempty"`
}

// SaveModelRun persists a run with its params and importances transactionally.
func SaveModelRun(db *sql.DB, r *ModelRun) error {
	if db == nil {
		return errDBNotInitialized
	}
	if r == nil || r.ID == "" {
		return errors.New("model run with id required")
	}

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

	_, err = tx.Exec(insertRunSQL, r.ID, r.Name, r.TrainedAt,
		r.TP, r.FP, r.TN, r.FN, r.Accuracy, r.Precision, r.Recall, r.F1, r.ROCAUC)
	if err != nil {
		return rollback(err, "failed to insert model run")
	}

	for name, value := range r.Params {
		if _, err = tx.Exec(insertRunParamSQL, r.ID, name, value); err != nil {
			return rollback(err, "failed to insert model run param")
		}
	}

	for feature, weight := range r.Importances {
		if _, err = tx.Exec(insertImportanceSQL, r.ID, feature, weight); err != nil {
			return rollback(err, "failed to insert feature importance")
		}
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	return nil
}

// ListModelRuns returns all persisted runs, best ROC-AUC first, with params
// and importances attached.
func ListModelRuns(db *sql.DB) ([]*ModelRun, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	rows, err := db.Query(selectRunSQL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query model runs")
	}
	defer rows.Close()

	list := make([]*ModelRun, 0)
	for rows.Next() {
		var r ModelRun
		if err := rows.Scan(&r.ID, &r.Name, &r.TrainedAt, &r.TP, &r.FP, &r.TN,
			&r.FN, &r.Accuracy, &r.Precision, &r.Recall, &r.F1, &r.ROCAUC); err != nil {
			return nil, errors.Wrap(err, "failed to scan model run")
		}
		list = append(list, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error iterating model runs")
	}

	for _, r := range list {
		if r.Params, err = getRunParams(db, r.ID); err != nil {
			return nil, err
		}
		if r.Importances, err = getRunImportances(db, r.ID); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func getRunParams(db *sql.DB, runID string) (map[string]string, error) {
	rows, err := db.Query(selectRunParamsSQL, runID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query run params")
	}
	defer rows.Close()

	m := make(map[string]string)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, errors.Wrap(err, "failed to scan run param")
		}
		m[name] = value
	}
	return m, rows.Err()
}

func getRunImportances(db *sql.DB, runID string) (map[string]float64, error) {
	rows, err := db.Query(selectImportancesSQL, runID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query feature importances")
	}
	defer rows.Close()

	m := make(map[string]float64)
	for rows.Next() {
		var feature string
		var weight float64
		if err := rows.Scan(&feature, &weight); err != nil {
			return nil, errors.Wrap(err, "failed to scan feature importance")
		}
		m[feature] = weight
	}
	return m, rows.Err()
}
