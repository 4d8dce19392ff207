package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRun(id, name string, auc float64) *ModelRun {
	return &ModelRun{
		ID:        id,
		Name:      name,
		TrainedAt: "2025-08-01T12:00:00Z",
		TP:        684,
		FP:        39,
		TN:        2131,
		FN:        173,
		Accuracy:  0.9300,
		Precision: 0.9461,
		Recall:    0.7981,
		F1:        0.8658,
		ROCAUC:    auc,
		Params:    map[string]string{"seed": "42", "trees": "100"},
		Importances: map[string]float64{
			"risk_score":   0.4,
			"credit_score": 0.35,
			"dtir1":        0.25,
		},
	}
}

func TestSaveModelRun_RoundTrip(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, SaveModelRun(db, testRun("r1", "random_forest", 0.91)))

	runs, err := ListModelRuns(db)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	r := runs[0]
	assert.Equal(t, "random_forest", r.Name)
	assert.Equal(t, 684, r.TP)
	assert.Equal(t, "42", r.Params["seed"])
	assert.InDelta(t, 0.4, r.Importances["risk_score"], 1e-9)
}

func TestListModelRuns_OrderedByROCAUC(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, SaveModelRun(db, testRun("r1", "logistic_regression", 0.85)))
	require.NoError(t, SaveModelRun(db, testRun("r2", "gradient_boosting", 0.93)))
	require.NoError(t, SaveModelRun(db, testRun("r3", "random_forest", 0.91)))

	runs, err := ListModelRuns(db)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "gradient_boosting", runs[0].Name)
	assert.Equal(t, "logistic_regression", runs[2].Name)
}

// Stored metrics must agree with the stored confusion matrix; headline
// figures are never trusted over the counts.
func TestModelRun_MetricsConsistentWithConfusion(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, SaveModelRun(db, testRun("r1", "random_forest", 0.91)))

	runs, err := ListModelRuns(db)
	require.NoError(t, err)
	r := runs[0]

	total := float64(r.TP + r.FP + r.TN + r.FN)
	assert.InDelta(t, float64(r.TP+r.TN)/total, r.Accuracy, 1e-3)
	assert.InDelta(t, float64(r.TP)/float64(r.TP+r.FP), r.Precision, 1e-3)
	assert.InDelta(t, float64(r.TP)/float64(r.TP+r.FN), r.Recall, 1e-3)
}

func TestSaveModelRun_Invalid(t *testing.T) {
	db := setupTestDB(t)
	assert.Error(t, SaveModelRun(nil, testRun("r1", "x", 0.5)))
	assert.Error(t, SaveModelRun(db, nil))
	assert.Error(t, SaveModelRun(db, &ModelRun{Name: "missing-id"}))
}

func TestSaveModelRun_DuplicateID(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, SaveModelRun(db, testRun("r1", "x", 0.5)))
	assert.Error(t, SaveModelRun(db, testRun("r1", "x", 0.5)))
}
