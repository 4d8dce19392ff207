// Package track provides experiment-sink implementations for model runs.
package track

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/lendwatch/lendctl/pkg/data"
	"github.com/lendwatch/lendctl/pkg/model"
)

// SlogTracker logs each run through the default structured logger.
type SlogTracker struct{}

func (SlogTracker) Record(_ context.Context, r *model.Run) error {
	slog.Info("model run",
		"id", r.ID,
		"name", r.Name,
		"accuracy", r.Metrics.Accuracy,
		"precision", r.Metrics.Precision,
		"recall", r.Metrics.Recall,
		"f1", r.Metrics.F1,
		"roc_auc", r.Metrics.ROCAUC)
	return nil
}

// StoreTracker persists each run to the model_run tables.
type StoreTracker struct {
	DB *sql.DB
}

func (t StoreTracker) Record(_ context.Context, r *model.Run) error {
	return data.SaveModelRun(t.DB, &data.ModelRun{
		ID:          r.ID,
		Name:        r.Name,
		TrainedAt:   r.TrainedAt.Format(time.RFC3339),
		TP:          r.Confusion.TP,
		FP:          r.Confusion.FP,
		TN:          r.Confusion.TN,
		FN:          r.Confusion.FN,
		Accuracy:    r.Metrics.Accuracy,
		Precision:   r.Metrics.Precision,
		Recall:      r.Metrics.Recall,
		F1:          r.Metrics.F1,
		ROCAUC:      r.Metrics.ROCAUC,
		Params:      r.Params,
		Importances: r.Importances,
	})
}

// Multi fans a run out to every tracker, stopping at the first failure.
type Multi []model.Tracker

func (m Multi) Record(ctx context.Context, r *model.Run) error {
	for _, t := range m {
		if err := t.Record(ctx, r); err != nil {
			return err
		}
	}
	return nil
}
