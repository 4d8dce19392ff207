package model

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Metrics are the held-out evaluation metrics, all derived from the
// confusion matrix except ROC-AUC.
type Metrics struct {
	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	ROCAUC    float64 `json:"roc_auc"`
}

// Run is one trained model variant with its evaluation results.
type Run struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	TrainedAt   time.Time          `json:"trained_at"`
	Params      map[string]string  `json:"params"`
	Confusion   Confusion          `json:"confusion"`
	Metrics     Metrics            `json:"metrics"`
	Importances map[string]float64 `json:"importances"`
}

// Tracker is the injected experiment sink. Implementations live in
// pkg/track; the trainer never talks to a process-wide singleton.
type Tracker interface {
	Record(ctx context.Context, r *Run) error
}

// Trainer fits a set of classifiers on a fixed seeded split and evaluates
// each on the held-out portion.
type Trainer struct {
	TestRatio float64
	Seed      int64
	Tracker   Tracker
}

// Train fits and evaluates every model, records each run, and returns the
// runs together with the best one. Best means highest ROC-AUC; ties break on
// higher accuracy, then on model order. A model whose ROC-AUC is undefined
// fails the whole training run rather than reporting a default.
func (t *Trainer) Train(ctx context.Context, ds *Dataset, models []Classifier) ([]*Run, *Run, error) {
	if ds == nil || ds.Len() == 0 {
		return nil, nil, errors.New("empty dataset")
	}
	if len(models) == 0 {
		return nil, nil, errors.New("no models to train")
	}

	train, test, err := TrainTestSplit(ds, t.TestRatio, t.Seed)
	if err != nil {
		return nil, nil, err
	}

	runs := make([]*Run, len(models))
	var g errgroup.Group
	for i, m := range models {
		i, m := i, m
		g.Go(func() error {
			run, err := t.evaluate(m, train, test, ds.Names)
			if err != nil {
				return err
			}
			runs[i] = run
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	// Runs are recorded after the parallel fits, in model order, so the sink
	// sees a deterministic sequence and never concurrent writes.
	if t.Tracker != nil {
		for _, r := range runs {
			if err := t.Tracker.Record(ctx, r); err != nil {
				return nil, nil, errors.Wrapf(err, "failed to record %s run", r.Name)
			}
		}
	}

	best := runs[0]
	for _, r := range runs[1:] {
		if r.Metrics.ROCAUC > best.Metrics.ROCAUC ||
			(r.Metrics.ROCAUC == best.Metrics.ROCAUC && r.Metrics.Accuracy > best.Metrics.Accuracy) {
			best = r
		}
	}
	return runs, best, nil
}

func (t *Trainer) evaluate(m Classifier, train, test *Dataset, names []string) (*Run, error) {
	if err := m.Fit(train.X, train.Y); err != nil {
		return nil, errors.Wrapf(err, "failed to fit %s", m.Name())
	}

	scores := m.PredictProba(test.X)

	auc, err := ROCAUC(test.Y, scores)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to evaluate %s", m.Name())
	}

	confusion := NewConfusion(test.Y, Labels(scores))

	importances := make(map[string]float64, len(names))
	for j, w := range m.Importances() {
		importances[names[j]] = w
	}

	run := &Run{
		ID:        uuid.NewString(),
		Name:      m.Name(),
		TrainedAt: time.Now().UTC(),
		Params:    m.Params(),
		Confusion: confusion,
		Metrics: Metrics{
			Accuracy:  confusion.Accuracy(),
			Precision: confusion.Precision(),
			Recall:    confusion.Recall(),
			F1:        confusion.F1(),
			ROCAUC:    auc,
		},
		Importances: importances,
	}
	return run, nil
}

// DefaultModels returns the three classifier variants in ranking tie-break
// order, each seeded from the run seed.
func DefaultModels(seed int64) []Classifier {
	return []Classifier{
		NewLogisticRegression(seed),
		NewForest(seed),
		NewBoost(seed),
	}
}
