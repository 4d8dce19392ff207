package cli

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/lendwatch/lendctl/pkg/data"
	"github.com/lendwatch/lendctl/pkg/model"
	"github.com/lendwatch/lendctl/pkg/track"
)

var (
	seedFlag = &cli.Int64Flag{
		Name:  "seed",
		Usage: "Random seed for the train/test split and model fitting (overrides config)",
	}

	testRatioFlag = &cli.Float64Flag{
		Name:  "test-ratio",
		Usage: "Held-out fraction for evaluation (overrides config)",
	}

	logOnlyFlag = &cli.BoolFlag{
		Name:  "log-only",
		Usage: "Log runs without persisting them to the model_run table",
	}

	trainCmd = &cli.Command{
		Name:    "train",
		Aliases: []string{"t"},
		Usage:   "Train the three classifiers on the silver layer and rank them by ROC-AUC",
		Action:  cmdTrain,
		Flags: []cli.Flag{
			seedFlag,
			testRatioFlag,
			logOnlyFlag,
		},
	}
)

// TrainResult is the full training report: every run plus the best one.
type TrainResult struct {
	Seed      int64        `json:"seed"`
	TestRatio float64      `json:"test_ratio"`
	Rows      int          `json:"rows"`
	Runs      []*model.Run `json:"runs"`
	Best      *model.Run   `json:"best"`
	Duration  string       `json:"duration"`
}

func cmdTrain(c *cli.Context) error {
	start := time.Now()
	cfg := getConfig(c)

	seed := cfg.Conf.Seed
	if c.IsSet(seedFlag.Name) {
		seed = c.Int64(seedFlag.Name)
	}
	testRatio := cfg.Conf.TestRatio
	if c.IsSet(testRatioFlag.Name) {
		testRatio = c.Float64(testRatioFlag.Name)
	}

	features, err := data.ListFeatures(cfg.DB)
	if err != nil {
		return fmt.Errorf("loading silver layer: %w", err)
	}
	if len(features) == 0 {
		return fmt.Errorf("silver layer is empty, run `%s pipeline run` first", appName)
	}

	var tracker model.Tracker = track.SlogTracker{}
	if !c.Bool(logOnlyFlag.Name) {
		tracker = track.Multi{track.SlogTracker{}, track.StoreTracker{DB: cfg.DB}}
	}

	trainer := &model.Trainer{
		TestRatio: testRatio,
		Seed:      seed,
		Tracker:   tracker,
	}

	models := []model.Classifier{
		&model.LogisticRegression{
			LearningRate: cfg.Conf.Logistic.LearningRate,
			Epochs:       cfg.Conf.Logistic.Epochs,
			Seed:         seed,
		},
		&model.Forest{
			Trees:           cfg.Conf.Forest.Trees,
			MaxDepth:        cfg.Conf.Forest.MaxDepth,
			MinSamplesSplit: 2,
			Seed:            seed,
		},
		&model.Boost{
			Trees:        cfg.Conf.Boost.Trees,
			MaxDepth:     cfg.Conf.Boost.MaxDepth,
			LearningRate: cfg.Conf.Boost.LearningRate,
			Seed:         seed,
		},
	}

	ds := model.NewDataset(features)
	runs, best, err := trainer.Train(c.Context, ds, models)
	if err != nil {
		return fmt.Errorf("training: %w", err)
	}

	return encode(&TrainResult{
		Seed:      seed,
		TestRatio: testRatio,
		Rows:      ds.Len(),
		Runs:      runs,
		Best:      best,
		Duration:  time.Since(start).Round(time.Millisecond).String(),
	})
}
