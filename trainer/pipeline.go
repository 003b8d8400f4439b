package trainer

import "context"
import "math/rand/v2"

import "github.com/pkg/errors"
import "github.com/spf13/afero"
import "go.uber.org/zap"

import "github.com/neurlang/sentiment/config"
import "github.com/neurlang/sentiment/datasets"
import "github.com/neurlang/sentiment/datasets/reviews"
import "github.com/neurlang/sentiment/model"
import "github.com/neurlang/sentiment/npy"
import "github.com/neurlang/sentiment/parallel"

// TrainModel loads and splits the review table, saves the test partition,
// builds the network and fits it on the train partition while logging
// training curves and saving the best checkpoints. A score without a
// category fails with a *reviews.LabelError before anything is written.
func TrainModel(ctx context.Context, fs afero.Fs, cfg config.Config, log *zap.Logger) (*History, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Threads > 0 {
		parallel.SetWorkers(cfg.Threads)
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed>>1|1))
	log.Debug("starting",
		zap.Uint64("seed", seed),
		zap.Int("workers", parallel.Workers()),
		zap.String("cpu", parallel.CPUName()),
		zap.Strings("features", parallel.Features()))

	split, err := reviews.SplitDataset(fs, cfg.DataPath, cfg.Encoding(), cfg.TestSize, rng)
	if err != nil {
		return nil, err
	}
	var train, test datasets.Tally
	train.Add(split.YTrain)
	test.Add(split.YTest)
	log.Info("dataset split",
		zap.Int("train", split.XTrain.Rows),
		zap.Int("test", split.XTest.Rows),
		zap.Float64("train_positive", train.Fraction(reviews.Positive)),
		zap.Float64("test_positive", test.Fraction(reviews.Positive)))

	if err := npy.Save(fs, cfg.TestInputsPath, split.XTest.Shape(), split.XTest.Data); err != nil {
		return nil, err
	}
	if err := npy.Save(fs, cfg.TestLabelsPath, split.YTest.Shape(), split.YTest.Int64()); err != nil {
		return nil, err
	}

	net, err := model.Build(cfg.Model(), rng)
	if err != nil {
		return nil, errors.Wrap(err, "building model")
	}
	log.Info("model built", zap.Int("layers", net.Len()), zap.Int("params", net.CountParams()))

	return Fit(ctx, net, split.XTrain.Tensor(), split.YTrain.Tensor(), FitConfig{
		Epochs:    cfg.Epochs,
		BatchSize: cfg.BatchSize,
		Shuffle:   !cfg.NoShuffle,
		Verbose:   cfg.Verbose(),
	}, rng, log,
		NewCurveLogger(fs, cfg.LogDir, log),
		NewModelCheckpoint(fs, cfg.CheckpointPattern, cfg.Monitor, log),
	)
}
