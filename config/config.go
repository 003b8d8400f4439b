// Package config holds the settings of the sentiment training run
package config

import "fmt"
import "strings"

import "github.com/go-playground/validator/v10"

import "github.com/neurlang/sentiment/datasets/reviews"
import "github.com/neurlang/sentiment/learning"
import "github.com/neurlang/sentiment/model"

// Config is the training run configuration. The arg tags expose every field
// as a command line flag, Default gives the values used without flags.
type Config struct {
	DataPath       string  `arg:"--data" help:"review table with Text and Score columns" validate:"required"`
	TestSize       float64 `arg:"--test-size" help:"fraction of rows held out for testing" validate:"gt=0,lt=1"`
	TestInputsPath string  `arg:"--test-inputs" help:"where the held out inputs are saved" validate:"required"`
	TestLabelsPath string  `arg:"--test-labels" help:"where the held out labels are saved" validate:"required"`

	VocabSize       int     `arg:"--vocab-size" help:"hashing vocabulary size" validate:"gte=2"`
	MaxReviewLength int     `arg:"--max-review-length" help:"token ids per review" validate:"gte=1"`
	EmbeddingDim    int     `arg:"--embedding-dim" help:"embedding vector size" validate:"gte=1"`
	Units           int     `arg:"--units" help:"LSTM units" validate:"gte=1"`
	Blocks          int     `arg:"--blocks" help:"LSTM blocks" validate:"gte=1"`
	Alpha           float64 `arg:"--alpha" help:"LeakyReLU negative slope" validate:"gte=0"`
	DropoutRate     float64 `arg:"--dropout" help:"dropout rate" validate:"gte=0,lt=1"`
	LearningRate    float64 `arg:"--learning-rate" help:"Adam learning rate" validate:"gt=0"`

	Epochs    int  `arg:"--epochs" help:"passes over the training rows" validate:"gte=1"`
	BatchSize int  `arg:"--batch-size" help:"rows per gradient step" validate:"gte=1"`
	NoShuffle bool `arg:"--no-shuffle" help:"keep batch order fixed across epochs"`

	LogDir            string `arg:"--log-dir" help:"training curve directory" validate:"required"`
	CheckpointPattern string `arg:"--checkpoint" help:"checkpoint file name, formatted with the epoch" validate:"required,contains=%"`
	Monitor           string `arg:"--monitor" help:"quantity deciding the best checkpoint" validate:"required"`

	Seed    uint64 `arg:"--seed" help:"random seed, 0 draws one"`
	Threads int    `arg:"--threads" help:"worker goroutines, 0 uses every physical core" validate:"gte=0"`
	Quiet   bool   `arg:"-q,--quiet" help:"no progress bars or debug logs"`
}

// Default is the configuration used when no flags are given.
func Default() Config {
	m := model.DefaultConfig()
	return Config{
		DataPath:       "CleanedReviews.csv",
		TestSize:       0.2,
		TestInputsPath: "XTesting_Data.npy",
		TestLabelsPath: "YTesting_Data.npy",

		VocabSize:       m.VocabSize,
		MaxReviewLength: m.MaxReviewLength,
		EmbeddingDim:    m.EmbeddingDim,
		Units:           m.Units,
		Blocks:          m.Blocks,
		Alpha:           m.Alpha,
		DropoutRate:     m.DropoutRate,
		LearningRate:    m.LearningRate,

		Epochs:    5,
		BatchSize: 64,

		LogDir:            "logs",
		CheckpointPattern: "Epoch%02d.ckpt",
		Monitor:           "categorical_crossentropy",
	}
}

// Verbose reports whether progress bars and debug logs are shown.
func (c Config) Verbose() bool {
	return !c.Quiet
}

var validate = validator.New()

// Validate checks every field against its bounds.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if errs, ok := err.(validator.ValidationErrors); ok {
		var msgs []string
		for _, e := range errs {
			msgs = append(msgs, fmt.Sprintf("%s fails %s%s", e.Field(), e.Tag(), param(e.Param())))
		}
		return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
	}
	return err
}

func param(p string) string {
	if p == "" {
		return ""
	}
	return "=" + p
}

// Encoding gives the text encoding sizes.
func (c Config) Encoding() reviews.Encoding {
	return reviews.Encoding{VocabSize: c.VocabSize, MaxReviewLength: c.MaxReviewLength}
}

// Model gives the network sizes.
func (c Config) Model() model.Config {
	m := model.DefaultConfig()
	m.VocabSize = c.VocabSize
	m.EmbeddingDim = c.EmbeddingDim
	m.MaxReviewLength = c.MaxReviewLength
	m.Units = c.Units
	m.Blocks = c.Blocks
	m.Alpha = c.Alpha
	m.DropoutRate = c.DropoutRate
	m.HyperParameters = learning.HyperParameters{
		LearningRate: c.LearningRate,
		Beta1:        m.Beta1,
		Beta2:        m.Beta2,
		Epsilon:      m.Epsilon,
	}
	return m
}
