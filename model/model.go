// Package model builds the review sentiment network
package model

import "math/rand/v2"

import "github.com/pkg/errors"

import "github.com/neurlang/sentiment/layer/dropout"
import "github.com/neurlang/sentiment/layer/embedding"
import "github.com/neurlang/sentiment/layer/flatten"
import "github.com/neurlang/sentiment/layer/full"
import "github.com/neurlang/sentiment/layer/leakyrelu"
import "github.com/neurlang/sentiment/layer/lstm"
import "github.com/neurlang/sentiment/learning"
import "github.com/neurlang/sentiment/net/sequential"

// Config sizes the network. Its structure is fixed.
type Config struct {
	VocabSize       int     // embedding input dimension, one more than the largest id
	EmbeddingDim    int     // embedding output dimension
	MaxReviewLength int     // ids per review
	Units           int     // LSTM units
	Blocks          int     // LSTM, LeakyReLU, Dropout blocks
	Alpha           float64 // LeakyReLU negative slope
	DropoutRate     float64
	Classes         int

	learning.HyperParameters
}

// DefaultConfig is the network trained by the sentiment command.
func DefaultConfig() Config {
	return Config{
		VocabSize:       8000,
		EmbeddingDim:    64,
		MaxReviewLength: 500,
		Units:           32,
		Blocks:          2,
		Alpha:           0.001,
		DropoutRate:     0.5,
		Classes:         2,
		HyperParameters: learning.DefaultHyperParameters(),
	}
}

// Metrics reported during training, in order.
func Metrics() []learning.Metric {
	return []learning.Metric{
		learning.BinaryAccuracy{},
		learning.CrossentropyMetric{},
		learning.CategoricalAccuracy{},
	}
}

// Build builds and compiles the network:
//
//	Embedding -> Blocks x [LSTM -> LeakyReLU -> Dropout] -> Flatten -> Dense softmax
func Build(cfg Config, rng *rand.Rand) (*sequential.Sequential, error) {
	if cfg.Blocks < 1 {
		return nil, errors.Errorf("model: need at least one block, got %d", cfg.Blocks)
	}
	emb, err := embedding.New(cfg.VocabSize, cfg.EmbeddingDim, cfg.MaxReviewLength)
	if err != nil {
		return nil, err
	}
	net := new(sequential.Sequential)
	net.NewLayer(emb)
	for i := 0; i < cfg.Blocks; i++ {
		rnn, err := lstm.New(cfg.Units, true)
		if err != nil {
			return nil, err
		}
		act, err := leakyrelu.New(cfg.Alpha)
		if err != nil {
			return nil, err
		}
		drop, err := dropout.New(cfg.DropoutRate)
		if err != nil {
			return nil, err
		}
		net.NewLayer(rnn)
		net.NewLayer(act)
		net.NewLayer(drop)
	}
	net.NewLayer(flatten.New())
	out, err := full.New(cfg.Classes, full.Softmax)
	if err != nil {
		return nil, err
	}
	net.NewLayer(out)

	if err := net.Build([]int{cfg.MaxReviewLength}, rng); err != nil {
		return nil, errors.Wrap(err, "model")
	}
	net.Compile(learning.CategoricalCrossentropy{}, learning.NewAdam(cfg.HyperParameters), Metrics()...)
	return net, nil
}
