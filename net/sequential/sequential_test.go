package sequential

import (
	"math/rand/v2"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurlang/sentiment/layer/dropout"
	"github.com/neurlang/sentiment/layer/embedding"
	"github.com/neurlang/sentiment/layer/flatten"
	"github.com/neurlang/sentiment/layer/full"
	"github.com/neurlang/sentiment/layer/leakyrelu"
	"github.com/neurlang/sentiment/layer/lstm"
	"github.com/neurlang/sentiment/learning"
	"github.com/neurlang/sentiment/tensor"
)

const (
	vocab  = 12
	length = 6
)

func tiny(t *testing.T, rate float64) *Sequential {
	var s Sequential
	s.NewLayer(embedding.MustNew(vocab, 4, length))
	s.NewLayer(lstm.MustNew(3, true))
	s.NewLayer(leakyrelu.MustNew(0.001))
	s.NewLayer(dropout.MustNew(rate))
	s.NewLayer(lstm.MustNew(3, true))
	s.NewLayer(flatten.New())
	s.NewLayer(full.MustNew(2, full.Softmax))
	require.NoError(t, s.Build([]int{length}, rand.New(rand.NewPCG(1, 2))))
	s.Compile(learning.CategoricalCrossentropy{}, learning.NewAdam(learning.DefaultHyperParameters()),
		learning.BinaryAccuracy{}, learning.CrossentropyMetric{}, learning.CategoricalAccuracy{})
	return &s
}

func batch() (x, y *tensor.Tensor) {
	x = tensor.FromData([]float64{
		0, 0, 0, 1, 2, 3,
		0, 0, 4, 5, 6, 7,
		0, 8, 9, 10, 11, 1,
		0, 0, 0, 0, 2, 2,
	}, 4, length)
	y = tensor.FromData([]float64{1, 0, 0, 1, 0, 1, 1, 0}, 4, 2)
	return
}

func TestLayerNames(t *testing.T) {
	s := tiny(t, 0.5)
	var names []string
	for i := 0; i < s.Len(); i++ {
		names = append(names, s.LayerName(i))
	}
	assert.Equal(t, []string{"embedding_1", "lstm_1", "leakyrelu_1", "dropout_1", "lstm_2", "flatten_1", "dense_1"}, names)
	assert.Equal(t, []int{2}, s.OutputShape())
	assert.Nil(t, s.GetLayer(s.Len()))
	assert.Equal(t, "lstm_2/kernel", s.Params()[4].Name)
}

func TestPredictSumsToOne(t *testing.T) {
	s := tiny(t, 0.5)
	x, _ := batch()
	p, err := s.Predict(x, 3)
	require.NoError(t, err)
	require.Equal(t, []int{4, 2}, p.Shape)
	for i := 0; i < p.Rows(); i++ {
		row := p.Row(i)
		assert.InDelta(t, 1, row[0]+row[1], 1e-9)
	}

	// batching and dropout do not change predictions
	q, err := s.Predict(x, 0)
	require.NoError(t, err)
	assert.InDeltaSlice(t, p.Data, q.Data, 1e-12)
}

func TestPredictRejectsBadInput(t *testing.T) {
	s := tiny(t, 0.5)
	_, err := s.Predict(tensor.New(2, length+1), 0)
	assert.Error(t, err)

	x := tensor.New(1, length)
	x.Data[0] = vocab
	_, err = s.Predict(x, 0)
	assert.Error(t, err)

	var empty Sequential
	_, err = empty.Predict(tensor.New(1, length), 0)
	assert.Error(t, err)
	assert.Error(t, empty.Build([]int{length}, nil))
}

func TestTrainOnBatchLowersLoss(t *testing.T) {
	s := tiny(t, 0)
	s.Compile(learning.CategoricalCrossentropy{}, learning.NewAdam(learning.HyperParameters{
		LearningRate: 0.05, Beta1: 0.9, Beta2: 0.999, Epsilon: 1e-7,
	}), learning.CategoricalAccuracy{})
	x, y := batch()
	before, err := s.Evaluate(x, y, 0)
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		logs, err := s.TrainOnBatch(x, y)
		require.NoError(t, err)
		require.Contains(t, logs, LossKey)
		require.Contains(t, logs, "categorical_accuracy")
	}
	after, err := s.Evaluate(x, y, 0)
	require.NoError(t, err)
	assert.Less(t, after[LossKey], before[LossKey])
	assert.Equal(t, 1.0, after["categorical_accuracy"])
}

func TestTrainOnBatchChecks(t *testing.T) {
	s := tiny(t, 0.5)
	x, y := batch()
	_, err := s.TrainOnBatch(x, tensor.New(3, 2))
	assert.Error(t, err)

	var raw Sequential
	raw.NewLayer(full.MustNew(2, full.Softmax))
	require.NoError(t, raw.Build([]int{length}, nil))
	_, err = raw.TrainOnBatch(x, y)
	assert.Error(t, err)
}

func TestEvaluateWeightsBatches(t *testing.T) {
	s := tiny(t, 0.5)
	x, y := batch()
	whole, err := s.Evaluate(x, y, 0)
	require.NoError(t, err)
	parts, err := s.Evaluate(x, y, 3)
	require.NoError(t, err)
	for k, v := range whole {
		assert.InDelta(t, v, parts[k], 1e-9, k)
	}
	assert.InDelta(t, whole[LossKey], whole["categorical_crossentropy"], 1e-12)
}

func TestCheckpointRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := tiny(t, 0.5)
	x, y := batch()
	_, err := s.TrainOnBatch(x, y)
	require.NoError(t, err)

	size, err := s.WriteCheckpointToFile(fs, "Epoch01.ckpt", 1)
	require.NoError(t, err)
	assert.Positive(t, size)

	loaded, epoch, err := ReadCheckpointFromFile(fs, "Epoch01.ckpt")
	require.NoError(t, err)
	assert.Equal(t, 1, epoch)
	assert.Equal(t, s.Summarize(), loaded.Summarize())
	assert.Equal(t, learning.MetricNames(s.Metrics()), learning.MetricNames(loaded.Metrics()))
	assert.Equal(t, s.Optimizer().Config(), loaded.Optimizer().Config())

	want, err := s.Predict(x, 0)
	require.NoError(t, err)
	got, err := loaded.Predict(x, 0)
	require.NoError(t, err)
	assert.Equal(t, want.Data, got.Data)
}

func TestCheckpointRejectsGarbage(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "bad.ckpt", []byte("not a checkpoint"), 0644))
	_, _, err := ReadCheckpointFromFile(fs, "bad.ckpt")
	assert.Error(t, err)
	_, _, err = ReadCheckpointFromFile(fs, "missing.ckpt")
	assert.Error(t, err)
}
