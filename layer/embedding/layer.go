// Package embedding implements a learned lookup table from token ids to dense vectors
package embedding

import "math"
import "math/rand/v2"

import "github.com/pkg/errors"

import "github.com/neurlang/sentiment/layer"
import "github.com/neurlang/sentiment/tensor"

// Kind names the layer in specs and checkpoints.
const Kind = "Embedding"

// Init is the half width of the uniform initializer.
const Init = 0.05

func init() {
	layer.Register(Kind, func(s layer.Spec) (layer.Layer, error) {
		return New(s.InputDim, s.OutputDim, s.InputLength)
	})
}

// Layer maps each of InputDim ids to a vector of OutputDim weights.
type Layer struct {
	inputDim, outputDim, inputLength int

	embeddings *layer.Param

	ids []int
}

// MustNew creates a new embedding layer or panics
func MustNew(inputDim, outputDim, inputLength int) *Layer {
	o, err := New(inputDim, outputDim, inputLength)
	if err != nil {
		panic(err.Error())
	}
	return o
}

// New creates a new embedding layer for a vocabulary of inputDim ids, vectors of
// outputDim weights and sequences of inputLength ids (0 accepts any length).
func New(inputDim, outputDim, inputLength int) (*Layer, error) {
	if inputDim <= 0 || outputDim <= 0 || inputLength < 0 {
		return nil, errors.Errorf("embedding: invalid sizes %d, %d, %d", inputDim, outputDim, inputLength)
	}
	return &Layer{inputDim: inputDim, outputDim: outputDim, inputLength: inputLength}, nil
}

func (l *Layer) Build(in []int, rng *rand.Rand) ([]int, error) {
	if len(in) != 1 {
		return nil, errors.Errorf("embedding: want sequences of ids, got sample shape %v", in)
	}
	if l.inputLength != 0 && in[0] != l.inputLength {
		return nil, errors.Errorf("embedding: want sequences of %d ids, got %d", l.inputLength, in[0])
	}
	l.embeddings = layer.NewParam("embeddings", l.inputDim, l.outputDim)
	for i := range l.embeddings.Value.Data {
		l.embeddings.Value.Data[i] = (rng.Float64()*2 - 1) * Init
	}
	return []int{in[0], l.outputDim}, nil
}

// CheckInput reports ids which are not integers in 0 to InputDim-1.
func (l *Layer) CheckInput(x *tensor.Tensor) error {
	for i, v := range x.Data {
		if v < 0 || v >= float64(l.inputDim) || v != math.Trunc(v) {
			return errors.Errorf("embedding: id %v at position %d outside of [0, %d)", v, i, l.inputDim)
		}
	}
	return nil
}

func (l *Layer) Forward(x *tensor.Tensor, training bool) *tensor.Tensor {
	steps := x.RowSize()
	out := tensor.New(x.Rows(), steps, l.outputDim)
	if cap(l.ids) < len(x.Data) {
		l.ids = make([]int, len(x.Data))
	}
	l.ids = l.ids[:len(x.Data)]
	w := l.embeddings.Value.Data
	for i, v := range x.Data {
		id := int(v)
		l.ids[i] = id
		copy(out.Data[i*l.outputDim:(i+1)*l.outputDim], w[id*l.outputDim:(id+1)*l.outputDim])
	}
	return out
}

// Backward scatters the output gradient into the rows of the looked up ids.
// Ids are not differentiable, so no input gradient is returned.
func (l *Layer) Backward(dy *tensor.Tensor) *tensor.Tensor {
	g := l.embeddings.Grad.Data
	d := l.outputDim
	for i, id := range l.ids {
		row := g[id*d : (id+1)*d]
		for j, v := range dy.Data[i*d : (i+1)*d] {
			row[j] += v
		}
	}
	return nil
}

func (l *Layer) Params() []*layer.Param {
	return []*layer.Param{l.embeddings}
}

func (l *Layer) Spec() layer.Spec {
	return layer.Spec{Kind: Kind, InputDim: l.inputDim, OutputDim: l.outputDim, InputLength: l.inputLength}
}
