// Package sequential implements a network of layers applied one after another
package sequential

import "fmt"
import "math/rand/v2"
import "strings"

import "github.com/pkg/errors"

import "github.com/neurlang/sentiment/layer"
import "github.com/neurlang/sentiment/learning"
import "github.com/neurlang/sentiment/tensor"

// Logs maps loss and metric names to values.
type Logs map[string]float64

// LossKey is the Logs entry of the training loss.
const LossKey = "loss"

// Sequential is the sequential network
type Sequential struct {
	layers []layer.Layer
	names  []string
	input  []int
	shapes [][]int
	built  bool

	loss      learning.Loss
	optimizer learning.Optimizer
	metrics   []learning.Metric
}

// Len returns the number of layers.
func (s *Sequential) Len() int {
	return len(s.layers)
}

// GetLayer gets the n-th layer. Returns nil if there is none.
func (s *Sequential) GetLayer(n int) layer.Layer {
	if n < 0 || n >= len(s.layers) {
		return nil
	}
	return s.layers[n]
}

// LayerName gets the name of the n-th layer, such as lstm_2.
func (s *Sequential) LayerName(n int) string {
	return s.names[n]
}

// NewLayer adds a layer to the end of network. The layer is named by its kind
// and how many layers of that kind precede it.
func (s *Sequential) NewLayer(l layer.Layer) {
	kind := strings.ToLower(l.Spec().Kind)
	count := 1
	for _, n := range s.names {
		if strings.HasPrefix(n, kind+"_") {
			count++
		}
	}
	s.layers = append(s.layers, l)
	s.names = append(s.names, fmt.Sprintf("%s_%d", kind, count))
	s.built = false
}

// Build builds every layer for samples of the input shape, batch excluded.
func (s *Sequential) Build(input []int, rng *rand.Rand) error {
	if len(s.layers) == 0 {
		return errors.New("network has no layers")
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	s.input = append([]int(nil), input...)
	s.shapes = s.shapes[:0]
	shape := s.input
	for i, l := range s.layers {
		out, err := l.Build(shape, rng)
		if err != nil {
			return errors.Wrapf(err, "building %s on input %v", s.names[i], shape)
		}
		s.shapes = append(s.shapes, out)
		shape = out
	}
	s.built = true
	return nil
}

// Compile sets the loss, optimizer and reported metrics used by TrainOnBatch.
func (s *Sequential) Compile(loss learning.Loss, optimizer learning.Optimizer, metrics ...learning.Metric) {
	s.loss = loss
	s.optimizer = optimizer
	s.metrics = metrics
}

// Loss gets the compiled loss, nil before Compile.
func (s *Sequential) Loss() learning.Loss {
	return s.loss
}

// Optimizer gets the compiled optimizer, nil before Compile.
func (s *Sequential) Optimizer() learning.Optimizer {
	return s.optimizer
}

// Metrics gets the compiled metrics.
func (s *Sequential) Metrics() []learning.Metric {
	return s.metrics
}

// InputShape is the sample input shape the network was built for.
func (s *Sequential) InputShape() []int {
	return append([]int(nil), s.input...)
}

// OutputShape is the sample output shape of the last layer.
func (s *Sequential) OutputShape() []int {
	if len(s.shapes) == 0 {
		return nil
	}
	return append([]int(nil), s.shapes[len(s.shapes)-1]...)
}

// NamedParam is a parameter with its network wide name, such as lstm_1/kernel.
type NamedParam struct {
	Name string
	*layer.Param
}

// Params lists every trainable parameter of the network, in layer order.
func (s *Sequential) Params() (o []NamedParam) {
	for i, l := range s.layers {
		for _, p := range l.Params() {
			o = append(o, NamedParam{Name: s.names[i] + "/" + p.Name, Param: p})
		}
	}
	return
}

// CountParams reports the number of trainable weights.
func (s *Sequential) CountParams() (n int) {
	for _, p := range s.Params() {
		n += len(p.Value.Data)
	}
	return
}

func (s *Sequential) check(x *tensor.Tensor) error {
	if !s.built {
		return errors.New("network is not built")
	}
	if len(x.Shape) == 0 || !tensor.SameShape(x.Shape[1:], s.input) {
		return errors.Errorf("input shape %v does not match (batch, %v)", x.Shape, s.input)
	}
	if c, ok := s.layers[0].(layer.InputChecker); ok {
		return c.CheckInput(x)
	}
	return nil
}

func (s *Sequential) forward(x *tensor.Tensor, training bool) *tensor.Tensor {
	for _, l := range s.layers {
		x = l.Forward(x, training)
	}
	return x
}

// Predict infers the network output of x in batches of batchSize rows.
// A batchSize of 0 or less infers all rows at once.
func (s *Sequential) Predict(x *tensor.Tensor, batchSize int) (*tensor.Tensor, error) {
	if err := s.check(x); err != nil {
		return nil, err
	}
	out := tensor.New(append([]int{x.Rows()}, s.OutputShape()...)...)
	if x.Rows() == 0 {
		return out, nil
	}
	each(x.Rows(), batchSize, func(from, to int) {
		y := s.forward(slice(x, from, to), false)
		copy(out.Data[from*out.RowSize():to*out.RowSize()], y.Data)
	})
	return out, nil
}

// TrainOnBatch runs one gradient descent step on the batch and reports the loss
// and metrics computed on it before the update.
func (s *Sequential) TrainOnBatch(x, y *tensor.Tensor) (Logs, error) {
	if s.loss == nil || s.optimizer == nil {
		return nil, errors.New("network is not compiled")
	}
	if err := s.check(x); err != nil {
		return nil, err
	}
	if y.Rows() != x.Rows() || !tensor.SameShape(y.Shape[1:], s.OutputShape()) {
		return nil, errors.Errorf("target shape %v does not match (%d, %v)", y.Shape, x.Rows(), s.OutputShape())
	}
	params := s.Params()
	plain := make([]*layer.Param, len(params))
	for i, p := range params {
		p.Grad.Zero()
		plain[i] = p.Param
	}

	pred := s.forward(x, true)
	logs := s.score(pred, y)

	grad := s.loss.Gradient(pred, y)
	for i := len(s.layers) - 1; i >= 0 && grad != nil; i-- {
		grad = s.layers[i].Backward(grad)
	}
	s.optimizer.Step(plain)
	return logs, nil
}

func (s *Sequential) score(pred, y *tensor.Tensor) Logs {
	logs := Logs{}
	if s.loss != nil {
		logs[LossKey] = s.loss.Loss(pred, y)
	}
	for _, m := range s.metrics {
		logs[m.Name()] = m.Compute(pred, y)
	}
	return logs
}

// Evaluate reports the loss and metrics of the network on x and y, computed in
// batches and averaged weighted by batch size.
func (s *Sequential) Evaluate(x, y *tensor.Tensor, batchSize int) (Logs, error) {
	pred, err := s.Predict(x, batchSize)
	if err != nil {
		return nil, err
	}
	if !tensor.SameShape(pred.Shape, y.Shape) {
		return nil, errors.Errorf("target shape %v does not match prediction %v", y.Shape, pred.Shape)
	}
	total := Logs{}
	if x.Rows() == 0 {
		return total, nil
	}
	each(x.Rows(), batchSize, func(from, to int) {
		for k, v := range s.score(slice(pred, from, to), slice(y, from, to)) {
			total[k] += v * float64(to-from)
		}
	})
	for k := range total {
		total[k] /= float64(x.Rows())
	}
	return total, nil
}

// each calls fn for consecutive row ranges of at most size rows.
func each(rows, size int, fn func(from, to int)) {
	if size <= 0 {
		size = rows
	}
	for from := 0; from < rows; from += size {
		to := from + size
		if to > rows {
			to = rows
		}
		fn(from, to)
	}
}

// slice views rows from to to of x.
func slice(x *tensor.Tensor, from, to int) *tensor.Tensor {
	n := x.RowSize()
	return tensor.FromData(x.Data[from*n:to*n], append([]int{to - from}, x.Shape[1:]...)...)
}

// Summary describes one layer for logs.
type Summary struct {
	Name   string     `json:"name"`
	Spec   layer.Spec `json:"config"`
	Output []int      `json:"output_shape"`
	Params int        `json:"params"`
}

// Summarize describes every layer in order.
func (s *Sequential) Summarize() []Summary {
	out := make([]Summary, len(s.layers))
	for i, l := range s.layers {
		var n int
		for _, p := range l.Params() {
			n += len(p.Value.Data)
		}
		spec := l.Spec()
		spec.Name = s.names[i]
		out[i] = Summary{Name: s.names[i], Spec: spec}
		if i < len(s.shapes) {
			out[i].Output = append([]int{-1}, s.shapes[i]...)
		}
		out[i].Params = n
	}
	return out
}
