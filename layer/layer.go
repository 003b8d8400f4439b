// Package layer defines the layer interface of a sequential network
package layer

import "math/rand/v2"

import "github.com/neurlang/sentiment/tensor"

// Layer is one stage of a sequential network. Forward and Backward must not
// modify their arguments, the returned tensors may share memory with them.
type Layer interface {

	// Build prepares the layer for samples of shape in (batch dimension
	// excluded), initializes the weights and reports the sample output shape.
	Build(in []int, rng *rand.Rand) (out []int, err error)

	// Forward computes the output for a batch. Training enables dropout.
	Forward(x *tensor.Tensor, training bool) *tensor.Tensor

	// Backward takes the loss gradient with respect to the last output,
	// accumulates parameter gradients and returns the gradient with respect
	// to the last input, or nil if the input is not differentiable.
	Backward(dy *tensor.Tensor) *tensor.Tensor

	// Params lists the trainable parameters, in a stable order.
	Params() []*Param

	// Spec describes the layer configuration.
	Spec() Spec
}

// InputChecker is implemented by layers which accept only some input values.
type InputChecker interface {

	// CheckInput reports an error if x holds a value the layer cannot take.
	CheckInput(x *tensor.Tensor) error
}

// Param is a trainable weight tensor with its accumulated gradient.
type Param struct {
	Name  string
	Value *tensor.Tensor
	Grad  *tensor.Tensor
}

// NewParam allocates a zeroed parameter with a gradient of the same shape.
func NewParam(name string, shape ...int) *Param {
	return &Param{
		Name:  name,
		Value: tensor.New(shape...),
		Grad:  tensor.New(shape...),
	}
}

// Spec is the serializable configuration of a layer.
type Spec struct {
	Kind            string  `json:"kind"`
	Name            string  `json:"name,omitempty"`
	InputDim        int     `json:"input_dim,omitempty"`
	OutputDim       int     `json:"output_dim,omitempty"`
	InputLength     int     `json:"input_length,omitempty"`
	Units           int     `json:"units,omitempty"`
	ReturnSequences bool    `json:"return_sequences,omitempty"`
	Alpha           float64 `json:"alpha,omitempty"`
	Rate            float64 `json:"rate,omitempty"`
	Activation      string  `json:"activation,omitempty"`
}
