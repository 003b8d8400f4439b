package learning

import "math"

import "github.com/neurlang/sentiment/layer"

// Optimizer updates parameters from their accumulated gradients.
type Optimizer interface {

	// Step applies one update to every parameter.
	Step(params []*layer.Param)

	// Name identifies the optimizer in checkpoints.
	Name() string

	// Config reports the hyperparameters.
	Config() HyperParameters
}

// Adam is the first-order adaptive moment estimation optimizer.
type Adam struct {
	h    HyperParameters
	t    int
	m, v map[*layer.Param][]float64
}

// NewAdam creates an Adam optimizer with fresh moment estimates.
func NewAdam(h HyperParameters) *Adam {
	return &Adam{
		h: h,
		m: make(map[*layer.Param][]float64),
		v: make(map[*layer.Param][]float64),
	}
}

func (a *Adam) Name() string {
	return "Adam"
}

func (a *Adam) Config() HyperParameters {
	return a.h
}

// Iterations reports how many steps were taken.
func (a *Adam) Iterations() int {
	return a.t
}

func (a *Adam) Step(params []*layer.Param) {
	a.t++
	b1, b2 := a.h.Beta1, a.h.Beta2
	lr := a.h.LearningRate * math.Sqrt(1-math.Pow(b2, float64(a.t))) / (1 - math.Pow(b1, float64(a.t)))
	for _, p := range params {
		m, ok := a.m[p]
		if !ok {
			m = make([]float64, len(p.Value.Data))
			a.m[p] = m
		}
		v, ok := a.v[p]
		if !ok {
			v = make([]float64, len(p.Value.Data))
			a.v[p] = v
		}
		w, g := p.Value.Data, p.Grad.Data
		for i := range w {
			m[i] = b1*m[i] + (1-b1)*g[i]
			v[i] = b2*v[i] + (1-b2)*g[i]*g[i]
			w[i] -= lr * m[i] / (math.Sqrt(v[i]) + a.h.Epsilon)
		}
	}
}
