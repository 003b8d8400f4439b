// Package learning implements the optimizer, the loss and the metrics used to
// fit a sequential network by gradient descent
package learning

// HyperParameters configure the Adam optimizer.
type HyperParameters struct {
	LearningRate float64 `json:"learning_rate"` // step size
	Beta1        float64 `json:"beta_1"`        // decay rate of the first moment estimate
	Beta2        float64 `json:"beta_2"`        // decay rate of the second moment estimate
	Epsilon      float64 `json:"epsilon"`       // added to the denominator for stability
}

// DefaultHyperParameters are the customary Adam settings with a 0.001 learning rate.
func DefaultHyperParameters() HyperParameters {
	return HyperParameters{
		LearningRate: 0.001,
		Beta1:        0.9,
		Beta2:        0.999,
		Epsilon:      1e-7,
	}
}
