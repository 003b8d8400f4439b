package trainer

import "sort"

import "github.com/neurlang/sentiment/net/sequential"

// Callback observes a Fit run. Returning an error stops training.
type Callback interface {
	OnTrainBegin(net *sequential.Sequential) error

	// OnEpochEnd receives the 0-based epoch and its averaged logs.
	OnEpochEnd(epoch int, logs sequential.Logs, net *sequential.Sequential) error

	OnTrainEnd(history *History) error
}

// History records the averaged logs of every epoch.
type History struct {
	Epochs []int
	Values map[string][]float64
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{Values: make(map[string][]float64)}
}

// Append records the logs of an epoch.
func (h *History) Append(epoch int, logs sequential.Logs) {
	h.Epochs = append(h.Epochs, epoch)
	for k, v := range logs {
		h.Values[k] = append(h.Values[k], v)
	}
}

// Keys lists the recorded quantities, sorted.
func (h *History) Keys() []string {
	return keys(h.Values)
}

// Last gets the latest value of key.
func (h *History) Last(key string) (float64, bool) {
	v := h.Values[key]
	if len(v) == 0 {
		return 0, false
	}
	return v[len(v)-1], true
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
