package sequential

import "encoding/json"
import "io"
import "math/rand/v2"

import "github.com/golang/snappy"
import "github.com/pkg/errors"
import "github.com/spf13/afero"

import "github.com/neurlang/sentiment/layer"
import "github.com/neurlang/sentiment/learning"
import "github.com/neurlang/sentiment/tensor"

// Format tags checkpoint files.
const Format = "sentiment-sequential/1"

type checkpoint struct {
	Format   string       `json:"format"`
	Epoch    int          `json:"epoch,omitempty"`
	Input    []int        `json:"input_shape"`
	Layers   []layer.Spec `json:"layers"`
	Weights  []weights    `json:"weights"`
	Training *training    `json:"training,omitempty"`
}

type weights struct {
	Name  string    `json:"name"`
	Shape []int     `json:"shape"`
	Data  []float64 `json:"data"`
}

type training struct {
	Loss            string                   `json:"loss"`
	Optimizer       string                   `json:"optimizer"`
	HyperParameters learning.HyperParameters `json:"hyperparameters"`
	Metrics         []string                 `json:"metrics"`
}

// WriteCheckpointToFile writes the network to a snappy compressed JSON file,
// and returns the file size.
func (s *Sequential) WriteCheckpointToFile(fs afero.Fs, name string, epoch int) (int64, error) {
	file, err := fs.Create(name)
	if err != nil {
		return 0, errors.Wrapf(err, "creating checkpoint %s", name)
	}
	err = s.WriteCheckpoint(file, epoch)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return 0, errors.Wrapf(err, "writing checkpoint %s", name)
	}
	info, err := fs.Stat(name)
	if err != nil {
		return 0, errors.Wrapf(err, "checkpoint %s", name)
	}
	return info.Size(), nil
}

// WriteCheckpoint writes the architecture, weights and training configuration
// of the network to a writer. The epoch is stored as written, for reference.
func (s *Sequential) WriteCheckpoint(w io.Writer, epoch int) error {
	if !s.built {
		return errors.New("network is not built")
	}
	c := checkpoint{
		Format: Format,
		Epoch:  epoch,
		Input:  s.input,
	}
	for _, l := range s.layers {
		c.Layers = append(c.Layers, l.Spec())
	}
	for _, p := range s.Params() {
		c.Weights = append(c.Weights, weights{Name: p.Name, Shape: p.Value.Shape, Data: p.Value.Data})
	}
	if s.loss != nil && s.optimizer != nil {
		c.Training = &training{
			Loss:            s.loss.Name(),
			Optimizer:       s.optimizer.Name(),
			HyperParameters: s.optimizer.Config(),
			Metrics:         learning.MetricNames(s.metrics),
		}
	}
	sw := snappy.NewBufferedWriter(w)
	if err := json.NewEncoder(sw).Encode(&c); err != nil {
		return err
	}
	return sw.Close()
}

// ReadCheckpointFromFile reads a network from a checkpoint file.
func ReadCheckpointFromFile(fs afero.Fs, name string) (*Sequential, int, error) {
	file, err := fs.Open(name)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "opening checkpoint %s", name)
	}
	defer file.Close()
	s, epoch, err := ReadCheckpoint(file)
	return s, epoch, errors.Wrapf(err, "reading checkpoint %s", name)
}

// ReadCheckpoint rebuilds a network from a checkpoint, restores its weights,
// and compiles it again when the checkpoint carries a training configuration.
// Optimizer moments are not stored, so the optimizer restarts.
func ReadCheckpoint(r io.Reader) (*Sequential, int, error) {
	var c checkpoint
	if err := json.NewDecoder(snappy.NewReader(r)).Decode(&c); err != nil {
		return nil, 0, errors.Wrap(err, "decoding checkpoint")
	}
	if c.Format != Format {
		return nil, 0, errors.Errorf("unsupported checkpoint format %q", c.Format)
	}
	s := new(Sequential)
	for _, spec := range c.Layers {
		l, err := layer.FromSpec(spec)
		if err != nil {
			return nil, 0, err
		}
		s.NewLayer(l)
	}
	if err := s.Build(c.Input, rand.New(rand.NewPCG(0, 0))); err != nil {
		return nil, 0, err
	}
	params := s.Params()
	if len(params) != len(c.Weights) {
		return nil, 0, errors.Errorf("checkpoint has %d weights, network has %d", len(c.Weights), len(params))
	}
	for i, p := range params {
		w := c.Weights[i]
		if w.Name != p.Name || !tensor.SameShape(w.Shape, p.Value.Shape) || len(w.Data) != len(p.Value.Data) {
			return nil, 0, errors.Errorf("checkpoint weight %s %v does not fit %s %v", w.Name, w.Shape, p.Name, p.Value.Shape)
		}
		copy(p.Value.Data, w.Data)
	}
	if c.Training != nil {
		loss, err := learning.LossByName(c.Training.Loss)
		if err != nil {
			return nil, 0, err
		}
		if c.Training.Optimizer != (&learning.Adam{}).Name() {
			return nil, 0, errors.Errorf("unknown optimizer %q", c.Training.Optimizer)
		}
		var metrics []learning.Metric
		for _, name := range c.Training.Metrics {
			m, err := learning.MetricByName(name)
			if err != nil {
				return nil, 0, err
			}
			metrics = append(metrics, m)
		}
		s.Compile(loss, learning.NewAdam(c.Training.HyperParameters), metrics...)
	}
	return s, c.Epoch, nil
}
