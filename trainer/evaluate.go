package trainer

import "github.com/pkg/errors"
import "github.com/spf13/afero"

import "github.com/neurlang/sentiment/npy"
import "github.com/neurlang/sentiment/net/sequential"
import "github.com/neurlang/sentiment/tensor"

// LoadHeldOut reads the persisted test inputs and labels as float tensors.
func LoadHeldOut(fs afero.Fs, inputsPath, labelsPath string) (x, y *tensor.Tensor, err error) {
	xShape, xData, err := npy.Load[int32](fs, inputsPath)
	if err != nil {
		return nil, nil, err
	}
	yShape, yData, err := npy.Load[int64](fs, labelsPath)
	if err != nil {
		return nil, nil, err
	}
	if len(xShape) != 2 || len(yShape) != 2 || xShape[0] != yShape[0] {
		return nil, nil, errors.Errorf("held out inputs %v do not pair with labels %v", xShape, yShape)
	}
	x = tensor.New(xShape...)
	for i, v := range xData {
		x.Data[i] = float64(v)
	}
	y = tensor.New(yShape...)
	for i, v := range yData {
		y.Data[i] = float64(v)
	}
	return x, y, nil
}

// EvaluateCheckpoint scores a saved network on the persisted held out set.
func EvaluateCheckpoint(fs afero.Fs, checkpoint, inputsPath, labelsPath string, batchSize int) (sequential.Logs, error) {
	net, _, err := sequential.ReadCheckpointFromFile(fs, checkpoint)
	if err != nil {
		return nil, err
	}
	x, y, err := LoadHeldOut(fs, inputsPath, labelsPath)
	if err != nil {
		return nil, err
	}
	return net.Evaluate(x, y, batchSize)
}
