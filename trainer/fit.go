package trainer

import "context"
import "fmt"
import "math/rand/v2"
import "time"

import "github.com/montanaflynn/stats"
import "github.com/pkg/errors"
import "github.com/sbwhitecap/tqdm"
import "github.com/sbwhitecap/tqdm/iterators"
import "go.uber.org/zap"

import "github.com/neurlang/sentiment/net/sequential"
import "github.com/neurlang/sentiment/tensor"

// FitConfig controls Fit.
type FitConfig struct {
	Epochs    int
	BatchSize int
	Shuffle   bool // reorder the rows every epoch
	Verbose   bool // show a progress bar
}

// Fit trains the network on x and y for the configured epochs. The logs of an
// epoch are averages of the batch logs weighted by batch size. Context
// cancellation is checked between batches.
func Fit(ctx context.Context, net *sequential.Sequential, x, y *tensor.Tensor, cfg FitConfig,
	rng *rand.Rand, log *zap.Logger, callbacks ...Callback) (*History, error) {

	history := NewHistory()
	if cfg.Epochs < 1 || cfg.BatchSize < 1 {
		return history, errors.Errorf("fit: invalid epochs %d or batch size %d", cfg.Epochs, cfg.BatchSize)
	}
	if x.Rows() == 0 || x.Rows() != y.Rows() {
		return history, errors.Errorf("fit: %d input rows and %d target rows", x.Rows(), y.Rows())
	}
	if log == nil {
		log = zap.NewNop()
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	for _, c := range callbacks {
		if err := c.OnTrainBegin(net); err != nil {
			return history, err
		}
	}

	order := make([]int, x.Rows())
	for i := range order {
		order[i] = i
	}
	batches := (len(order) + cfg.BatchSize - 1) / cfg.BatchSize

	for epoch := 0; epoch < cfg.Epochs; epoch++ {
		if cfg.Shuffle {
			rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		}
		start := time.Now()
		totals := sequential.Logs{}
		losses := make([]float64, 0, batches)

		var err error
		step := func(b int) bool {
			if err = ctx.Err(); err != nil {
				return true
			}
			from := b * cfg.BatchSize
			to := min(from+cfg.BatchSize, len(order))
			rows := order[from:to]
			var logs sequential.Logs
			logs, err = net.TrainOnBatch(x.Gather(rows), y.Gather(rows))
			if err != nil {
				err = errors.Wrapf(err, "epoch %d batch %d", epoch+1, b)
				return true
			}
			for k, v := range logs {
				totals[k] += v * float64(len(rows))
			}
			losses = append(losses, logs[sequential.LossKey])
			return false
		}
		if cfg.Verbose {
			desc := fmt.Sprintf("Epoch %d/%d", epoch+1, cfg.Epochs)
			if terr := tqdm.With(iterators.Interval(0, batches), desc, func(c interface{}) bool {
				return step(c.(int))
			}); terr != nil && err == nil {
				err = terr
			}
		} else {
			for b := 0; b < batches && !step(b); b++ {
			}
		}
		if err != nil {
			return history, err
		}

		for k := range totals {
			totals[k] /= float64(len(order))
		}
		spread, _ := stats.StandardDeviation(losses)
		fields := []zap.Field{
			zap.Int("epoch", epoch+1),
			zap.Int("epochs", cfg.Epochs),
			zap.Duration("took", time.Since(start)),
			zap.Float64("batch_loss_stddev", spread),
		}
		for _, k := range keys(totals) {
			fields = append(fields, zap.Float64(k, totals[k]))
		}
		log.Info("epoch done", fields...)

		history.Append(epoch, totals)
		for _, c := range callbacks {
			if err := c.OnEpochEnd(epoch, totals, net); err != nil {
				return history, err
			}
		}
	}
	for _, c := range callbacks {
		if err := c.OnTrainEnd(history); err != nil {
			return history, err
		}
	}
	return history, nil
}
