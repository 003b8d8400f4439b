package trainer

import "fmt"
import "math"
import "strings"

import "github.com/dustin/go-humanize"
import "github.com/spf13/afero"
import "go.uber.org/zap"

import "github.com/neurlang/sentiment/net/sequential"

// Mode decides whether a monitored quantity improves by going down or up.
type Mode int

const (
	// Auto minimizes losses and maximizes accuracies.
	Auto Mode = iota
	Min
	Max
)

// ModelCheckpoint saves the network after an epoch in which the monitored
// quantity improved on every earlier epoch. The file name is Pattern
// formatted with the 1-based epoch.
type ModelCheckpoint struct {
	Fs       afero.Fs
	Pattern  string
	Monitor  string
	Mode     Mode
	BestOnly bool
	Log      *zap.Logger

	best  float64
	saved []string
}

// NewModelCheckpoint creates a best-only checkpoint in mode Auto.
func NewModelCheckpoint(fs afero.Fs, pattern, monitor string, log *zap.Logger) *ModelCheckpoint {
	return &ModelCheckpoint{Fs: fs, Pattern: pattern, Monitor: monitor, Mode: Auto, BestOnly: true, Log: log}
}

func (m *ModelCheckpoint) minimize() bool {
	switch m.Mode {
	case Min:
		return true
	case Max:
		return false
	}
	return !strings.Contains(m.Monitor, "acc")
}

func (m *ModelCheckpoint) logger() *zap.Logger {
	if m.Log == nil {
		return zap.NewNop()
	}
	return m.Log
}

func (m *ModelCheckpoint) OnTrainBegin(net *sequential.Sequential) error {
	if m.minimize() {
		m.best = math.Inf(1)
	} else {
		m.best = math.Inf(-1)
	}
	m.saved = nil
	return nil
}

func (m *ModelCheckpoint) OnEpochEnd(epoch int, logs sequential.Logs, net *sequential.Sequential) error {
	name := fmt.Sprintf(m.Pattern, epoch+1)
	if m.BestOnly {
		current, ok := logs[m.Monitor]
		if !ok {
			m.logger().Warn("can save best model only with monitored quantity available, skipping",
				zap.String("monitor", m.Monitor), zap.Strings("available", keys(logs)))
			return nil
		}
		if m.minimize() && !(current < m.best) || !m.minimize() && !(current > m.best) {
			return nil
		}
		m.logger().Debug("monitored quantity improved",
			zap.String("monitor", m.Monitor), zap.Float64("from", m.best), zap.Float64("to", current))
		m.best = current
	}
	size, err := net.WriteCheckpointToFile(m.Fs, name, epoch+1)
	if err != nil {
		return err
	}
	m.saved = append(m.saved, name)
	m.logger().Info("saved checkpoint", zap.String("file", name), zap.String("size", humanize.Bytes(uint64(size))))
	return nil
}

func (m *ModelCheckpoint) OnTrainEnd(*History) error {
	return nil
}

// Saved lists the files written during the last run, in order.
func (m *ModelCheckpoint) Saved() []string {
	return m.saved
}

// Best is the best monitored value seen.
func (m *ModelCheckpoint) Best() float64 {
	return m.best
}
