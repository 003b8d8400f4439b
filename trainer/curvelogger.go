package trainer

import "encoding/json"
import "os"
import "path"
import "time"

import "github.com/google/uuid"
import "github.com/pkg/errors"
import "github.com/spf13/afero"
import chart "github.com/wcharczuk/go-chart"
import "go.uber.org/zap"

import "github.com/neurlang/sentiment/net/sequential"

// Files written into the log directory.
const (
	GraphFile   = "graph.json"
	ScalarsFile = "scalars.jsonl"
	CurvesFile  = "curves.png"
)

// CurveLogger records the training curves into a log directory: the layer
// graph at train begin, a line of scalars per epoch, and a chart of every
// scalar once there are two epochs to draw.
type CurveLogger struct {
	Fs  afero.Fs
	Dir string
	Log *zap.Logger

	run     string
	history *History
}

// NewCurveLogger creates a curve logger writing into dir.
func NewCurveLogger(fs afero.Fs, dir string, log *zap.Logger) *CurveLogger {
	if log == nil {
		log = zap.NewNop()
	}
	return &CurveLogger{Fs: fs, Dir: dir, Log: log}
}

// Run identifies the current run in the scalars file.
func (c *CurveLogger) Run() string {
	return c.run
}

type graph struct {
	Run    string               `json:"run"`
	Input  []int                `json:"input_shape"`
	Output []int                `json:"output_shape"`
	Params int                  `json:"params"`
	Layers []sequential.Summary `json:"layers"`
}

type scalars struct {
	Run      string             `json:"run"`
	Epoch    int                `json:"epoch"`
	WallTime float64            `json:"wall_time"`
	Values   map[string]float64 `json:"values"`
}

func (c *CurveLogger) OnTrainBegin(net *sequential.Sequential) error {
	c.run = uuid.New().String()
	c.history = NewHistory()
	if err := c.Fs.MkdirAll(c.Dir, 0755); err != nil {
		return errors.Wrapf(err, "creating log directory %s", c.Dir)
	}
	data, err := json.MarshalIndent(graph{
		Run:    c.run,
		Input:  net.InputShape(),
		Output: net.OutputShape(),
		Params: net.CountParams(),
		Layers: net.Summarize(),
	}, "", "\t")
	if err != nil {
		return err
	}
	return errors.Wrap(afero.WriteFile(c.Fs, path.Join(c.Dir, GraphFile), data, 0644), "writing graph")
}

func (c *CurveLogger) OnEpochEnd(epoch int, logs sequential.Logs, net *sequential.Sequential) error {
	c.history.Append(epoch, logs)

	line, err := json.Marshal(scalars{
		Run:      c.run,
		Epoch:    epoch + 1,
		WallTime: float64(time.Now().UnixNano()) / 1e9,
		Values:   logs,
	})
	if err != nil {
		return err
	}
	name := path.Join(c.Dir, ScalarsFile)
	file, err := c.Fs.OpenFile(name, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrapf(err, "opening %s", name)
	}
	_, err = file.Write(append(line, '\n'))
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return errors.Wrapf(err, "writing %s", name)
	}

	if len(c.history.Epochs) >= 2 {
		if err := c.render(); err != nil {
			c.Log.Warn("cannot render training curves", zap.Error(err))
		}
	}
	return nil
}

func (c *CurveLogger) OnTrainEnd(*History) error {
	return nil
}

func (c *CurveLogger) render() error {
	xs := make([]float64, len(c.history.Epochs))
	for i, e := range c.history.Epochs {
		xs[i] = float64(e + 1)
	}
	var series []chart.Series
	for i, k := range c.history.Keys() {
		series = append(series, chart.ContinuousSeries{
			Name:    k,
			XValues: xs,
			YValues: c.history.Values[k],
			Style: chart.Style{
				Show:        true,
				StrokeColor: chart.GetAlternateColor(i),
			},
		})
	}
	graph := chart.Chart{
		Title:      "Training " + c.run,
		TitleStyle: chart.StyleShow(),
		XAxis: chart.XAxis{
			Name:      "Epoch",
			NameStyle: chart.StyleShow(),
			Style:     chart.StyleShow(),
		},
		YAxis: chart.YAxis{
			Name:      "Value",
			NameStyle: chart.StyleShow(),
			Style:     chart.StyleShow(),
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	file, err := c.Fs.Create(path.Join(c.Dir, CurvesFile))
	if err != nil {
		return err
	}
	err = graph.Render(chart.PNG, file)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	return err
}
