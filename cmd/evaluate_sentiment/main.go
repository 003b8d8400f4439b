package main

import "fmt"
import "os"
import "sort"

import "github.com/alexflint/go-arg"
import "github.com/spf13/afero"
import _ "go.uber.org/automaxprocs"
import "go.uber.org/zap"

import "github.com/neurlang/sentiment/config"
import "github.com/neurlang/sentiment/datasets/reviews"
import "github.com/neurlang/sentiment/inference"
import "github.com/neurlang/sentiment/logger"
import "github.com/neurlang/sentiment/net/sequential"
import "github.com/neurlang/sentiment/trainer"

type args struct {
	Checkpoint string   `arg:"positional,required" help:"checkpoint file, such as Epoch05.ckpt"`
	TestInputs string   `arg:"--test-inputs" help:"held out inputs"`
	TestLabels string   `arg:"--test-labels" help:"held out labels"`
	BatchSize  int      `arg:"--batch-size" help:"rows per prediction batch"`
	Text       []string `arg:"--text,separate" help:"classify this text instead of scoring the test set"`
	Quiet      bool     `arg:"-q,--quiet"`
}

func (args) Description() string {
	return "scores a sentiment checkpoint on the held out test set"
}

func run() int {
	def := config.Default()
	a := args{
		TestInputs: def.TestInputsPath,
		TestLabels: def.TestLabelsPath,
		BatchSize:  def.BatchSize,
	}
	arg.MustParse(&a)

	log := logger.New(!a.Quiet)
	defer log.Sync()
	fs := afero.NewOsFs()

	if len(a.Text) > 0 {
		net, epoch, err := sequential.ReadCheckpointFromFile(fs, a.Checkpoint)
		if err != nil {
			log.Error("cannot load checkpoint", zap.Error(err))
			return 1
		}
		log.Debug("checkpoint loaded", zap.Int("epoch", epoch), zap.Int("params", net.CountParams()))
		enc := reviews.Encoding{
			VocabSize:       net.GetLayer(0).Spec().InputDim,
			MaxReviewLength: net.InputShape()[0],
		}
		classes, err := inference.Infer(net, a.Text, enc, a.BatchSize)
		if err != nil {
			log.Error("inference failed", zap.Error(err))
			return 1
		}
		for i, c := range classes {
			fmt.Printf("%s\t%s\n", c, a.Text[i])
		}
		return 0
	}

	logs, err := trainer.EvaluateCheckpoint(fs, a.Checkpoint, a.TestInputs, a.TestLabels, a.BatchSize)
	if err != nil {
		log.Error("evaluation failed", zap.Error(err))
		return 1
	}
	names := make([]string, 0, len(logs))
	for k := range logs {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		fmt.Printf("%s: %.4f\n", k, logs[k])
	}
	return 0
}

func main() {
	os.Exit(run())
}
