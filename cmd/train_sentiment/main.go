package main

import "context"
import "fmt"
import "os"
import "os/signal"
import "syscall"

import "github.com/alexflint/go-arg"
import "github.com/pkg/errors"
import "github.com/spf13/afero"
import _ "go.uber.org/automaxprocs"
import "go.uber.org/zap"

import "github.com/neurlang/sentiment/config"
import "github.com/neurlang/sentiment/datasets/reviews"
import "github.com/neurlang/sentiment/logger"
import "github.com/neurlang/sentiment/trainer"

type args struct {
	config.Config
	PGO bool `arg:"--pgo" help:"collect a CPU profile into default.pgo"`
}

func (args) Description() string {
	return "trains the review sentiment network"
}

func run() int {
	a := args{Config: config.Default()}
	arg.MustParse(&a)

	log := logger.New(a.Verbose())
	defer log.Sync()

	if a.PGO {
		stop, err := profile("default.pgo")
		if err != nil {
			log.Error("cannot start profile", zap.Error(err))
			return 1
		}
		defer stop()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	history, err := trainer.TrainModel(ctx, afero.NewOsFs(), a.Config, log)
	var label *reviews.LabelError
	switch {
	case errors.As(err, &label):
		fmt.Println("Error")
		log.Error("review score has no sentiment category",
			zap.Int("row", label.Row), zap.String("score", label.Score))
		return 1
	case errors.Is(err, context.Canceled):
		log.Warn("training interrupted")
		return 130
	case err != nil:
		log.Error("training failed", zap.Error(err))
		return 1
	}
	if loss, ok := history.Last("loss"); ok {
		log.Info("training done", zap.Float64("loss", loss), zap.Int("epochs", len(history.Epochs)))
	}
	return 0
}

func main() {
	os.Exit(run())
}
