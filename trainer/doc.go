// Package trainer provides high-level training orchestration for sentiment networks.
// It fits a compiled network over batches of a dataset, reports per epoch
// metrics to callbacks such as checkpoints and training curves, and runs the
// whole load, split, persist and fit pipeline.
package trainer
