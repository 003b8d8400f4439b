// Package main provides the program training the review sentiment network. It
// reads CleanedReviews.csv, holds out a test partition saved as
// XTesting_Data.npy and YTesting_Data.npy, trains for 5 epochs and leaves the
// training curves in logs and the best checkpoints as Epoch%02d.ckpt.
//
// Every setting is a flag defaulting to the values above; run with --help.
// A review score other than 1, 2, 4 or 5 prints Error and exits with status 1.
package main
