// Package main provides a program for scoring a saved sentiment checkpoint on
// the held out test set written by train_sentiment, and for classifying texts
// given on the command line.
package main
