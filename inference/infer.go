// Package inference implements the inference stage of the sentiment network
package inference

import "github.com/neurlang/sentiment/datasets/reviews"
import "github.com/neurlang/sentiment/datasets/text"
import "github.com/neurlang/sentiment/learning"
import "github.com/neurlang/sentiment/tensor"

// Model predicts class probabilities of batches of token id sequences.
type Model interface {
	Predict(x *tensor.Tensor, batchSize int) (*tensor.Tensor, error)
}

// Sentiment is a predicted review category.
type Sentiment int

const (
	Negative Sentiment = reviews.Negative
	Positive Sentiment = reviews.Positive
)

func (s Sentiment) String() string {
	switch s {
	case Negative:
		return "negative"
	case Positive:
		return "positive"
	}
	return "unknown"
}

// Classify picks the most probable category of every row of probs.
func Classify(probs *tensor.Tensor) []Sentiment {
	out := make([]Sentiment, probs.Rows())
	for i := range out {
		out[i] = Sentiment(learning.Argmax(probs.Row(i)))
	}
	return out
}

// Infer encodes the texts the same way as the training data and classifies them.
func Infer(m Model, texts []string, enc reviews.Encoding, batchSize int) ([]Sentiment, error) {
	seqs := make([][]int32, len(texts))
	for i, t := range texts {
		seqs[i] = text.OneHot(t, enc.VocabSize)
	}
	probs, err := m.Predict(text.PadSequences(seqs, enc.MaxReviewLength).Tensor(), batchSize)
	if err != nil {
		return nil, err
	}
	return Classify(probs), nil
}
