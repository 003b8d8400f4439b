// Package text encodes review text into fixed length sequences of token ids
// using a hashing vocabulary. No word index is built, so distinct words may
// share an id.
package text
