package text

import "strings"

import "github.com/neurlang/sentiment/hash"

// Filters are the characters replaced by the separator before splitting.
const Filters = "!\"#$%&()*+,-./:;<=>?@[\\]^_`{|}~\t\n"

var replacer = func() *strings.Replacer {
	var pairs []string
	for _, r := range Filters {
		pairs = append(pairs, string(r), " ")
	}
	return strings.NewReplacer(pairs...)
}()

// TextToWordSequence lowercases the text, turns filter characters into spaces
// and splits it into words at spaces only. Empty words are dropped.
func TextToWordSequence(text string) []string {
	var words []string
	for _, w := range strings.Split(replacer.Replace(strings.ToLower(text)), " ") {
		if w != "" {
			words = append(words, w)
		}
	}
	return words
}

// OneHot encodes text as token ids of a hashing vocabulary of size n. Every id
// lies in 1 to n-1, the id 0 is reserved for padding.
func OneHot(text string, n int) []int32 {
	words := TextToWordSequence(text)
	out := make([]int32, len(words))
	for i, w := range words {
		out[i] = int32(hash.Token(w, uint32(n)))
	}
	return out
}
