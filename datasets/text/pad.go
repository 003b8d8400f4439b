package text

import "github.com/neurlang/sentiment/datasets"

// PadSequences turns sequences into a len(seqs) x maxlen matrix. Short
// sequences are padded with zeros on the left, long ones lose their leading
// ids so the last maxlen ids are kept.
func PadSequences(seqs [][]int32, maxlen int) datasets.Matrix {
	out := datasets.NewMatrix(len(seqs), maxlen)
	for i, s := range seqs {
		if len(s) > maxlen {
			s = s[len(s)-maxlen:]
		}
		copy(out.Row(i)[maxlen-len(s):], s)
	}
	return out
}
