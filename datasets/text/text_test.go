package text

import "testing"

import "github.com/stretchr/testify/assert"
import "github.com/stretchr/testify/require"

func TestTextToWordSequence(t *testing.T) {
	assert.Equal(t, []string{"this", "is", "great", "really"}, TextToWordSequence("This is GREAT!!! (really)"))
	assert.Equal(t, []string{"don't", "buy"}, TextToWordSequence("Don't\tbuy."))
	assert.Empty(t, TextToWordSequence(" ,.;\n"))

	// only filter characters and spaces separate words
	assert.Equal(t, []string{"good\rbad", "ok\u00a0fine"}, TextToWordSequence("good\rbad ok\u00a0fine"))
}

func TestOneHotRange(t *testing.T) {
	ids := OneHot("The coffee was stale, the beans old and the bag torn.", 8000)
	require.Len(t, ids, 11)
	for _, id := range ids {
		assert.GreaterOrEqual(t, id, int32(1))
		assert.Less(t, id, int32(8000))
	}
	// same word, same id
	assert.Equal(t, ids[0], ids[4])
	assert.Equal(t, ids[0], ids[8])
}

func TestPadSequences(t *testing.T) {
	m := PadSequences([][]int32{{1, 2, 3}, {4, 5, 6, 7, 8, 9}, {}}, 4)
	assert.Equal(t, 3, m.Rows)
	assert.Equal(t, 4, m.Cols)
	assert.Equal(t, []int32{0, 1, 2, 3}, m.Row(0))
	assert.Equal(t, []int32{6, 7, 8, 9}, m.Row(1))
	assert.Equal(t, []int32{0, 0, 0, 0}, m.Row(2))
}

func FuzzEncode(f *testing.F) {
	f.Add("Great taste, would buy again!")
	f.Add("")
	f.Fuzz(func(t *testing.T, review string) {
		m := PadSequences([][]int32{OneHot(review, 8000)}, 500)
		if len(m.Row(0)) != 500 {
			t.Fatalf("row length %d", len(m.Row(0)))
		}
		for _, id := range m.Row(0) {
			if id < 0 || id >= 8000 {
				t.Fatalf("id %d out of range", id)
			}
		}
	})
}
