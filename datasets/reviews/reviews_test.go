package reviews

import "math/rand/v2"
import "strings"
import "testing"

import "github.com/pkg/errors"
import "github.com/spf13/afero"
import "github.com/stretchr/testify/assert"
import "github.com/stretchr/testify/require"

const table = `,Text,Score
0,ok,1
1,bad,2
2,great,5
3,fine,4
`

var enc = Encoding{VocabSize: 8000, MaxReviewLength: 500}

func TestEncodeLabel(t *testing.T) {
	for _, tc := range []struct {
		raw  string
		want [Classes]int32
	}{
		{"1", [Classes]int32{1, 0}},
		{"2", [Classes]int32{1, 0}},
		{"4", [Classes]int32{0, 1}},
		{" 5 ", [Classes]int32{0, 1}},
		{"4.0", [Classes]int32{0, 1}},
	} {
		got, err := EncodeLabel(0, tc.raw)
		require.NoError(t, err, tc.raw)
		assert.Equal(t, tc.want, got, tc.raw)
	}
	for _, raw := range []string{"3", "0", "6", "-1", "4.5", "", "five", "NaN", "Inf"} {
		_, err := EncodeLabel(7, raw)
		var le *LabelError
		require.True(t, errors.As(err, &le), raw)
		assert.Equal(t, 7, le.Row)
		assert.Equal(t, raw, le.Score)
	}
}

func TestReadTable(t *testing.T) {
	records, err := Read(strings.NewReader(table))
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, Record{Text: "great", Score: "5"}, records[2])

	_, err = Read(strings.NewReader("Text,Stars\nok,1\n"))
	assert.ErrorContains(t, err, "Score")

	records, err = Read(strings.NewReader("\ufeffText,Score\n\"multi\nline, quoted\",4\n"))
	require.NoError(t, err)
	assert.Equal(t, "multi\nline, quoted", records[0].Text)
}

func TestEncodeOrderAndShape(t *testing.T) {
	records, err := Read(strings.NewReader(table))
	require.NoError(t, err)
	x, y, err := Encode(records, enc)
	require.NoError(t, err)

	assert.Equal(t, []int{4, 500}, x.Shape())
	assert.Equal(t, []int32{1, 0, 1, 0, 0, 1, 0, 1}, y.Data)
	for i := 0; i < x.Rows; i++ {
		row := x.Row(i)
		require.Len(t, row, 500)
		for j, id := range row {
			assert.GreaterOrEqual(t, id, int32(0))
			assert.Less(t, id, int32(8000))
			if j < 499 {
				assert.Zero(t, id, "single word reviews are left padded")
			}
		}
		assert.NotZero(t, row[499])
	}
}

func TestEncodeStopsOnNeutralScore(t *testing.T) {
	records := []Record{{"ok", "1"}, {"meh", "3"}, {"great", "5"}}
	_, _, err := Encode(records, enc)
	var le *LabelError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, 1, le.Row)
	assert.Equal(t, "3", le.Score)
}

func TestSplitDataset(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "CleanedReviews.csv", []byte(table), 0644))

	s, err := SplitDataset(fs, "CleanedReviews.csv", enc, 0.5, rand.New(rand.NewPCG(5, 6)))
	require.NoError(t, err)
	assert.Equal(t, 2, s.XTrain.Rows)
	assert.Equal(t, 2, s.XTest.Rows)
	assert.Equal(t, 2, s.YTrain.Rows)
	assert.Equal(t, 2, s.YTest.Rows)
	for _, y := range []interface{ Row(int) []int32 }{s.YTrain, s.YTest} {
		for i := 0; i < 2; i++ {
			row := y.Row(i)
			assert.Equal(t, int32(1), row[0]+row[1])
		}
	}

	_, err = SplitDataset(fs, "missing.csv", enc, 0.5, nil)
	assert.Error(t, err)
}
