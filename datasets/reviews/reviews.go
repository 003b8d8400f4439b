package reviews

import "encoding/csv"
import "io"
import "math/rand/v2"
import "strings"

import "github.com/gocarina/gocsv"
import "github.com/pkg/errors"
import "github.com/spf13/afero"

import "github.com/neurlang/sentiment/datasets"
import "github.com/neurlang/sentiment/datasets/text"
import "github.com/neurlang/sentiment/parallel"

// Record is one row of the review table.
type Record struct {
	Text  string `csv:"Text"`
	Score string `csv:"Score"`
}

// headerReader remembers the header row gocsv consumes.
type headerReader struct {
	*csv.Reader
	header []string
}

func (h *headerReader) ReadAll() ([][]string, error) {
	rows, err := h.Reader.ReadAll()
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
		h.header = rows[0]
	}
	return rows, err
}

// Read decodes the review table. Columns other than Text and Score, such as
// an index column, are ignored. A missing Text or Score column is an error.
func Read(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.LazyQuotes = true
	hr := &headerReader{Reader: cr}

	var records []Record
	if err := gocsv.UnmarshalCSV(hr, &records); err != nil {
		return nil, errors.Wrap(err, "reading review table")
	}
	for _, column := range []string{"Text", "Score"} {
		if !contains(hr.header, column) {
			return nil, errors.Errorf("review table has no %s column", column)
		}
	}
	return records, nil
}

func contains(header []string, column string) bool {
	for _, h := range header {
		if strings.TrimSpace(h) == column {
			return true
		}
	}
	return false
}

// Load reads the review table from the named file of fs.
func Load(fs afero.Fs, path string) ([]Record, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()
	records, err := Read(f)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", path)
	}
	return records, nil
}

// Encoding holds the sizes used to turn records into matrices.
type Encoding struct {
	VocabSize       int // hashing vocabulary size, ids lie below it
	MaxReviewLength int // length of every encoded sequence
}

// Encode turns the records into an input matrix of token ids and a matrix of
// one-hot labels, in record order. The first record with an unmapped score
// stops the encoding with a *LabelError.
func Encode(records []Record, enc Encoding) (x, y datasets.Matrix, err error) {
	y = datasets.NewMatrix(len(records), Classes)
	for i, r := range records {
		label, err := EncodeLabel(i, r.Score)
		if err != nil {
			return x, y, err
		}
		copy(y.Row(i), label[:])
	}
	seqs := make([][]int32, len(records))
	parallel.ForEach(len(records), parallel.Workers(), func(i int) {
		seqs[i] = text.OneHot(records[i].Text, enc.VocabSize)
	})
	return text.PadSequences(seqs, enc.MaxReviewLength), y, nil
}

// SplitDataset loads the review table at path, encodes it and partitions it
// into train and test rows, testSize being the fraction of test rows.
func SplitDataset(fs afero.Fs, path string, enc Encoding, testSize float64, rng *rand.Rand) (datasets.Split, error) {
	records, err := Load(fs, path)
	if err != nil {
		return datasets.Split{}, err
	}
	x, y, err := Encode(records, enc)
	if err != nil {
		return datasets.Split{}, err
	}
	return datasets.SplitMatrices(x, y, testSize, rng)
}
