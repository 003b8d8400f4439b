package reviews

import "fmt"
import "math"
import "strconv"
import "strings"

// Classes is the number of sentiment categories.
const Classes = 2

const (
	// Negative is the category of 1 and 2 star reviews.
	Negative = 0
	// Positive is the category of 4 and 5 star reviews.
	Positive = 1
)

// LabelError reports a score outside of 1, 2, 4 and 5. The 3 star rating is
// ambiguous and has no category.
type LabelError struct {
	Row   int    // zero based data row, the header not counted
	Score string // the raw cell value
}

func (e *LabelError) Error() string {
	return fmt.Sprintf("row %d: score %q maps to no sentiment category", e.Row, e.Score)
}

// Category maps a star rating into Negative or Positive.
func Category(score int) (int, bool) {
	switch score {
	case 1, 2:
		return Negative, true
	case 4, 5:
		return Positive, true
	}
	return 0, false
}

// EncodeLabel parses the raw score of the given row into a one-hot category vector.
// Integral floats such as "4.0" are accepted.
func EncodeLabel(row int, raw string) ([Classes]int32, error) {
	var out [Classes]int32
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return out, &LabelError{Row: row, Score: raw}
	}
	c, ok := Category(int(f))
	if !ok {
		return out, &LabelError{Row: row, Score: raw}
	}
	out[c] = 1
	return out, nil
}
