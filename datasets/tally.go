package datasets

import "sync"

// Tally counts one-hot labels per class. It is safe for concurrent use.
type Tally struct {
	mut    sync.Mutex
	counts []uint64
}

// Add counts every row of the one-hot label matrix y.
func (t *Tally) Add(y Matrix) {
	t.mut.Lock()
	defer t.mut.Unlock()
	if len(t.counts) < y.Cols {
		t.counts = append(t.counts, make([]uint64, y.Cols-len(t.counts))...)
	}
	for i := 0; i < y.Rows; i++ {
		for j, v := range y.Row(i) {
			if v != 0 {
				t.counts[j]++
			}
		}
	}
}

// Counts returns a copy of the per class counts.
func (t *Tally) Counts() []uint64 {
	t.mut.Lock()
	defer t.mut.Unlock()
	return append([]uint64(nil), t.counts...)
}

// Fraction reports the share of class n among all counted rows.
func (t *Tally) Fraction(n int) float64 {
	t.mut.Lock()
	defer t.mut.Unlock()
	var total uint64
	for _, c := range t.counts {
		total += c
	}
	if total == 0 || n >= len(t.counts) {
		return 0
	}
	return float64(t.counts[n]) / float64(total)
}
