// Package parallel runs loops over goroutines sized to the physical cores
package parallel

import "sync"

// ForEach executes a for loop with a limited number of concurrent goroutines.
// Each goroutine processes one integer, from 0 to length.
func ForEach(length, limit int, body func(i int)) {
	if limit <= 0 {
		limit = 1
	}
	if length <= 0 {
		return
	}
	if limit == 1 || length == 1 {
		for i := 0; i < length; i++ {
			body(i)
		}
		return
	}

	sem := make(chan struct{}, limit)
	var wg sync.WaitGroup
	wg.Add(length)

	for i := 0; i < length; i++ {
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()

			body(i)
		}(i)
	}

	wg.Wait()
}

// Chunks splits the range 0 to length into at most parts contiguous chunks
// and runs body on each chunk concurrently. Chunks are never empty.
func Chunks(length, parts int, body func(from, to int)) {
	if length <= 0 {
		return
	}
	if parts <= 0 {
		parts = 1
	}
	if parts > length {
		parts = length
	}
	size := (length + parts - 1) / parts
	n := (length + size - 1) / size
	ForEach(n, n, func(i int) {
		from := i * size
		to := from + size
		if to > length {
			to = length
		}
		body(from, to)
	})
}
