package loadtest

import (
	"context"
	"sync"
)

// outcome of a single request.
type outcome int

const (
	outcomeExpected outcome = iota
	outcomeUnexpected
	outcomeFailed
)

// tally counts request outcomes.
type tally struct {
	Expected   int
	Unexpected int
	Failed     int
}

// runPool feeds emails to workers and tallies the outcomes of fn.
func runPool(ctx context.Context, workers int, emails []string, fn func(ctx context.Context, email string) outcome) tally {
	jobs := make(chan string, workers*2)
	results := make(chan outcome, workers*2)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for email := range jobs {
				if ctx.Err() != nil {
					results <- outcomeFailed
					continue
				}
				results <- fn(ctx, email)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, email := range emails {
			jobs <- email
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var t tally
	for r := range results {
		switch r {
		case outcomeExpected:
			t.Expected++
		case outcomeUnexpected:
			t.Unexpected++
		default:
			t.Failed++
		}
	}
	return t
}
