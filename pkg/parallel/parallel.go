// Package parallel provides a bounded fan-out/fan-in helper.
//
// The pipeline fans out three times (page discovery across components, link
// classification across a page, file download across a pool). Each fan-out
// calls [Map] with its own permit count, so every fan-out owns an independent
// counting semaphore.
package parallel

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Result is the outcome of one task. Exactly one of Value or Err is meaningful.
type Result[R any] struct {
	Value R
	Err   error
}

// Map runs fn once per item with at most limit calls in flight and returns
// the results in input order. A failing task never affects its siblings; its
// error is recorded in the corresponding Result. If ctx is cancelled, tasks
// that have not yet acquired a permit fail with ctx.Err().
//
// Workers only return values. Callers fold the results on their own goroutine.
func Map[T, R any](ctx context.Context, items []T, limit int, fn func(context.Context, T) (R, error)) []Result[R] {
	results := make([]Result[R], len(items))
	if len(items) == 0 {
		return results
	}

	sem := semaphore.NewWeighted(int64(max(limit, 1)))
	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := sem.Acquire(ctx, 1); err != nil {
				results[i].Err = err
				return
			}
			defer sem.Release(1)
			results[i].Value, results[i].Err = fn(ctx, item)
		}()
	}
	wg.Wait()
	return results
}

// Errors returns the number of failed results.
func Errors[R any](results []Result[R]) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
