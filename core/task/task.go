// Package task holds cold units of asynchronous work and the coordinator that joins them.
package task

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Task is a cold unit of work: nothing happens until Run is called.
type Task[T any] func(ctx context.Context) (T, error)

// Run drives the task to completion.
func (t Task[T]) Run(ctx context.Context) (T, error) {
	return t(ctx)
}

// Erase adapts a typed task so it can be joined with tasks of other types.
func Erase[T any](t Task[T]) Task[any] {
	return func(ctx context.Context) (any, error) {
		return t(ctx)
	}
}

// All runs every task concurrently and returns their results by label once all of them succeeded.
// On the first failure the remaining tasks' context is cancelled and only that error is returned.
func All[T any](ctx context.Context, tasks map[string]Task[T]) (map[string]T, error) {
	g, gctx := errgroup.WithContext(ctx)

	var mu sync.Mutex
	results := make(map[string]T, len(tasks))
	for label, t := range tasks {
		label, t := label, t
		g.Go(func() error {
			res, err := t.Run(gctx)
			if err != nil {
				return errors.Wrapf(err, "task %q", label)
			}
			mu.Lock()
			results[label] = res
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
